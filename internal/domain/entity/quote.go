package entity

import "github.com/shopspring/decimal"

// NoRoute is the route name of the placeholder quote returned for empty amounts.
const NoRoute = "none"

// QuoteRequest is the input of a quote estimation.
type QuoteRequest struct {
	FromChain string
	ToChain   string
	Token     string
	Amount    decimal.Decimal
}

// Quote is the estimated outcome of a transfer over one route.
type Quote struct {
	Route    string      `json:"route"`
	Family   ChainFamily `json:"family,omitempty"`
	Rate     float64     `json:"rate"`
	Fee      float64     `json:"fee"`
	ToAmount float64     `json:"toAmount"`
	ETA      string      `json:"eta"`
}

// PlaceholderQuote is returned when there is nothing to quote yet.
func PlaceholderQuote() Quote {
	return Quote{Route: NoRoute, ETA: "–"}
}
