package entity

import "errors"

// Error kinds surfaced by the route adapters and the dispatcher. Callers wrap
// them with context using fmt.Errorf("%w: ...") and match with errors.Is.
var (
	ErrUnknownChain         = errors.New("unknown chain")
	ErrInvalidRoute         = errors.New("invalid route")
	ErrConfiguration        = errors.New("configuration error")
	ErrMissingParameter     = errors.New("missing parameter")
	ErrInvalidParameter     = errors.New("invalid parameter")
	ErrUnsupportedDirection = errors.New("unsupported direction")
	ErrBuilderUnavailable   = errors.New("builder unavailable")
	ErrUpstreamRPC          = errors.New("upstream rpc error")
)

// IsClientError reports whether err is caused by the request rather than by the
// service or its upstreams.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownChain) ||
		errors.Is(err, ErrMissingParameter) ||
		errors.Is(err, ErrInvalidParameter)
}
