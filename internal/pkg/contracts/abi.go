// Package contracts holds the minimal ABIs of the EVM contracts the bridge calls.
package contracts

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// StargateFunctionSwapRemote is the Stargate function type quoted by quoteLayerZeroFee for a plain swap.
const StargateFunctionSwapRemote uint8 = 1

const erc20ABI = `[
 {"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
 {"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
 {"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

const lzTxParamsTuple = `{"name":"_lzTxParams","type":"tuple","components":[
  {"name":"dstGasForCall","type":"uint256"},
  {"name":"dstNativeAmount","type":"uint256"},
  {"name":"dstNativeAddr","type":"bytes"}]}`

const stargateRouterABI = `[
 {"inputs":[
  {"name":"_dstChainId","type":"uint16"},
  {"name":"_srcPoolId","type":"uint256"},
  {"name":"_dstPoolId","type":"uint256"},
  {"name":"_refundAddress","type":"address"},
  {"name":"_amountLD","type":"uint256"},
  {"name":"_minAmountLD","type":"uint256"},
  ` + lzTxParamsTuple + `,
  {"name":"_to","type":"bytes"},
  {"name":"_payload","type":"bytes"}],
  "name":"swap","outputs":[],"stateMutability":"payable","type":"function"},
 {"inputs":[
  {"name":"_dstChainId","type":"uint16"},
  {"name":"_functionType","type":"uint8"},
  {"name":"_toAddress","type":"bytes"},
  {"name":"_transferAndCallPayload","type":"bytes"},
  ` + lzTxParamsTuple + `],
  "name":"quoteLayerZeroFee","outputs":[{"name":"","type":"uint256"},{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// LzTxParams mirrors the Stargate lzTxObj tuple. Field names follow the ABI component names.
type LzTxParams struct {
	DstGasForCall   *big.Int
	DstNativeAmount *big.Int
	DstNativeAddr   []byte
}

// EmptyLzTxParams is the "no extra call" parameter set.
func EmptyLzTxParams() LzTxParams {
	return LzTxParams{DstGasForCall: big.NewInt(0), DstNativeAmount: big.NewInt(0), DstNativeAddr: []byte{}}
}

var (
	parsedERC20ABI    abi.ABI
	parsedStargateABI abi.ABI
	parseOnce         sync.Once
)

func initParsedABIs() {
	parseOnce.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
		parsedStargateABI, err = abi.JSON(strings.NewReader(stargateRouterABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse Stargate router ABI: %v", err))
		}
	})
}

// ERC20 returns the parsed ERC-20 subset (decimals, allowance, approve).
func ERC20() abi.ABI {
	initParsedABIs()
	return parsedERC20ABI
}

// StargateRouter returns the parsed Stargate router subset (swap, quoteLayerZeroFee).
func StargateRouter() abi.ABI {
	initParsedABIs()
	return parsedStargateABI
}
