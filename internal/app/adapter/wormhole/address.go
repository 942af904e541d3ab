package wormhole

import (
	"fmt"

	"usdc_bridge/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// EncodeEVMAddress left-pads a 20-byte EVM address to the 32-byte form used by Wormhole.
func EncodeEVMAddress(address string) ([32]byte, error) {
	var out [32]byte
	if !common.IsHexAddress(address) {
		return out, fmt.Errorf("%w: %q is not an EVM address", entity.ErrInvalidParameter, address)
	}
	copy(out[12:], common.HexToAddress(address).Bytes())
	return out, nil
}

// DecodeEVMAddress is the inverse of EncodeEVMAddress. The 12 leading bytes must be zero.
func DecodeEVMAddress(encoded [32]byte) (common.Address, error) {
	for _, b := range encoded[:12] {
		if b != 0 {
			return common.Address{}, fmt.Errorf("%w: 32-byte value does not hold an EVM address", entity.ErrInvalidParameter)
		}
	}
	return common.BytesToAddress(encoded[12:]), nil
}
