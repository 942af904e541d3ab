package wormhole

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Token bridge instruction tags.
const (
	instructionTransferNative uint8 = 5
)

// TransferNativeArgs is the payload of the token bridge transfer_native instruction.
type TransferNativeArgs struct {
	Nonce       uint32
	Amount      uint64
	Fee         uint64
	TargetAddr  [32]byte
	TargetChain uint16
}

// Encode returns the Borsh encoding prefixed with the instruction tag.
func (a TransferNativeArgs) Encode() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)

	if err := enc.WriteUint8(instructionTransferNative); err != nil {
		return nil, err
	}
	if err := enc.WriteUint32(a.Nonce, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(a.Amount, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(a.Fee, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(a.TargetAddr[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteUint16(a.TargetChain, binary.LittleEndian); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeTransferNativeArgs parses data produced by Encode.
func DecodeTransferNativeArgs(data []byte) (TransferNativeArgs, error) {
	var a TransferNativeArgs
	dec := bin.NewBorshDecoder(data)

	tag, err := dec.ReadUint8()
	if err != nil {
		return a, err
	}
	if tag != instructionTransferNative {
		return a, fmt.Errorf("unexpected instruction tag %d", tag)
	}
	if a.Nonce, err = dec.ReadUint32(binary.LittleEndian); err != nil {
		return a, err
	}
	if a.Amount, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return a, err
	}
	if a.Fee, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return a, err
	}
	target, err := dec.ReadNBytes(32)
	if err != nil {
		return a, err
	}
	copy(a.TargetAddr[:], target)
	if a.TargetChain, err = dec.ReadUint16(binary.LittleEndian); err != nil {
		return a, err
	}
	return a, nil
}

// BridgeAccounts are the program-derived addresses a transfer_native call touches.
type BridgeAccounts struct {
	Config          solana.PublicKey
	Custody         solana.PublicKey
	AuthoritySigner solana.PublicKey
	CustodySigner   solana.PublicKey
	Emitter         solana.PublicKey
	CoreBridge      solana.PublicKey
	Sequence        solana.PublicKey
	FeeCollector    solana.PublicKey
}

// DeriveBridgeAccounts derives the token bridge and core bridge PDAs for mint.
func DeriveBridgeAccounts(tokenBridge, coreBridge, mint solana.PublicKey) (BridgeAccounts, error) {
	var (
		acc BridgeAccounts
		err error
	)
	derive := func(program solana.PublicKey, seeds ...[]byte) solana.PublicKey {
		if err != nil {
			return solana.PublicKey{}
		}
		var pda solana.PublicKey
		pda, _, err = solana.FindProgramAddress(seeds, program)
		return pda
	}

	acc.Config = derive(tokenBridge, []byte("config"))
	acc.Custody = derive(tokenBridge, mint.Bytes())
	acc.AuthoritySigner = derive(tokenBridge, []byte("authority_signer"))
	acc.CustodySigner = derive(tokenBridge, []byte("custody_signer"))
	acc.Emitter = derive(tokenBridge, []byte("emitter"))
	acc.CoreBridge = derive(coreBridge, []byte("Bridge"))
	acc.Sequence = derive(coreBridge, []byte("Sequence"), acc.Emitter.Bytes())
	acc.FeeCollector = derive(coreBridge, []byte("fee_collector"))
	if err != nil {
		return BridgeAccounts{}, fmt.Errorf("failed to derive bridge accounts: %w", err)
	}
	return acc, nil
}

// NewTransferNativeInstruction builds the token bridge transfer_native instruction.
// message is the fresh account the core bridge writes the posted message to.
func NewTransferNativeInstruction(
	tokenBridge, coreBridge solana.PublicKey,
	acc BridgeAccounts,
	payer, from, mint, message solana.PublicKey,
	args TransferNativeArgs,
) (solana.Instruction, error) {
	data, err := args.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transfer_native: %w", err)
	}

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(acc.Config, false, false),
		solana.NewAccountMeta(from, true, false),
		solana.NewAccountMeta(mint, true, false),
		solana.NewAccountMeta(acc.Custody, true, false),
		solana.NewAccountMeta(acc.AuthoritySigner, false, false),
		solana.NewAccountMeta(acc.CustodySigner, false, false),
		solana.NewAccountMeta(acc.CoreBridge, true, false),
		solana.NewAccountMeta(message, true, true),
		solana.NewAccountMeta(acc.Emitter, false, false),
		solana.NewAccountMeta(acc.Sequence, true, false),
		solana.NewAccountMeta(acc.FeeCollector, true, false),
		solana.NewAccountMeta(solana.SysVarClockPubkey, false, false),
		solana.NewAccountMeta(solana.SysVarRentPubkey, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(coreBridge, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	}
	return solana.NewInstruction(tokenBridge, accounts, data), nil
}
