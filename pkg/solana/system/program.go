// Package system implements the subset of the system program the Echo
// program relies on: creating accounts, assigning ownership, transferring
// lamports, and allocating account data.
//
// All accounts start out owned by the system program until assigned to
// another program.
package system

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/code-payments/echo-program/pkg/solana"
)

// ProgramKey is the system program identity: 11111111111111111111111111111111.
var ProgramKey = make(ed25519.PublicKey, ed25519.PublicKeySize)

// MaxPermittedDataLength caps how much data one account may hold.
const MaxPermittedDataLength = 10 * 1024 * 1024

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L58-L72
const (
	commandCreateAccount uint32 = iota
	commandAssign
	commandTransfer
	// nolint:varcheck,deadcode,unused
	commandCreateAccountWithSeed
	// nolint:varcheck,deadcode,unused
	commandAdvanceNonceAccount
	// nolint:varcheck,deadcode,unused
	commandWithdrawNonceAccount
	// nolint:varcheck,deadcode,unused
	commandInitializeNonceAccount
	// nolint:varcheck,deadcode,unused
	commandAuthorizeNonceAccount
	commandAllocate
)

var (
	ErrAccountAlreadyInUse      = errors.New("account already in use")
	ErrInvalidDataLength        = errors.New("invalid account data length")
	ErrResultWithNegativeFunds  = errors.New("transfer would result in negative lamports")
	ErrInvalidInstructionFormat = errors.New("invalid system instruction format")
)

// CreateAccount builds an instruction funding a new account and assigning
// it to the provided owner program.
//
// # Account references
//  0. [WRITE, SIGNER] Funding account
//  1. [WRITE, SIGNER] New account
func CreateAccount(funder, address, owner ed25519.PublicKey, lamports, size uint64) solana.Instruction {
	data := make([]byte, 4+2*8+32)
	binary.LittleEndian.PutUint32(data, commandCreateAccount)
	binary.LittleEndian.PutUint64(data[4:], lamports)
	binary.LittleEndian.PutUint64(data[4+8:], size)
	copy(data[4+2*8:], owner)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(funder, true),
		solana.NewAccountMeta(address, true),
	)
}

// Assign builds an instruction assigning a system-owned account to a new
// owner program.
//
// # Account references
//  0. [WRITE, SIGNER] Assigned account
func Assign(address, owner ed25519.PublicKey) solana.Instruction {
	data := make([]byte, 4+32)
	binary.LittleEndian.PutUint32(data, commandAssign)
	copy(data[4:], owner)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(address, true),
	)
}

// Transfer builds an instruction moving lamports between system-owned
// accounts.
//
// # Account references
//  0. [WRITE, SIGNER] Funding account
//  1. [WRITE] Recipient account
func Transfer(from, to ed25519.PublicKey, lamports uint64) solana.Instruction {
	data := make([]byte, 4+8)
	binary.LittleEndian.PutUint32(data, commandTransfer)
	binary.LittleEndian.PutUint64(data[4:], lamports)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(from, true),
		solana.NewAccountMeta(to, false),
	)
}

// Allocate builds an instruction allocating data space for a system-owned
// account.
//
// # Account references
//  0. [WRITE, SIGNER] Allocated account
func Allocate(address ed25519.PublicKey, space uint64) solana.Instruction {
	data := make([]byte, 4+8)
	binary.LittleEndian.PutUint32(data, commandAllocate)
	binary.LittleEndian.PutUint64(data[4:], space)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(address, true),
	)
}
