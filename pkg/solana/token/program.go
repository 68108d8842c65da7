// Package token implements the subset of the SPL token program the Echo
// program relies on: initializing mints and accounts, minting, transferring,
// and burning tokens.
package token

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/code-payments/echo-program/pkg/solana"
)

// ProgramKey is the address of the token program.
//
// Current key: TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA
var ProgramKey = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

type Command byte

// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/instruction.rs
const (
	CommandInitializeMint Command = iota
	CommandInitializeAccount
	// nolint:varcheck,deadcode,unused
	CommandInitializeMultisig
	CommandTransfer
	// nolint:varcheck,deadcode,unused
	CommandApprove
	// nolint:varcheck,deadcode,unused
	CommandRevoke
	// nolint:varcheck,deadcode,unused
	CommandSetAuthority
	CommandMintTo
	CommandBurn
)

var (
	ErrInvalidMint          = errors.New("invalid mint")
	ErrMintMismatch         = errors.New("token account mint mismatch")
	ErrOwnerMismatch        = errors.New("token account owner mismatch")
	ErrAuthorityMismatch    = errors.New("mint authority mismatch")
	ErrFixedSupply          = errors.New("mint has a fixed supply")
	ErrAccountFrozen        = errors.New("token account is frozen")
	ErrInsufficientFunds    = errors.New("insufficient token balance")
	ErrInvalidInstruction   = errors.New("invalid token instruction")
	ErrUninitializedAccount = errors.New("token account is not initialized")
)

// InitializeMint builds an instruction initializing a mint with the given
// decimals and authority.
//
// # Account references
//  0. [WRITE] The mint to initialize
func InitializeMint(mint, authority ed25519.PublicKey, decimals uint8) solana.Instruction {
	data := make([]byte, 1+1+32+1)
	data[0] = byte(CommandInitializeMint)
	data[1] = decimals
	copy(data[2:], authority)
	// No freeze authority.
	data[1+1+32] = 0

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(mint, false),
	)
}

// InitializeAccount builds an instruction initializing a token holding
// account for the given mint and owner.
//
// # Account references
//  0. [WRITE] The account to initialize
//  1. [] The mint this account will be associated with
//  2. [] The new account's owner
func InitializeAccount(account, mint, owner ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandInitializeAccount)},
		solana.NewAccountMeta(account, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(owner, false),
	)
}

// Transfer builds an instruction moving an amount of tokens between
// accounts of the same mint.
//
// # Account references
//  0. [WRITE] Source account
//  1. [WRITE] Destination account
//  2. [SIGNER] Source account owner
func Transfer(source, destination, owner ed25519.PublicKey, amount uint64) solana.Instruction {
	data := make([]byte, 1+8)
	data[0] = byte(CommandTransfer)
	binary.LittleEndian.PutUint64(data[1:], amount)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(source, false),
		solana.NewAccountMeta(destination, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

// MintTo builds an instruction minting an amount of new tokens to a
// destination account.
//
// # Account references
//  0. [WRITE] The mint
//  1. [WRITE] Destination account
//  2. [SIGNER] Mint authority
func MintTo(mint, destination, authority ed25519.PublicKey, amount uint64) solana.Instruction {
	data := make([]byte, 1+8)
	data[0] = byte(CommandMintTo)
	binary.LittleEndian.PutUint64(data[1:], amount)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(mint, false),
		solana.NewAccountMeta(destination, false),
		solana.NewReadonlyAccountMeta(authority, true),
	)
}

// Burn builds an instruction burning an amount of tokens from an account,
// reducing the mint's supply.
//
// # Account references
//  0. [WRITE] The account to burn from
//  1. [WRITE] The token mint
//  2. [SIGNER] The account's owner
func Burn(account, mint, owner ed25519.PublicKey, amount uint64) solana.Instruction {
	data := make([]byte, 1+8)
	data[0] = byte(CommandBurn)
	binary.LittleEndian.PutUint64(data[1:], amount)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(account, false),
		solana.NewAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}
