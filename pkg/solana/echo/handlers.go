package echo

import (
	"bytes"

	"github.com/mr-tron/base58"

	"github.com/code-payments/echo-program/pkg/solana/svm"
	"github.com/code-payments/echo-program/pkg/solana/system"
	"github.com/code-payments/echo-program/pkg/solana/token"
)

// handleEcho claims a zeroed buffer account and writes the instruction data
// into it, truncating to the buffer's capacity. A buffer with any non-zero
// byte has already been claimed and cannot be written again.
func (p *Processor) handleEcho(ctx *svm.ExecutionContext, args *EchoInstructionArgs) error {
	buffer, err := ctx.Account(0)
	if err != nil {
		return err
	}

	for _, b := range buffer.Data {
		if b != 0 {
			return svm.NewStateError(ErrNonZeroData)
		}
	}

	capacity := buffer.DataLen() - EchoBufferHeaderSize
	if capacity <= 0 {
		return svm.NewStateError(ErrBufferTooSmall)
	}

	n := len(args.Data)
	if n > capacity {
		n = capacity
	}

	state := &EchoBuffer{Data: args.Data[:n]}
	writeState(buffer, state.Marshal())

	ctx.Log("echoed %d of %d bytes into %s", n, len(args.Data), base58.Encode(buffer.Key))
	return nil
}

// handleInitializeAuthorizedEcho creates an authorized buffer at the program
// address derived from the authority and buffer seed. The account is funded
// by the authority to the rent exempt minimum and starts at sequence zero.
func (p *Processor) handleInitializeAuthorizedEcho(ctx *svm.ExecutionContext, args *InitializeAuthorizedEchoInstructionArgs) error {
	buffer, err := ctx.Account(0)
	if err != nil {
		return err
	}
	authority, err := ctx.Account(1)
	if err != nil {
		return err
	}

	if int(args.BufferSize) <= AuthorizedBufferHeaderSize {
		return svm.NewStateError(ErrBufferTooSmall)
	}

	expected, bump, err := GetAuthorizedBufferAddress(authority.Key, args.BufferSeed)
	if err != nil {
		return err
	}
	if !bytes.Equal(buffer.Key, expected) {
		return svm.NewValidationError(0, ErrInvalidAuthorizedBuffer)
	}

	err = ctx.InvokeSigned(
		system.CreateAccount(
			authority.Key,
			buffer.Key,
			PROGRAM_ID,
			svm.RentExemptMinimum(uint64(args.BufferSize)),
			uint64(args.BufferSize),
		),
		authorizedBufferSeeds(authority.Key, args.BufferSeed, bump),
	)
	if err != nil {
		return err
	}

	state := &AuthorizedBuffer{
		Bump:       bump,
		BufferSeed: args.BufferSeed,
		Sequence:   0,
	}
	writeState(buffer, state.Marshal())

	ctx.Log("initialized authorized buffer %s", base58.Encode(buffer.Key))
	return nil
}

// handleAuthorizedEcho overwrites an authorized buffer's data. The authority
// must be the key the buffer's address was derived from, and the instruction
// must cite the buffer's current sequence number.
func (p *Processor) handleAuthorizedEcho(ctx *svm.ExecutionContext, args *AuthorizedEchoInstructionArgs) error {
	buffer, err := ctx.Account(0)
	if err != nil {
		return err
	}
	authority, err := ctx.Account(1)
	if err != nil {
		return err
	}

	var state AuthorizedBuffer
	if err := state.Unmarshal(buffer.Data); err != nil {
		return err
	}

	derived, err := createAuthorizedBufferAddress(authority.Key, state.BufferSeed, state.Bump)
	if err != nil || !bytes.Equal(buffer.Key, derived) {
		return svm.NewValidationError(1, ErrInvalidAuthority)
	}

	if args.Sequence != state.Sequence {
		return svm.NewStateError(svm.ErrInvalidSequence)
	}

	capacity := buffer.DataLen() - AuthorizedBufferHeaderSize
	n := len(args.Data)
	if n > capacity {
		n = capacity
	}

	state.Data = args.Data[:n]
	state.Sequence, err = svm.CheckedAdd(state.Sequence, 1)
	if err != nil {
		return err
	}
	writeState(buffer, state.Marshal())

	ctx.Log("authorized echo of %d bytes into %s (seq %d)", n, base58.Encode(buffer.Key), state.Sequence)
	return nil
}

// handleInitializeVendingMachineEcho creates a vending machine buffer at the
// program address derived from the mint and price. The mint must be an
// initialized token mint; anyone may pay for the account's creation.
func (p *Processor) handleInitializeVendingMachineEcho(ctx *svm.ExecutionContext, args *InitializeVendingMachineEchoInstructionArgs) error {
	buffer, err := ctx.Account(0)
	if err != nil {
		return err
	}
	mint, err := ctx.Account(1)
	if err != nil {
		return err
	}
	payer, err := ctx.Account(2)
	if err != nil {
		return err
	}

	var mintState token.Mint
	if !mintState.Unmarshal(mint.Data) {
		return svm.NewValidationError(1, token.ErrInvalidMint)
	}
	if !mintState.IsInitialized {
		return svm.NewValidationError(1, token.ErrUninitializedAccount)
	}

	if int(args.BufferSize) <= VendingMachineBufferHeaderSize {
		return svm.NewStateError(ErrBufferTooSmall)
	}

	expected, bump, err := GetVendingMachineAddress(mint.Key, args.Price)
	if err != nil {
		return err
	}
	if !bytes.Equal(buffer.Key, expected) {
		return svm.NewValidationError(0, ErrInvalidVendingMachine)
	}

	err = ctx.InvokeSigned(
		system.CreateAccount(
			payer.Key,
			buffer.Key,
			PROGRAM_ID,
			svm.RentExemptMinimum(uint64(args.BufferSize)),
			uint64(args.BufferSize),
		),
		vendingMachineSeeds(mint.Key, args.Price, bump),
	)
	if err != nil {
		return err
	}

	state := &VendingMachineBuffer{
		Bump:     bump,
		Price:    args.Price,
		Mint:     mint.Key,
		Sequence: 0,
	}
	writeState(buffer, state.Marshal())

	ctx.Log("initialized vending machine buffer %s (price %d)", base58.Encode(buffer.Key), args.Price)
	return nil
}

// handleVendingMachineEcho overwrites a vending machine buffer's data after
// burning the configured price from the user's token account. The burn is a
// sub-call into the token program signed by the user.
func (p *Processor) handleVendingMachineEcho(ctx *svm.ExecutionContext, args *VendingMachineEchoInstructionArgs) error {
	buffer, err := ctx.Account(0)
	if err != nil {
		return err
	}
	user, err := ctx.Account(1)
	if err != nil {
		return err
	}
	userTokenAccount, err := ctx.Account(2)
	if err != nil {
		return err
	}
	mint, err := ctx.Account(3)
	if err != nil {
		return err
	}

	var state VendingMachineBuffer
	if err := state.Unmarshal(buffer.Data); err != nil {
		return err
	}

	if !bytes.Equal(state.Mint, mint.Key) {
		return svm.NewValidationError(3, ErrMintMismatch)
	}

	derived, err := createVendingMachineAddress(state.Mint, state.Price, state.Bump)
	if err != nil || !bytes.Equal(buffer.Key, derived) {
		return svm.NewValidationError(0, ErrInvalidVendingMachine)
	}

	if args.Sequence != state.Sequence {
		return svm.NewStateError(svm.ErrInvalidSequence)
	}

	var tokenAccount token.Account
	if !tokenAccount.Unmarshal(userTokenAccount.Data) {
		return svm.NewValidationError(2, token.ErrUninitializedAccount)
	}
	if !bytes.Equal(tokenAccount.Mint, mint.Key) {
		return svm.NewValidationError(2, token.ErrMintMismatch)
	}

	err = ctx.Invoke(token.Burn(userTokenAccount.Key, mint.Key, user.Key, state.Price))
	if err != nil {
		return err
	}

	// The callee is untrusted. Re-decode the token account before relying
	// on any of its contents again.
	if !tokenAccount.Unmarshal(userTokenAccount.Data) {
		return svm.NewValidationError(2, svm.ErrInvalidAccountData)
	}

	capacity := buffer.DataLen() - VendingMachineBufferHeaderSize
	n := len(args.Data)
	if n > capacity {
		n = capacity
	}

	state.Data = args.Data[:n]
	state.Sequence, err = svm.CheckedAdd(state.Sequence, 1)
	if err != nil {
		return err
	}
	writeState(buffer, state.Marshal())

	ctx.Log("vending machine echo of %d bytes into %s (seq %d, burned %d)", n, base58.Encode(buffer.Key), state.Sequence, state.Price)
	return nil
}

// handleCloseAuthorizedBuffer drains an authorized buffer's lamports to the
// destination and returns the account to the system program. The authority
// proves its claim by deriving the buffer's address.
func (p *Processor) handleCloseAuthorizedBuffer(ctx *svm.ExecutionContext) error {
	buffer, err := ctx.Account(0)
	if err != nil {
		return err
	}
	authority, err := ctx.Account(1)
	if err != nil {
		return err
	}
	destination, err := ctx.Account(2)
	if err != nil {
		return err
	}

	var state AuthorizedBuffer
	if err := state.Unmarshal(buffer.Data); err != nil {
		return err
	}

	derived, err := createAuthorizedBufferAddress(authority.Key, state.BufferSeed, state.Bump)
	if err != nil || !bytes.Equal(buffer.Key, derived) {
		return svm.NewValidationError(1, ErrInvalidAuthority)
	}

	destination.Lamports, err = svm.CheckedAdd(destination.Lamports, buffer.Lamports)
	if err != nil {
		return err
	}
	buffer.Lamports = 0
	buffer.Data = nil
	buffer.Owner = system.ProgramKey

	ctx.Log("closed authorized buffer %s to %s", base58.Encode(buffer.Key), base58.Encode(destination.Key))
	return nil
}

// writeState zeroes the account's fixed size data region and writes the
// marshalled state at the front. The account length never changes.
func writeState(account *svm.AccountInfo, state []byte) {
	for i := range account.Data {
		account.Data[i] = 0
	}
	copy(account.Data, state)
}
