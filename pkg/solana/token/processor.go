package token

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/code-payments/echo-program/pkg/solana/svm"
)

// Processor executes token program instructions.
type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

func (p *Processor) ID() ed25519.PublicKey {
	return ProgramKey
}

// Execute decodes the single byte command and routes to the matching
// handler.
func (p *Processor) Execute(ctx *svm.ExecutionContext) error {
	if len(ctx.Data) < 1 {
		return svm.NewDecodeError(ErrInvalidInstruction)
	}

	command := Command(ctx.Data[0])
	args := ctx.Data[1:]

	switch command {
	case CommandInitializeMint:
		if len(args) < 1+32+1 {
			return svm.NewDecodeError(ErrInvalidInstruction)
		}
		decimals := args[0]
		authority := make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(authority, args[1:])
		var freezeAuthority ed25519.PublicKey
		if args[1+32] == 1 {
			if len(args) != 1+32+1+32 {
				return svm.NewDecodeError(ErrInvalidInstruction)
			}
			freezeAuthority = make(ed25519.PublicKey, ed25519.PublicKeySize)
			copy(freezeAuthority, args[1+32+1:])
		}
		return handleInitializeMint(ctx, decimals, authority, freezeAuthority)

	case CommandInitializeAccount:
		return handleInitializeAccount(ctx)

	case CommandTransfer:
		amount, err := amountArg(args)
		if err != nil {
			return err
		}
		return handleTransfer(ctx, amount)

	case CommandMintTo:
		amount, err := amountArg(args)
		if err != nil {
			return err
		}
		return handleMintTo(ctx, amount)

	case CommandBurn:
		amount, err := amountArg(args)
		if err != nil {
			return err
		}
		return handleBurn(ctx, amount)

	default:
		return svm.NewDecodeError(ErrInvalidInstruction)
	}
}

func amountArg(args []byte) (uint64, error) {
	if len(args) != 8 {
		return 0, svm.NewDecodeError(ErrInvalidInstruction)
	}
	return binary.LittleEndian.Uint64(args), nil
}

func handleInitializeMint(ctx *svm.ExecutionContext, decimals uint8, authority, freezeAuthority ed25519.PublicKey) error {
	mintAccount, err := ctx.Account(0)
	if err != nil {
		return err
	}

	if !mintAccount.IsWritable {
		return svm.NewValidationError(0, svm.ErrAccountNotWritable)
	}
	if !mintAccount.IsOwnedBy(ProgramKey) {
		return svm.NewValidationError(0, svm.ErrIllegalOwner)
	}

	var mint Mint
	if !mint.Unmarshal(mintAccount.Data) {
		return svm.NewDecodeError(ErrInvalidMint)
	}
	if mint.IsInitialized {
		return svm.NewStateError(svm.ErrAlreadyInitialized)
	}

	mint.MintAuthority = authority
	mint.FreezeAuthority = freezeAuthority
	mint.Decimals = decimals
	mint.Supply = 0
	mint.IsInitialized = true

	copy(mintAccount.Data, mint.Marshal())
	return nil
}

func handleInitializeAccount(ctx *svm.ExecutionContext) error {
	tokenAccount, err := ctx.Account(0)
	if err != nil {
		return err
	}
	mintAccount, err := ctx.Account(1)
	if err != nil {
		return err
	}
	owner, err := ctx.Account(2)
	if err != nil {
		return err
	}

	if !tokenAccount.IsWritable {
		return svm.NewValidationError(0, svm.ErrAccountNotWritable)
	}
	if !tokenAccount.IsOwnedBy(ProgramKey) {
		return svm.NewValidationError(0, svm.ErrIllegalOwner)
	}
	if !mintAccount.IsOwnedBy(ProgramKey) {
		return svm.NewValidationError(1, svm.ErrIllegalOwner)
	}

	var account Account
	if !account.Unmarshal(tokenAccount.Data) {
		return svm.NewDecodeError(svm.ErrInvalidAccountData)
	}
	if account.State != AccountStateUninitialized {
		return svm.NewStateError(svm.ErrAlreadyInitialized)
	}

	var mint Mint
	if !mint.Unmarshal(mintAccount.Data) {
		return svm.NewDecodeError(ErrInvalidMint)
	}
	if !mint.IsInitialized {
		return svm.NewValidationError(1, ErrUninitializedAccount)
	}

	account.Mint = mintAccount.Key
	account.Owner = owner.Key
	account.Amount = 0
	account.State = AccountStateInitialized

	copy(tokenAccount.Data, account.Marshal())
	return nil
}

func handleTransfer(ctx *svm.ExecutionContext, amount uint64) error {
	sourceAccount, err := ctx.Account(0)
	if err != nil {
		return err
	}
	destinationAccount, err := ctx.Account(1)
	if err != nil {
		return err
	}
	owner, err := ctx.Account(2)
	if err != nil {
		return err
	}

	source, destination, err := loadTransferPair(sourceAccount, destinationAccount)
	if err != nil {
		return err
	}

	if !owner.IsSigner {
		return svm.NewValidationError(2, svm.ErrMissingSignature)
	}
	if !bytes.Equal(source.Owner, owner.Key) {
		return svm.NewValidationError(2, ErrOwnerMismatch)
	}
	if !bytes.Equal(source.Mint, destination.Mint) {
		return svm.NewValidationError(1, ErrMintMismatch)
	}

	if source.Amount < amount {
		return svm.NewStateError(ErrInsufficientFunds)
	}
	newAmount, err := svm.CheckedAdd(destination.Amount, amount)
	if err != nil {
		return err
	}

	source.Amount -= amount
	destination.Amount = newAmount

	copy(sourceAccount.Data, source.Marshal())
	copy(destinationAccount.Data, destination.Marshal())
	return nil
}

func handleMintTo(ctx *svm.ExecutionContext, amount uint64) error {
	mintAccount, err := ctx.Account(0)
	if err != nil {
		return err
	}
	destinationAccount, err := ctx.Account(1)
	if err != nil {
		return err
	}
	authority, err := ctx.Account(2)
	if err != nil {
		return err
	}

	if !mintAccount.IsWritable {
		return svm.NewValidationError(0, svm.ErrAccountNotWritable)
	}
	if !mintAccount.IsOwnedBy(ProgramKey) {
		return svm.NewValidationError(0, svm.ErrIllegalOwner)
	}
	if !destinationAccount.IsWritable {
		return svm.NewValidationError(1, svm.ErrAccountNotWritable)
	}
	if !destinationAccount.IsOwnedBy(ProgramKey) {
		return svm.NewValidationError(1, svm.ErrIllegalOwner)
	}

	var mint Mint
	if !mint.Unmarshal(mintAccount.Data) {
		return svm.NewDecodeError(ErrInvalidMint)
	}
	if !mint.IsInitialized {
		return svm.NewValidationError(0, ErrUninitializedAccount)
	}

	var destination Account
	if !destination.Unmarshal(destinationAccount.Data) {
		return svm.NewDecodeError(svm.ErrInvalidAccountData)
	}
	if destination.State == AccountStateUninitialized {
		return svm.NewValidationError(1, ErrUninitializedAccount)
	}
	if destination.State == AccountStateFrozen {
		return svm.NewStateError(ErrAccountFrozen)
	}
	if !bytes.Equal(destination.Mint, mintAccount.Key) {
		return svm.NewValidationError(1, ErrMintMismatch)
	}

	if len(mint.MintAuthority) == 0 {
		return svm.NewStateError(ErrFixedSupply)
	}
	if !authority.IsSigner {
		return svm.NewValidationError(2, svm.ErrMissingSignature)
	}
	if !bytes.Equal(mint.MintAuthority, authority.Key) {
		return svm.NewValidationError(2, ErrAuthorityMismatch)
	}

	newSupply, err := svm.CheckedAdd(mint.Supply, amount)
	if err != nil {
		return err
	}
	newAmount, err := svm.CheckedAdd(destination.Amount, amount)
	if err != nil {
		return err
	}

	mint.Supply = newSupply
	destination.Amount = newAmount

	copy(mintAccount.Data, mint.Marshal())
	copy(destinationAccount.Data, destination.Marshal())
	return nil
}

func handleBurn(ctx *svm.ExecutionContext, amount uint64) error {
	tokenAccount, err := ctx.Account(0)
	if err != nil {
		return err
	}
	mintAccount, err := ctx.Account(1)
	if err != nil {
		return err
	}
	owner, err := ctx.Account(2)
	if err != nil {
		return err
	}

	if !tokenAccount.IsWritable {
		return svm.NewValidationError(0, svm.ErrAccountNotWritable)
	}
	if !tokenAccount.IsOwnedBy(ProgramKey) {
		return svm.NewValidationError(0, svm.ErrIllegalOwner)
	}
	if !mintAccount.IsWritable {
		return svm.NewValidationError(1, svm.ErrAccountNotWritable)
	}
	if !mintAccount.IsOwnedBy(ProgramKey) {
		return svm.NewValidationError(1, svm.ErrIllegalOwner)
	}

	var account Account
	if !account.Unmarshal(tokenAccount.Data) {
		return svm.NewDecodeError(svm.ErrInvalidAccountData)
	}
	if account.State == AccountStateUninitialized {
		return svm.NewValidationError(0, ErrUninitializedAccount)
	}
	if account.State == AccountStateFrozen {
		return svm.NewStateError(ErrAccountFrozen)
	}

	var mint Mint
	if !mint.Unmarshal(mintAccount.Data) {
		return svm.NewDecodeError(ErrInvalidMint)
	}
	if !bytes.Equal(account.Mint, mintAccount.Key) {
		return svm.NewValidationError(1, ErrMintMismatch)
	}

	if !owner.IsSigner {
		return svm.NewValidationError(2, svm.ErrMissingSignature)
	}
	if !bytes.Equal(account.Owner, owner.Key) {
		return svm.NewValidationError(2, ErrOwnerMismatch)
	}

	if account.Amount < amount {
		return svm.NewStateError(ErrInsufficientFunds)
	}
	newSupply, err := svm.CheckedSub(mint.Supply, amount)
	if err != nil {
		return err
	}

	account.Amount -= amount
	mint.Supply = newSupply

	copy(tokenAccount.Data, account.Marshal())
	copy(mintAccount.Data, mint.Marshal())
	return nil
}

func loadTransferPair(sourceAccount, destinationAccount *svm.AccountInfo) (*Account, *Account, error) {
	if !sourceAccount.IsWritable {
		return nil, nil, svm.NewValidationError(0, svm.ErrAccountNotWritable)
	}
	if !sourceAccount.IsOwnedBy(ProgramKey) {
		return nil, nil, svm.NewValidationError(0, svm.ErrIllegalOwner)
	}
	if !destinationAccount.IsWritable {
		return nil, nil, svm.NewValidationError(1, svm.ErrAccountNotWritable)
	}
	if !destinationAccount.IsOwnedBy(ProgramKey) {
		return nil, nil, svm.NewValidationError(1, svm.ErrIllegalOwner)
	}

	var source Account
	if !source.Unmarshal(sourceAccount.Data) {
		return nil, nil, svm.NewDecodeError(svm.ErrInvalidAccountData)
	}
	if source.State == AccountStateUninitialized {
		return nil, nil, svm.NewValidationError(0, ErrUninitializedAccount)
	}
	if source.State == AccountStateFrozen {
		return nil, nil, svm.NewStateError(ErrAccountFrozen)
	}

	var destination Account
	if !destination.Unmarshal(destinationAccount.Data) {
		return nil, nil, svm.NewDecodeError(svm.ErrInvalidAccountData)
	}
	if destination.State == AccountStateUninitialized {
		return nil, nil, svm.NewValidationError(1, ErrUninitializedAccount)
	}
	if destination.State == AccountStateFrozen {
		return nil, nil, svm.NewStateError(ErrAccountFrozen)
	}

	return &source, &destination, nil
}
