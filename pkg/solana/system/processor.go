package system

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/code-payments/echo-program/pkg/solana/svm"
)

// Processor executes system program instructions.
type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

func (p *Processor) ID() ed25519.PublicKey {
	return ProgramKey
}

// Execute decodes the 4 byte little-endian command and routes to the
// matching handler. Unknown commands and short payloads are rejected
// before any account is touched.
func (p *Processor) Execute(ctx *svm.ExecutionContext) error {
	if len(ctx.Data) < 4 {
		return svm.NewDecodeError(ErrInvalidInstructionFormat)
	}

	command := binary.LittleEndian.Uint32(ctx.Data)
	args := ctx.Data[4:]

	switch command {
	case commandCreateAccount:
		if len(args) != 2*8+32 {
			return svm.NewDecodeError(ErrInvalidInstructionFormat)
		}
		lamports := binary.LittleEndian.Uint64(args)
		size := binary.LittleEndian.Uint64(args[8:])
		owner := make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(owner, args[16:])
		return handleCreateAccount(ctx, lamports, size, owner)

	case commandAssign:
		if len(args) != 32 {
			return svm.NewDecodeError(ErrInvalidInstructionFormat)
		}
		owner := make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(owner, args)
		return handleAssign(ctx, owner)

	case commandTransfer:
		if len(args) != 8 {
			return svm.NewDecodeError(ErrInvalidInstructionFormat)
		}
		return handleTransfer(ctx, binary.LittleEndian.Uint64(args))

	case commandAllocate:
		if len(args) != 8 {
			return svm.NewDecodeError(ErrInvalidInstructionFormat)
		}
		return handleAllocate(ctx, binary.LittleEndian.Uint64(args))

	default:
		return svm.NewDecodeError(ErrInvalidInstructionFormat)
	}
}

func handleCreateAccount(ctx *svm.ExecutionContext, lamports, size uint64, owner ed25519.PublicKey) error {
	funder, err := ctx.Account(0)
	if err != nil {
		return err
	}
	account, err := ctx.Account(1)
	if err != nil {
		return err
	}

	if !funder.IsSigner {
		return svm.NewValidationError(0, svm.ErrMissingSignature)
	}
	if !funder.IsWritable {
		return svm.NewValidationError(0, svm.ErrAccountNotWritable)
	}
	if !account.IsSigner {
		return svm.NewValidationError(1, svm.ErrMissingSignature)
	}
	if !account.IsWritable {
		return svm.NewValidationError(1, svm.ErrAccountNotWritable)
	}

	if account.Lamports != 0 || account.DataLen() != 0 || !account.IsOwnedBy(ProgramKey) {
		return svm.NewStateError(ErrAccountAlreadyInUse)
	}
	if size > MaxPermittedDataLength {
		return svm.NewStateError(ErrInvalidDataLength)
	}

	if funder.Lamports < lamports {
		return svm.NewStateError(ErrResultWithNegativeFunds)
	}

	newBalance, err := svm.CheckedAdd(account.Lamports, lamports)
	if err != nil {
		return err
	}

	funder.Lamports -= lamports
	account.Lamports = newBalance
	account.Data = make([]byte, size)
	account.Owner = owner

	ctx.Log("Created account with %d lamports and %d bytes", lamports, size)
	return nil
}

func handleAssign(ctx *svm.ExecutionContext, owner ed25519.PublicKey) error {
	account, err := ctx.Account(0)
	if err != nil {
		return err
	}

	if !account.IsSigner {
		return svm.NewValidationError(0, svm.ErrMissingSignature)
	}
	if !account.IsWritable {
		return svm.NewValidationError(0, svm.ErrAccountNotWritable)
	}
	if !account.IsOwnedBy(ProgramKey) {
		return svm.NewValidationError(0, svm.ErrIllegalOwner)
	}

	account.Owner = owner
	return nil
}

func handleTransfer(ctx *svm.ExecutionContext, lamports uint64) error {
	from, err := ctx.Account(0)
	if err != nil {
		return err
	}
	to, err := ctx.Account(1)
	if err != nil {
		return err
	}

	if !from.IsSigner {
		return svm.NewValidationError(0, svm.ErrMissingSignature)
	}
	if !from.IsWritable {
		return svm.NewValidationError(0, svm.ErrAccountNotWritable)
	}
	if !to.IsWritable {
		return svm.NewValidationError(1, svm.ErrAccountNotWritable)
	}
	if !from.IsOwnedBy(ProgramKey) {
		return svm.NewValidationError(0, svm.ErrIllegalOwner)
	}

	if from.Lamports < lamports {
		return svm.NewStateError(ErrResultWithNegativeFunds)
	}

	newBalance, err := svm.CheckedAdd(to.Lamports, lamports)
	if err != nil {
		return err
	}

	from.Lamports -= lamports
	to.Lamports = newBalance
	return nil
}

func handleAllocate(ctx *svm.ExecutionContext, space uint64) error {
	account, err := ctx.Account(0)
	if err != nil {
		return err
	}

	if !account.IsSigner {
		return svm.NewValidationError(0, svm.ErrMissingSignature)
	}
	if !account.IsWritable {
		return svm.NewValidationError(0, svm.ErrAccountNotWritable)
	}
	if !account.IsOwnedBy(ProgramKey) {
		return svm.NewValidationError(0, svm.ErrIllegalOwner)
	}
	if account.DataLen() != 0 {
		return svm.NewStateError(ErrAccountAlreadyInUse)
	}
	if space > MaxPermittedDataLength {
		return svm.NewStateError(ErrInvalidDataLength)
	}

	account.Data = make([]byte, space)
	return nil
}
