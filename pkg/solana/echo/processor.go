package echo

import (
	"crypto/ed25519"

	"github.com/code-payments/echo-program/pkg/solana/svm"
)

// Processor executes Echo program instructions. It is stateless; everything
// it reads and writes lives in the accounts of the current invocation.
type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

func (p *Processor) ID() ed25519.PublicKey {
	return PROGRAM_ID
}

func (p *Processor) Execute(ctx *svm.ExecutionContext) error {
	instructionType, err := getInstructionType(ctx.Data)
	if err != nil {
		return err
	}

	ctx.Log("instruction: %s", instructionType)

	switch instructionType {
	case InstructionTypeEcho:
		args, err := EchoInstructionFromBinary(ctx.Data)
		if err != nil {
			return err
		}
		if err := validateAccounts(ctx, instructionType); err != nil {
			return err
		}
		return p.handleEcho(ctx, args)

	case InstructionTypeInitializeAuthorizedEcho:
		args, err := InitializeAuthorizedEchoInstructionFromBinary(ctx.Data)
		if err != nil {
			return err
		}
		if err := validateAccounts(ctx, instructionType); err != nil {
			return err
		}
		return p.handleInitializeAuthorizedEcho(ctx, args)

	case InstructionTypeAuthorizedEcho:
		args, err := AuthorizedEchoInstructionFromBinary(ctx.Data)
		if err != nil {
			return err
		}
		if err := validateAccounts(ctx, instructionType); err != nil {
			return err
		}
		return p.handleAuthorizedEcho(ctx, args)

	case InstructionTypeInitializeVendingMachineEcho:
		args, err := InitializeVendingMachineEchoInstructionFromBinary(ctx.Data)
		if err != nil {
			return err
		}
		if err := validateAccounts(ctx, instructionType); err != nil {
			return err
		}
		return p.handleInitializeVendingMachineEcho(ctx, args)

	case InstructionTypeVendingMachineEcho:
		args, err := VendingMachineEchoInstructionFromBinary(ctx.Data)
		if err != nil {
			return err
		}
		if err := validateAccounts(ctx, instructionType); err != nil {
			return err
		}
		return p.handleVendingMachineEcho(ctx, args)

	case InstructionTypeCloseAuthorizedBuffer:
		if err := CloseAuthorizedBufferInstructionFromBinary(ctx.Data); err != nil {
			return err
		}
		if err := validateAccounts(ctx, instructionType); err != nil {
			return err
		}
		return p.handleCloseAuthorizedBuffer(ctx)
	}

	return svm.NewDecodeError(ErrInvalidInstructionData)
}
