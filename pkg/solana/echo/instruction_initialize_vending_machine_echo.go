package echo

import (
	"crypto/ed25519"

	"github.com/code-payments/echo-program/pkg/solana"
	"github.com/code-payments/echo-program/pkg/solana/binary"
	"github.com/code-payments/echo-program/pkg/solana/svm"
	"github.com/code-payments/echo-program/pkg/solana/system"
)

const InitializeVendingMachineEchoInstructionArgsSize = (1 + // instruction type
	8 + // price
	4) // buffer_size

type InitializeVendingMachineEchoInstructionArgs struct {
	Price      uint64
	BufferSize uint32
}

type InitializeVendingMachineEchoInstructionAccounts struct {
	VendingMachineBuffer ed25519.PublicKey
	Mint                 ed25519.PublicKey
	Payer                ed25519.PublicKey
}

func NewInitializeVendingMachineEchoInstruction(
	accounts *InitializeVendingMachineEchoInstructionAccounts,
	args *InitializeVendingMachineEchoInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, InitializeVendingMachineEchoInstructionArgsSize)
	binary.PutUint8(data, uint8(InstructionTypeInitializeVendingMachineEcho), &offset)
	binary.PutUint64(data, args.Price, &offset)
	binary.PutUint32(data, args.BufferSize, &offset)

	return solana.NewInstruction(
		PROGRAM_ADDRESS,
		data,
		solana.NewAccountMeta(accounts.VendingMachineBuffer, false),
		solana.NewReadonlyAccountMeta(accounts.Mint, false),
		solana.NewAccountMeta(accounts.Payer, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
	)
}

func InitializeVendingMachineEchoInstructionFromBinary(data []byte) (*InitializeVendingMachineEchoInstructionArgs, error) {
	if len(data) != InitializeVendingMachineEchoInstructionArgsSize {
		return nil, svm.NewDecodeError(ErrInvalidInstructionData)
	}

	var offset int
	var instructionType uint8

	binary.GetUint8(data, &instructionType, &offset)
	if InstructionType(instructionType) != InstructionTypeInitializeVendingMachineEcho {
		return nil, svm.NewDecodeError(ErrInvalidInstructionData)
	}

	var args InitializeVendingMachineEchoInstructionArgs
	binary.GetUint64(data, &args.Price, &offset)
	binary.GetUint32(data, &args.BufferSize, &offset)

	return &args, nil
}
