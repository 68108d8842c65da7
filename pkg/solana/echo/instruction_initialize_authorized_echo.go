package echo

import (
	"crypto/ed25519"

	"github.com/code-payments/echo-program/pkg/solana"
	"github.com/code-payments/echo-program/pkg/solana/binary"
	"github.com/code-payments/echo-program/pkg/solana/svm"
	"github.com/code-payments/echo-program/pkg/solana/system"
)

const InitializeAuthorizedEchoInstructionArgsSize = (1 + // instruction type
	8 + // buffer_seed
	4) // buffer_size

type InitializeAuthorizedEchoInstructionArgs struct {
	BufferSeed uint64
	BufferSize uint32
}

type InitializeAuthorizedEchoInstructionAccounts struct {
	AuthorizedBuffer ed25519.PublicKey
	Authority        ed25519.PublicKey
}

func NewInitializeAuthorizedEchoInstruction(
	accounts *InitializeAuthorizedEchoInstructionAccounts,
	args *InitializeAuthorizedEchoInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, InitializeAuthorizedEchoInstructionArgsSize)
	binary.PutUint8(data, uint8(InstructionTypeInitializeAuthorizedEcho), &offset)
	binary.PutUint64(data, args.BufferSeed, &offset)
	binary.PutUint32(data, args.BufferSize, &offset)

	return solana.NewInstruction(
		PROGRAM_ADDRESS,
		data,
		solana.NewAccountMeta(accounts.AuthorizedBuffer, false),
		solana.NewAccountMeta(accounts.Authority, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
	)
}

func InitializeAuthorizedEchoInstructionFromBinary(data []byte) (*InitializeAuthorizedEchoInstructionArgs, error) {
	if len(data) != InitializeAuthorizedEchoInstructionArgsSize {
		return nil, svm.NewDecodeError(ErrInvalidInstructionData)
	}

	var offset int
	var instructionType uint8

	binary.GetUint8(data, &instructionType, &offset)
	if InstructionType(instructionType) != InstructionTypeInitializeAuthorizedEcho {
		return nil, svm.NewDecodeError(ErrInvalidInstructionData)
	}

	var args InitializeAuthorizedEchoInstructionArgs
	binary.GetUint64(data, &args.BufferSeed, &offset)
	binary.GetUint32(data, &args.BufferSize, &offset)

	return &args, nil
}
