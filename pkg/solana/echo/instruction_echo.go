package echo

import (
	"crypto/ed25519"

	"github.com/code-payments/echo-program/pkg/solana"
	"github.com/code-payments/echo-program/pkg/solana/binary"
	"github.com/code-payments/echo-program/pkg/solana/svm"
)

const EchoInstructionArgsMinSize = (1 + // instruction type
	4) // data length

type EchoInstructionArgs struct {
	Data []byte
}

type EchoInstructionAccounts struct {
	EchoBuffer ed25519.PublicKey
}

func NewEchoInstruction(
	accounts *EchoInstructionAccounts,
	args *EchoInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, EchoInstructionArgsMinSize+len(args.Data))
	binary.PutUint8(data, uint8(InstructionTypeEcho), &offset)
	binary.PutUint32(data, uint32(len(args.Data)), &offset)
	binary.PutData(data, args.Data, &offset)

	return solana.NewInstruction(
		PROGRAM_ADDRESS,
		data,
		solana.NewAccountMeta(accounts.EchoBuffer, false),
	)
}

func EchoInstructionFromBinary(data []byte) (*EchoInstructionArgs, error) {
	if len(data) < EchoInstructionArgsMinSize {
		return nil, svm.NewDecodeError(ErrInvalidInstructionData)
	}

	var offset int
	var instructionType uint8
	var dataLen uint32

	binary.GetUint8(data, &instructionType, &offset)
	if InstructionType(instructionType) != InstructionTypeEcho {
		return nil, svm.NewDecodeError(ErrInvalidInstructionData)
	}

	binary.GetUint32(data, &dataLen, &offset)
	if int(dataLen) != len(data)-offset {
		return nil, svm.NewDecodeError(ErrInvalidInstructionData)
	}

	var args EchoInstructionArgs
	args.Data = binary.GetData(data, int(dataLen), &offset)

	return &args, nil
}
