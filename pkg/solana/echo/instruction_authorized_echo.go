package echo

import (
	"crypto/ed25519"

	"github.com/code-payments/echo-program/pkg/solana"
	"github.com/code-payments/echo-program/pkg/solana/binary"
	"github.com/code-payments/echo-program/pkg/solana/svm"
)

const AuthorizedEchoInstructionArgsMinSize = (1 + // instruction type
	8 + // sequence
	4) // data length

type AuthorizedEchoInstructionArgs struct {
	Sequence uint64
	Data     []byte
}

type AuthorizedEchoInstructionAccounts struct {
	AuthorizedBuffer ed25519.PublicKey
	Authority        ed25519.PublicKey
}

func NewAuthorizedEchoInstruction(
	accounts *AuthorizedEchoInstructionAccounts,
	args *AuthorizedEchoInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, AuthorizedEchoInstructionArgsMinSize+len(args.Data))
	binary.PutUint8(data, uint8(InstructionTypeAuthorizedEcho), &offset)
	binary.PutUint64(data, args.Sequence, &offset)
	binary.PutUint32(data, uint32(len(args.Data)), &offset)
	binary.PutData(data, args.Data, &offset)

	return solana.NewInstruction(
		PROGRAM_ADDRESS,
		data,
		solana.NewAccountMeta(accounts.AuthorizedBuffer, false),
		solana.NewReadonlyAccountMeta(accounts.Authority, true),
	)
}

func AuthorizedEchoInstructionFromBinary(data []byte) (*AuthorizedEchoInstructionArgs, error) {
	if len(data) < AuthorizedEchoInstructionArgsMinSize {
		return nil, svm.NewDecodeError(ErrInvalidInstructionData)
	}

	var offset int
	var instructionType uint8
	var dataLen uint32

	binary.GetUint8(data, &instructionType, &offset)
	if InstructionType(instructionType) != InstructionTypeAuthorizedEcho {
		return nil, svm.NewDecodeError(ErrInvalidInstructionData)
	}

	var args AuthorizedEchoInstructionArgs
	binary.GetUint64(data, &args.Sequence, &offset)

	binary.GetUint32(data, &dataLen, &offset)
	if int(dataLen) != len(data)-offset {
		return nil, svm.NewDecodeError(ErrInvalidInstructionData)
	}
	args.Data = binary.GetData(data, int(dataLen), &offset)

	return &args, nil
}
