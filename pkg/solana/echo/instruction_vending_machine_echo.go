package echo

import (
	"crypto/ed25519"

	"github.com/code-payments/echo-program/pkg/solana"
	"github.com/code-payments/echo-program/pkg/solana/binary"
	"github.com/code-payments/echo-program/pkg/solana/svm"
	"github.com/code-payments/echo-program/pkg/solana/token"
)

const VendingMachineEchoInstructionArgsMinSize = (1 + // instruction type
	8 + // sequence
	4) // data length

type VendingMachineEchoInstructionArgs struct {
	Sequence uint64
	Data     []byte
}

type VendingMachineEchoInstructionAccounts struct {
	VendingMachineBuffer ed25519.PublicKey
	User                 ed25519.PublicKey
	UserTokenAccount     ed25519.PublicKey
	Mint                 ed25519.PublicKey
}

func NewVendingMachineEchoInstruction(
	accounts *VendingMachineEchoInstructionAccounts,
	args *VendingMachineEchoInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, VendingMachineEchoInstructionArgsMinSize+len(args.Data))
	binary.PutUint8(data, uint8(InstructionTypeVendingMachineEcho), &offset)
	binary.PutUint64(data, args.Sequence, &offset)
	binary.PutUint32(data, uint32(len(args.Data)), &offset)
	binary.PutData(data, args.Data, &offset)

	return solana.NewInstruction(
		PROGRAM_ADDRESS,
		data,
		solana.NewAccountMeta(accounts.VendingMachineBuffer, false),
		solana.NewReadonlyAccountMeta(accounts.User, true),
		solana.NewAccountMeta(accounts.UserTokenAccount, false),
		solana.NewAccountMeta(accounts.Mint, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	)
}

func VendingMachineEchoInstructionFromBinary(data []byte) (*VendingMachineEchoInstructionArgs, error) {
	if len(data) < VendingMachineEchoInstructionArgsMinSize {
		return nil, svm.NewDecodeError(ErrInvalidInstructionData)
	}

	var offset int
	var instructionType uint8
	var dataLen uint32

	binary.GetUint8(data, &instructionType, &offset)
	if InstructionType(instructionType) != InstructionTypeVendingMachineEcho {
		return nil, svm.NewDecodeError(ErrInvalidInstructionData)
	}

	var args VendingMachineEchoInstructionArgs
	binary.GetUint64(data, &args.Sequence, &offset)

	binary.GetUint32(data, &dataLen, &offset)
	if int(dataLen) != len(data)-offset {
		return nil, svm.NewDecodeError(ErrInvalidInstructionData)
	}
	args.Data = binary.GetData(data, int(dataLen), &offset)

	return &args, nil
}
