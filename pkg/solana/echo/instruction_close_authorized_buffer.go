package echo

import (
	"crypto/ed25519"

	"github.com/code-payments/echo-program/pkg/solana"
	"github.com/code-payments/echo-program/pkg/solana/binary"
	"github.com/code-payments/echo-program/pkg/solana/svm"
)

const CloseAuthorizedBufferInstructionArgsSize = 1 // instruction type

type CloseAuthorizedBufferInstructionAccounts struct {
	AuthorizedBuffer ed25519.PublicKey
	Authority        ed25519.PublicKey
	Destination      ed25519.PublicKey
}

func NewCloseAuthorizedBufferInstruction(
	accounts *CloseAuthorizedBufferInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, CloseAuthorizedBufferInstructionArgsSize)
	binary.PutUint8(data, uint8(InstructionTypeCloseAuthorizedBuffer), &offset)

	return solana.NewInstruction(
		PROGRAM_ADDRESS,
		data,
		solana.NewAccountMeta(accounts.AuthorizedBuffer, false),
		solana.NewReadonlyAccountMeta(accounts.Authority, true),
		solana.NewAccountMeta(accounts.Destination, false),
	)
}

func CloseAuthorizedBufferInstructionFromBinary(data []byte) error {
	if len(data) != CloseAuthorizedBufferInstructionArgsSize {
		return svm.NewDecodeError(ErrInvalidInstructionData)
	}
	if InstructionType(data[0]) != InstructionTypeCloseAuthorizedBuffer {
		return svm.NewDecodeError(ErrInvalidInstructionData)
	}
	return nil
}
