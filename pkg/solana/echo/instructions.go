package echo

import (
	"github.com/code-payments/echo-program/pkg/solana/svm"
)

// InstructionType is the single byte discriminant prefixed to every Echo
// instruction payload.
type InstructionType uint8

const (
	InstructionTypeEcho InstructionType = iota
	InstructionTypeInitializeAuthorizedEcho
	InstructionTypeAuthorizedEcho
	InstructionTypeInitializeVendingMachineEcho
	InstructionTypeVendingMachineEcho
	InstructionTypeCloseAuthorizedBuffer
)

func (t InstructionType) String() string {
	switch t {
	case InstructionTypeEcho:
		return "Echo"
	case InstructionTypeInitializeAuthorizedEcho:
		return "InitializeAuthorizedEcho"
	case InstructionTypeAuthorizedEcho:
		return "AuthorizedEcho"
	case InstructionTypeInitializeVendingMachineEcho:
		return "InitializeVendingMachineEcho"
	case InstructionTypeVendingMachineEcho:
		return "VendingMachineEcho"
	case InstructionTypeCloseAuthorizedBuffer:
		return "CloseAuthorizedBuffer"
	}
	return "Unknown"
}

func getInstructionType(data []byte) (InstructionType, error) {
	if len(data) == 0 {
		return 0, svm.NewDecodeError(ErrInvalidInstructionData)
	}

	t := InstructionType(data[0])
	if t > InstructionTypeCloseAuthorizedBuffer {
		return 0, svm.NewDecodeError(ErrInvalidInstructionData)
	}
	return t, nil
}
