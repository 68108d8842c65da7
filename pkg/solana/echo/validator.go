package echo

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/echo-program/pkg/solana/svm"
	"github.com/code-payments/echo-program/pkg/solana/system"
	"github.com/code-payments/echo-program/pkg/solana/token"
)

// slotSpec declares what one account slot of an instruction must satisfy
// before the handler runs. Checks are applied in declaration order per slot:
// signature, writability, fixed address, owner, then discriminant. Ownership
// is always established before any account data is interpreted.
type slotSpec struct {
	name     string
	signer   bool
	writable bool

	// address pins the slot to a fixed key. nil accepts any key.
	address ed25519.PublicKey

	// owner requires the account to be owned by a specific program. nil
	// accepts any owner.
	owner ed25519.PublicKey

	// state requires the account's discriminant to match. Only applied when
	// checkState is set, since a zero value is a meaningful discriminant.
	state      StateDiscriminant
	checkState bool
}

var accountSpecs = map[InstructionType][]slotSpec{
	InstructionTypeEcho: {
		{name: "echo_buffer", writable: true, owner: PROGRAM_ID},
	},
	InstructionTypeInitializeAuthorizedEcho: {
		{name: "authorized_buffer", writable: true, owner: system.ProgramKey, state: StateUninitialized, checkState: true},
		{name: "authority", signer: true, writable: true},
		{name: "system_program", address: system.ProgramKey},
	},
	InstructionTypeAuthorizedEcho: {
		{name: "authorized_buffer", writable: true, owner: PROGRAM_ID, state: StateAuthorizedBuffer, checkState: true},
		{name: "authority", signer: true},
	},
	InstructionTypeInitializeVendingMachineEcho: {
		{name: "vending_machine_buffer", writable: true, owner: system.ProgramKey, state: StateUninitialized, checkState: true},
		{name: "mint", owner: token.ProgramKey},
		{name: "payer", signer: true, writable: true},
		{name: "system_program", address: system.ProgramKey},
	},
	InstructionTypeVendingMachineEcho: {
		{name: "vending_machine_buffer", writable: true, owner: PROGRAM_ID, state: StateVendingMachineBuffer, checkState: true},
		{name: "user", signer: true},
		{name: "user_token_account", writable: true, owner: token.ProgramKey},
		{name: "mint", writable: true, owner: token.ProgramKey},
		{name: "token_program", address: token.ProgramKey},
	},
	InstructionTypeCloseAuthorizedBuffer: {
		{name: "authorized_buffer", writable: true, owner: PROGRAM_ID, state: StateAuthorizedBuffer, checkState: true},
		{name: "authority", signer: true},
		{name: "destination", writable: true},
	},
}

// validateAccounts checks the provided accounts against the instruction's
// slot table. The account count must match exactly, and every failure names
// the offending slot.
func validateAccounts(ctx *svm.ExecutionContext, instructionType InstructionType) error {
	specs, ok := accountSpecs[instructionType]
	if !ok {
		return svm.NewDecodeError(ErrInvalidInstructionData)
	}

	if ctx.AccountCount() < len(specs) {
		return svm.NewValidationError(ctx.AccountCount(), svm.ErrNotEnoughAccounts)
	}
	if ctx.AccountCount() > len(specs) {
		return svm.NewValidationError(len(specs), svm.ErrUnexpectedAccount)
	}

	for slot, spec := range specs {
		account, err := ctx.Account(slot)
		if err != nil {
			return err
		}

		if spec.signer && !account.IsSigner {
			return svm.NewValidationError(slot, svm.ErrMissingSignature)
		}
		if spec.writable && !account.IsWritable {
			return svm.NewValidationError(slot, svm.ErrAccountNotWritable)
		}
		if spec.address != nil && !bytes.Equal(account.Key, spec.address) {
			return svm.NewValidationError(slot, ErrInvalidProgram)
		}
		if spec.owner != nil && !account.IsOwnedBy(spec.owner) {
			return svm.NewValidationError(slot, svm.ErrIllegalOwner)
		}
		if spec.checkState {
			if err := checkDiscriminant(slot, account.Data, spec.state); err != nil {
				return err
			}
		}
	}

	return nil
}

func checkDiscriminant(slot int, data []byte, expected StateDiscriminant) error {
	actual := PeekDiscriminant(data)
	if actual == expected {
		return nil
	}

	if expected == StateUninitialized {
		return svm.NewValidationError(slot, svm.ErrAlreadyInitialized)
	}
	if actual == StateUninitialized {
		return svm.NewValidationError(slot, svm.ErrUninitializedAccount)
	}
	return svm.NewValidationError(slot, svm.ErrInvalidDiscriminant)
}
