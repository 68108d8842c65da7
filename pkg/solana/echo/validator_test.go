package echo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/echo-program/pkg/solana/svm"
	"github.com/code-payments/echo-program/pkg/solana/system"
	"github.com/code-payments/echo-program/pkg/solana/token"
)

func validationContext(accounts ...*svm.AccountInfo) *svm.ExecutionContext {
	return &svm.ExecutionContext{
		Program:  PROGRAM_ID,
		Accounts: accounts,
	}
}

func assertSlotError(t *testing.T, err error, slot int, predicate error) {
	assert.True(t, errors.Is(err, predicate), "expected %v, got %v", predicate, err)

	var validationErr *svm.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, slot, validationErr.Slot)
}

func TestValidateAccounts_Arity(t *testing.T) {
	buffer := &svm.AccountInfo{
		Key:        generateKey(t),
		Owner:      PROGRAM_ID,
		IsWritable: true,
	}

	err := validateAccounts(validationContext(), InstructionTypeEcho)
	assertSlotError(t, err, 0, svm.ErrNotEnoughAccounts)

	extra := &svm.AccountInfo{Key: generateKey(t)}
	err = validateAccounts(validationContext(buffer, extra), InstructionTypeEcho)
	assertSlotError(t, err, 1, svm.ErrUnexpectedAccount)

	assert.NoError(t, validateAccounts(validationContext(buffer), InstructionTypeEcho))
}

func TestValidateAccounts_Writable(t *testing.T) {
	buffer := &svm.AccountInfo{
		Key:   generateKey(t),
		Owner: PROGRAM_ID,
	}

	err := validateAccounts(validationContext(buffer), InstructionTypeEcho)
	assertSlotError(t, err, 0, svm.ErrAccountNotWritable)
}

func TestValidateAccounts_Owner(t *testing.T) {
	buffer := &svm.AccountInfo{
		Key:        generateKey(t),
		Owner:      generateKey(t),
		IsWritable: true,
	}

	err := validateAccounts(validationContext(buffer), InstructionTypeEcho)
	assertSlotError(t, err, 0, svm.ErrIllegalOwner)
}

func TestValidateAccounts_Signer(t *testing.T) {
	buffer := &svm.AccountInfo{
		Key:        generateKey(t),
		Owner:      PROGRAM_ID,
		Data:       (&AuthorizedBuffer{}).Marshal(),
		IsWritable: true,
	}
	authority := &svm.AccountInfo{
		Key: generateKey(t),
	}

	err := validateAccounts(validationContext(buffer, authority), InstructionTypeAuthorizedEcho)
	assertSlotError(t, err, 1, svm.ErrMissingSignature)

	authority.IsSigner = true
	assert.NoError(t, validateAccounts(validationContext(buffer, authority), InstructionTypeAuthorizedEcho))
}

func TestValidateAccounts_FixedAddress(t *testing.T) {
	buffer := &svm.AccountInfo{
		Key:        generateKey(t),
		Owner:      system.ProgramKey,
		IsWritable: true,
	}
	authority := &svm.AccountInfo{
		Key:        generateKey(t),
		IsSigner:   true,
		IsWritable: true,
	}
	imposter := &svm.AccountInfo{
		Key: generateKey(t),
	}

	err := validateAccounts(validationContext(buffer, authority, imposter), InstructionTypeInitializeAuthorizedEcho)
	assertSlotError(t, err, 2, ErrInvalidProgram)

	systemProgram := &svm.AccountInfo{Key: system.ProgramKey}
	assert.NoError(t, validateAccounts(validationContext(buffer, authority, systemProgram), InstructionTypeInitializeAuthorizedEcho))
}

func TestValidateAccounts_Discriminant(t *testing.T) {
	authority := &svm.AccountInfo{
		Key:      generateKey(t),
		IsSigner: true,
	}

	// a buffer that was never initialized
	uninitialized := &svm.AccountInfo{
		Key:        generateKey(t),
		Owner:      PROGRAM_ID,
		Data:       make([]byte, 64),
		IsWritable: true,
	}
	err := validateAccounts(validationContext(uninitialized, authority), InstructionTypeAuthorizedEcho)
	assertSlotError(t, err, 0, svm.ErrUninitializedAccount)

	// a buffer holding the wrong variant
	wrongVariant := &svm.AccountInfo{
		Key:        generateKey(t),
		Owner:      PROGRAM_ID,
		Data:       (&EchoBuffer{}).Marshal(),
		IsWritable: true,
	}
	err = validateAccounts(validationContext(wrongVariant, authority), InstructionTypeAuthorizedEcho)
	assertSlotError(t, err, 0, svm.ErrInvalidDiscriminant)
}

func TestValidateAccounts_ReinitializeRejected(t *testing.T) {
	authority := &svm.AccountInfo{
		Key:        generateKey(t),
		IsSigner:   true,
		IsWritable: true,
	}
	systemProgram := &svm.AccountInfo{Key: system.ProgramKey}

	// a system owned account that somehow carries initialized state
	buffer := &svm.AccountInfo{
		Key:        generateKey(t),
		Owner:      system.ProgramKey,
		Data:       (&AuthorizedBuffer{}).Marshal(),
		IsWritable: true,
	}

	err := validateAccounts(validationContext(buffer, authority, systemProgram), InstructionTypeInitializeAuthorizedEcho)
	assertSlotError(t, err, 0, svm.ErrAlreadyInitialized)
}

func TestValidateAccounts_OwnershipBeforeState(t *testing.T) {
	// An attacker supplied buffer with well-formed state but the wrong
	// owner must fail on ownership, not on anything decoded from its data.
	authority := &svm.AccountInfo{
		Key:      generateKey(t),
		IsSigner: true,
	}
	spoofed := &svm.AccountInfo{
		Key:        generateKey(t),
		Owner:      token.ProgramKey,
		Data:       (&AuthorizedBuffer{}).Marshal(),
		IsWritable: true,
	}

	err := validateAccounts(validationContext(spoofed, authority), InstructionTypeAuthorizedEcho)
	assertSlotError(t, err, 0, svm.ErrIllegalOwner)
}
