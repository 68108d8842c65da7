package svm

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// Predicate errors. Each names the single check that failed; the typed
// wrappers below attach where it failed.
var (
	ErrUnknownProgram         = errors.New("program is not registered")
	ErrNotEnoughAccounts      = errors.New("not enough account keys")
	ErrUnexpectedAccount      = errors.New("unexpected extra account")
	ErrDuplicateAccount       = errors.New("duplicate account in instruction")
	ErrMissingSignature       = errors.New("missing required signature")
	ErrAccountNotWritable     = errors.New("account is not writable")
	ErrIllegalOwner           = errors.New("account is not owned by this program")
	ErrInvalidDiscriminant    = errors.New("unexpected account discriminant")
	ErrAlreadyInitialized     = errors.New("account is already initialized")
	ErrUninitializedAccount   = errors.New("account is not initialized")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
	ErrInvalidAccountData     = errors.New("unexpected account data")
	ErrArithmeticOverflow     = errors.New("arithmetic overflow")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInvalidSequence        = errors.New("sequence number does not match expected value")
	ErrCallDepthExceeded      = errors.New("max invoke depth exceeded")
	ErrReentrancyNotAllowed   = errors.New("reentrancy not allowed")
	ErrPrivilegeEscalation    = errors.New("privilege escalation in cross-program invoke")
	ErrMissingAccount         = errors.New("invoked account not present in caller accounts")
	ErrInvalidSeeds           = errors.New("signer seeds do not derive the claimed address")
	ErrReadonlyModified       = errors.New("read-only account was modified")
	ErrOwnerModified          = errors.New("account owner changed by a program that does not own it")
	ErrUnbalancedInstruction  = errors.New("sum of lamports changed across instruction")
	ErrExternalDataModified   = errors.New("account data modified by a program that does not own it")
	ErrExternalLamportSpend   = errors.New("lamports withdrawn by a program that does not own the account")
	ErrComputeBudgetExceeded  = errors.New("compute budget exceeded")
)

// DecodeError reports malformed instruction or account bytes. Decoding is
// total: malformed input surfaces here, never as a panic.
type DecodeError struct {
	Err error
}

func NewDecodeError(err error) *DecodeError {
	return &DecodeError{Err: err}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ValidationError reports an account that failed a pre-apply check. Slot is
// the zero-based position of the offending account in the instruction's
// account list, Predicate the check that failed.
type ValidationError struct {
	Slot      int
	Predicate error
}

func NewValidationError(slot int, predicate error) *ValidationError {
	return &ValidationError{Slot: slot, Predicate: predicate}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("account %d: %v", e.Slot, e.Predicate)
}

func (e *ValidationError) Unwrap() error {
	return e.Predicate
}

// StateError reports a domain rule violation detected while applying a
// validated instruction: overflow, a bad sequence number, or a transition
// the current discriminant does not allow.
type StateError struct {
	Err error
}

func NewStateError(err error) *StateError {
	return &StateError{Err: err}
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state: %v", e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// CrossInvocationError reports a failed sub-call, or a sub-call whose
// resulting account state could not be validated.
type CrossInvocationError struct {
	Program ed25519.PublicKey
	Err     error
}

func NewCrossInvocationError(program ed25519.PublicKey, err error) *CrossInvocationError {
	return &CrossInvocationError{Program: program, Err: err}
}

func (e *CrossInvocationError) Error() string {
	return fmt.Sprintf("invoke %s: %v", base58.Encode(e.Program), e.Err)
}

func (e *CrossInvocationError) Unwrap() error {
	return e.Err
}
