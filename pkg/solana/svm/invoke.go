package svm

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/echo-program/pkg/solana"

	"github.com/mr-tron/base58"
)

// MaxInvokeDepth caps the cross-program call stack for one invocation.
const MaxInvokeDepth = 4

// Invoke issues a sub-call into another program with a subset of the
// current account set. Each entry in signers is a seed group; an account
// whose key derives from a group under the calling program counts as a
// signer for the sub-call even without a transaction signature.
//
// The callee is untrusted: its effects are admitted back into the caller's
// view only after the runtime post-conditions held for the sub-call, and
// only for accounts the sub-call declared writable. Callers must still
// re-decode any state they rely on after a sub-call returns.
//
// Re-entering a program already on the call stack is rejected.
func (c *ExecutionContext) Invoke(instruction solana.Instruction, signers ...[][]byte) error {
	if err := c.meter.consume(invokeCost); err != nil {
		return err
	}

	if c.depth+1 >= MaxInvokeDepth {
		return NewCrossInvocationError(instruction.Program, ErrCallDepthExceeded)
	}

	for _, caller := range append(c.callers, c.Program) {
		if bytes.Equal(caller, instruction.Program) {
			return NewCrossInvocationError(instruction.Program, ErrReentrancyNotAllowed)
		}
	}

	derivedSigners, err := c.deriveSigners(signers)
	if err != nil {
		return NewCrossInvocationError(instruction.Program, err)
	}

	views := make([]*AccountInfo, len(instruction.Accounts))
	slots := make([]int, len(instruction.Accounts))
	for i, meta := range instruction.Accounts {
		slot := c.findAccount(meta.PublicKey)
		if slot < 0 {
			return NewCrossInvocationError(instruction.Program, ErrMissingAccount)
		}

		caller := c.Accounts[slot]

		// A sub-call can only narrow privileges, never widen them.
		if meta.IsWritable && !caller.IsWritable {
			return NewCrossInvocationError(instruction.Program, ErrPrivilegeEscalation)
		}

		isSigner := caller.IsSigner
		if !isSigner {
			_, isSigner = derivedSigners[string(meta.PublicKey)]
		}
		if meta.IsSigner && !isSigner {
			return NewCrossInvocationError(instruction.Program, ErrPrivilegeEscalation)
		}

		view := caller.Clone()
		view.IsSigner = meta.IsSigner
		view.IsWritable = meta.IsWritable

		views[i] = view
		slots[i] = slot
	}

	err = executeInstruction(
		c.registry,
		c.log,
		c.meter,
		instruction.Program,
		views,
		instruction.Data,
		c.depth+1,
		append(c.callers, c.Program),
	)
	if err != nil {
		return NewCrossInvocationError(instruction.Program, err)
	}

	// Sub-call effects were verified at the sub-call's own level, so they
	// advance both the caller's view and its post-condition baseline.
	for i, meta := range instruction.Accounts {
		if !meta.IsWritable {
			continue
		}

		caller := c.Accounts[slots[i]]
		caller.Lamports = views[i].Lamports
		caller.Owner = views[i].Owner
		caller.Data = views[i].Data

		snapshot := views[i].Clone()
		base := c.baseline[slots[i]]
		base.Lamports = snapshot.Lamports
		base.Owner = snapshot.Owner
		base.Data = snapshot.Data
	}

	return nil
}

// InvokeSigned is a readability alias for Invoke with program-derived
// signer seeds.
func (c *ExecutionContext) InvokeSigned(instruction solana.Instruction, signers ...[][]byte) error {
	return c.Invoke(instruction, signers...)
}

func (c *ExecutionContext) deriveSigners(seedGroups [][][]byte) (map[string]struct{}, error) {
	if len(seedGroups) == 0 {
		return nil, nil
	}

	derived := make(map[string]struct{}, len(seedGroups))
	for _, seeds := range seedGroups {
		key, err := solana.CreateProgramAddress(c.Program, seeds...)
		if err != nil {
			return nil, ErrInvalidSeeds
		}

		c.log.WithField("derived", base58.Encode(key)).Trace("derived sub-call signer")
		derived[string(key)] = struct{}{}
	}

	return derived, nil
}

func (c *ExecutionContext) findAccount(key ed25519.PublicKey) int {
	for i, account := range c.Accounts {
		if bytes.Equal(account.Key, key) {
			return i
		}
	}
	return -1
}
