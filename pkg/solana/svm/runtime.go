package svm

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/echo-program/pkg/solana"
)

const (
	// DefaultComputeBudget is the deterministic resource budget for one
	// top-level instruction, sub-calls included.
	DefaultComputeBudget = 200_000

	baseInstructionCost = 150
	perDataByteCost     = 1
	invokeCost          = 1000
)

// Runtime executes instructions against registered programs. It owns the
// commit discipline: a program runs against cloned account state, and the
// clones are written back in slot order only when the whole instruction
// succeeded. Any error at any stage leaves every account untouched.
type Runtime struct {
	registry *Registry
	log      *logrus.Entry
	budget   uint64
}

type Option func(*Runtime)

func WithLogger(log *logrus.Entry) Option {
	return func(r *Runtime) {
		r.log = log
	}
}

func WithComputeBudget(units uint64) Option {
	return func(r *Runtime) {
		r.budget = units
	}
}

func NewRuntime(registry *Registry, opts ...Option) *Runtime {
	r := &Runtime{
		registry: registry,
		log:      logrus.StandardLogger().WithField("type", "solana/svm/runtime"),
		budget:   DefaultComputeBudget,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Process runs one instruction to completion. It is the only externally
// invoked entry point: (program identity, ordered accounts, raw instruction
// data) in, success or a typed error out.
func (r *Runtime) Process(program ed25519.PublicKey, accounts []*AccountInfo, data []byte) error {
	meter := &computeMeter{remaining: r.budget}
	return executeInstruction(r.registry, r.log, meter, program, accounts, data, 0, nil)
}

// Instruction is a convenience wrapper over Process that resolves the
// account list for a built solana.Instruction against the provided account
// set, applying the instruction's signer and writability flags.
func (r *Runtime) Instruction(instruction solana.Instruction, accounts map[string]*AccountInfo) error {
	resolved := make([]*AccountInfo, len(instruction.Accounts))
	for i, meta := range instruction.Accounts {
		account, ok := accounts[string(meta.PublicKey)]
		if !ok {
			return NewValidationError(i, ErrMissingAccount)
		}

		account.IsSigner = meta.IsSigner
		account.IsWritable = meta.IsWritable
		resolved[i] = account
	}

	return r.Process(instruction.Program, resolved, instruction.Data)
}

// executeInstruction runs a program against cloned account views and, when
// it succeeds and all post-conditions hold, writes the clones back in slot
// order. Shared by the top-level entry point and the cross-invocation
// gateway.
func executeInstruction(
	registry *Registry,
	log *logrus.Entry,
	meter *computeMeter,
	programID ed25519.PublicKey,
	accounts []*AccountInfo,
	data []byte,
	depth int,
	callers []ed25519.PublicKey,
) error {
	program, ok := registry.Lookup(programID)
	if !ok {
		return ErrUnknownProgram
	}

	seen := make(map[string]int)
	for slot, account := range accounts {
		if _, ok := seen[string(account.Key)]; ok {
			return NewValidationError(slot, ErrDuplicateAccount)
		}
		seen[string(account.Key)] = slot
	}

	if err := meter.consume(baseInstructionCost + perDataByteCost*uint64(len(data))); err != nil {
		return err
	}

	working := make([]*AccountInfo, len(accounts))
	baseline := make([]*AccountInfo, len(accounts))
	for i, account := range accounts {
		working[i] = account.Clone()
		baseline[i] = account.Clone()
	}

	ctx := &ExecutionContext{
		Program:  programID,
		Accounts: working,
		Data:     data,
		registry: registry,
		meter:    meter,
		depth:    depth,
		callers:  callers,
		baseline: baseline,
		log:      log.WithField("program", base58.Encode(programID)),
	}

	if err := program.Execute(ctx); err != nil {
		return err
	}

	if err := verifyPostConditions(programID, ctx.baseline, working); err != nil {
		return err
	}

	for i, account := range accounts {
		account.Lamports = working[i].Lamports
		account.Owner = working[i].Owner
		account.Data = working[i].Data
	}

	return nil
}

// verifyPostConditions enforces the runtime invariants a program cannot be
// trusted to uphold on its own: read-only accounts are untouched, data and
// ownership only change under the owning program, lamports are only spent
// by the owner, and the instruction is lamport-balanced overall.
func verifyPostConditions(programID ed25519.PublicKey, before, after []*AccountInfo) error {
	var lamportsBefore, lamportsAfter uint64
	var err error

	for slot := range before {
		pre, post := before[slot], after[slot]

		if !pre.IsWritable && !sameAccountState(pre, post) {
			return NewValidationError(slot, ErrReadonlyModified)
		}

		if !bytes.Equal(pre.Owner, post.Owner) && !pre.IsOwnedBy(programID) {
			return NewValidationError(slot, ErrOwnerModified)
		}
		if !bytes.Equal(pre.Data, post.Data) && !pre.IsOwnedBy(programID) {
			return NewValidationError(slot, ErrExternalDataModified)
		}
		if post.Lamports < pre.Lamports && !pre.IsOwnedBy(programID) {
			return NewValidationError(slot, ErrExternalLamportSpend)
		}

		lamportsBefore, err = CheckedAdd(lamportsBefore, pre.Lamports)
		if err != nil {
			return err
		}
		lamportsAfter, err = CheckedAdd(lamportsAfter, post.Lamports)
		if err != nil {
			return err
		}
	}

	if lamportsBefore != lamportsAfter {
		return ErrUnbalancedInstruction
	}

	return nil
}
