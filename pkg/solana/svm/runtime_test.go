package svm

import (
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testProgram struct {
	id      ed25519.PublicKey
	execute func(ctx *ExecutionContext) error
}

func (p *testProgram) ID() ed25519.PublicKey {
	return p.id
}

func (p *testProgram) Execute(ctx *ExecutionContext) error {
	return p.execute(ctx)
}

func generateKey(t *testing.T) ed25519.PublicKey {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return pub
}

func TestProcess_UnknownProgram(t *testing.T) {
	rt := NewRuntime(NewRegistry())

	err := rt.Process(generateKey(t), nil, nil)
	assert.True(t, errors.Is(err, ErrUnknownProgram))
}

func TestProcess_DuplicateAccounts(t *testing.T) {
	program := &testProgram{
		id: generateKey(t),
		execute: func(ctx *ExecutionContext) error {
			return nil
		},
	}
	rt := NewRuntime(NewRegistry(program))

	key := generateKey(t)
	accounts := []*AccountInfo{
		{Key: key, IsWritable: true},
		{Key: key, IsWritable: true},
	}

	err := rt.Process(program.id, accounts, nil)
	assert.True(t, errors.Is(err, ErrDuplicateAccount))

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, 1, validationErr.Slot)
}

func TestProcess_CommitsOnSuccess(t *testing.T) {
	programID := generateKey(t)
	program := &testProgram{
		id: programID,
		execute: func(ctx *ExecutionContext) error {
			from, _ := ctx.Account(0)
			to, _ := ctx.Account(1)

			from.Lamports -= 10
			to.Lamports += 10
			from.Data[0] = 42
			return nil
		},
	}
	rt := NewRuntime(NewRegistry(program))

	from := &AccountInfo{
		Key:        generateKey(t),
		Lamports:   100,
		Data:       make([]byte, 4),
		Owner:      programID,
		IsWritable: true,
	}
	to := &AccountInfo{
		Key:        generateKey(t),
		Lamports:   5,
		IsWritable: true,
	}

	require.NoError(t, rt.Process(programID, []*AccountInfo{from, to}, nil))
	assert.Equal(t, uint64(90), from.Lamports)
	assert.Equal(t, uint64(15), to.Lamports)
	assert.Equal(t, byte(42), from.Data[0])
}

func TestProcess_RollsBackOnFailure(t *testing.T) {
	programID := generateKey(t)
	failure := errors.New("handler failed")
	program := &testProgram{
		id: programID,
		execute: func(ctx *ExecutionContext) error {
			account, _ := ctx.Account(0)
			account.Lamports = 0
			account.Data[0] = 42
			return failure
		},
	}
	rt := NewRuntime(NewRegistry(program))

	account := &AccountInfo{
		Key:        generateKey(t),
		Lamports:   100,
		Data:       make([]byte, 4),
		Owner:      programID,
		IsWritable: true,
	}

	err := rt.Process(programID, []*AccountInfo{account}, nil)
	assert.True(t, errors.Is(err, failure))
	assert.Equal(t, uint64(100), account.Lamports)
	assert.Equal(t, byte(0), account.Data[0])
}

func TestProcess_ReadonlyModified(t *testing.T) {
	programID := generateKey(t)
	program := &testProgram{
		id: programID,
		execute: func(ctx *ExecutionContext) error {
			account, _ := ctx.Account(0)
			account.Data[0] = 1
			return nil
		},
	}
	rt := NewRuntime(NewRegistry(program))

	account := &AccountInfo{
		Key:   generateKey(t),
		Data:  make([]byte, 4),
		Owner: programID,
	}

	err := rt.Process(programID, []*AccountInfo{account}, nil)
	assert.True(t, errors.Is(err, ErrReadonlyModified))
	assert.Equal(t, byte(0), account.Data[0])
}

func TestProcess_ExternalDataModified(t *testing.T) {
	programID := generateKey(t)
	program := &testProgram{
		id: programID,
		execute: func(ctx *ExecutionContext) error {
			account, _ := ctx.Account(0)
			account.Data[0] = 1
			return nil
		},
	}
	rt := NewRuntime(NewRegistry(program))

	account := &AccountInfo{
		Key:        generateKey(t),
		Data:       make([]byte, 4),
		Owner:      generateKey(t),
		IsWritable: true,
	}

	err := rt.Process(programID, []*AccountInfo{account}, nil)
	assert.True(t, errors.Is(err, ErrExternalDataModified))
}

func TestProcess_ExternalLamportSpend(t *testing.T) {
	programID := generateKey(t)
	program := &testProgram{
		id: programID,
		execute: func(ctx *ExecutionContext) error {
			victim, _ := ctx.Account(0)
			beneficiary, _ := ctx.Account(1)

			victim.Lamports -= 50
			beneficiary.Lamports += 50
			return nil
		},
	}
	rt := NewRuntime(NewRegistry(program))

	victim := &AccountInfo{
		Key:        generateKey(t),
		Lamports:   100,
		Owner:      generateKey(t),
		IsWritable: true,
	}
	beneficiary := &AccountInfo{
		Key:        generateKey(t),
		Owner:      programID,
		IsWritable: true,
	}

	err := rt.Process(programID, []*AccountInfo{victim, beneficiary}, nil)
	assert.True(t, errors.Is(err, ErrExternalLamportSpend))
	assert.Equal(t, uint64(100), victim.Lamports)
	assert.Equal(t, uint64(0), beneficiary.Lamports)
}

func TestProcess_OwnerModified(t *testing.T) {
	programID := generateKey(t)
	program := &testProgram{
		id: programID,
		execute: func(ctx *ExecutionContext) error {
			account, _ := ctx.Account(0)
			account.Owner = ctx.Program
			return nil
		},
	}
	rt := NewRuntime(NewRegistry(program))

	originalOwner := generateKey(t)
	account := &AccountInfo{
		Key:        generateKey(t),
		Owner:      originalOwner,
		IsWritable: true,
	}

	err := rt.Process(programID, []*AccountInfo{account}, nil)
	assert.True(t, errors.Is(err, ErrOwnerModified))
	assert.Equal(t, originalOwner, account.Owner)
}

func TestProcess_UnbalancedInstruction(t *testing.T) {
	programID := generateKey(t)
	program := &testProgram{
		id: programID,
		execute: func(ctx *ExecutionContext) error {
			account, _ := ctx.Account(0)
			account.Lamports -= 10
			return nil
		},
	}
	rt := NewRuntime(NewRegistry(program))

	account := &AccountInfo{
		Key:        generateKey(t),
		Lamports:   100,
		Owner:      programID,
		IsWritable: true,
	}

	err := rt.Process(programID, []*AccountInfo{account}, nil)
	assert.True(t, errors.Is(err, ErrUnbalancedInstruction))
	assert.Equal(t, uint64(100), account.Lamports)
}

func TestProcess_ComputeBudget(t *testing.T) {
	programID := generateKey(t)
	program := &testProgram{
		id: programID,
		execute: func(ctx *ExecutionContext) error {
			return nil
		},
	}
	rt := NewRuntime(NewRegistry(program), WithComputeBudget(10))

	err := rt.Process(programID, nil, nil)
	assert.True(t, errors.Is(err, ErrComputeBudgetExceeded))
}

func TestProcess_ConsumeFromHandler(t *testing.T) {
	programID := generateKey(t)
	program := &testProgram{
		id: programID,
		execute: func(ctx *ExecutionContext) error {
			return ctx.Consume(1_000_000)
		},
	}
	rt := NewRuntime(NewRegistry(program))

	err := rt.Process(programID, nil, nil)
	assert.True(t, errors.Is(err, ErrComputeBudgetExceeded))
}

func TestProcess_Logs(t *testing.T) {
	programID := generateKey(t)
	var captured []string
	program := &testProgram{
		id: programID,
		execute: func(ctx *ExecutionContext) error {
			ctx.Log("hello %s", "world")
			captured = ctx.Logs()
			return nil
		},
	}
	rt := NewRuntime(NewRegistry(program))

	require.NoError(t, rt.Process(programID, nil, nil))
	assert.Equal(t, []string{"hello world"}, captured)
}
