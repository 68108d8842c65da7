package system

import (
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/echo-program/pkg/solana"
	"github.com/code-payments/echo-program/pkg/solana/svm"
)

func generateKey(t *testing.T) ed25519.PublicKey {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return pub
}

func process(t *testing.T, instruction solana.Instruction, accounts ...*svm.AccountInfo) error {
	rt := svm.NewRuntime(svm.NewRegistry(NewProcessor()))

	resolved := make(map[string]*svm.AccountInfo)
	for _, account := range accounts {
		resolved[string(account.Key)] = account
	}
	return rt.Instruction(instruction, resolved)
}

func TestCreateAccount(t *testing.T) {
	funder := &svm.AccountInfo{
		Key:      generateKey(t),
		Lamports: 1000,
		Owner:    ProgramKey,
	}
	account := &svm.AccountInfo{
		Key:   generateKey(t),
		Owner: ProgramKey,
	}
	owner := generateKey(t)

	err := process(t, CreateAccount(funder.Key, account.Key, owner, 600, 32), funder, account)
	require.NoError(t, err)

	assert.Equal(t, uint64(400), funder.Lamports)
	assert.Equal(t, uint64(600), account.Lamports)
	assert.Equal(t, 32, account.DataLen())
	assert.Equal(t, owner, account.Owner)
}

func TestCreateAccount_AlreadyInUse(t *testing.T) {
	funder := &svm.AccountInfo{
		Key:      generateKey(t),
		Lamports: 1000,
		Owner:    ProgramKey,
	}
	account := &svm.AccountInfo{
		Key:   generateKey(t),
		Data:  make([]byte, 8),
		Owner: ProgramKey,
	}

	err := process(t, CreateAccount(funder.Key, account.Key, generateKey(t), 600, 32), funder, account)
	assert.True(t, errors.Is(err, ErrAccountAlreadyInUse))
	assert.Equal(t, uint64(1000), funder.Lamports)
}

func TestCreateAccount_InsufficientFunds(t *testing.T) {
	funder := &svm.AccountInfo{
		Key:      generateKey(t),
		Lamports: 100,
		Owner:    ProgramKey,
	}
	account := &svm.AccountInfo{
		Key:   generateKey(t),
		Owner: ProgramKey,
	}

	err := process(t, CreateAccount(funder.Key, account.Key, generateKey(t), 600, 32), funder, account)
	assert.True(t, errors.Is(err, ErrResultWithNegativeFunds))
}

func TestCreateAccount_MissingSignature(t *testing.T) {
	funder := &svm.AccountInfo{
		Key:      generateKey(t),
		Lamports: 1000,
		Owner:    ProgramKey,
	}
	account := &svm.AccountInfo{
		Key:   generateKey(t),
		Owner: ProgramKey,
	}

	instruction := CreateAccount(funder.Key, account.Key, generateKey(t), 600, 32)
	instruction.Accounts[0].IsSigner = false

	err := process(t, instruction, funder, account)
	assert.True(t, errors.Is(err, svm.ErrMissingSignature))

	var validationErr *svm.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, 0, validationErr.Slot)
}

func TestCreateAccount_DataTooLarge(t *testing.T) {
	funder := &svm.AccountInfo{
		Key:      generateKey(t),
		Lamports: 1000,
		Owner:    ProgramKey,
	}
	account := &svm.AccountInfo{
		Key:   generateKey(t),
		Owner: ProgramKey,
	}

	err := process(t, CreateAccount(funder.Key, account.Key, generateKey(t), 600, MaxPermittedDataLength+1), funder, account)
	assert.True(t, errors.Is(err, ErrInvalidDataLength))
}

func TestAssign(t *testing.T) {
	account := &svm.AccountInfo{
		Key:   generateKey(t),
		Owner: ProgramKey,
	}
	owner := generateKey(t)

	err := process(t, Assign(account.Key, owner), account)
	require.NoError(t, err)
	assert.Equal(t, owner, account.Owner)
}

func TestAssign_NotSystemOwned(t *testing.T) {
	account := &svm.AccountInfo{
		Key:   generateKey(t),
		Owner: generateKey(t),
	}

	err := process(t, Assign(account.Key, generateKey(t)), account)
	assert.True(t, errors.Is(err, svm.ErrIllegalOwner))
}

func TestTransfer(t *testing.T) {
	from := &svm.AccountInfo{
		Key:      generateKey(t),
		Lamports: 1000,
		Owner:    ProgramKey,
	}
	to := &svm.AccountInfo{
		Key:      generateKey(t),
		Lamports: 50,
		Owner:    ProgramKey,
	}

	err := process(t, Transfer(from.Key, to.Key, 300), from, to)
	require.NoError(t, err)
	assert.Equal(t, uint64(700), from.Lamports)
	assert.Equal(t, uint64(350), to.Lamports)
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	from := &svm.AccountInfo{
		Key:      generateKey(t),
		Lamports: 100,
		Owner:    ProgramKey,
	}
	to := &svm.AccountInfo{
		Key:   generateKey(t),
		Owner: ProgramKey,
	}

	err := process(t, Transfer(from.Key, to.Key, 300), from, to)
	assert.True(t, errors.Is(err, ErrResultWithNegativeFunds))
	assert.Equal(t, uint64(100), from.Lamports)
	assert.Equal(t, uint64(0), to.Lamports)
}

func TestAllocate(t *testing.T) {
	account := &svm.AccountInfo{
		Key:   generateKey(t),
		Owner: ProgramKey,
	}

	err := process(t, Allocate(account.Key, 128), account)
	require.NoError(t, err)
	assert.Equal(t, 128, account.DataLen())
}

func TestExecute_UnknownCommand(t *testing.T) {
	account := &svm.AccountInfo{
		Key:   generateKey(t),
		Owner: ProgramKey,
	}

	instruction := solana.NewInstruction(
		ProgramKey,
		[]byte{0xff, 0xff, 0xff, 0xff},
		solana.NewAccountMeta(account.Key, true),
	)

	err := process(t, instruction, account)
	assert.True(t, errors.Is(err, ErrInvalidInstructionFormat))

	var decodeErr *svm.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}
