package echo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/echo-program/pkg/solana/svm"
)

func TestGetInstructionType(t *testing.T) {
	instructionType, err := getInstructionType([]byte{byte(InstructionTypeAuthorizedEcho)})
	require.NoError(t, err)
	assert.Equal(t, InstructionTypeAuthorizedEcho, instructionType)

	_, err = getInstructionType(nil)
	assert.Error(t, err)

	_, err = getInstructionType([]byte{0xff})
	assert.True(t, errors.Is(err, ErrInvalidInstructionData))

	var decodeErr *svm.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestEchoInstructionRoundTrip(t *testing.T) {
	buffer := generateKey(t)
	instruction := NewEchoInstruction(
		&EchoInstructionAccounts{EchoBuffer: buffer},
		&EchoInstructionArgs{Data: []byte("hello")},
	)

	assert.Equal(t, PROGRAM_ID, instruction.Program)
	require.Len(t, instruction.Accounts, 1)
	assert.Equal(t, buffer, instruction.Accounts[0].PublicKey)
	assert.False(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)

	args, err := EchoInstructionFromBinary(instruction.Data)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), args.Data)

	// trailing bytes past the declared length are rejected
	_, err = EchoInstructionFromBinary(append(instruction.Data, 0))
	assert.True(t, errors.Is(err, ErrInvalidInstructionData))

	// wrong tag
	_, err = AuthorizedEchoInstructionFromBinary(instruction.Data)
	assert.True(t, errors.Is(err, ErrInvalidInstructionData))
}

func TestInitializeAuthorizedEchoInstructionRoundTrip(t *testing.T) {
	accounts := &InitializeAuthorizedEchoInstructionAccounts{
		AuthorizedBuffer: generateKey(t),
		Authority:        generateKey(t),
	}
	instruction := NewInitializeAuthorizedEchoInstruction(
		accounts,
		&InitializeAuthorizedEchoInstructionArgs{BufferSeed: 42, BufferSize: 128},
	)

	require.Len(t, instruction.Accounts, 3)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.True(t, instruction.Accounts[1].IsSigner)
	assert.True(t, instruction.Accounts[1].IsWritable)
	assert.False(t, instruction.Accounts[2].IsSigner)
	assert.False(t, instruction.Accounts[2].IsWritable)

	args, err := InitializeAuthorizedEchoInstructionFromBinary(instruction.Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), args.BufferSeed)
	assert.Equal(t, uint32(128), args.BufferSize)

	_, err = InitializeAuthorizedEchoInstructionFromBinary(instruction.Data[:len(instruction.Data)-1])
	assert.True(t, errors.Is(err, ErrInvalidInstructionData))
}

func TestAuthorizedEchoInstructionRoundTrip(t *testing.T) {
	accounts := &AuthorizedEchoInstructionAccounts{
		AuthorizedBuffer: generateKey(t),
		Authority:        generateKey(t),
	}
	instruction := NewAuthorizedEchoInstruction(
		accounts,
		&AuthorizedEchoInstructionArgs{Sequence: 9, Data: []byte("abc")},
	)

	require.Len(t, instruction.Accounts, 2)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.True(t, instruction.Accounts[1].IsSigner)
	assert.False(t, instruction.Accounts[1].IsWritable)

	args, err := AuthorizedEchoInstructionFromBinary(instruction.Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), args.Sequence)
	assert.Equal(t, []byte("abc"), args.Data)
}

func TestInitializeVendingMachineEchoInstructionRoundTrip(t *testing.T) {
	accounts := &InitializeVendingMachineEchoInstructionAccounts{
		VendingMachineBuffer: generateKey(t),
		Mint:                 generateKey(t),
		Payer:                generateKey(t),
	}
	instruction := NewInitializeVendingMachineEchoInstruction(
		accounts,
		&InitializeVendingMachineEchoInstructionArgs{Price: 1000, BufferSize: 256},
	)

	require.Len(t, instruction.Accounts, 4)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[1].IsWritable)
	assert.True(t, instruction.Accounts[2].IsSigner)

	args, err := InitializeVendingMachineEchoInstructionFromBinary(instruction.Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), args.Price)
	assert.Equal(t, uint32(256), args.BufferSize)
}

func TestVendingMachineEchoInstructionRoundTrip(t *testing.T) {
	accounts := &VendingMachineEchoInstructionAccounts{
		VendingMachineBuffer: generateKey(t),
		User:                 generateKey(t),
		UserTokenAccount:     generateKey(t),
		Mint:                 generateKey(t),
	}
	instruction := NewVendingMachineEchoInstruction(
		accounts,
		&VendingMachineEchoInstructionArgs{Sequence: 2, Data: []byte("vend")},
	)

	require.Len(t, instruction.Accounts, 5)
	assert.True(t, instruction.Accounts[1].IsSigner)

	args, err := VendingMachineEchoInstructionFromBinary(instruction.Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), args.Sequence)
	assert.Equal(t, []byte("vend"), args.Data)

	// declared length shorter than the payload
	_, err = VendingMachineEchoInstructionFromBinary(append(instruction.Data, 0))
	assert.True(t, errors.Is(err, ErrInvalidInstructionData))
}

func TestCloseAuthorizedBufferInstructionRoundTrip(t *testing.T) {
	accounts := &CloseAuthorizedBufferInstructionAccounts{
		AuthorizedBuffer: generateKey(t),
		Authority:        generateKey(t),
		Destination:      generateKey(t),
	}
	instruction := NewCloseAuthorizedBufferInstruction(accounts)

	require.Len(t, instruction.Accounts, 3)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.True(t, instruction.Accounts[1].IsSigner)
	assert.True(t, instruction.Accounts[2].IsWritable)

	require.NoError(t, CloseAuthorizedBufferInstructionFromBinary(instruction.Data))
	assert.Error(t, CloseAuthorizedBufferInstructionFromBinary(append(instruction.Data, 0)))
}
