package echo

import (
	"crypto/ed25519"

	"github.com/code-payments/echo-program/pkg/solana/binary"
	"github.com/code-payments/echo-program/pkg/solana/svm"
)

// StateDiscriminant tags which variant a buffer account holds. The
// discriminant is the first byte of the account data and, once set by an
// initialize transition, never changes.
type StateDiscriminant uint8

const (
	StateUninitialized StateDiscriminant = iota
	StateEchoBuffer
	StateAuthorizedBuffer
	StateVendingMachineBuffer
)

func (s StateDiscriminant) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateEchoBuffer:
		return "echo_buffer"
	case StateAuthorizedBuffer:
		return "authorized_buffer"
	case StateVendingMachineBuffer:
		return "vending_machine_buffer"
	}
	return "unknown"
}

// StateVersion is the current layout version for all buffer variants. A
// layout change requires a new version (or a new discriminant) plus an
// explicit migration transition.
const StateVersion = 1

const (
	EchoBufferHeaderSize = (1 + // discriminant
		1 + // version
		4) // data_len

	AuthorizedBufferHeaderSize = (1 + // discriminant
		1 + // version
		1 + // bump
		8 + // buffer_seed
		8 + // sequence
		4) // data_len

	VendingMachineBufferHeaderSize = (1 + // discriminant
		1 + // version
		1 + // bump
		8 + // price
		32 + // mint
		8 + // sequence
		4) // data_len
)

// PeekDiscriminant reads the discriminant of a raw account buffer without
// decoding the rest. Empty buffers are uninitialized by definition.
func PeekDiscriminant(data []byte) StateDiscriminant {
	if len(data) == 0 {
		return StateUninitialized
	}
	return StateDiscriminant(data[0])
}

// EchoBuffer is a write-once buffer. The first Echo instruction against a
// zeroed account claims it; there is no authority and no way to write again.
type EchoBuffer struct {
	Data []byte
}

func (b *EchoBuffer) Marshal() []byte {
	data := make([]byte, EchoBufferHeaderSize+len(b.Data))

	var offset int
	binary.PutUint8(data, uint8(StateEchoBuffer), &offset)
	binary.PutUint8(data, StateVersion, &offset)
	binary.PutUint32(data, uint32(len(b.Data)), &offset)
	binary.PutData(data, b.Data, &offset)

	return data
}

func (b *EchoBuffer) Unmarshal(data []byte) error {
	if len(data) < EchoBufferHeaderSize {
		return svm.NewDecodeError(ErrInvalidAccountData)
	}

	var offset int
	var discriminant, version uint8
	var dataLen uint32

	binary.GetUint8(data, &discriminant, &offset)
	if StateDiscriminant(discriminant) != StateEchoBuffer {
		return svm.NewDecodeError(svm.ErrInvalidDiscriminant)
	}
	binary.GetUint8(data, &version, &offset)
	if version != StateVersion {
		return svm.NewDecodeError(ErrInvalidAccountData)
	}

	binary.GetUint32(data, &dataLen, &offset)
	if int(dataLen) > len(data)-offset {
		return svm.NewDecodeError(ErrInvalidAccountData)
	}
	b.Data = binary.GetData(data, int(dataLen), &offset)

	return nil
}

// AuthorizedBuffer is an echo buffer at a program derived address. Only the
// authority whose key is part of the derivation may write to it, and every
// write must cite the buffer's current sequence number.
type AuthorizedBuffer struct {
	Bump       uint8
	BufferSeed uint64
	Sequence   uint64
	Data       []byte
}

func (b *AuthorizedBuffer) Marshal() []byte {
	data := make([]byte, AuthorizedBufferHeaderSize+len(b.Data))

	var offset int
	binary.PutUint8(data, uint8(StateAuthorizedBuffer), &offset)
	binary.PutUint8(data, StateVersion, &offset)
	binary.PutUint8(data, b.Bump, &offset)
	binary.PutUint64(data, b.BufferSeed, &offset)
	binary.PutUint64(data, b.Sequence, &offset)
	binary.PutUint32(data, uint32(len(b.Data)), &offset)
	binary.PutData(data, b.Data, &offset)

	return data
}

func (b *AuthorizedBuffer) Unmarshal(data []byte) error {
	if len(data) < AuthorizedBufferHeaderSize {
		return svm.NewDecodeError(ErrInvalidAccountData)
	}

	var offset int
	var discriminant, version uint8
	var dataLen uint32

	binary.GetUint8(data, &discriminant, &offset)
	if StateDiscriminant(discriminant) != StateAuthorizedBuffer {
		return svm.NewDecodeError(svm.ErrInvalidDiscriminant)
	}
	binary.GetUint8(data, &version, &offset)
	if version != StateVersion {
		return svm.NewDecodeError(ErrInvalidAccountData)
	}

	binary.GetUint8(data, &b.Bump, &offset)
	binary.GetUint64(data, &b.BufferSeed, &offset)
	binary.GetUint64(data, &b.Sequence, &offset)

	binary.GetUint32(data, &dataLen, &offset)
	if int(dataLen) > len(data)-offset {
		return svm.NewDecodeError(ErrInvalidAccountData)
	}
	b.Data = binary.GetData(data, int(dataLen), &offset)

	return nil
}

// VendingMachineBuffer is an echo buffer anyone can write to, provided they
// burn the configured price of the configured mint per write. Writes cite
// the current sequence number.
type VendingMachineBuffer struct {
	Bump     uint8
	Price    uint64
	Mint     ed25519.PublicKey
	Sequence uint64
	Data     []byte
}

func (b *VendingMachineBuffer) Marshal() []byte {
	data := make([]byte, VendingMachineBufferHeaderSize+len(b.Data))

	var offset int
	binary.PutUint8(data, uint8(StateVendingMachineBuffer), &offset)
	binary.PutUint8(data, StateVersion, &offset)
	binary.PutUint8(data, b.Bump, &offset)
	binary.PutUint64(data, b.Price, &offset)
	binary.PutKey32(data, b.Mint, &offset)
	binary.PutUint64(data, b.Sequence, &offset)
	binary.PutUint32(data, uint32(len(b.Data)), &offset)
	binary.PutData(data, b.Data, &offset)

	return data
}

func (b *VendingMachineBuffer) Unmarshal(data []byte) error {
	if len(data) < VendingMachineBufferHeaderSize {
		return svm.NewDecodeError(ErrInvalidAccountData)
	}

	var offset int
	var discriminant, version uint8
	var dataLen uint32

	binary.GetUint8(data, &discriminant, &offset)
	if StateDiscriminant(discriminant) != StateVendingMachineBuffer {
		return svm.NewDecodeError(svm.ErrInvalidDiscriminant)
	}
	binary.GetUint8(data, &version, &offset)
	if version != StateVersion {
		return svm.NewDecodeError(ErrInvalidAccountData)
	}

	binary.GetUint8(data, &b.Bump, &offset)
	binary.GetUint64(data, &b.Price, &offset)
	binary.GetKey32(data, &b.Mint, &offset)
	binary.GetUint64(data, &b.Sequence, &offset)

	binary.GetUint32(data, &dataLen, &offset)
	if int(dataLen) > len(data)-offset {
		return svm.NewDecodeError(ErrInvalidAccountData)
	}
	b.Data = binary.GetData(data, int(dataLen), &offset)

	return nil
}
