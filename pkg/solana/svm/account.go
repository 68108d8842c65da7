package svm

import (
	"bytes"
	"crypto/ed25519"
)

// AccountInfo is the view of one account handed to a program for a single
// invocation. The runtime owns the backing storage; a program must never
// retain an AccountInfo across invocations. Only the serialized bytes
// persist.
type AccountInfo struct {
	Key        ed25519.PublicKey
	Lamports   uint64
	Data       []byte
	Owner      ed25519.PublicKey
	IsSigner   bool
	IsWritable bool
}

// Clone creates a deep copy of the account view.
func (a *AccountInfo) Clone() *AccountInfo {
	if a == nil {
		return nil
	}

	clone := &AccountInfo{
		Key:        a.Key,
		Lamports:   a.Lamports,
		Owner:      a.Owner,
		IsSigner:   a.IsSigner,
		IsWritable: a.IsWritable,
	}
	if a.Data != nil {
		clone.Data = make([]byte, len(a.Data))
		copy(clone.Data, a.Data)
	}
	return clone
}

// IsOwnedBy reports whether the account is owned by the provided program.
func (a *AccountInfo) IsOwnedBy(program ed25519.PublicKey) bool {
	return bytes.Equal(a.Owner, program)
}

// DataLen returns the size of the account's data buffer.
func (a *AccountInfo) DataLen() int {
	return len(a.Data)
}

// RentExemptMinimum returns the minimum balance required for an account of
// the given data size to be exempt from rent collection. Rent enforcement
// itself is a runtime precondition, not applied here.
func RentExemptMinimum(dataSize uint64) uint64 {
	const (
		lamportsPerByteYear = 3480
		exemptionThreshold  = 2
		accountOverhead     = 128
	)
	return (dataSize + accountOverhead) * lamportsPerByteYear * exemptionThreshold
}

func sameAccountState(a, b *AccountInfo) bool {
	return a.Lamports == b.Lamports &&
		bytes.Equal(a.Owner, b.Owner) &&
		bytes.Equal(a.Data, b.Data)
}
