// Package binary provides fixed-offset cursor helpers for the account and
// instruction codecs. All integers are little-endian and all layouts are
// fixed; there is no reflection and no self-describing encoding.
package binary

import (
	"crypto/ed25519"
	"encoding/binary"
)

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[*offset] = v
	*offset += 1
}

func GetUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[*offset]
	*offset += 1
}

func PutUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst[*offset:], v)
	*offset += 4
}

func GetUint32(src []byte, dst *uint32, offset *int) {
	*dst = binary.LittleEndian.Uint32(src[*offset:])
	*offset += 4
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}

func GetUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
}

func PutKey32(dst []byte, src ed25519.PublicKey, offset *int) {
	copy(dst[*offset:], src)
	*offset += ed25519.PublicKeySize
}

func GetKey32(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:])
	*offset += ed25519.PublicKeySize
}

func PutOptionalKey32(dst []byte, src ed25519.PublicKey, offset *int, optionSize int) {
	if len(src) > 0 {
		dst[*offset] = 1
		copy(dst[*offset+optionSize:], src)
	}
	*offset += optionSize + ed25519.PublicKeySize
}

func GetOptionalKey32(src []byte, dst *ed25519.PublicKey, offset *int, optionSize int) {
	if src[*offset] == 1 {
		*dst = make([]byte, ed25519.PublicKeySize)
		copy(*dst, src[*offset+optionSize:])
	}
	*offset += optionSize + ed25519.PublicKeySize
}

func PutOptionalUint64(dst []byte, v *uint64, offset *int, optionSize int) {
	if v != nil {
		dst[*offset] = 1
		binary.LittleEndian.PutUint64(dst[*offset+optionSize:], *v)
	}
	*offset += optionSize + 8
}

func GetOptionalUint64(src []byte, dst **uint64, offset *int, optionSize int) {
	if src[*offset] == 1 {
		val := binary.LittleEndian.Uint64(src[*offset+optionSize:])
		*dst = &val
	}
	*offset += optionSize + 8
}

func PutData(dst []byte, src []byte, offset *int) {
	copy(dst[*offset:], src)
	*offset += len(src)
}

func GetData(src []byte, length int, offset *int) []byte {
	dst := make([]byte, length)
	copy(dst, src[*offset:*offset+length])
	*offset += length
	return dst
}
