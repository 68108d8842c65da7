package echo

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/code-payments/echo-program/pkg/solana"
)

const (
	authoritySeedPrefix      = "authority"
	vendingMachineSeedPrefix = "vending_machine"
)

// GetAuthorizedBufferAddress derives the program address for an authorized
// buffer from its authority and buffer seed.
func GetAuthorizedBufferAddress(authority ed25519.PublicKey, bufferSeed uint64) (ed25519.PublicKey, uint8, error) {
	seed := make([]byte, 8)
	binary.LittleEndian.PutUint64(seed, bufferSeed)

	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		[]byte(authoritySeedPrefix),
		authority,
		seed,
	)
}

// GetVendingMachineAddress derives the program address for a vending
// machine buffer from its mint and price.
func GetVendingMachineAddress(mint ed25519.PublicKey, price uint64) (ed25519.PublicKey, uint8, error) {
	priceSeed := make([]byte, 8)
	binary.LittleEndian.PutUint64(priceSeed, price)

	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		[]byte(vendingMachineSeedPrefix),
		mint,
		priceSeed,
	)
}

func createAuthorizedBufferAddress(authority ed25519.PublicKey, bufferSeed uint64, bump uint8) (ed25519.PublicKey, error) {
	seed := make([]byte, 8)
	binary.LittleEndian.PutUint64(seed, bufferSeed)

	return solana.CreateProgramAddress(
		PROGRAM_ID,
		[]byte(authoritySeedPrefix),
		authority,
		seed,
		[]byte{bump},
	)
}

func createVendingMachineAddress(mint ed25519.PublicKey, price uint64, bump uint8) (ed25519.PublicKey, error) {
	priceSeed := make([]byte, 8)
	binary.LittleEndian.PutUint64(priceSeed, price)

	return solana.CreateProgramAddress(
		PROGRAM_ID,
		[]byte(vendingMachineSeedPrefix),
		mint,
		priceSeed,
		[]byte{bump},
	)
}

func authorizedBufferSeeds(authority ed25519.PublicKey, bufferSeed uint64, bump uint8) [][]byte {
	seed := make([]byte, 8)
	binary.LittleEndian.PutUint64(seed, bufferSeed)

	return [][]byte{
		[]byte(authoritySeedPrefix),
		authority,
		seed,
		{bump},
	}
}

func vendingMachineSeeds(mint ed25519.PublicKey, price uint64, bump uint8) [][]byte {
	priceSeed := make([]byte, 8)
	binary.LittleEndian.PutUint64(priceSeed, price)

	return [][]byte{
		[]byte(vendingMachineSeedPrefix),
		mint,
		priceSeed,
		{bump},
	}
}
