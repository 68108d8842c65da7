// Package echo implements the Echo program: write-once echo buffers,
// authority-gated echo buffers at program derived addresses, and vending
// machine buffers that charge a token burn per echo.
package echo

import (
	"crypto/ed25519"
	"errors"

	"github.com/code-payments/echo-program/pkg/solana"
)

var (
	ErrInvalidProgram         = errors.New("invalid program id")
	ErrInvalidAccountData     = errors.New("unexpected account data")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")

	ErrNonZeroData             = errors.New("echo buffer has non-zero data")
	ErrInvalidAuthority        = errors.New("invalid authority")
	ErrInvalidAuthorizedBuffer = errors.New("invalid authorized buffer address")
	ErrInvalidVendingMachine   = errors.New("invalid vending machine address")
	ErrMintMismatch            = errors.New("vending machine mint mismatch")
	ErrBufferTooSmall          = errors.New("buffer too small for header")
)

var (
	PROGRAM_ADDRESS = solana.MustPublicKeyFromBase58("echoSJ8oVFCZgbSpBsKBNkSQtAdCFy64CJsYhSWpqSv")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)
