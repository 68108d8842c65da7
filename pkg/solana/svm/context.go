package svm

import (
	"crypto/ed25519"
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	maxLogMessages      = 64
	maxLogMessageLength = 10000
)

// computeMeter tracks the deterministic resource budget for one top-level
// instruction. Sub-calls draw from the same meter.
type computeMeter struct {
	remaining uint64
}

func (m *computeMeter) consume(units uint64) error {
	if units > m.remaining {
		m.remaining = 0
		return ErrComputeBudgetExceeded
	}
	m.remaining -= units
	return nil
}

// ExecutionContext is the per-invocation view a program executes against:
// its own identity, the ordered account list, and the raw instruction data.
// Contexts are created by the runtime and live for exactly one invocation.
type ExecutionContext struct {
	Program  ed25519.PublicKey
	Accounts []*AccountInfo
	Data     []byte

	registry *Registry
	meter    *computeMeter
	depth    int
	callers  []ed25519.PublicKey

	// baseline is the state the post-condition checks compare against. It
	// starts as a snapshot of the accounts at entry and advances past the
	// effects of each successful sub-call, which were already verified at
	// the sub-call's own level.
	baseline []*AccountInfo

	log      *logrus.Entry
	messages []string
}

// Account returns the account at the given instruction slot. An index past
// the end of the provided accounts is a ValidationError on that slot.
func (c *ExecutionContext) Account(index int) (*AccountInfo, error) {
	if index >= len(c.Accounts) {
		return nil, NewValidationError(index, ErrNotEnoughAccounts)
	}
	return c.Accounts[index], nil
}

// AccountCount returns the number of accounts supplied by the caller.
func (c *ExecutionContext) AccountCount() int {
	return len(c.Accounts)
}

// Consume deducts units from the invocation's compute budget.
func (c *ExecutionContext) Consume(units uint64) error {
	return c.meter.consume(units)
}

// Log records a bounded program log line. Logs are observability only and
// never part of committed state.
func (c *ExecutionContext) Log(format string, args ...interface{}) {
	if len(c.messages) >= maxLogMessages {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if len(msg) > maxLogMessageLength {
		msg = msg[:maxLogMessageLength]
	}

	c.messages = append(c.messages, msg)
	c.log.Debug(msg)
}

// Logs returns the program log for the invocation so far.
func (c *ExecutionContext) Logs() []string {
	return c.messages
}
