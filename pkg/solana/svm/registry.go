package svm

import (
	"crypto/ed25519"
)

// Program is a processor for one on-chain program identity. Execute is the
// single entry point: it receives the invocation context and returns a typed
// error on any failure. Implementations must be stateless between calls;
// all state lives in the account buffers.
type Program interface {
	ID() ed25519.PublicKey
	Execute(ctx *ExecutionContext) error
}

// Registry maps program identities to their processors.
type Registry struct {
	programs map[string]Program
}

func NewRegistry(programs ...Program) *Registry {
	r := &Registry{
		programs: make(map[string]Program),
	}
	for _, p := range programs {
		r.Register(p)
	}
	return r
}

func (r *Registry) Register(p Program) {
	r.programs[string(p.ID())] = p
}

func (r *Registry) Lookup(id ed25519.PublicKey) (Program, bool) {
	p, ok := r.programs[string(id)]
	return p, ok
}
