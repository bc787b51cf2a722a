package sigs

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is private, as only this module can add a signer.
func withSigners(ctx ledger.Context, signers []ledger.Condition) ledger.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate exposes the conditions of verified signatures.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the conditions of everyone who signed the current
// transaction. May be empty.
func (Authenticate) GetConditions(ctx ledger.Context) []ledger.Condition {
	val, _ := ctx.Value(contextKeySigners).([]ledger.Condition)
	return val
}

// HasAddress returns true if the address signed the current transaction.
func (a Authenticate) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
