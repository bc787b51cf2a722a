package x

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Authenticator extracts authentication info from the context. Handlers
// receive one in their constructor so that the signature checks of x/sigs
// and the vault authority of x/escrow can be combined.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled.
	GetConditions(ledger.Context) []ledger.Condition
	// HasAddress checks if any condition matches this address.
	HasAddress(ledger.Context, ledger.Address) bool
}

// MultiAuth chains together many Authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators, in the
// order the Authenticators were chained.
func (m MultiAuth) GetConditions(ctx ledger.Context) []ledger.Condition {
	var res []ledger.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress returns true iff any Authenticator accepts the address.
func (m MultiAuth) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// RequireSigner returns ErrUnauthorized unless addr is authenticated. Role
// names the party in the error message, for example "initializer".
func RequireSigner(ctx ledger.Context, auth Authenticator, addr ledger.Address, role string) error {
	if addr == nil {
		return errors.Wrapf(errors.ErrUnauthorized, "%s address missing", role)
	}
	if !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s signature required", role)
	}
	return nil
}
