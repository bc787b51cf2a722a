package escrow

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x"
)

// ProgramName is the extension name of all conditions derived by this
// package.
const ProgramName = "escrow"

var (
	authoritySeed = []byte("escrow")
	vaultSeed     = []byte("token-seed")
)

var authority, authorityBump = mustFindAuthority()

func mustFindAuthority() (ledger.Condition, uint8) {
	c, bump, err := ledger.FindProgramAddress(ProgramName, authoritySeed)
	if err != nil {
		panic(err)
	}
	return c, bump
}

// Authority returns the condition owning every vault together with the bump
// that derives it.
func Authority() (ledger.Condition, uint8) {
	return authority, authorityBump
}

// deriveAuthority recomputes the authority from a stored bump.
func deriveAuthority(bump uint32) (ledger.Condition, error) {
	if bump > 255 {
		return nil, errors.Wrapf(errors.ErrInput, "invalid bump %d", bump)
	}
	return ledger.CreateProgramAddress(ProgramName, uint8(bump), authoritySeed)
}

// VaultAddress returns the address of the vault derived from seed and bump.
func VaultAddress(seed []byte, bump uint8) (ledger.Address, error) {
	c, err := ledger.CreateProgramAddress(ProgramName, bump, vaultSeed, seed)
	if err != nil {
		return nil, err
	}
	return c.Address(), nil
}

// FindVault returns the vault address for the seed and the bump that must be
// declared when initializing an escrow with it.
func FindVault(seed []byte) (ledger.Address, uint8, error) {
	c, bump, err := ledger.FindProgramAddress(ProgramName, vaultSeed, seed)
	if err != nil {
		return nil, 0, err
	}
	return c.Address(), bump, nil
}

type contextKey int

const contextKeyAuthority contextKey = iota

// withAuthority returns a context in which the vault authority is
// authenticated.
func withAuthority(ctx ledger.Context) ledger.Context {
	return context.WithValue(ctx, contextKeyAuthority, authority)
}

// Authenticate reports the vault authority while an escrow handler acts on
// a vault. Chain it with the signature authenticator of the token
// controller used by this package.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetConditions(ctx ledger.Context) []ledger.Condition {
	c, ok := ctx.Value(contextKeyAuthority).(ledger.Condition)
	if !ok {
		return nil
	}
	return []ledger.Condition{c}
}

func (a Authenticate) HasAddress(ctx ledger.Context, addr ledger.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
