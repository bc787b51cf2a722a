package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestAuthority(t *testing.T) {
	c, bump := Authority()
	if !ledger.IsProgramAddress(c, ProgramName) {
		t.Fatalf("authority %s is not derived by the escrow program", c)
	}

	again, err := deriveAuthority(uint32(bump))
	assert.Nil(t, err)
	assert.Equal(t, c, again)

	found, foundBump, err := ledger.FindProgramAddress("escrow", []byte("escrow"))
	assert.Nil(t, err)
	assert.Equal(t, c, found)
	assert.Equal(t, bump, foundBump)

	_, err = deriveAuthority(256)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestVaultDerivation(t *testing.T) {
	v1, bump, err := FindVault([]byte("first"))
	assert.Nil(t, err)
	again, err := VaultAddress([]byte("first"), bump)
	assert.Nil(t, err)
	assert.Equal(t, v1, again)

	v2, _, err := FindVault([]byte("second"))
	assert.Nil(t, err)
	if v1.Equals(v2) {
		t.Fatal("different seeds must derive different vaults")
	}

	// A vault never shares the address of the authority.
	c, _ := Authority()
	if v1.Equals(c.Address()) {
		t.Fatal("vault derived at the authority address")
	}

	_, _, err = FindVault(make([]byte, ledger.MaxSeedLength+1))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestAuthenticate(t *testing.T) {
	var auth Authenticate
	c, _ := Authority()

	ctx := context.Background()
	assert.Equal(t, 0, len(auth.GetConditions(ctx)))
	assert.Equal(t, false, auth.HasAddress(ctx, c.Address()))

	ctx = withAuthority(ctx)
	assert.Equal(t, []ledger.Condition{c}, auth.GetConditions(ctx))
	assert.Equal(t, true, auth.HasAddress(ctx, c.Address()))
}
