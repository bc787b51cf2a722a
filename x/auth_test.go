package x

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestChainAuth(t *testing.T) {
	initializer := ledgertest.NewCondition()
	taker := ledgertest.NewCondition()
	vault := ledgertest.NewCondition()

	escrowCtx := &ledgertest.CtxAuth{Key: "escrow"}
	otherCtx := &ledgertest.CtxAuth{Key: "other"}

	cases := map[string]struct {
		ctx          ledger.Context
		auth         Authenticator
		wantAll      []ledger.Condition
		wantNotInCtx ledger.Condition
	}{
		"no signers": {
			ctx:          context.Background(),
			auth:         ChainAuth(),
			wantNotInCtx: initializer,
		},
		"single signer": {
			ctx:          context.Background(),
			auth:         ChainAuth(&ledgertest.Auth{Signer: taker}),
			wantAll:      []ledger.Condition{taker},
			wantNotInCtx: initializer,
		},
		"signature and vault authority keep the chain order": {
			ctx: escrowCtx.SetConditions(context.Background(), vault),
			auth: ChainAuth(
				&ledgertest.Auth{Signer: initializer},
				escrowCtx,
			),
			wantAll:      []ledger.Condition{initializer, vault},
			wantNotInCtx: taker,
		},
		"context authority set under another key is ignored": {
			ctx: escrowCtx.SetConditions(context.Background(), vault),
			auth: ChainAuth(
				&ledgertest.Auth{Signer: initializer},
				otherCtx,
			),
			wantAll:      []ledger.Condition{initializer},
			wantNotInCtx: vault,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantAll, tc.auth.GetConditions(tc.ctx))
			for _, c := range tc.wantAll {
				if !tc.auth.HasAddress(tc.ctx, c.Address()) {
					t.Fatalf("want %s to be authenticated", c)
				}
			}
			if tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx.Address()) {
				t.Fatalf("want %s not to be authenticated", tc.wantNotInCtx)
			}
		})
	}
}

func TestRequireSigner(t *testing.T) {
	initializer := ledgertest.NewCondition()
	taker := ledgertest.NewCondition()
	auth := &ledgertest.Auth{Signer: initializer}
	ctx := context.Background()

	assert.Nil(t, RequireSigner(ctx, auth, initializer.Address(), "initializer"))

	err := RequireSigner(ctx, auth, taker.Address(), "taker")
	assert.IsErr(t, errors.ErrUnauthorized, err)
	if got := err.Error(); got != "taker signature required: unauthorized" {
		t.Fatalf("unexpected message: %q", got)
	}

	assert.IsErr(t, errors.ErrUnauthorized, RequireSigner(ctx, auth, nil, "initializer"))
}
