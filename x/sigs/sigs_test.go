package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StdTx is a signed transaction carrying a raw payload.
type StdTx struct {
	ledgertest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	msg := &ledgertest.Msg{RoutePath: "test/payload", Serialized: payload}
	return &StdTx{Tx: ledgertest.Tx{Msg: msg}}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

func TestSignBytes(t *testing.T) {
	bz := []byte("foobar")
	tx := NewStdTx(bz)
	bz2 := []byte("blast")

	chainID := "test-sign-bytes"
	c1, err := BuildSignBytesTx(tx, chainID, 17)
	require.NoError(t, err)
	c1a, err := BuildSignBytes(bz, chainID, 17)
	require.NoError(t, err)
	assert.Equal(t, c1, c1a)
	assert.NotEqual(t, bz, c1)

	// Sign bytes change with the payload, chain and nonce.
	ct, err := BuildSignBytes(bz2, chainID, 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, ct)
	c2, err := BuildSignBytes(bz, chainID+"2", 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c2)
	c3, err := BuildSignBytes(bz, chainID, 18)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c3)

	_, err = BuildSignBytes(bz, chainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes(bz, "x", 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()

	chainID := "emo-music-2345"
	bz := []byte("my special valentine")
	tx := NewStdTx(bz)

	sig0, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	sig13, err := SignTx(priv, tx, chainID, 13)
	require.NoError(t, err)

	// Signing is deterministic.
	sig1a, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	assert.Equal(t, sig1, sig1a)

	// The first signature must use nonce zero.
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	_, err = VerifySignature(kv, new(StdSignature), bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	signer, err := VerifySignature(kv, sig0, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, pub.Condition(), signer)

	// Replaying a signature fails.
	_, err = VerifySignature(kv, sig0, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))
	// A signature for another chain fails.
	_, err = VerifySignature(kv, sig1, bz, "other-chain")
	assert.True(t, errors.ErrUnauthorized.Is(err))
	// A signature of another payload fails.
	_, err = VerifySignature(kv, sig1, []byte("foo"), chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	signer, err = VerifySignature(kv, sig1, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, pub.Condition(), signer)

	_, err = VerifySignature(kv, sig13, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	nonce, err := NextNonce(kv, pub.Address())
	require.NoError(t, err)
	assert.Equal(t, int64(2), nonce)

	nonce, err = NextNonce(kv, ledgertest.RandomAddr(t))
	require.NoError(t, err)
	assert.Equal(t, int64(0), nonce)
}

func TestDecorator(t *testing.T) {
	chainID := "deco-rate"
	ctx := ledger.WithChainID(context.Background(), chainID)

	priv := crypto.GenPrivKeyEd25519()
	priv2 := crypto.GenPrivKeyEd25519()

	unsigned := NewStdTx([]byte("one"))
	signed := NewStdTx([]byte("two"))
	sig, err := SignTx(priv, signed, chainID, 0)
	require.NoError(t, err)
	signed.Signatures = []*StdSignature{sig}

	double := NewStdTx([]byte("three"))
	s1, err := SignTx(priv, double, chainID, 1)
	require.NoError(t, err)
	s2, err := SignTx(priv2, double, chainID, 0)
	require.NoError(t, err)
	double.Signatures = []*StdSignature{s1, s2}

	cases := map[string]struct {
		tx          ledger.Tx
		deco        Decorator
		wantErr     *errors.Error
		wantSigners []ledger.Condition
	}{
		"unsigned is rejected": {
			tx:      unsigned,
			deco:    NewDecorator(),
			wantErr: errors.ErrUnauthorized,
		},
		"unsigned may be allowed": {
			tx:   unsigned,
			deco: NewDecorator().AllowMissingSigs(),
		},
		"single signer": {
			tx:          signed,
			deco:        NewDecorator(),
			wantSigners: []ledger.Condition{priv.PublicKey().Condition()},
		},
		"two signers, in order": {
			tx:          double,
			deco:        NewDecorator(),
			wantSigners: []ledger.Condition{priv.PublicKey().Condition(), priv2.PublicKey().Condition()},
		},
		"not a signed transaction passes through": {
			tx:   &ledgertest.Tx{Msg: &ledgertest.Msg{}},
			deco: NewDecorator(),
		},
	}

	// Cases share the store so that nonces carry over between them.
	kv := store.MemStore()
	for _, name := range []string{
		"unsigned is rejected",
		"unsigned may be allowed",
		"single signer",
		"two signers, in order",
		"not a signed transaction passes through",
	} {
		tc := cases[name]
		t.Run(name, func(t *testing.T) {
			var got []ledger.Condition
			h := ledger.HandlerFunc{
				CheckFn: func(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
					got = Authenticate{}.GetConditions(ctx)
					for _, c := range got {
						assert.True(t, Authenticate{}.HasAddress(ctx, c.Address()))
					}
					return &ledger.CheckResult{}, nil
				},
			}
			_, err := tc.deco.Check(ctx, kv, tc.tx, h)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if len(tc.wantSigners) == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tc.wantSigners, got)
			}
		})
	}
}

func TestUserDataSequence(t *testing.T) {
	u := NewUser(crypto.GenPrivKeyEd25519().PublicKey())
	user := AsUser(u)
	assert.NoError(t, u.Validate())

	assert.True(t, ErrInvalidSequence.Is(user.CheckAndIncrementSequence(1)))
	assert.NoError(t, user.CheckAndIncrementSequence(0))
	assert.Equal(t, int64(1), user.Sequence)

	user.Sequence = (1 << 53) - 1
	assert.True(t, errors.ErrOverflow.Is(user.CheckAndIncrementSequence((1<<53)-1)))

	orphan := &UserData{Metadata: &ledger.Metadata{Schema: 1}, Sequence: 3}
	assert.True(t, ErrInvalidSequence.Is(orphan.Validate()))

	raw, err := user.Marshal()
	require.NoError(t, err)
	var loaded UserData
	require.NoError(t, loaded.Unmarshal(raw))
	assert.Equal(t, user, &loaded)
}
