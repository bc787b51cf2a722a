package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/x"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/token"
)

const (
	initializerAmount = 500
	takerAmount       = 1000
)

var reserve = coin.NewCoin(1, 0, "IOV")

// env is a chain with two mints. The initializer holds 500 A and an empty B
// account, the taker holds 1000 B and an empty A account.
type env struct {
	db       store.CacheableKVStore
	auth     *ledgertest.CtxAuth
	cash     cash.Controller
	tokens   token.Controller
	handlers ledgertest.Registry

	mintAuthority ledger.Condition
	initializer   ledger.Condition
	taker         ledger.Condition

	mintA, mintB   ledger.Address
	initA, initB   ledger.Address
	takerA, takerB ledger.Address
}

func newEnv(t testing.TB) *env {
	t.Helper()

	e := &env{
		db:            store.MemStore(),
		auth:          &ledgertest.CtxAuth{Key: "signers"},
		cash:          cash.NewController(cash.NewWalletBucket()),
		handlers:      ledgertest.Registry{},
		mintAuthority: ledgertest.NewCondition(),
		initializer:   ledgertest.NewCondition(),
		taker:         ledgertest.NewCondition(),
	}
	e.tokens = token.NewController(x.ChainAuth(e.auth, Authenticate{}), e.cash)
	RegisterRoutes(e.handlers, e.auth, e.tokens)

	assert.Nil(t, gconf.Save(e.db, token.ConfigPackage, &token.Configuration{
		Metadata:       &ledger.Metadata{Schema: 1},
		Owner:          e.mintAuthority.Address(),
		AccountReserve: &reserve,
	}))
	assert.Nil(t, e.cash.IssueCoins(e.db, e.mintAuthority.Address(), coin.NewCoin(10, 0, "IOV")))
	assert.Nil(t, e.cash.IssueCoins(e.db, e.initializer.Address(), coin.NewCoin(10, 0, "IOV")))

	ctx := e.ctx(e.mintAuthority)
	var err error
	e.mintA, err = e.tokens.CreateMint(ctx, e.db, "AAA", e.mintAuthority.Address(), 0)
	assert.Nil(t, err)
	e.mintB, err = e.tokens.CreateMint(ctx, e.db, "BBB", e.mintAuthority.Address(), 0)
	assert.Nil(t, err)

	e.initA = e.openAccount(t, e.initializer, e.mintA)
	e.initB = e.openAccount(t, e.initializer, e.mintB)
	e.takerA = e.openAccount(t, e.taker, e.mintA)
	e.takerB = e.openAccount(t, e.taker, e.mintB)

	assert.Nil(t, e.tokens.MintTo(ctx, e.db, e.initA, initializerAmount))
	assert.Nil(t, e.tokens.MintTo(ctx, e.db, e.takerB, takerAmount))
	return e
}

func (e *env) ctx(signers ...ledger.Condition) ledger.Context {
	return e.auth.SetConditions(context.Background(), signers...)
}

// openAccount opens the default account of owner. The mint authority pays
// the reserve.
func (e *env) openAccount(t testing.TB, owner ledger.Condition, mint ledger.Address) ledger.Address {
	t.Helper()
	addr, err := token.AccountAddress(owner.Address(), mint)
	assert.Nil(t, err)
	_, err = e.tokens.OpenAccount(e.ctx(e.mintAuthority), e.db, addr, mint, owner.Address(), e.mintAuthority.Address())
	assert.Nil(t, err)
	return addr
}

// deliver runs msg the way the application does: check and deliver each
// operate on a cache that is written only if the handler succeeds.
func (e *env) deliver(msg ledger.Msg, signers ...ledger.Condition) (*ledger.DeliverResult, error) {
	return e.deliverWith(e.handlers, msg, signers...)
}

func (e *env) deliverWith(handlers ledgertest.Registry, msg ledger.Msg, signers ...ledger.Condition) (*ledger.DeliverResult, error) {
	ctx := e.ctx(signers...)
	tx := &ledgertest.Tx{Msg: msg}
	h := handlers[msg.Path()]

	cache := e.db.CacheWrap()
	_, err := h.Check(ctx, cache, tx)
	cache.Discard()
	if err != nil {
		return nil, err
	}

	cache = e.db.CacheWrap()
	res, err := h.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	return res, cache.Write()
}

func (e *env) initializeMsg(t testing.TB, seed string, amount, expect uint64) *InitializeMsg {
	t.Helper()
	vault, bump, err := FindVault([]byte(seed))
	assert.Nil(t, err)
	return &InitializeMsg{
		Metadata:                  &ledger.Metadata{Schema: 1},
		Initializer:               e.initializer.Address(),
		Vault:                     vault,
		VaultSeed:                 []byte(seed),
		VaultBump:                 uint32(bump),
		Mint:                      e.mintA,
		InitializerDepositAccount: e.initA,
		InitializerReceiveAccount: e.initB,
		InitializerAmount:         amount,
		TakerAmount:               expect,
	}
}

func (e *env) initialize(t testing.TB, seed string) ([]byte, ledger.Address) {
	t.Helper()
	msg := e.initializeMsg(t, seed, initializerAmount, takerAmount)
	res, err := e.deliver(msg, e.initializer)
	assert.Nil(t, err)
	return res.Data, msg.Vault
}

func (e *env) exchangeMsg(id []byte, vault ledger.Address) *ExchangeMsg {
	c, _ := Authority()
	return &ExchangeMsg{
		Metadata:                  &ledger.Metadata{Schema: 1},
		EscrowID:                  id,
		Taker:                     e.taker.Address(),
		TakerDepositAccount:       e.takerB,
		TakerReceiveAccount:       e.takerA,
		Initializer:               e.initializer.Address(),
		InitializerDepositAccount: e.initA,
		InitializerReceiveAccount: e.initB,
		Vault:                     vault,
		VaultAuthority:            c.Address(),
	}
}

func (e *env) cancelMsg(id []byte, vault ledger.Address) *CancelMsg {
	c, _ := Authority()
	return &CancelMsg{
		Metadata:                  &ledger.Metadata{Schema: 1},
		EscrowID:                  id,
		Initializer:               e.initializer.Address(),
		InitializerDepositAccount: e.initA,
		Vault:                     vault,
		VaultAuthority:            c.Address(),
	}
}

func (e *env) balance(t testing.TB, addr ledger.Address) uint64 {
	t.Helper()
	acct, err := e.tokens.Account(e.db, addr)
	assert.Nil(t, err)
	return acct.Amount
}

func (e *env) assertBalances(t testing.TB, initA, initB, takerA, takerB uint64) {
	t.Helper()
	assert.Equal(t, initA, e.balance(t, e.initA))
	assert.Equal(t, initB, e.balance(t, e.initB))
	assert.Equal(t, takerA, e.balance(t, e.takerA))
	assert.Equal(t, takerB, e.balance(t, e.takerB))
}

func (e *env) assertClosed(t testing.TB, id []byte, vault ledger.Address) {
	t.Helper()
	err := NewBucket().Has(e.db, id)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = e.tokens.Account(e.db, vault)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func (e *env) wallet(t testing.TB, addr ledger.Address) coin.Coins {
	t.Helper()
	coins, err := e.cash.Balance(e.db, addr)
	assert.Nil(t, err)
	return coins
}

func TestSettlement(t *testing.T) {
	e := newEnv(t)
	walletBefore := e.wallet(t, e.initializer.Address())

	id, vault := e.initialize(t, "swap")
	assert.Equal(t, ledgertest.SequenceID(1), id)
	e.assertBalances(t, 0, 0, 0, 1000)
	assert.Equal(t, uint64(500), e.balance(t, vault))

	var stored Escrow
	assert.Nil(t, NewBucket().One(e.db, id, &stored))
	assert.Equal(t, e.initializer.Address(), stored.Initializer)
	assert.Equal(t, uint64(initializerAmount), stored.InitializerAmount)
	assert.Equal(t, uint64(takerAmount), stored.TakerAmount)
	vaultAcct, err := e.tokens.Account(e.db, vault)
	assert.Nil(t, err)
	c, _ := Authority()
	assert.Equal(t, c.Address(), vaultAcct.Owner)

	// The vault reserve is paid by the initializer.
	paid, err := walletBefore.Subtract(reserve)
	assert.Nil(t, err)
	assert.Equal(t, true, paid.Equals(e.wallet(t, e.initializer.Address())))

	_, err = e.deliver(e.exchangeMsg(id, vault), e.taker)
	assert.Nil(t, err)

	e.assertBalances(t, 0, 1000, 500, 0)
	e.assertClosed(t, id, vault)
	assert.Equal(t, true, walletBefore.Equals(e.wallet(t, e.initializer.Address())))
}

func TestInitializeCancelRoundTrip(t *testing.T) {
	e := newEnv(t)
	walletBefore := e.wallet(t, e.initializer.Address())

	id, vault := e.initialize(t, "swap")
	e.assertBalances(t, 0, 0, 0, 1000)

	_, err := e.deliver(e.cancelMsg(id, vault), e.initializer)
	assert.Nil(t, err)

	e.assertBalances(t, 500, 0, 0, 1000)
	e.assertClosed(t, id, vault)
	assert.Equal(t, true, walletBefore.Equals(e.wallet(t, e.initializer.Address())))
}

func TestSettleOnlyOnce(t *testing.T) {
	cases := map[string]struct {
		close  func(e *env, id []byte, vault ledger.Address) error
		assert func(t testing.TB, e *env)
	}{
		"after exchange": {
			close: func(e *env, id []byte, vault ledger.Address) error {
				_, err := e.deliver(e.exchangeMsg(id, vault), e.taker)
				return err
			},
			assert: func(t testing.TB, e *env) { e.assertBalances(t, 0, 1000, 500, 0) },
		},
		"after cancel": {
			close: func(e *env, id []byte, vault ledger.Address) error {
				_, err := e.deliver(e.cancelMsg(id, vault), e.initializer)
				return err
			},
			assert: func(t testing.TB, e *env) { e.assertBalances(t, 500, 0, 0, 1000) },
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := newEnv(t)
			id, vault := e.initialize(t, "swap")
			assert.Nil(t, tc.close(e, id, vault))

			_, err := e.deliver(e.exchangeMsg(id, vault), e.taker)
			assert.IsErr(t, errors.ErrState, err)
			_, err = e.deliver(e.cancelMsg(id, vault), e.initializer)
			assert.IsErr(t, errors.ErrState, err)

			tc.assert(t, e)
		})
	}
}

func TestCancelAuthorization(t *testing.T) {
	e := newEnv(t)
	id, vault := e.initialize(t, "swap")
	stranger := ledgertest.NewCondition()

	// Signed by somebody else on behalf of the initializer.
	_, err := e.deliver(e.cancelMsg(id, vault), e.taker)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// Signed by a party claiming to be the initializer.
	msg := e.cancelMsg(id, vault)
	msg.Initializer = stranger.Address()
	_, err = e.deliver(msg, stranger)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	msg = e.cancelMsg(id, vault)
	msg.Initializer = e.taker.Address()
	_, err = e.deliver(msg, e.taker)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	e.assertBalances(t, 0, 0, 0, 1000)
	assert.Equal(t, uint64(500), e.balance(t, vault))
	assert.Nil(t, NewBucket().Has(e.db, id))
}

func TestInitializeCollision(t *testing.T) {
	e := newEnv(t)

	first := e.initializeMsg(t, "swap", 200, 100)
	res, err := e.deliver(first, e.initializer)
	assert.Nil(t, err)

	_, err = e.deliver(e.initializeMsg(t, "swap", 200, 100), e.initializer)
	assert.IsErr(t, errors.ErrCollision, err)
	assert.Equal(t, uint64(300), e.balance(t, e.initA))

	// A different seed is not blocked by the open escrow.
	_, err = e.deliver(e.initializeMsg(t, "other", 200, 100), e.initializer)
	assert.Nil(t, err)

	// Once closed, the seed can be used again.
	_, err = e.deliver(e.cancelMsg(res.Data, first.Vault), e.initializer)
	assert.Nil(t, err)
	_, err = e.deliver(e.initializeMsg(t, "swap", 200, 100), e.initializer)
	assert.Nil(t, err)
	assert.Equal(t, uint64(100), e.balance(t, e.initA))
}

func TestInitializeCollisionFullDeposit(t *testing.T) {
	e := newEnv(t)

	first := e.initializeMsg(t, "swap", 500, 1000)
	_, err := e.deliver(first, e.initializer)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), e.balance(t, e.initA))

	// The emptied deposit account must not hide the open vault.
	_, err = e.deliver(e.initializeMsg(t, "swap", 500, 1000), e.initializer)
	assert.IsErr(t, errors.ErrCollision, err)
	assert.Equal(t, uint64(0), e.balance(t, e.initA))
	assert.Equal(t, uint64(500), e.balance(t, first.Vault))
}

func TestInitializeFailures(t *testing.T) {
	cases := map[string]struct {
		prepare func(t testing.TB, e *env)
		msg     func(t testing.TB, e *env) *InitializeMsg
		signers func(e *env) []ledger.Condition
		wantErr *errors.Error
	}{
		"initializer did not sign": {
			msg:     func(t testing.TB, e *env) *InitializeMsg { return e.initializeMsg(t, "s", 500, 1000) },
			signers: func(e *env) []ledger.Condition { return []ledger.Condition{e.taker} },
			wantErr: errors.ErrUnauthorized,
		},
		"vault not derived from the seed": {
			msg: func(t testing.TB, e *env) *InitializeMsg {
				m := e.initializeMsg(t, "s", 500, 1000)
				m.Vault = ledgertest.RandomAddr(t)
				return m
			},
			wantErr: errors.ErrAccountMismatch,
		},
		"vault derived from another seed": {
			msg: func(t testing.TB, e *env) *InitializeMsg {
				m := e.initializeMsg(t, "s", 500, 1000)
				m.VaultSeed = []byte("t")
				return m
			},
			wantErr: errors.ErrAccountMismatch,
		},
		"deposit account of another owner": {
			prepare: func(t testing.TB, e *env) {
				assert.Nil(t, e.tokens.MintTo(e.ctx(e.mintAuthority), e.db, e.takerA, 500))
			},
			msg: func(t testing.TB, e *env) *InitializeMsg {
				m := e.initializeMsg(t, "s", 500, 1000)
				m.InitializerDepositAccount = e.takerA
				return m
			},
			wantErr: errors.ErrAccountMismatch,
		},
		"deposit account of another mint": {
			msg: func(t testing.TB, e *env) *InitializeMsg {
				m := e.initializeMsg(t, "s", 500, 1000)
				m.Mint = e.mintB
				return m
			},
			wantErr: errors.ErrAccountMismatch,
		},
		"receive account holding the deposit token": {
			msg: func(t testing.TB, e *env) *InitializeMsg {
				m := e.initializeMsg(t, "s", 500, 1000)
				m.InitializerReceiveAccount = e.takerA
				return m
			},
			wantErr: errors.ErrAccountMismatch,
		},
		"missing deposit account": {
			msg: func(t testing.TB, e *env) *InitializeMsg {
				m := e.initializeMsg(t, "s", 500, 1000)
				m.InitializerDepositAccount = ledgertest.RandomAddr(t)
				return m
			},
			wantErr: errors.ErrAccountMismatch,
		},
		"deposit larger than the balance": {
			msg:     func(t testing.TB, e *env) *InitializeMsg { return e.initializeMsg(t, "s", 501, 1000) },
			wantErr: errors.ErrInsufficientAmount,
		},
		"reserve not covered": {
			prepare: func(t testing.TB, e *env) {
				assert.Nil(t, e.cash.MoveCoins(e.db, e.initializer.Address(), e.taker.Address(), coin.NewCoin(10, 0, "IOV")))
			},
			msg:     func(t testing.TB, e *env) *InitializeMsg { return e.initializeMsg(t, "s", 500, 1000) },
			wantErr: errors.ErrInsufficientAmount,
		},
		"zero taker amount": {
			msg:     func(t testing.TB, e *env) *InitializeMsg { return e.initializeMsg(t, "s", 500, 0) },
			wantErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := newEnv(t)
			if tc.prepare != nil {
				tc.prepare(t, e)
			}
			signers := []ledger.Condition{e.initializer}
			if tc.signers != nil {
				signers = tc.signers(e)
			}
			msg := tc.msg(t, e)

			_, err := e.deliver(msg, signers...)
			assert.IsErr(t, tc.wantErr, err)

			assert.Equal(t, uint64(500), e.balance(t, e.initA))
			_, err = e.tokens.Account(e.db, msg.Vault)
			assert.IsErr(t, errors.ErrNotFound, err)
			assert.IsErr(t, errors.ErrNotFound, NewBucket().Has(e.db, ledgertest.SequenceID(1)))
		})
	}
}

func TestExchangeFailures(t *testing.T) {
	cases := map[string]struct {
		prepare func(t testing.TB, e *env)
		msg     func(e *env, msg *ExchangeMsg)
		signers func(e *env) []ledger.Condition
		wantErr *errors.Error
	}{
		"taker did not sign": {
			signers: func(e *env) []ledger.Condition { return []ledger.Condition{e.initializer} },
			wantErr: errors.ErrUnauthorized,
		},
		"taker pays from an account of another owner": {
			prepare: func(t testing.TB, e *env) {
				other := e.openAccount(t, e.mintAuthority, e.mintB)
				assert.Nil(t, e.tokens.MintTo(e.ctx(e.mintAuthority), e.db, other, takerAmount))
			},
			msg: func(e *env, msg *ExchangeMsg) {
				msg.TakerDepositAccount, _ = token.AccountAddress(e.mintAuthority.Address(), e.mintB)
			},
			wantErr: errors.ErrUnauthorized,
		},
		"unknown escrow": {
			msg:     func(e *env, msg *ExchangeMsg) { msg.EscrowID = ledgertest.SequenceID(7) },
			wantErr: errors.ErrState,
		},
		"other initializer": {
			msg:     func(e *env, msg *ExchangeMsg) { msg.Initializer = e.taker.Address() },
			wantErr: errors.ErrAccountMismatch,
		},
		"other initializer receive account": {
			msg:     func(e *env, msg *ExchangeMsg) { msg.InitializerReceiveAccount = e.takerB },
			wantErr: errors.ErrAccountMismatch,
		},
		"other initializer deposit account": {
			msg:     func(e *env, msg *ExchangeMsg) { msg.InitializerDepositAccount = e.takerA },
			wantErr: errors.ErrAccountMismatch,
		},
		"other vault": {
			msg: func(e *env, msg *ExchangeMsg) {
				v, _, _ := FindVault([]byte("another"))
				msg.Vault = v
			},
			wantErr: errors.ErrAccountMismatch,
		},
		"other authority": {
			msg:     func(e *env, msg *ExchangeMsg) { msg.VaultAuthority = e.taker.Address() },
			wantErr: errors.ErrAccountMismatch,
		},
		"taker receives into an account of the wrong token": {
			msg:     func(e *env, msg *ExchangeMsg) { msg.TakerReceiveAccount = e.takerB },
			wantErr: errors.ErrAccountMismatch,
		},
		"taker pays with the wrong token": {
			msg:     func(e *env, msg *ExchangeMsg) { msg.TakerDepositAccount = e.takerA },
			wantErr: errors.ErrAccountMismatch,
		},
		"taker cannot afford the swap": {
			prepare: func(t testing.TB, e *env) {
				other := e.openAccount(t, e.mintAuthority, e.mintB)
				assert.Nil(t, e.tokens.Transfer(e.ctx(e.taker), e.db, e.takerB, other, 1))
			},
			wantErr: errors.ErrInsufficientAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := newEnv(t)
			id, vault := e.initialize(t, "swap")
			if tc.prepare != nil {
				tc.prepare(t, e)
			}
			before := [4]uint64{
				e.balance(t, e.initA), e.balance(t, e.initB),
				e.balance(t, e.takerA), e.balance(t, e.takerB),
			}

			msg := e.exchangeMsg(id, vault)
			if tc.msg != nil {
				tc.msg(e, msg)
			}
			signers := []ledger.Condition{e.taker}
			if tc.signers != nil {
				signers = tc.signers(e)
			}
			_, err := e.deliver(msg, signers...)
			assert.IsErr(t, tc.wantErr, err)

			e.assertBalances(t, before[0], before[1], before[2], before[3])
			assert.Equal(t, uint64(initializerAmount), e.balance(t, vault))
			assert.Nil(t, NewBucket().Has(e.db, id))
		})
	}
}

func TestCancelFailures(t *testing.T) {
	cases := map[string]struct {
		msg     func(e *env, msg *CancelMsg)
		wantErr *errors.Error
	}{
		"other deposit account": {
			msg:     func(e *env, msg *CancelMsg) { msg.InitializerDepositAccount = e.initB },
			wantErr: errors.ErrAccountMismatch,
		},
		"other vault": {
			msg:     func(e *env, msg *CancelMsg) { msg.Vault = e.takerA },
			wantErr: errors.ErrAccountMismatch,
		},
		"other authority": {
			msg:     func(e *env, msg *CancelMsg) { msg.VaultAuthority = e.initializer.Address() },
			wantErr: errors.ErrAccountMismatch,
		},
		"malformed id": {
			msg:     func(e *env, msg *CancelMsg) { msg.EscrowID = []byte{1} },
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := newEnv(t)
			id, vault := e.initialize(t, "swap")
			msg := e.cancelMsg(id, vault)
			tc.msg(e, msg)

			_, err := e.deliver(msg, e.initializer)
			assert.IsErr(t, tc.wantErr, err)
			e.assertBalances(t, 0, 0, 0, 1000)
			assert.Nil(t, NewBucket().Has(e.db, id))
		})
	}
}

// brokenTokens fails to close accounts, after both legs of an exchange
// were moved.
type brokenTokens struct {
	token.Controller
}

func (brokenTokens) CloseAccount(ledger.Context, ledger.KVStore, ledger.Address, ledger.Address) error {
	return errors.Wrap(errors.ErrDatabase, "cannot close")
}

func TestExchangeIsAtomic(t *testing.T) {
	e := newEnv(t)
	id, vault := e.initialize(t, "swap")

	broken := ledgertest.Registry{}
	RegisterRoutes(broken, e.auth, brokenTokens{Controller: e.tokens})

	_, err := e.deliverWith(broken, e.exchangeMsg(id, vault), e.taker)
	assert.IsErr(t, errors.ErrDatabase, err)

	// No leg moved.
	e.assertBalances(t, 0, 0, 0, 1000)
	assert.Equal(t, uint64(500), e.balance(t, vault))
	assert.Nil(t, NewBucket().Has(e.db, id))

	_, err = e.deliverWith(broken, e.cancelMsg(id, vault), e.initializer)
	assert.IsErr(t, errors.ErrDatabase, err)
	assert.Equal(t, uint64(500), e.balance(t, vault))
}

func TestSupplyIsConserved(t *testing.T) {
	e := newEnv(t)

	total := func(mint ledger.Address) uint64 {
		var accounts []*token.Account
		_, err := token.NewAccountBucket().ByIndex(e.db, "mint", mint, &accounts)
		assert.Nil(t, err)
		var sum uint64
		for _, a := range accounts {
			sum += a.Amount
		}
		m, err := e.tokens.Mint(e.db, mint)
		assert.Nil(t, err)
		assert.Equal(t, m.Supply, sum)
		return sum
	}
	assertSupply := func() {
		t.Helper()
		assert.Equal(t, uint64(500), total(e.mintA))
		assert.Equal(t, uint64(1000), total(e.mintB))
	}

	assertSupply()
	id, vault := e.initialize(t, "first")
	assertSupply()
	_, err := e.deliver(e.cancelMsg(id, vault), e.initializer)
	assert.Nil(t, err)
	assertSupply()
	id, vault = e.initialize(t, "second")
	assertSupply()
	_, err = e.deliver(e.exchangeMsg(id, vault), e.taker)
	assert.Nil(t, err)
	assertSupply()
}

func TestQueries(t *testing.T) {
	e := newEnv(t)
	assert.Nil(t, e.tokens.MintTo(e.ctx(e.mintAuthority), e.db, e.initA, 500))
	first := e.initializeMsg(t, "one", 400, 10)
	_, err := e.deliver(first, e.initializer)
	assert.Nil(t, err)
	second := e.initializeMsg(t, "two", 600, 20)
	_, err = e.deliver(second, e.initializer)
	assert.Nil(t, err)

	qr := ledger.NewQueryRouter()
	RegisterQuery(qr)

	models, err := qr.Handler("/escrows").Query(e.db, "", ledgertest.SequenceID(2))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	var got Escrow
	assert.Nil(t, got.Unmarshal(models[0].Value))
	assert.Equal(t, uint64(600), got.InitializerAmount)

	models, err = qr.Handler("/escrows/initializer").Query(e.db, "", e.initializer.Address())
	assert.Nil(t, err)
	assert.Equal(t, 2, len(models))

	models, err = qr.Handler("/escrows/vault").Query(e.db, "", first.Vault)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	assert.Nil(t, got.Unmarshal(models[0].Value))
	assert.Equal(t, uint64(10), got.TakerAmount)
}
