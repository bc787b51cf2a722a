/*
Package escrowd links together all the various components
to construct the escrowd app.
*/
package escrowd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/iov-one/ledger/x"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/token"
	"github.com/iov-one/ledger/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Authenticator returns the authentication of signed messages.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// TokenController returns the token controller shared by the token and
// escrow handlers. On top of the signers it accepts the escrow program
// authority, so that only escrow handlers can move funds out of a vault.
func TokenController() token.Controller {
	auth := x.ChainAuth(sigs.Authenticate{}, escrow.Authenticate{})
	return token.NewController(auth, cash.NewController(cash.NewWalletBucket()))
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery
func Chain(reg prometheus.Registerer) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewMetrics(reg),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns the router of all messages supported by escrowd.
func Router(authFn x.Authenticator, tokens token.Controller) *app.Router {
	r := app.NewRouter()
	cash.RegisterRoutes(r, authFn, cash.NewController(cash.NewWalletBucket()))
	token.RegisterRoutes(r, authFn, tokens)
	escrow.RegisterRoutes(r, authFn, tokens)
	return r
}

// QueryRouter returns a query router, allowing access to "/wallets",
// "/auth", "/tokens/mints", "/tokens/accounts" and "/escrows".
func QueryRouter() ledger.QueryRouter {
	r := ledger.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		token.RegisterQuery,
		escrow.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(reg prometheus.Registerer) ledger.Handler {
	authFn := Authenticator()
	return Chain(reg).WithHandler(Router(authFn, TokenController()))
}

// Initializers returns the genesis loaders of every module.
func Initializers() ledger.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		token.Initializer{},
		gconf.Initializer{
			Package: token.ConfigPackage,
			Config:  func() gconf.Configuration { return &token.Configuration{} },
		},
	)
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h ledger.Handler, tx ledger.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	store = store.WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path keeps the data in memory.
func CommitKVStore(dbPath string) (ledger.CommitKVStore, error) {
	if dbPath == "" {
		return newCommitStore("", "")
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// leveldb adds the ".db" suffix itself
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return newCommitStore(filepath.Dir(path), filepath.Base(path))
}

func newCommitStore(dir, name string) (ledger.CommitKVStore, error) {
	kv, err := iavl.NewCommitStore(dir, name)
	if err != nil {
		return nil, err
	}
	return kv, nil
}
