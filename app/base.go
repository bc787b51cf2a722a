package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp serves CheckTx and DeliverTx on top of the state and queries
// kept by StoreApp.
type BaseApp struct {
	*StoreApp
	decoder ledger.TxDecoder
	handler ledger.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(store *StoreApp, decoder ledger.TxDecoder, handler ledger.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: store, decoder: decoder, handler: handler, debug: debug}
}

// DeliverTx runs the transaction against the block state.
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	ctx, tx, err := b.prepare(txBytes, "deliver_tx")
	if err != nil {
		return ledger.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return ledger.DeliverOrError(res, err, b.debug)
}

// CheckTx runs the transaction against the mempool state.
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	ctx, tx, err := b.prepare(txBytes, "check_tx")
	if err != nil {
		return ledger.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return ledger.CheckOrError(res, err, b.debug)
}

// prepare decodes the transaction and tags the block context with the abci
// call and the message path. A panicking decoder is reported as an error.
func (b BaseApp) prepare(txBytes []byte, call string) (ctx ledger.Context, tx ledger.Tx, err error) {
	defer errors.Recover(&err)
	if tx, err = b.decoder(txBytes); err != nil {
		return nil, nil, err
	}
	ctx = ledger.WithLogInfo(b.BlockContext(), "call", call, "path", ledger.GetPath(tx))
	return ctx, tx, nil
}
