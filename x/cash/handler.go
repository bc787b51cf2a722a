package cash

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x"
)

const sendTxCost int64 = 100

// RegisterRoutes registers the handlers of this package.
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, ctrl))
}

// SendHandler moves coins between wallets.
type SendHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ledger.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg.
func NewSendHandler(auth x.Authenticator, ctrl Controller) SendHandler {
	return SendHandler{auth: auth, ctrl: ctrl}
}

func (h SendHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h SendHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.MoveCoins(db, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx ledger.Context, tx ledger.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Source, "source"); err != nil {
		return nil, err
	}
	return &msg, nil
}
