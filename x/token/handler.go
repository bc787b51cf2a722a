package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
	"github.com/iov-one/ledger/x"
)

const (
	createMintCost   int64 = 500
	openAccountCost  int64 = 200
	mintToCost       int64 = 100
	transferCost     int64 = 100
	closeAccountCost int64 = 100
)

// RegisterRoutes registers the handlers of this package.
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(CreateMintMsg{}.Path(), CreateMintHandler{auth: auth, ctrl: ctrl})
	r.Handle(OpenAccountMsg{}.Path(), OpenAccountHandler{auth: auth, ctrl: ctrl})
	r.Handle(MintToMsg{}.Path(), MintToHandler{ctrl: ctrl})
	r.Handle(TransferMsg{}.Path(), TransferHandler{auth: auth, ctrl: ctrl})
	r.Handle(CloseAccountMsg{}.Path(), CloseAccountHandler{auth: auth, ctrl: ctrl})
	r.Handle(UpdateConfigurationMsg{}.Path(), gconf.NewUpdateConfigurationHandler(
		ConfigPackage,
		func() gconf.OwnedConfig { return &Configuration{} },
		auth,
	))
}

// CreateMintHandler registers new token types.
type CreateMintHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ledger.Handler = CreateMintHandler{}

func (h CreateMintHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: createMintCost}, nil
}

func (h CreateMintHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ctrl.CreateMint(ctx, db, msg.Ticker, msg.Authority, msg.Decimals)
	if err != nil {
		return nil, err
	}
	ledger.GetLogger(ctx).Info("mint created", "ticker", msg.Ticker, "mint", addr)
	return &ledger.DeliverResult{Data: addr}, nil
}

func (h CreateMintHandler) validate(ctx ledger.Context, tx ledger.Tx) (*CreateMintMsg, error) {
	var msg CreateMintMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Authority, "mint authority"); err != nil {
		return nil, err
	}
	return &msg, nil
}

// OpenAccountHandler opens the default account of an owner.
type OpenAccountHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ledger.Handler = OpenAccountHandler{}

func (h OpenAccountHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: openAccountCost}, nil
}

func (h OpenAccountHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := AccountAddress(msg.Owner, msg.Mint)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.OpenAccount(ctx, db, addr, msg.Mint, msg.Owner, msg.Payer); err != nil {
		return nil, err
	}
	ledger.GetLogger(ctx).Debug("token account opened", "account", addr, "owner", msg.Owner)
	return &ledger.DeliverResult{Data: addr}, nil
}

func (h OpenAccountHandler) validate(ctx ledger.Context, tx ledger.Tx) (*OpenAccountMsg, error) {
	var msg OpenAccountMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Payer, "payer"); err != nil {
		return nil, err
	}
	return &msg, nil
}

// MintToHandler creates new tokens. The controller verifies the mint
// authority.
type MintToHandler struct {
	ctrl Controller
}

var _ ledger.Handler = MintToHandler{}

func (h MintToHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	var msg MintToMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &ledger.CheckResult{GasAllocated: mintToCost}, nil
}

func (h MintToHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	var msg MintToMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ctrl.MintTo(ctx, db, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{}, nil
}

// TransferHandler moves tokens between accounts.
type TransferHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ledger.Handler = TransferHandler{}

func (h TransferHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: transferCost}, nil
}

func (h TransferHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(ctx, db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{}, nil
}

func (h TransferHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*TransferMsg, error) {
	var msg TransferMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	src, err := h.ctrl.Account(db, msg.Source)
	if err != nil {
		return nil, errors.Wrap(err, "source")
	}
	if err := x.RequireSigner(ctx, h.auth, src.Owner, "source owner"); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CloseAccountHandler removes empty accounts.
type CloseAccountHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ ledger.Handler = CloseAccountHandler{}

func (h CloseAccountHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: closeAccountCost}, nil
}

func (h CloseAccountHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.CloseAccount(ctx, db, msg.Account, msg.Destination); err != nil {
		return nil, err
	}
	ledger.GetLogger(ctx).Debug("token account closed", "account", msg.Account)
	return &ledger.DeliverResult{}, nil
}

func (h CloseAccountHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*CloseAccountMsg, error) {
	var msg CloseAccountMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	acct, err := h.ctrl.Account(db, msg.Account)
	if err != nil {
		return nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, acct.Owner, "owner"); err != nil {
		return nil, err
	}
	return &msg, nil
}
