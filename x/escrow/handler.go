package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x"
	"github.com/iov-one/ledger/x/token"
)

const (
	initializeCost int64 = 300
	exchangeCost   int64 = 300
	cancelCost     int64 = 200
)

// RegisterRoutes registers the escrow handlers. The token controller must
// accept the conditions reported by Authenticate, otherwise no vault can be
// emptied.
func RegisterRoutes(r ledger.Registry, auth x.Authenticator, tokens token.Controller) {
	bucket := NewBucket()
	r.Handle(InitializeMsg{}.Path(), InitializeHandler{auth: auth, tokens: tokens, bucket: bucket})
	r.Handle(ExchangeMsg{}.Path(), ExchangeHandler{auth: auth, tokens: tokens, bucket: bucket})
	r.Handle(CancelMsg{}.Path(), CancelHandler{auth: auth, tokens: tokens, bucket: bucket})
}

// InitializeHandler opens an escrow and moves the deposit into its vault.
type InitializeHandler struct {
	auth   x.Authenticator
	tokens token.Controller
	bucket orm.ModelBucket
}

var _ ledger.Handler = InitializeHandler{}

func (h InitializeHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: initializeCost}, nil
}

func (h InitializeHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	owner, bump := Authority()
	if _, err := h.tokens.OpenAccount(ctx, db, msg.Vault, msg.Mint, owner.Address(), msg.Initializer); err != nil {
		return nil, errors.Wrap(err, "open vault")
	}

	escrow := &Escrow{
		Metadata:                  &ledger.Metadata{Schema: 1},
		Initializer:               msg.Initializer,
		InitializerDepositAccount: msg.InitializerDepositAccount,
		InitializerReceiveAccount: msg.InitializerReceiveAccount,
		InitializerAmount:         msg.InitializerAmount,
		TakerAmount:               msg.TakerAmount,
		Vault:                     msg.Vault,
		VaultSeed:                 msg.VaultSeed,
		AuthorityBump:             uint32(bump),
	}
	id, err := h.bucket.Put(db, nil, escrow)
	if err != nil {
		return nil, errors.Wrap(err, "save escrow")
	}

	if err := h.tokens.Transfer(ctx, db, msg.InitializerDepositAccount, msg.Vault, msg.InitializerAmount); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}

	ledger.GetLogger(ctx).Info("escrow initialized",
		"escrow", id,
		"initializer", msg.Initializer,
		"vault", msg.Vault,
		"initializer_amount", msg.InitializerAmount,
		"taker_amount", msg.TakerAmount)
	return &ledger.DeliverResult{Data: id}, nil
}

// validate runs every check that does not modify the state.
func (h InitializeHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*InitializeMsg, error) {
	var msg InitializeMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Initializer, "initializer"); err != nil {
		return nil, err
	}

	vault, err := VaultAddress(msg.VaultSeed, uint8(msg.VaultBump))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrAccountMismatch, "cannot derive vault: %s", err)
	}
	if !vault.Equals(msg.Vault) {
		return nil, errors.Wrap(errors.ErrAccountMismatch, "vault is not derived from the seed")
	}
	switch _, err := h.tokens.Account(db, msg.Vault); {
	case err == nil:
		return nil, errors.Wrap(errors.ErrCollision, "vault in use")
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	deposit, err := h.account(db, msg.InitializerDepositAccount, "deposit")
	if err != nil {
		return nil, err
	}
	if !deposit.Owner.Equals(msg.Initializer) {
		return nil, errors.Wrap(errors.ErrAccountMismatch, "deposit account not owned by the initializer")
	}
	if !deposit.Mint.Equals(msg.Mint) {
		return nil, errors.Wrap(errors.ErrAccountMismatch, "deposit account holds another token")
	}
	receive, err := h.account(db, msg.InitializerReceiveAccount, "receive")
	if err != nil {
		return nil, err
	}
	if !receive.Owner.Equals(msg.Initializer) {
		return nil, errors.Wrap(errors.ErrAccountMismatch, "receive account not owned by the initializer")
	}
	if receive.Mint.Equals(msg.Mint) {
		return nil, errors.Wrap(errors.ErrAccountMismatch, "receive account must hold another token")
	}
	if deposit.Amount < msg.InitializerAmount {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "deposit account holds %d", deposit.Amount)
	}
	return &msg, nil
}

// account loads a token account supplied by the initializer. A missing
// account does not match the one declared.
func (h InitializeHandler) account(db ledger.ReadOnlyKVStore, addr ledger.Address, name string) (*token.Account, error) {
	acct, err := h.tokens.Account(db, addr)
	if errors.ErrNotFound.Is(err) {
		return nil, errors.Wrapf(errors.ErrAccountMismatch, "%s account does not exist", name)
	}
	return acct, err
}

// ExchangeHandler settles an escrow.
type ExchangeHandler struct {
	auth   x.Authenticator
	tokens token.Controller
	bucket orm.ModelBucket
}

var _ ledger.Handler = ExchangeHandler{}

func (h ExchangeHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: exchangeCost}, nil
}

func (h ExchangeHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.tokens.Transfer(ctx, db, msg.TakerDepositAccount, escrow.InitializerReceiveAccount, escrow.TakerAmount); err != nil {
		return nil, errors.Wrap(err, "taker payment")
	}
	if err := release(ctx, db, h.tokens, escrow, msg.TakerReceiveAccount); err != nil {
		return nil, err
	}
	if err := h.bucket.Delete(db, msg.EscrowID); err != nil {
		return nil, errors.Wrap(err, "delete escrow")
	}

	ledger.GetLogger(ctx).Info("escrow exchanged",
		"escrow", msg.EscrowID,
		"initializer", escrow.Initializer,
		"taker", msg.Taker)
	return &ledger.DeliverResult{}, nil
}

func (h ExchangeHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ExchangeMsg, *Escrow, error) {
	var msg ExchangeMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadEscrow(db, h.bucket, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Taker, "taker"); err != nil {
		return nil, nil, err
	}

	switch {
	case !msg.Initializer.Equals(escrow.Initializer):
		return nil, nil, errors.Wrap(errors.ErrAccountMismatch, "initializer")
	case !msg.InitializerDepositAccount.Equals(escrow.InitializerDepositAccount):
		return nil, nil, errors.Wrap(errors.ErrAccountMismatch, "initializer deposit account")
	case !msg.InitializerReceiveAccount.Equals(escrow.InitializerReceiveAccount):
		return nil, nil, errors.Wrap(errors.ErrAccountMismatch, "initializer receive account")
	case !msg.Vault.Equals(escrow.Vault):
		return nil, nil, errors.Wrap(errors.ErrAccountMismatch, "vault")
	case msg.TakerReceiveAccount.Equals(escrow.Vault):
		return nil, nil, errors.Wrap(errors.ErrAccountMismatch, "vault cannot receive its own content")
	}
	if err := checkAuthority(escrow, msg.VaultAuthority); err != nil {
		return nil, nil, err
	}

	// Both legs are checked upfront so that a failing exchange is rejected
	// before any token moves.
	vault, err := h.tokens.Account(db, escrow.Vault)
	if err != nil {
		return nil, nil, errors.Wrap(err, "vault")
	}
	receive, err := h.tokens.Account(db, escrow.InitializerReceiveAccount)
	if err != nil {
		return nil, nil, errors.Wrap(err, "initializer receive account")
	}
	payer, err := h.tokens.Account(db, msg.TakerDepositAccount)
	if err != nil {
		return nil, nil, errors.Wrap(err, "taker deposit account")
	}
	if !payer.Mint.Equals(receive.Mint) {
		return nil, nil, errors.Wrap(errors.ErrAccountMismatch, "taker deposit account holds another token")
	}
	if payer.Amount < escrow.TakerAmount {
		return nil, nil, errors.Wrapf(errors.ErrInsufficientAmount, "taker deposit account holds %d", payer.Amount)
	}
	payee, err := h.tokens.Account(db, msg.TakerReceiveAccount)
	if err != nil {
		return nil, nil, errors.Wrap(err, "taker receive account")
	}
	if !payee.Mint.Equals(vault.Mint) {
		return nil, nil, errors.Wrap(errors.ErrAccountMismatch, "taker receive account holds another token")
	}
	return &msg, escrow, nil
}

// CancelHandler returns the deposit of an open escrow.
type CancelHandler struct {
	auth   x.Authenticator
	tokens token.Controller
	bucket orm.ModelBucket
}

var _ ledger.Handler = CancelHandler{}

func (h CancelHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: cancelCost}, nil
}

func (h CancelHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := release(ctx, db, h.tokens, escrow, escrow.InitializerDepositAccount); err != nil {
		return nil, err
	}
	if err := h.bucket.Delete(db, msg.EscrowID); err != nil {
		return nil, errors.Wrap(err, "delete escrow")
	}
	ledger.GetLogger(ctx).Info("escrow canceled", "escrow", msg.EscrowID, "initializer", escrow.Initializer)
	return &ledger.DeliverResult{}, nil
}

func (h CancelHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*CancelMsg, *Escrow, error) {
	var msg CancelMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadEscrow(db, h.bucket, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if !msg.Initializer.Equals(escrow.Initializer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the initializer can cancel")
	}
	if err := x.RequireSigner(ctx, h.auth, escrow.Initializer, "initializer"); err != nil {
		return nil, nil, err
	}

	switch {
	case !msg.InitializerDepositAccount.Equals(escrow.InitializerDepositAccount):
		return nil, nil, errors.Wrap(errors.ErrAccountMismatch, "initializer deposit account")
	case !msg.Vault.Equals(escrow.Vault):
		return nil, nil, errors.Wrap(errors.ErrAccountMismatch, "vault")
	}
	if err := checkAuthority(escrow, msg.VaultAuthority); err != nil {
		return nil, nil, err
	}
	return &msg, escrow, nil
}

// loadEscrow returns the open escrow stored under id. A missing record means
// the escrow was never opened or is already closed.
func loadEscrow(db ledger.ReadOnlyKVStore, bucket orm.ModelBucket, id []byte) (*Escrow, error) {
	var escrow Escrow
	switch err := bucket.One(db, id, &escrow); {
	case err == nil:
		return &escrow, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(errors.ErrState, "escrow %X is not open", id)
	default:
		return nil, err
	}
}

// checkAuthority ensures the declared authority is the one derived from the
// escrow record.
func checkAuthority(escrow *Escrow, declared ledger.Address) error {
	c, err := deriveAuthority(escrow.AuthorityBump)
	if err != nil {
		return errors.Wrap(err, "derive authority")
	}
	if !c.Address().Equals(declared) {
		return errors.Wrap(errors.ErrAccountMismatch, "vault authority")
	}
	return nil
}

// release moves the whole vault content to dst and closes the vault. The
// reserve goes back to the initializer.
func release(ctx ledger.Context, db ledger.KVStore, tokens token.Controller, escrow *Escrow, dst ledger.Address) error {
	vault, err := tokens.Account(db, escrow.Vault)
	if err != nil {
		return errors.Wrap(err, "vault")
	}
	authCtx := withAuthority(ctx)
	if vault.Amount > 0 {
		if err := tokens.Transfer(authCtx, db, escrow.Vault, dst, vault.Amount); err != nil {
			return errors.Wrap(err, "release vault")
		}
	}
	if err := tokens.CloseAccount(authCtx, db, escrow.Vault, escrow.Initializer); err != nil {
		return errors.Wrap(err, "close vault")
	}
	return nil
}
