package token

import (
	"math"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
	"github.com/iov-one/ledger/x"
)

// CashController moves the native coins used for account reserves.
type CashController interface {
	MoveCoins(db ledger.KVStore, src, dest ledger.Address, amount coin.Coin) error
}

// Controller is the functionality exposed to other extensions. Every
// operation changing a balance requires the relevant owner to be
// authenticated in the context.
type Controller interface {
	// Mint returns the mint stored under the address or ErrNotFound.
	Mint(db ledger.ReadOnlyKVStore, mint ledger.Address) (*Mint, error)

	// Account returns the account stored under the address or
	// ErrNotFound.
	Account(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Account, error)

	// CreateMint registers a new token type and returns its address.
	// The authority must be authenticated.
	CreateMint(ctx ledger.Context, db ledger.KVStore, ticker string, authority ledger.Address, decimals uint32) (ledger.Address, error)

	// OpenAccount creates an empty account for the mint at addr. The
	// configured reserve is paid by payer, who must be authenticated.
	// Opening an account at a used address fails with ErrCollision.
	OpenAccount(ctx ledger.Context, db ledger.KVStore, addr, mint, owner, payer ledger.Address) (*Account, error)

	// MintTo creates new tokens in the destination account. The mint
	// authority must be authenticated.
	MintTo(ctx ledger.Context, db ledger.KVStore, dst ledger.Address, amount uint64) error

	// Transfer moves tokens between two accounts of the same mint. The
	// owner of the source account must be authenticated.
	Transfer(ctx ledger.Context, db ledger.KVStore, src, dst ledger.Address, amount uint64) error

	// CloseAccount removes an empty account and returns its reserve to
	// the refund address. The owner must be authenticated.
	CloseAccount(ctx ledger.Context, db ledger.KVStore, addr, refund ledger.Address) error
}

// NewController returns a controller that authenticates owners with auth and
// pays reserves using cash.
func NewController(auth x.Authenticator, cash CashController) Controller {
	return &controller{
		auth:     auth,
		cash:     cash,
		mints:    NewMintBucket(),
		accounts: NewAccountBucket(),
	}
}

type controller struct {
	auth     x.Authenticator
	cash     CashController
	mints    orm.ModelBucket
	accounts orm.ModelBucket
}

var _ Controller = (*controller)(nil)

func (c *controller) Mint(db ledger.ReadOnlyKVStore, mint ledger.Address) (*Mint, error) {
	if err := mint.Validate(); err != nil {
		return nil, errors.Wrap(err, "mint address")
	}
	var m Mint
	if err := c.mints.One(db, mint, &m); err != nil {
		return nil, errors.Wrapf(err, "mint %s", mint)
	}
	return &m, nil
}

func (c *controller) Account(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Account, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "account address")
	}
	var a Account
	if err := c.accounts.One(db, addr, &a); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &a, nil
}

func (c *controller) CreateMint(ctx ledger.Context, db ledger.KVStore, ticker string, authority ledger.Address, decimals uint32) (ledger.Address, error) {
	addr, err := MintAddress(ticker)
	if err != nil {
		return nil, err
	}
	if err := x.RequireSigner(ctx, c.auth, authority, "mint authority"); err != nil {
		return nil, err
	}
	if err := c.mints.Has(db, addr); err == nil {
		return nil, errors.Wrapf(errors.ErrCollision, "mint %s already exists", ticker)
	} else if !errors.ErrNotFound.Is(err) {
		return nil, err
	}
	m := &Mint{
		Metadata:  &ledger.Metadata{Schema: 1},
		Ticker:    ticker,
		Authority: authority,
		Decimals:  decimals,
	}
	if _, err := c.mints.Put(db, addr, m); err != nil {
		return nil, errors.Wrap(err, "save mint")
	}
	return addr, nil
}

func (c *controller) OpenAccount(ctx ledger.Context, db ledger.KVStore, addr, mint, owner, payer ledger.Address) (*Account, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "account address")
	}
	if err := c.accounts.Has(db, addr); err == nil {
		return nil, errors.Wrapf(errors.ErrCollision, "account %s already exists", addr)
	} else if !errors.ErrNotFound.Is(err) {
		return nil, err
	}
	if _, err := c.Mint(db, mint); err != nil {
		return nil, err
	}
	if err := x.RequireSigner(ctx, c.auth, payer, "payer"); err != nil {
		return nil, err
	}

	reserve, err := c.reserve(db)
	if err != nil {
		return nil, err
	}
	if reserve != nil {
		if err := c.cash.MoveCoins(db, payer, ReserveAddress, *reserve); err != nil {
			return nil, errors.Wrap(err, "pay account reserve")
		}
	}

	acct := &Account{
		Metadata: &ledger.Metadata{Schema: 1},
		Mint:     mint,
		Owner:    owner,
		Reserve:  reserve,
	}
	if _, err := c.accounts.Put(db, addr, acct); err != nil {
		return nil, errors.Wrap(err, "save account")
	}
	return acct, nil
}

// reserve returns the configured account reserve or nil if none is
// charged.
func (c *controller) reserve(db ledger.ReadOnlyKVStore) (*coin.Coin, error) {
	conf, err := loadConfiguration(db)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, errors.Wrap(err, "load configuration")
	case coin.IsEmpty(conf.AccountReserve):
		return nil, nil
	}
	return conf.AccountReserve, nil
}

func (c *controller) MintTo(ctx ledger.Context, db ledger.KVStore, dst ledger.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero amount")
	}
	acct, err := c.Account(db, dst)
	if err != nil {
		return err
	}
	m, err := c.Mint(db, acct.Mint)
	if err != nil {
		return err
	}
	if err := x.RequireSigner(ctx, c.auth, m.Authority, "mint authority"); err != nil {
		return err
	}
	if m.Supply > math.MaxUint64-amount || acct.Amount > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	m.Supply += amount
	acct.Amount += amount
	if _, err := c.mints.Put(db, acct.Mint, m); err != nil {
		return errors.Wrap(err, "save mint")
	}
	if _, err := c.accounts.Put(db, dst, acct); err != nil {
		return errors.Wrap(err, "save account")
	}
	return nil
}

func (c *controller) Transfer(ctx ledger.Context, db ledger.KVStore, src, dst ledger.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero amount")
	}
	from, err := c.Account(db, src)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	to, err := c.Account(db, dst)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !from.Mint.Equals(to.Mint) {
		return errors.Wrapf(errors.ErrAccountMismatch, "source mint %s, destination mint %s", from.Mint, to.Mint)
	}
	if err := x.RequireSigner(ctx, c.auth, from.Owner, "source owner"); err != nil {
		return err
	}
	if from.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%d available, %d requested", from.Amount, amount)
	}
	if src.Equals(dst) {
		return nil
	}
	if to.Amount > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}

	from.Amount -= amount
	to.Amount += amount
	if _, err := c.accounts.Put(db, src, from); err != nil {
		return errors.Wrap(err, "save source")
	}
	if _, err := c.accounts.Put(db, dst, to); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

func (c *controller) CloseAccount(ctx ledger.Context, db ledger.KVStore, addr, refund ledger.Address) error {
	acct, err := c.Account(db, addr)
	if err != nil {
		return err
	}
	if err := x.RequireSigner(ctx, c.auth, acct.Owner, "owner"); err != nil {
		return err
	}
	if acct.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "account holds %d tokens", acct.Amount)
	}
	if err := refund.Validate(); err != nil {
		return errors.Wrap(err, "refund address")
	}
	if err := c.accounts.Delete(db, addr); err != nil {
		return errors.Wrap(err, "delete account")
	}
	if !coin.IsEmpty(acct.Reserve) {
		if err := c.cash.MoveCoins(db, ReserveAddress, refund, *acct.Reserve); err != nil {
			return errors.Wrap(err, "refund account reserve")
		}
	}
	return nil
}
