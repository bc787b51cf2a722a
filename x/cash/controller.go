package cash

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// Controller is the functionality exposed to other extensions.
type Controller interface {
	// Balance returns the coins held by the address. An unknown address
	// holds no coins.
	Balance(db ledger.ReadOnlyKVStore, addr ledger.Address) (coin.Coins, error)

	// MoveCoins moves the amount from src to dest. It fails with
	// ErrInsufficientAmount if src does not hold enough.
	MoveCoins(db ledger.KVStore, src, dest ledger.Address, amount coin.Coin) error

	// IssueCoins adds the amount to the dest wallet.
	IssueCoins(db ledger.KVStore, dest ledger.Address, amount coin.Coin) error
}

// NewController returns a controller operating on the given wallet bucket.
func NewController(bucket orm.ModelBucket) Controller {
	return &controller{bucket: bucket}
}

type controller struct {
	bucket orm.ModelBucket
}

var _ Controller = (*controller)(nil)

func (c *controller) Balance(db ledger.ReadOnlyKVStore, addr ledger.Address) (coin.Coins, error) {
	w, err := c.load(db, addr)
	if err != nil {
		return nil, err
	}
	return coin.Coins(w.Coins), nil
}

func (c *controller) MoveCoins(db ledger.KVStore, src, dest ledger.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive amount %s", amount)
	}
	sender, err := c.load(db, src)
	if err != nil {
		return err
	}
	if !coin.Coins(sender.Coins).Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s cannot pay %s", src, amount)
	}
	if err := c.add(db, src, sender, amount.Negative()); err != nil {
		return errors.Wrap(err, "sender")
	}

	// The sender and the recipient can be the same wallet.
	recipient, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if err := c.add(db, dest, recipient, amount); err != nil {
		return errors.Wrap(err, "recipient")
	}
	return nil
}

func (c *controller) IssueCoins(db ledger.KVStore, dest ledger.Address, amount coin.Coin) error {
	w, err := c.load(db, dest)
	if err != nil {
		return err
	}
	return c.add(db, dest, w, amount)
}

// load returns the wallet of the address or an empty one.
func (c *controller) load(db ledger.ReadOnlyKVStore, addr ledger.Address) (*Set, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "wallet address")
	}
	var w Set
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Set{Metadata: &ledger.Metadata{Schema: 1}}, nil
	default:
		return nil, err
	}
}

// add changes the wallet by amount and saves it. An emptied wallet is
// removed from the store.
func (c *controller) add(db ledger.KVStore, addr ledger.Address, w *Set, amount coin.Coin) error {
	coins, err := coin.Coins(w.Coins).Clone().Add(amount)
	if err != nil {
		return err
	}
	if !coins.IsNonNegative() {
		return errors.Wrap(errors.ErrInsufficientAmount, "negative balance")
	}
	if coins.IsEmpty() {
		if err := c.bucket.Has(db, addr); errors.ErrNotFound.Is(err) {
			return nil
		}
		return c.bucket.Delete(db, addr)
	}
	w.Coins = coins
	_, err = c.bucket.Put(db, addr, w)
	return err
}
