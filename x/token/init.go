package token

import (
	"math"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

const optKey = "token"

// Genesis declares the mints and funded accounts of a new chain. Genesis
// accounts do not lock a reserve.
type Genesis struct {
	Mints []struct {
		Ticker    string         `json:"ticker"`
		Authority ledger.Address `json:"authority"`
		Decimals  uint32         `json:"decimals"`
	} `json:"mints"`
	Accounts []struct {
		Owner  ledger.Address `json:"owner"`
		Ticker string         `json:"ticker"`
		Amount uint64         `json:"amount"`
	} `json:"accounts"`
}

// Initializer creates the genesis mints and accounts.
type Initializer struct{}

var _ ledger.Initializer = Initializer{}

func (Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	mints := NewMintBucket()
	for i, m := range gen.Mints {
		addr, err := MintAddress(m.Ticker)
		if err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
		if err := mints.Has(db, addr); err == nil {
			return errors.Wrapf(errors.ErrCollision, "mint %d: duplicated ticker %s", i, m.Ticker)
		}
		mint := &Mint{
			Metadata:  &ledger.Metadata{Schema: 1},
			Ticker:    m.Ticker,
			Authority: m.Authority,
			Decimals:  m.Decimals,
		}
		if _, err := mints.Put(db, addr, mint); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
	}

	accounts := NewAccountBucket()
	for i, a := range gen.Accounts {
		mintAddr, err := MintAddress(a.Ticker)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		var mint Mint
		if err := mints.One(db, mintAddr, &mint); err != nil {
			return errors.Wrapf(err, "account %d: mint %s", i, a.Ticker)
		}
		addr, err := AccountAddress(a.Owner, mintAddr)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := accounts.Has(db, addr); err == nil {
			return errors.Wrapf(errors.ErrCollision, "account %d: declared twice", i)
		}
		if mint.Supply > math.MaxUint64-a.Amount {
			return errors.Wrapf(errors.ErrOverflow, "account %d: supply", i)
		}
		mint.Supply += a.Amount
		if _, err := mints.Put(db, mintAddr, &mint); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		acct := &Account{
			Metadata: &ledger.Metadata{Schema: 1},
			Mint:     mintAddr,
			Owner:    a.Owner,
			Amount:   a.Amount,
		}
		if _, err := accounts.Put(db, addr, acct); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
