package cash

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
)

const optKey = "cash"

// GenesisAccount is a wallet declared in the genesis file.
type GenesisAccount struct {
	Address ledger.Address `json:"address"`
	Coins   []*coin.Coin   `json:"coins"`
}

// Initializer funds the wallets declared in genesis.
type Initializer struct{}

var _ ledger.Initializer = Initializer{}

func (Initializer) FromGenesis(opts ledger.Options, db ledger.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	ctrl := NewController(NewWalletBucket())
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acct.Coins {
			if err := c.Validate(); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
			if err := ctrl.IssueCoins(db, acct.Address, *c); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}
