package coin

import (
	"sort"

	"github.com/iov-one/ledger/errors"
)

// Coins is a wallet content: at most one coin per ticker, sorted by ticker,
// with no zero amounts. Add keeps that form.
type Coins []*Coin

// CombineCoins sums the given coins into a normalized set.
func CombineCoins(cs ...Coin) (Coins, error) {
	var coins Coins
	for _, c := range cs {
		var err error
		if coins, err = coins.Add(c); err != nil {
			return nil, err
		}
	}
	if err := coins.Validate(); err != nil {
		return nil, err
	}
	return coins, nil
}

// Clone returns a deep copy.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	res := make(Coins, len(cs))
	for i, c := range cs {
		res[i] = c.Clone()
	}
	return res
}

// Add returns a new set holding cs plus c. A ticker whose amount becomes
// zero is dropped. cs is not modified.
func (cs Coins) Add(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs, nil
	}
	i, found := cs.search(c.ID())
	if !found {
		res := make(Coins, 0, len(cs)+1)
		res = append(res, cs[:i]...)
		res = append(res, &c)
		return append(res, cs[i:]...), nil
	}

	sum, err := cs[i].Add(c)
	if err != nil {
		return nil, err
	}
	res := make(Coins, 0, len(cs))
	res = append(res, cs[:i]...)
	if !sum.IsZero() {
		res = append(res, &sum)
	}
	return append(res, cs[i+1:]...), nil
}

// Subtract returns cs minus c. The result may hold negative amounts.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	return cs.Add(c.Negative())
}

// Combine returns the sum of both sets.
func (cs Coins) Combine(o Coins) (Coins, error) {
	res := cs.Clone()
	for _, c := range o {
		var err error
		if res, err = res.Add(*c); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Contains is true when cs holds at least c.
func (cs Coins) Contains(c Coin) bool {
	i, found := cs.search(c.ID())
	return found && cs[i].IsGTE(c)
}

// search returns the position of the ticker, or where it would be
// inserted.
func (cs Coins) search(id string) (int, bool) {
	i := sort.Search(len(cs), func(i int) bool { return cs[i].ID() >= id })
	return i, i < len(cs) && cs[i].ID() == id
}

func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// IsPositive is true for a non empty set of positive coins.
func (cs Coins) IsPositive() bool {
	return !cs.IsEmpty() && cs.IsNonNegative()
}

// IsNonNegative is true when no coin is negative. Zero coins are never
// stored, so every coin must be positive.
func (cs Coins) IsNonNegative() bool {
	for _, c := range cs {
		if !c.IsPositive() {
			return false
		}
	}
	return true
}

func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i := range cs {
		if !cs[i].Equals(*o[i]) {
			return false
		}
	}
	return true
}

// Count returns the number of tickers held.
func (cs Coins) Count() int {
	return len(cs)
}

// Validate checks every coin and the normalized form.
func (cs Coins) Validate() error {
	var err error
	for i, c := range cs {
		err = errors.Append(err, errors.Wrap(c.Validate(), "coin"))
		if c.IsZero() {
			err = errors.Append(err, errors.Wrap(errors.ErrState, "zero coins"))
		}
		if i > 0 && c.Ticker <= cs[i-1].Ticker {
			err = errors.Append(err, errors.Wrap(errors.ErrState, "not sorted"))
		}
	}
	return err
}
