package utils

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Savepoint runs the wrapped handler on a cache of the store. The cache is
// written only if the handler succeeded, otherwise every change is dropped.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ ledger.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator. It does nothing until OnCheck
// or OnDeliver is called.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that is also triggered on CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that is also triggered on DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	cstore, ok := db.(ledger.CacheableKVStore)
	if !s.onCheck || !ok {
		return next.Check(ctx, db, tx)
	}
	var res *ledger.CheckResult
	err := withCache(cstore, func(cache ledger.KVStore) (err error) {
		res, err = next.Check(ctx, cache, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	cstore, ok := db.(ledger.CacheableKVStore)
	if !s.onDeliver || !ok {
		return next.Deliver(ctx, db, tx)
	}
	var res *ledger.DeliverResult
	err := withCache(cstore, func(cache ledger.KVStore) (err error) {
		res, err = next.Deliver(ctx, cache, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// withCache calls fn with a cache wrap of db and writes the cache only when
// fn returned no error.
func withCache(db ledger.CacheableKVStore, fn func(ledger.KVStore) error) error {
	cache := db.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
