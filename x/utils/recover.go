package utils

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Recovery turns a panic inside of the wrapped handler into an ErrPanic
// error so that a single broken transaction cannot stop the node.
type Recovery struct{}

var _ ledger.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator.
func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (_ *ledger.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (_ *ledger.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}
