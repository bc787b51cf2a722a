package app

import (
	"context"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	good := &ledgertest.Handler{}
	bad := &ledgertest.Handler{
		CheckErr:   errors.ErrHuman,
		DeliverErr: errors.ErrHuman,
	}
	r.Handle("test/good", good)
	r.Handle("test/bad", bad)

	assert.Panics(t, func() { r.Handle("test/good", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })
	assert.Panics(t, func() { r.Handle("nomodule", good) })

	ctx := context.Background()
	txFor := func(path string) *ledgertest.Tx {
		return &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: path}}
	}

	_, err := r.Check(ctx, nil, txFor("test/good"))
	assert.Nil(t, err)
	_, err = r.Deliver(ctx, nil, txFor("test/good"))
	assert.Nil(t, err)
	assert.Equal(t, 2, good.CallCount())

	_, err = r.Deliver(ctx, nil, txFor("test/bad"))
	assert.IsErr(t, errors.ErrHuman, err)

	_, err = r.Check(ctx, nil, txFor("test/missing"))
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Deliver(ctx, nil, txFor("test/missing"))
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = r.Deliver(ctx, nil, &ledgertest.Tx{Err: errors.ErrMsg})
	assert.IsErr(t, errors.ErrMsg, err)
	assert.Equal(t, 2, good.CallCount())
}
