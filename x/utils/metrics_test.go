package utils

import (
	"context"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	ctx := context.Background()
	db := store.MemStore()
	tx := &ledgertest.Tx{Msg: &ledgertest.Msg{RoutePath: "escrow/exchange"}}

	for i := 0; i < 3; i++ {
		_, err := m.Deliver(ctx, db, tx, &ledgertest.Handler{})
		assert.NoError(t, err)
	}
	_, err := m.Deliver(ctx, db, tx, &ledgertest.Handler{DeliverErr: errors.ErrState})
	assert.True(t, errors.ErrState.Is(err))

	// Check is never counted.
	_, err = m.Check(ctx, db, tx, &ledgertest.Handler{})
	assert.NoError(t, err)

	ok := testutil.ToFloat64(m.delivered.WithLabelValues("escrow/exchange", "ok"))
	assert.Equal(t, float64(3), ok)
	failed := testutil.ToFloat64(m.delivered.WithLabelValues("escrow/exchange", "10"))
	assert.Equal(t, float64(1), failed)
}
