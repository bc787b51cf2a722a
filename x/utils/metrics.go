package utils

import (
	"strconv"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts delivered transactions per message path and result code.
type Metrics struct {
	delivered *prometheus.CounterVec
}

var _ ledger.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator and registers its collectors with
// the given registerer. Use prometheus.DefaultRegisterer for a node.
func NewMetrics(reg prometheus.Registerer) Metrics {
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "delivered_tx_total",
		Help:      "Number of delivered transactions by message path and ABCI code.",
	}, []string{"path", "code"})
	reg.MustRegister(delivered)
	return Metrics{delivered: delivered}
}

// Check passes the request along.
func (Metrics) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver counts the result of the delivery.
func (m Metrics) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	res, err := next.Deliver(ctx, db, tx)
	code, _ := errors.ABCIInfo(err, false)
	m.delivered.WithLabelValues(ledger.GetPath(tx), codeLabel(code)).Inc()
	return res, err
}

func codeLabel(code uint32) string {
	if code == 0 {
		return "ok"
	}
	return strconv.FormatUint(uint64(code), 10)
}
