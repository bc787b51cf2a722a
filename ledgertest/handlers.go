package ledgertest

import "github.com/iov-one/ledger"

// Handler is a mock implementation of the ledger.Handler interface.
//
// Set the error attributes to force failure. Before returning, each call
// optionally writes WriteKey to the store, which allows to test that a
// failed transaction leaves no trace.
type Handler struct {
	checkCall   int
	CheckResult ledger.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult ledger.DeliverResult
	DeliverErr    error

	// WriteKey if set is written to the store on every call.
	WriteKey []byte
}

var _ ledger.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	h.checkCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	h.deliverCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db ledger.KVStore) error {
	if h.WriteKey == nil {
		return nil
	}
	return db.Set(h.WriteKey, []byte("written"))
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// Registry is a ledger.Registry collecting handlers by route path.
type Registry map[string]ledger.Handler

var _ ledger.Registry = Registry{}

func (r Registry) Handle(path string, h ledger.Handler) {
	r[path] = h
}
