package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger/errors"
)

// Counter is a minimal model used to exercise buckets and indexes.
type Counter struct {
	Count int64 `protobuf:"varint,1,opt,name=count,proto3" json:"count,omitempty"`
}

var _ Model = (*Counter)(nil)

func NewCounter(count int64) *Counter {
	return &Counter{Count: count}
}

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInput, "count must not be negative")
	}
	return nil
}

func (c *Counter) Copy() CloneableData {
	return &Counter{Count: c.Count}
}

type counterPB Counter

func (m *counterPB) Reset()         { *m = counterPB{} }
func (m *counterPB) String() string { return proto.CompactTextString(m) }
func (*counterPB) ProtoMessage()    {}

func (c *Counter) Marshal() ([]byte, error) {
	return proto.Marshal((*counterPB)(c))
}

func (c *Counter) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*counterPB)(c))
}

// count indexes a counter by its big endian encoded value.
func count(obj Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	cntr, ok := obj.Value().(*Counter)
	if !ok {
		return nil, errors.Wrap(errors.ErrType, "can only take index of Counter")
	}
	return EncodeSequence(cntr.Count), nil
}

// parity indexes a counter under "odd" or "even".
func parity(obj Object) ([]byte, error) {
	cntr, ok := obj.Value().(*Counter)
	if !ok {
		return nil, errors.Wrap(errors.ErrType, "can only take index of Counter")
	}
	if cntr.Count%2 == 0 {
		return []byte("even"), nil
	}
	return []byte("odd"), nil
}
