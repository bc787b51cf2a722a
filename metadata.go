package ledger

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger/errors"
)

// Metadata is included in every persisted model and message. It declares
// the schema version the entity was serialized with.
type Metadata struct {
	Schema uint32 `protobuf:"varint,1,opt,name=schema,proto3" json:"schema,omitempty"`
}

// Validate returns an error if the metadata is missing or declares an
// invalid schema.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "nil")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "schema version must be at least 1")
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

type metadataPB Metadata

func (m *metadataPB) Reset()         { *m = metadataPB{} }
func (m *metadataPB) String() string { return proto.CompactTextString(m) }
func (*metadataPB) ProtoMessage()    {}

func (m *Metadata) Marshal() ([]byte, error) {
	return proto.Marshal((*metadataPB)(m))
}

func (m *Metadata) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*metadataPB)(m))
}
