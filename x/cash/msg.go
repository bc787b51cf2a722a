package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
)

const maxMemoSize = 128

// SendMsg moves native coins from the source wallet to the destination.
type SendMsg struct {
	Metadata    *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Source      ledger.Address   `protobuf:"bytes,2,opt,name=source,proto3,casttype=github.com/iov-one/ledger.Address" json:"source,omitempty"`
	Destination ledger.Address   `protobuf:"bytes,3,opt,name=destination,proto3,casttype=github.com/iov-one/ledger.Address" json:"destination,omitempty"`
	Amount      *coin.Coin       `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string           `protobuf:"bytes,5,opt,name=memo,proto3" json:"memo,omitempty"`
}

var _ ledger.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string {
	return "cash/send"
}

func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if coin.IsEmpty(m.Amount) || !m.Amount.IsPositive() {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	} else {
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "too long"))
	}
	return errs
}

type sendMsgPB SendMsg

func (m *sendMsgPB) Reset()         { *m = sendMsgPB{} }
func (m *sendMsgPB) String() string { return proto.CompactTextString(m) }
func (*sendMsgPB) ProtoMessage()    {}

func (m *SendMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*sendMsgPB)(m))
}

func (m *SendMsg) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*sendMsgPB)(m))
}
