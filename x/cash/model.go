package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Set is the content of a wallet. Coins are kept normalized.
type Set struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Coins    []*coin.Coin     `protobuf:"bytes,2,rep,name=coins,proto3" json:"coins,omitempty"`
}

var _ orm.Model = (*Set)(nil)

func (s *Set) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	errs = errors.AppendField(errs, "Coins", coin.Coins(s.Coins).Validate())
	return errs
}

func (s *Set) Copy() orm.CloneableData {
	return &Set{
		Metadata: s.Metadata.Copy(),
		Coins:    coin.Coins(s.Coins).Clone(),
	}
}

type setPB Set

func (m *setPB) Reset()         { *m = setPB{} }
func (m *setPB) String() string { return proto.CompactTextString(m) }
func (*setPB) ProtoMessage()    {}

func (s *Set) Marshal() ([]byte, error) {
	return proto.Marshal((*setPB)(s))
}

func (s *Set) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*setPB)(s))
}

// NewWalletBucket returns the bucket of wallets keyed by owner address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Set{})
}

// RegisterQuery registers the wallet bucket under "/wallets".
func RegisterQuery(qr ledger.QueryRouter) {
	NewWalletBucket().Register("wallets", qr)
}
