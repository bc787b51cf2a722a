package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// MaxDecimals limits the precision a mint can declare.
const MaxDecimals = 18

// Mint defines a token type.
type Mint struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Ticker is the unique symbol of the token. The mint address is
	// derived from it.
	Ticker string `protobuf:"bytes,2,opt,name=ticker,proto3" json:"ticker,omitempty"`
	// Authority is the only address allowed to create new tokens.
	Authority ledger.Address `protobuf:"bytes,3,opt,name=authority,proto3,casttype=github.com/iov-one/ledger.Address" json:"authority,omitempty"`
	Decimals  uint32         `protobuf:"varint,4,opt,name=decimals,proto3" json:"decimals,omitempty"`
	// Supply is the total amount of tokens minted.
	Supply uint64 `protobuf:"varint,5,opt,name=supply,proto3" json:"supply,omitempty"`
}

var _ orm.Model = (*Mint)(nil)

func (m *Mint) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if !isTicker(m.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrInput, "invalid ticker"))
	}
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	if m.Decimals > MaxDecimals {
		errs = errors.Append(errs, errors.Field("Decimals", errors.ErrInput, "too many decimals"))
	}
	return errs
}

func (m *Mint) Copy() orm.CloneableData {
	return &Mint{
		Metadata:  m.Metadata.Copy(),
		Ticker:    m.Ticker,
		Authority: m.Authority.Clone(),
		Decimals:  m.Decimals,
		Supply:    m.Supply,
	}
}

type mintPB Mint

func (m *mintPB) Reset()         { *m = mintPB{} }
func (m *mintPB) String() string { return proto.CompactTextString(m) }
func (*mintPB) ProtoMessage()    {}

func (m *Mint) Marshal() ([]byte, error) {
	return proto.Marshal((*mintPB)(m))
}

func (m *Mint) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*mintPB)(m))
}

// Account holds tokens of a single mint.
type Account struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Mint     ledger.Address   `protobuf:"bytes,2,opt,name=mint,proto3,casttype=github.com/iov-one/ledger.Address" json:"mint,omitempty"`
	// Owner must authorize every transfer out of the account and its
	// closing.
	Owner  ledger.Address `protobuf:"bytes,3,opt,name=owner,proto3,casttype=github.com/iov-one/ledger.Address" json:"owner,omitempty"`
	Amount uint64         `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
	// Reserve is the amount of native coins locked while the account is
	// open.
	Reserve *coin.Coin `protobuf:"bytes,5,opt,name=reserve,proto3" json:"reserve,omitempty"`
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Mint", a.Mint.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	errs = errors.AppendField(errs, "Reserve", validateReserve(a.Reserve))
	return errs
}

func (a *Account) Copy() orm.CloneableData {
	return &Account{
		Metadata: a.Metadata.Copy(),
		Mint:     a.Mint.Clone(),
		Owner:    a.Owner.Clone(),
		Amount:   a.Amount,
		Reserve:  a.Reserve.Clone(),
	}
}

type accountPB Account

func (m *accountPB) Reset()         { *m = accountPB{} }
func (m *accountPB) String() string { return proto.CompactTextString(m) }
func (*accountPB) ProtoMessage()    {}

func (a *Account) Marshal() ([]byte, error) {
	return proto.Marshal((*accountPB)(a))
}

func (a *Account) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*accountPB)(a))
}

// NewMintBucket returns the bucket of mints keyed by mint address.
func NewMintBucket() orm.ModelBucket {
	return orm.NewModelBucket("mint", &Mint{})
}

// NewAccountBucket returns the bucket of token accounts keyed by account
// address and indexed by owner and mint.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokacct", &Account{},
		orm.WithIndex("owner", accountOwnerIndexer, false),
		orm.WithIndex("mint", accountMintIndexer, false),
	)
}

func accountOwnerIndexer(obj orm.Object) ([]byte, error) {
	a, err := asAccount(obj)
	if err != nil || a == nil {
		return nil, err
	}
	return a.Owner, nil
}

func accountMintIndexer(obj orm.Object) ([]byte, error) {
	a, err := asAccount(obj)
	if err != nil || a == nil {
		return nil, err
	}
	return a.Mint, nil
}

func asAccount(obj orm.Object) (*Account, error) {
	if obj == nil {
		return nil, nil
	}
	a, ok := obj.Value().(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T is not an account", obj.Value())
	}
	return a, nil
}

// RegisterQuery exposes mints under "/tokens/mints" and accounts under
// "/tokens/accounts" with the owner and mint indexes.
func RegisterQuery(qr ledger.QueryRouter) {
	NewMintBucket().Register("tokens/mints", qr)
	NewAccountBucket().Register("tokens/accounts", qr)
}
