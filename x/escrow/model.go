package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// Escrow describes an open swap. It is created by initialize and removed by
// exchange or cancel. It is never updated.
type Escrow struct {
	Metadata    *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Initializer ledger.Address   `protobuf:"bytes,2,opt,name=initializer,proto3,casttype=github.com/iov-one/ledger.Address" json:"initializer,omitempty"`
	// InitializerDepositAccount is the token account the deposit was taken
	// from. Cancel returns the deposit there.
	InitializerDepositAccount ledger.Address `protobuf:"bytes,3,opt,name=initializer_deposit_account,json=initializerDepositAccount,proto3,casttype=github.com/iov-one/ledger.Address" json:"initializer_deposit_account,omitempty"`
	// InitializerReceiveAccount receives the taker payment.
	InitializerReceiveAccount ledger.Address `protobuf:"bytes,4,opt,name=initializer_receive_account,json=initializerReceiveAccount,proto3,casttype=github.com/iov-one/ledger.Address" json:"initializer_receive_account,omitempty"`
	// InitializerAmount is held by the vault while the escrow is open.
	InitializerAmount uint64 `protobuf:"varint,5,opt,name=initializer_amount,json=initializerAmount,proto3" json:"initializer_amount,omitempty"`
	TakerAmount       uint64 `protobuf:"varint,6,opt,name=taker_amount,json=takerAmount,proto3" json:"taker_amount,omitempty"`
	// Vault is the token account owned by the escrow authority.
	Vault     ledger.Address `protobuf:"bytes,7,opt,name=vault,proto3,casttype=github.com/iov-one/ledger.Address" json:"vault,omitempty"`
	VaultSeed []byte         `protobuf:"bytes,8,opt,name=vault_seed,json=vaultSeed,proto3" json:"vault_seed,omitempty"`
	// AuthorityBump derives the vault authority together with the program
	// name.
	AuthorityBump uint32 `protobuf:"varint,9,opt,name=authority_bump,json=authorityBump,proto3" json:"authority_bump,omitempty"`
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", e.Metadata.Validate())
	errs = errors.AppendField(errs, "Initializer", e.Initializer.Validate())
	errs = errors.AppendField(errs, "InitializerDepositAccount", e.InitializerDepositAccount.Validate())
	errs = errors.AppendField(errs, "InitializerReceiveAccount", e.InitializerReceiveAccount.Validate())
	if e.InitializerAmount == 0 {
		errs = errors.Append(errs, errors.Field("InitializerAmount", errors.ErrAmount, "must be positive"))
	}
	if e.TakerAmount == 0 {
		errs = errors.Append(errs, errors.Field("TakerAmount", errors.ErrAmount, "must be positive"))
	}
	errs = errors.AppendField(errs, "Vault", e.Vault.Validate())
	if len(e.VaultSeed) > ledger.MaxSeedLength {
		errs = errors.Append(errs, errors.Field("VaultSeed", errors.ErrInput, "too long"))
	}
	if e.AuthorityBump > 255 {
		errs = errors.Append(errs, errors.Field("AuthorityBump", errors.ErrInput, "must fit in a byte"))
	}
	return errs
}

func (e *Escrow) Copy() orm.CloneableData {
	return &Escrow{
		Metadata:                  e.Metadata.Copy(),
		Initializer:               e.Initializer.Clone(),
		InitializerDepositAccount: e.InitializerDepositAccount.Clone(),
		InitializerReceiveAccount: e.InitializerReceiveAccount.Clone(),
		InitializerAmount:         e.InitializerAmount,
		TakerAmount:               e.TakerAmount,
		Vault:                     e.Vault.Clone(),
		VaultSeed:                 append([]byte(nil), e.VaultSeed...),
		AuthorityBump:             e.AuthorityBump,
	}
}

type escrowPB Escrow

func (m *escrowPB) Reset()         { *m = escrowPB{} }
func (m *escrowPB) String() string { return proto.CompactTextString(m) }
func (*escrowPB) ProtoMessage()    {}

func (e *Escrow) Marshal() ([]byte, error) {
	return proto.Marshal((*escrowPB)(e))
}

func (e *Escrow) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*escrowPB)(e))
}

var escrowSeq = orm.NewSequence("escrow", "id")

// NewBucket returns the bucket of open escrows. Keys are allocated from a
// sequence. A vault can back only one open escrow.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("escrow", &Escrow{},
		orm.WithIDSequence(escrowSeq),
		orm.WithIndex("initializer", initializerIndexer, false),
		orm.WithIndex("vault", vaultIndexer, true),
	)
}

func initializerIndexer(obj orm.Object) ([]byte, error) {
	e, err := asEscrow(obj)
	if err != nil || e == nil {
		return nil, err
	}
	return e.Initializer, nil
}

func vaultIndexer(obj orm.Object) ([]byte, error) {
	e, err := asEscrow(obj)
	if err != nil || e == nil {
		return nil, err
	}
	return e.Vault, nil
}

func asEscrow(obj orm.Object) (*Escrow, error) {
	if obj == nil {
		return nil, nil
	}
	e, ok := obj.Value().(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T is not an escrow", obj.Value())
	}
	return e, nil
}

// RegisterQuery exposes escrows under "/escrows" together with the
// initializer and vault indexes.
func RegisterQuery(qr ledger.QueryRouter) {
	NewBucket().Register("escrows", qr)
}
