package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

var (
	_ ledger.Msg = (*InitializeMsg)(nil)
	_ ledger.Msg = (*ExchangeMsg)(nil)
	_ ledger.Msg = (*CancelMsg)(nil)
)

// InitializeMsg opens an escrow. The initializer deposits InitializerAmount
// of the mint into the vault and expects TakerAmount in return.
type InitializeMsg struct {
	Metadata    *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Initializer ledger.Address   `protobuf:"bytes,2,opt,name=initializer,proto3,casttype=github.com/iov-one/ledger.Address" json:"initializer,omitempty"`
	// Vault must be the address derived from VaultSeed and VaultBump. No
	// account may exist there yet.
	Vault                     ledger.Address `protobuf:"bytes,3,opt,name=vault,proto3,casttype=github.com/iov-one/ledger.Address" json:"vault,omitempty"`
	VaultSeed                 []byte         `protobuf:"bytes,4,opt,name=vault_seed,json=vaultSeed,proto3" json:"vault_seed,omitempty"`
	VaultBump                 uint32         `protobuf:"varint,5,opt,name=vault_bump,json=vaultBump,proto3" json:"vault_bump,omitempty"`
	Mint                      ledger.Address `protobuf:"bytes,6,opt,name=mint,proto3,casttype=github.com/iov-one/ledger.Address" json:"mint,omitempty"`
	InitializerDepositAccount ledger.Address `protobuf:"bytes,7,opt,name=initializer_deposit_account,json=initializerDepositAccount,proto3,casttype=github.com/iov-one/ledger.Address" json:"initializer_deposit_account,omitempty"`
	InitializerReceiveAccount ledger.Address `protobuf:"bytes,8,opt,name=initializer_receive_account,json=initializerReceiveAccount,proto3,casttype=github.com/iov-one/ledger.Address" json:"initializer_receive_account,omitempty"`
	InitializerAmount         uint64         `protobuf:"varint,9,opt,name=initializer_amount,json=initializerAmount,proto3" json:"initializer_amount,omitempty"`
	TakerAmount               uint64         `protobuf:"varint,10,opt,name=taker_amount,json=takerAmount,proto3" json:"taker_amount,omitempty"`
}

func (InitializeMsg) Path() string {
	return "escrow/initialize"
}

func (m *InitializeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Initializer", m.Initializer.Validate())
	errs = errors.AppendField(errs, "Vault", m.Vault.Validate())
	if len(m.VaultSeed) > ledger.MaxSeedLength {
		errs = errors.Append(errs, errors.Field("VaultSeed", errors.ErrInput, "too long"))
	}
	if m.VaultBump > 255 {
		errs = errors.Append(errs, errors.Field("VaultBump", errors.ErrInput, "must fit in a byte"))
	}
	errs = errors.AppendField(errs, "Mint", m.Mint.Validate())
	errs = errors.AppendField(errs, "InitializerDepositAccount", m.InitializerDepositAccount.Validate())
	errs = errors.AppendField(errs, "InitializerReceiveAccount", m.InitializerReceiveAccount.Validate())
	if m.InitializerDepositAccount.Equals(m.InitializerReceiveAccount) {
		errs = errors.Append(errs, errors.Field("InitializerReceiveAccount", errors.ErrInput, "same as the deposit account"))
	}
	if m.InitializerAmount == 0 {
		errs = errors.Append(errs, errors.Field("InitializerAmount", errors.ErrAmount, "must be positive"))
	}
	if m.TakerAmount == 0 {
		errs = errors.Append(errs, errors.Field("TakerAmount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

type initializeMsgPB InitializeMsg

func (m *initializeMsgPB) Reset()         { *m = initializeMsgPB{} }
func (m *initializeMsgPB) String() string { return proto.CompactTextString(m) }
func (*initializeMsgPB) ProtoMessage()    {}

func (m *InitializeMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*initializeMsgPB)(m))
}

func (m *InitializeMsg) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*initializeMsgPB)(m))
}

// ExchangeMsg settles an escrow. Every account except the taker ones must
// match the escrow record.
type ExchangeMsg struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	EscrowID []byte           `protobuf:"bytes,2,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id,omitempty"`
	Taker    ledger.Address   `protobuf:"bytes,3,opt,name=taker,proto3,casttype=github.com/iov-one/ledger.Address" json:"taker,omitempty"`
	// TakerDepositAccount pays the taker amount.
	TakerDepositAccount ledger.Address `protobuf:"bytes,4,opt,name=taker_deposit_account,json=takerDepositAccount,proto3,casttype=github.com/iov-one/ledger.Address" json:"taker_deposit_account,omitempty"`
	// TakerReceiveAccount receives the vault content.
	TakerReceiveAccount       ledger.Address `protobuf:"bytes,5,opt,name=taker_receive_account,json=takerReceiveAccount,proto3,casttype=github.com/iov-one/ledger.Address" json:"taker_receive_account,omitempty"`
	Initializer               ledger.Address `protobuf:"bytes,6,opt,name=initializer,proto3,casttype=github.com/iov-one/ledger.Address" json:"initializer,omitempty"`
	InitializerDepositAccount ledger.Address `protobuf:"bytes,7,opt,name=initializer_deposit_account,json=initializerDepositAccount,proto3,casttype=github.com/iov-one/ledger.Address" json:"initializer_deposit_account,omitempty"`
	InitializerReceiveAccount ledger.Address `protobuf:"bytes,8,opt,name=initializer_receive_account,json=initializerReceiveAccount,proto3,casttype=github.com/iov-one/ledger.Address" json:"initializer_receive_account,omitempty"`
	Vault                     ledger.Address `protobuf:"bytes,9,opt,name=vault,proto3,casttype=github.com/iov-one/ledger.Address" json:"vault,omitempty"`
	VaultAuthority            ledger.Address `protobuf:"bytes,10,opt,name=vault_authority,json=vaultAuthority,proto3,casttype=github.com/iov-one/ledger.Address" json:"vault_authority,omitempty"`
}

func (ExchangeMsg) Path() string {
	return "escrow/exchange"
}

func (m *ExchangeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "EscrowID", validateEscrowID(m.EscrowID))
	errs = errors.AppendField(errs, "Taker", m.Taker.Validate())
	errs = errors.AppendField(errs, "TakerDepositAccount", m.TakerDepositAccount.Validate())
	errs = errors.AppendField(errs, "TakerReceiveAccount", m.TakerReceiveAccount.Validate())
	errs = errors.AppendField(errs, "Initializer", m.Initializer.Validate())
	errs = errors.AppendField(errs, "InitializerDepositAccount", m.InitializerDepositAccount.Validate())
	errs = errors.AppendField(errs, "InitializerReceiveAccount", m.InitializerReceiveAccount.Validate())
	errs = errors.AppendField(errs, "Vault", m.Vault.Validate())
	errs = errors.AppendField(errs, "VaultAuthority", m.VaultAuthority.Validate())
	return errs
}

type exchangeMsgPB ExchangeMsg

func (m *exchangeMsgPB) Reset()         { *m = exchangeMsgPB{} }
func (m *exchangeMsgPB) String() string { return proto.CompactTextString(m) }
func (*exchangeMsgPB) ProtoMessage()    {}

func (m *ExchangeMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*exchangeMsgPB)(m))
}

func (m *ExchangeMsg) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*exchangeMsgPB)(m))
}

// CancelMsg returns the deposit of an open escrow to the initializer.
type CancelMsg struct {
	Metadata                  *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	EscrowID                  []byte           `protobuf:"bytes,2,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id,omitempty"`
	Initializer               ledger.Address   `protobuf:"bytes,3,opt,name=initializer,proto3,casttype=github.com/iov-one/ledger.Address" json:"initializer,omitempty"`
	InitializerDepositAccount ledger.Address   `protobuf:"bytes,4,opt,name=initializer_deposit_account,json=initializerDepositAccount,proto3,casttype=github.com/iov-one/ledger.Address" json:"initializer_deposit_account,omitempty"`
	Vault                     ledger.Address   `protobuf:"bytes,5,opt,name=vault,proto3,casttype=github.com/iov-one/ledger.Address" json:"vault,omitempty"`
	VaultAuthority            ledger.Address   `protobuf:"bytes,6,opt,name=vault_authority,json=vaultAuthority,proto3,casttype=github.com/iov-one/ledger.Address" json:"vault_authority,omitempty"`
}

func (CancelMsg) Path() string {
	return "escrow/cancel"
}

func (m *CancelMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "EscrowID", validateEscrowID(m.EscrowID))
	errs = errors.AppendField(errs, "Initializer", m.Initializer.Validate())
	errs = errors.AppendField(errs, "InitializerDepositAccount", m.InitializerDepositAccount.Validate())
	errs = errors.AppendField(errs, "Vault", m.Vault.Validate())
	errs = errors.AppendField(errs, "VaultAuthority", m.VaultAuthority.Validate())
	return errs
}

type cancelMsgPB CancelMsg

func (m *cancelMsgPB) Reset()         { *m = cancelMsgPB{} }
func (m *cancelMsgPB) String() string { return proto.CompactTextString(m) }
func (*cancelMsgPB) ProtoMessage()    {}

func (m *CancelMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*cancelMsgPB)(m))
}

func (m *CancelMsg) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*cancelMsgPB)(m))
}

// validateEscrowID accepts keys allocated by the escrow sequence.
func validateEscrowID(id []byte) error {
	if len(id) != 8 {
		return errors.Wrapf(errors.ErrInput, "escrow id must be 8 bytes, got %d", len(id))
	}
	return nil
}
