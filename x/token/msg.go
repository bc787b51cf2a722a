package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

var (
	_ ledger.Msg = (*CreateMintMsg)(nil)
	_ ledger.Msg = (*OpenAccountMsg)(nil)
	_ ledger.Msg = (*MintToMsg)(nil)
	_ ledger.Msg = (*TransferMsg)(nil)
	_ ledger.Msg = (*CloseAccountMsg)(nil)
	_ ledger.Msg = (*UpdateConfigurationMsg)(nil)
)

// CreateMintMsg registers a new token type. It must be signed by the
// authority.
type CreateMintMsg struct {
	Metadata  *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Authority ledger.Address   `protobuf:"bytes,2,opt,name=authority,proto3,casttype=github.com/iov-one/ledger.Address" json:"authority,omitempty"`
	Ticker    string           `protobuf:"bytes,3,opt,name=ticker,proto3" json:"ticker,omitempty"`
	Decimals  uint32           `protobuf:"varint,4,opt,name=decimals,proto3" json:"decimals,omitempty"`
}

func (CreateMintMsg) Path() string {
	return "token/create_mint"
}

func (m *CreateMintMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	if !isTicker(m.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrInput, "invalid ticker"))
	}
	if m.Decimals > MaxDecimals {
		errs = errors.Append(errs, errors.Field("Decimals", errors.ErrInput, "too many decimals"))
	}
	return errs
}

type createMintMsgPB CreateMintMsg

func (m *createMintMsgPB) Reset()         { *m = createMintMsgPB{} }
func (m *createMintMsgPB) String() string { return proto.CompactTextString(m) }
func (*createMintMsgPB) ProtoMessage()    {}

func (m *CreateMintMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*createMintMsgPB)(m))
}

func (m *CreateMintMsg) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*createMintMsgPB)(m))
}

// OpenAccountMsg opens the default account of owner for the mint. The payer
// signs and pays the account reserve.
type OpenAccountMsg struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Payer    ledger.Address   `protobuf:"bytes,2,opt,name=payer,proto3,casttype=github.com/iov-one/ledger.Address" json:"payer,omitempty"`
	Owner    ledger.Address   `protobuf:"bytes,3,opt,name=owner,proto3,casttype=github.com/iov-one/ledger.Address" json:"owner,omitempty"`
	Mint     ledger.Address   `protobuf:"bytes,4,opt,name=mint,proto3,casttype=github.com/iov-one/ledger.Address" json:"mint,omitempty"`
}

func (OpenAccountMsg) Path() string {
	return "token/open_account"
}

func (m *OpenAccountMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Payer", m.Payer.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Mint", m.Mint.Validate())
	return errs
}

type openAccountMsgPB OpenAccountMsg

func (m *openAccountMsgPB) Reset()         { *m = openAccountMsgPB{} }
func (m *openAccountMsgPB) String() string { return proto.CompactTextString(m) }
func (*openAccountMsgPB) ProtoMessage()    {}

func (m *OpenAccountMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*openAccountMsgPB)(m))
}

func (m *OpenAccountMsg) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*openAccountMsgPB)(m))
}

// MintToMsg creates new tokens in the destination account.
type MintToMsg struct {
	Metadata    *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Destination ledger.Address   `protobuf:"bytes,2,opt,name=destination,proto3,casttype=github.com/iov-one/ledger.Address" json:"destination,omitempty"`
	Amount      uint64           `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (MintToMsg) Path() string {
	return "token/mint_to"
}

func (m *MintToMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

type mintToMsgPB MintToMsg

func (m *mintToMsgPB) Reset()         { *m = mintToMsgPB{} }
func (m *mintToMsgPB) String() string { return proto.CompactTextString(m) }
func (*mintToMsgPB) ProtoMessage()    {}

func (m *MintToMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*mintToMsgPB)(m))
}

func (m *MintToMsg) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*mintToMsgPB)(m))
}

// TransferMsg moves tokens between two accounts of the same mint.
type TransferMsg struct {
	Metadata    *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Source      ledger.Address   `protobuf:"bytes,2,opt,name=source,proto3,casttype=github.com/iov-one/ledger.Address" json:"source,omitempty"`
	Destination ledger.Address   `protobuf:"bytes,3,opt,name=destination,proto3,casttype=github.com/iov-one/ledger.Address" json:"destination,omitempty"`
	Amount      uint64           `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (TransferMsg) Path() string {
	return "token/transfer"
}

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

type transferMsgPB TransferMsg

func (m *transferMsgPB) Reset()         { *m = transferMsgPB{} }
func (m *transferMsgPB) String() string { return proto.CompactTextString(m) }
func (*transferMsgPB) ProtoMessage()    {}

func (m *TransferMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*transferMsgPB)(m))
}

func (m *TransferMsg) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*transferMsgPB)(m))
}

// CloseAccountMsg removes an empty account. The reserve is sent to the
// destination wallet.
type CloseAccountMsg struct {
	Metadata    *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Account     ledger.Address   `protobuf:"bytes,2,opt,name=account,proto3,casttype=github.com/iov-one/ledger.Address" json:"account,omitempty"`
	Destination ledger.Address   `protobuf:"bytes,3,opt,name=destination,proto3,casttype=github.com/iov-one/ledger.Address" json:"destination,omitempty"`
}

func (CloseAccountMsg) Path() string {
	return "token/close_account"
}

func (m *CloseAccountMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Account", m.Account.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	return errs
}

type closeAccountMsgPB CloseAccountMsg

func (m *closeAccountMsgPB) Reset()         { *m = closeAccountMsgPB{} }
func (m *closeAccountMsgPB) String() string { return proto.CompactTextString(m) }
func (*closeAccountMsgPB) ProtoMessage()    {}

func (m *CloseAccountMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*closeAccountMsgPB)(m))
}

func (m *CloseAccountMsg) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*closeAccountMsgPB)(m))
}

// UpdateConfigurationMsg patches the token configuration. Only non zero
// fields of the patch are applied.
type UpdateConfigurationMsg struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Patch    *Configuration   `protobuf:"bytes,2,opt,name=patch,proto3" json:"patch,omitempty"`
}

func (UpdateConfigurationMsg) Path() string {
	return "token/update_configuration"
}

func (m *UpdateConfigurationMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Patch == nil {
		return errors.Append(errs, errors.Field("Patch", errors.ErrEmpty, "required"))
	}
	if m.Patch.Owner != nil {
		errs = errors.AppendField(errs, "Patch.Owner", m.Patch.Owner.Validate())
	}
	errs = errors.AppendField(errs, "Patch.AccountReserve", validateReserve(m.Patch.AccountReserve))
	return errs
}

type updateConfigurationMsgPB UpdateConfigurationMsg

func (m *updateConfigurationMsgPB) Reset()         { *m = updateConfigurationMsgPB{} }
func (m *updateConfigurationMsgPB) String() string { return proto.CompactTextString(m) }
func (*updateConfigurationMsgPB) ProtoMessage()    {}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*updateConfigurationMsgPB)(m))
}

func (m *UpdateConfigurationMsg) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*updateConfigurationMsgPB)(m))
}
