package escrowd

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/token"
)

// Tx is the transaction format of the escrowd chain. Exactly one of the
// message fields must be set.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`

	CashSendMsg                 *cash.SendMsg                 `protobuf:"bytes,51,opt,name=cash_send_msg,json=cashSendMsg,proto3" json:"cash_send_msg,omitempty"`
	TokenCreateMintMsg          *token.CreateMintMsg          `protobuf:"bytes,52,opt,name=token_create_mint_msg,json=tokenCreateMintMsg,proto3" json:"token_create_mint_msg,omitempty"`
	TokenOpenAccountMsg         *token.OpenAccountMsg         `protobuf:"bytes,53,opt,name=token_open_account_msg,json=tokenOpenAccountMsg,proto3" json:"token_open_account_msg,omitempty"`
	TokenMintToMsg              *token.MintToMsg              `protobuf:"bytes,54,opt,name=token_mint_to_msg,json=tokenMintToMsg,proto3" json:"token_mint_to_msg,omitempty"`
	TokenTransferMsg            *token.TransferMsg            `protobuf:"bytes,55,opt,name=token_transfer_msg,json=tokenTransferMsg,proto3" json:"token_transfer_msg,omitempty"`
	TokenCloseAccountMsg        *token.CloseAccountMsg        `protobuf:"bytes,56,opt,name=token_close_account_msg,json=tokenCloseAccountMsg,proto3" json:"token_close_account_msg,omitempty"`
	TokenUpdateConfigurationMsg *token.UpdateConfigurationMsg `protobuf:"bytes,57,opt,name=token_update_configuration_msg,json=tokenUpdateConfigurationMsg,proto3" json:"token_update_configuration_msg,omitempty"`
	EscrowInitializeMsg         *escrow.InitializeMsg         `protobuf:"bytes,58,opt,name=escrow_initialize_msg,json=escrowInitializeMsg,proto3" json:"escrow_initialize_msg,omitempty"`
	EscrowExchangeMsg           *escrow.ExchangeMsg           `protobuf:"bytes,59,opt,name=escrow_exchange_msg,json=escrowExchangeMsg,proto3" json:"escrow_exchange_msg,omitempty"`
	EscrowCancelMsg             *escrow.CancelMsg             `protobuf:"bytes,60,opt,name=escrow_cancel_msg,json=escrowCancelMsg,proto3" json:"escrow_cancel_msg,omitempty"`
}

var (
	_ ledger.Tx     = (*Tx)(nil)
	_ sigs.SignedTx = (*Tx)(nil)
)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (ledger.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return tx, nil
}

// NewTx wraps a single message into a transaction.
func NewTx(msg ledger.Msg) (*Tx, error) {
	tx := new(Tx)
	if err := tx.SetMsg(msg); err != nil {
		return nil, err
	}
	return tx, nil
}

// SetMsg stores msg in the matching field, replacing any message set before.
func (tx *Tx) SetMsg(msg ledger.Msg) error {
	signatures := tx.Signatures
	*tx = Tx{Signatures: signatures}

	switch m := msg.(type) {
	case *cash.SendMsg:
		tx.CashSendMsg = m
	case *token.CreateMintMsg:
		tx.TokenCreateMintMsg = m
	case *token.OpenAccountMsg:
		tx.TokenOpenAccountMsg = m
	case *token.MintToMsg:
		tx.TokenMintToMsg = m
	case *token.TransferMsg:
		tx.TokenTransferMsg = m
	case *token.CloseAccountMsg:
		tx.TokenCloseAccountMsg = m
	case *token.UpdateConfigurationMsg:
		tx.TokenUpdateConfigurationMsg = m
	case *escrow.InitializeMsg:
		tx.EscrowInitializeMsg = m
	case *escrow.ExchangeMsg:
		tx.EscrowExchangeMsg = m
	case *escrow.CancelMsg:
		tx.EscrowCancelMsg = m
	default:
		return errors.Wrapf(errors.ErrMsg, "unsupported message type %T", msg)
	}
	return nil
}

// GetMsg returns the only message of the transaction.
func (tx *Tx) GetMsg() (ledger.Msg, error) {
	var msgs []ledger.Msg
	if tx.CashSendMsg != nil {
		msgs = append(msgs, tx.CashSendMsg)
	}
	if tx.TokenCreateMintMsg != nil {
		msgs = append(msgs, tx.TokenCreateMintMsg)
	}
	if tx.TokenOpenAccountMsg != nil {
		msgs = append(msgs, tx.TokenOpenAccountMsg)
	}
	if tx.TokenMintToMsg != nil {
		msgs = append(msgs, tx.TokenMintToMsg)
	}
	if tx.TokenTransferMsg != nil {
		msgs = append(msgs, tx.TokenTransferMsg)
	}
	if tx.TokenCloseAccountMsg != nil {
		msgs = append(msgs, tx.TokenCloseAccountMsg)
	}
	if tx.TokenUpdateConfigurationMsg != nil {
		msgs = append(msgs, tx.TokenUpdateConfigurationMsg)
	}
	if tx.EscrowInitializeMsg != nil {
		msgs = append(msgs, tx.EscrowInitializeMsg)
	}
	if tx.EscrowExchangeMsg != nil {
		msgs = append(msgs, tx.EscrowExchangeMsg)
	}
	if tx.EscrowCancelMsg != nil {
		msgs = append(msgs, tx.EscrowCancelMsg)
	}

	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrMsg, "transaction without a message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "transaction carries %d messages", len(msgs))
	}
}

// GetSignatures returns the signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign: the transaction without any
// signature.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := *tx
	unsigned.Signatures = nil
	return unsigned.Marshal()
}

type txPB Tx

func (m *txPB) Reset()         { *m = txPB{} }
func (m *txPB) String() string { return proto.CompactTextString(m) }
func (*txPB) ProtoMessage()    {}

func (tx *Tx) Marshal() ([]byte, error) {
	return proto.Marshal((*txPB)(tx))
}

func (tx *Tx) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*txPB)(tx))
}
