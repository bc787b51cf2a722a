package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
)

// SignedTx is a transaction carrying signatures that can be verified by the
// Decorator.
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction without its signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures of everyone who signed the
	// transaction.
	GetSignatures() []*StdSignature
}

// StdSignature is a signature of a transaction together with the public key
// that created it and the nonce it was created for.
type StdSignature struct {
	Sequence  int64             `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Pubkey    *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Signature *crypto.Signature `protobuf:"bytes,4,opt,name=signature,proto3" json:"signature,omitempty"`
}

// Validate ensures the StdSignature meets basic standards.
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

type stdSignaturePB StdSignature

func (m *stdSignaturePB) Reset()         { *m = stdSignaturePB{} }
func (m *stdSignaturePB) String() string { return proto.CompactTextString(m) }
func (*stdSignaturePB) ProtoMessage()    {}

func (s *StdSignature) Marshal() ([]byte, error) {
	return proto.Marshal((*stdSignaturePB)(s))
}

func (s *StdSignature) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*stdSignaturePB)(s))
}
