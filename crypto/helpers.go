package crypto

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is the public part of a key pair. Only ed25519 keys are
// supported.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// PrivateKey holds the 64 byte ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// Signature is a signature created with a PrivateKey.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (p *PublicKey) GetEd25519() []byte {
	if p == nil {
		return nil
	}
	return p.Ed25519
}

func (p *PrivateKey) GetEd25519() []byte {
	if p == nil {
		return nil
	}
	return p.Ed25519
}

func (s *Signature) GetEd25519() []byte {
	if s == nil {
		return nil
	}
	return s.Ed25519
}

// Address is a convenience method to get the Address of the key condition.
// It returns nil for an empty key.
func (p *PublicKey) Address() ledger.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}

type publicKeyPB PublicKey

func (m *publicKeyPB) Reset()         { *m = publicKeyPB{} }
func (m *publicKeyPB) String() string { return proto.CompactTextString(m) }
func (*publicKeyPB) ProtoMessage()    {}

func (p *PublicKey) Marshal() ([]byte, error) {
	return proto.Marshal((*publicKeyPB)(p))
}

func (p *PublicKey) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*publicKeyPB)(p))
}

type privateKeyPB PrivateKey

func (m *privateKeyPB) Reset()         { *m = privateKeyPB{} }
func (m *privateKeyPB) String() string { return proto.CompactTextString(m) }
func (*privateKeyPB) ProtoMessage()    {}

func (p *PrivateKey) Marshal() ([]byte, error) {
	return proto.Marshal((*privateKeyPB)(p))
}

func (p *PrivateKey) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*privateKeyPB)(p))
}

type signaturePB Signature

func (m *signaturePB) Reset()         { *m = signaturePB{} }
func (m *signaturePB) String() string { return proto.CompactTextString(m) }
func (*signaturePB) ProtoMessage()    {}

func (s *Signature) Marshal() ([]byte, error) {
	return proto.Marshal((*signaturePB)(s))
}

func (s *Signature) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*signaturePB)(s))
}
