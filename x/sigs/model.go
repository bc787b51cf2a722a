package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// UserData keeps the nonce of a public key.
type UserData struct {
	Metadata *ledger.Metadata  `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Pubkey   *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64             `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

var _ orm.CloneableData = (*UserData)(nil)

func (u *UserData) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", u.Metadata.Validate())
	if seq := u.Sequence; seq < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	} else if seq > 0 && u.Pubkey == nil {
		errs = errors.Append(errs, errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey"))
	}
	return errs
}

func (u *UserData) Copy() orm.CloneableData {
	return &UserData{
		Metadata: u.Metadata.Copy(),
		Sequence: u.Sequence,
		Pubkey:   u.Pubkey,
	}
}

// CheckAndIncrementSequence increments the sequence if it equals expected.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	// Clients represent the nonce as a javascript number.
	const maxSequenceValue = (1 << 53) - 1
	next := u.Sequence + 1
	if next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

type userDataPB UserData

func (m *userDataPB) Reset()         { *m = userDataPB{} }
func (m *userDataPB) String() string { return proto.CompactTextString(m) }
func (*userDataPB) ProtoMessage()    {}

func (u *UserData) Marshal() ([]byte, error) {
	return proto.Marshal((*userDataPB)(u))
}

func (u *UserData) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*userDataPB)(u))
}

// AsUser casts a bucket object to UserData.
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser constructs an object keyed by the address of the public key.
func NewUser(pubkey *crypto.PublicKey) orm.Object {
	var key ledger.Address
	if pubkey != nil {
		key = pubkey.Address()
	}
	value := &UserData{
		Metadata: &ledger.Metadata{Schema: 1},
		Pubkey:   pubkey,
	}
	return orm.NewSimpleObj(key, value)
}

// Bucket extends orm.Bucket with GetOrCreate.
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the bucket of this extension.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewUser(nil)),
	}
}

// GetOrCreate returns the stored user or a new one with sequence zero.
func (b Bucket) GetOrCreate(db ledger.KVStore, pubkey *crypto.PublicKey) (orm.Object, error) {
	obj, err := b.Get(db, pubkey.Address())
	if err == nil && obj == nil {
		obj = NewUser(pubkey)
	}
	return obj, err
}

// NextNonce returns the nonce the signer must use for its next signature.
func NextNonce(db ledger.ReadOnlyKVStore, signer ledger.Address) (int64, error) {
	obj, err := NewBucket().Get(db, signer)
	if err != nil {
		return 0, errors.Wrap(err, "bucket get")
	}
	if u := AsUser(obj); u != nil {
		return u.Sequence, nil
	}
	return 0, nil
}
