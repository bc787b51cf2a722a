package orm

import (
	"reflect"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

var _ Object = (*SimpleObj)(nil)

// SimpleObj pairs a primary key with its model. Buckets clone it as the
// target of every load.
type SimpleObj struct {
	key   []byte
	value Model
}

// NewSimpleObj will combine a key and value into an object
func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Value() ledger.Persistent { return o.value }

func (o SimpleObj) Key() []byte { return o.key }

func (o *SimpleObj) SetKey(key []byte) { o.key = key }

// Validate requires both a key and a value, then defers to the value.
func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	case o.value == nil:
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return errors.Field("Value", o.value.Validate(), "invalid value")
}

// Clone returns an object holding a zero model of the same type, ready to
// be unmarshalled into. The key is copied.
func (o *SimpleObj) Clone() Object {
	model := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	return &SimpleObj{key: append([]byte(nil), o.key...), value: model}
}
