package orm

import (
	"bytes"
	"regexp"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

const indexPrefix = "_i."

var isIndexName = regexp.MustCompile(`^[a-z_]{2,40}$`).MatchString

// Indexer calculates the secondary index key for a given object
type Indexer func(Object) ([]byte, error)

// MultiKeyIndexer calculates the secondary index keys for a given object
type MultiKeyIndexer func(Object) ([][]byte, error)

// Index represents a secondary index on some data. It is indexed by an
// arbitrary key returned by the indexer. The value is one primary key
// (unique) or a MultiRef of primary keys (not unique).
type Index struct {
	name   string
	id     []byte
	unique bool
	index  MultiKeyIndexer
	refKey func([]byte) []byte
}

var _ ledger.QueryHandler = Index{}

// NewIndex constructs an index. The indexer calculates the index keys for an
// object, unique enforces a unique constraint on the index and refKey
// calculates the absolute db key for a primary key.
func NewIndex(name string, indexer MultiKeyIndexer, unique bool, refKey func([]byte) []byte) Index {
	if !isIndexName(name) {
		panic("illegal index name: " + name)
	}
	return Index{
		name:   name,
		id:     append([]byte(indexPrefix), name+":"...),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

func asMultiKeyIndexer(indexer Indexer) MultiKeyIndexer {
	return func(obj Object) ([][]byte, error) {
		key, err := indexer(obj)
		switch {
		case err != nil:
			return nil, err
		case key == nil:
			return nil, nil
		}
		return [][]byte{key}, nil
	}
}

// Name returns the name of this index.
func (i Index) Name() string {
	return i.name
}

// IndexKey is the full key we store in the db, including prefix.
func (i Index) IndexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update handles updating the reference to the object in
// the secondary index.
//
// prev == nil means insert
// save == nil means delete
// both == nil is error
// if both != nil and prev.Key() != save.Key() this is an error
func (i Index) Update(db ledger.KVStore, prev Object, save Object) error {
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case prev == nil:
		keys, err := i.index(save)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.insert(db, key, save.Key()); err != nil {
				return err
			}
		}
		return nil
	case save == nil:
		keys, err := i.index(prev)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.remove(db, key, prev.Key()); err != nil {
				return err
			}
		}
		return nil
	default:
		return i.move(db, prev, save)
	}
}

// GetAt returns a list of all primary keys stored under the given index
// value. The list is empty when nothing was indexed under it.
func (i Index) GetAt(db ledger.ReadOnlyKVStore, index []byte) ([][]byte, error) {
	cur, err := db.Get(i.IndexKey(index))
	if err != nil {
		return nil, err
	}
	return i.refs(cur)
}

// Query handles queries from the QueryRouter
func (i Index) Query(db ledger.ReadOnlyKVStore, mod string, data []byte) ([]ledger.Model, error) {
	switch mod {
	case ledger.KeyQueryMod:
		refs, err := i.GetAt(db, data)
		if err != nil {
			return nil, err
		}
		return i.loadRefs(db, refs)
	case ledger.PrefixQueryMod:
		refs, err := i.getPrefix(db, data)
		if err != nil {
			return nil, err
		}
		return i.loadRefs(db, refs)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %q", mod)
	}
}

func (i Index) refs(value []byte) ([][]byte, error) {
	switch {
	case value == nil:
		return nil, nil
	case i.unique:
		return [][]byte{value}, nil
	}
	var data MultiRef
	if err := data.Unmarshal(value); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal index refs")
	}
	return data.Refs, nil
}

// getPrefix returns all references that have an index that
// begins with a given prefix
func (i Index) getPrefix(db ledger.ReadOnlyKVStore, prefix []byte) ([][]byte, error) {
	models, err := queryPrefix(db, i.IndexKey(prefix))
	if err != nil {
		return nil, err
	}
	var res [][]byte
	for _, m := range models {
		refs, err := i.refs(m.Value)
		if err != nil {
			return nil, err
		}
		res = append(res, refs...)
	}
	return res, nil
}

func (i Index) loadRefs(db ledger.ReadOnlyKVStore, refs [][]byte) ([]ledger.Model, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	res := make([]ledger.Model, len(refs))
	for j, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res[j] = ledger.Pair(key, value)
	}
	return res, nil
}

func (i Index) move(db ledger.KVStore, prev Object, save Object) error {
	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrImmutable, "cannot modify the primary key of an object")
	}

	oldKeys, err := i.index(prev)
	if err != nil {
		return err
	}
	newKeys, err := i.index(save)
	if err != nil {
		return err
	}
	keysToAdd := subtract(newKeys, oldKeys)
	keysToRemove := subtract(oldKeys, newKeys)

	// check unique constraints first
	if i.unique {
		for _, newKey := range keysToAdd {
			has, err := db.Has(i.IndexKey(newKey))
			if err != nil {
				return err
			}
			if has {
				return errors.Wrap(errors.ErrDuplicate, i.name)
			}
		}
	}

	for _, oldKey := range keysToRemove {
		if err := i.remove(db, oldKey, prev.Key()); err != nil {
			return err
		}
	}
	for _, newKey := range keysToAdd {
		if err := i.insert(db, newKey, prev.Key()); err != nil {
			return err
		}
	}
	return nil
}

func (i Index) remove(db ledger.KVStore, index []byte, pk []byte) error {
	// don't deal with empty keys
	if len(index) == 0 {
		return nil
	}

	key := i.IndexKey(index)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrap(errors.ErrNotFound, "cannot remove index from nothing")
	}
	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrap(errors.ErrNotFound, "cannot remove index from invalid object")
		}
		return db.Delete(key)
	}

	var data MultiRef
	if err := data.Unmarshal(cur); err != nil {
		return err
	}
	if err := data.Remove(pk); err != nil {
		return err
	}
	if len(data.Refs) == 0 {
		return db.Delete(key)
	}
	raw, err := data.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, raw)
}

func (i Index) insert(db ledger.KVStore, index []byte, pk []byte) error {
	// don't deal with empty keys
	if len(index) == 0 {
		return nil
	}

	key := i.IndexKey(index)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if i.unique {
		if cur != nil {
			return errors.Wrap(errors.ErrDuplicate, i.name)
		}
		return db.Set(key, pk)
	}

	var data MultiRef
	if cur != nil {
		if err := data.Unmarshal(cur); err != nil {
			return err
		}
	}
	if err := data.Add(pk); err != nil {
		return err
	}
	raw, err := data.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, raw)
}

// subtract returns all elements of minuend that are not in subtrahend.
func subtract(minuend [][]byte, subtrahend [][]byte) [][]byte {
	var r [][]byte
outer:
	for _, m := range minuend {
		for _, s := range subtrahend {
			if bytes.Equal(m, s) {
				continue outer
			}
		}
		r = append(r, m)
	}
	return r
}
