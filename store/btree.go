package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/ledger/errors"
)

// DefaultFreeListSize is the number of released btree nodes kept for reuse.
const DefaultFreeListSize = btree.DefaultFreeListSize

// BTreeCacheable gives any KVStore a btree backed CacheWrap.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an empty in-memory store. Nothing is persisted.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap buffers writes in a btree on top of a read-only view of a
// store. Write flushes them through the batch, Discard drops them. A
// transaction runs against one of these, so it either commits all of its
// writes or none.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache over kv whose writes go to batch. free
// may be nil; pass an existing list to share released nodes.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap stacks another cache on this one. Nested savepoints use it.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes the buffered writes to the parent store and empties the
// cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all buffered writes.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(cacheItem{bkey: bkey{key}, value: value})
	return b.batch.Set(key, value)
}

// Delete records a tombstone, so that the key stays hidden from the parent
// store until Write.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(cacheItem{bkey: bkey{key}, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	item, ok, err := b.cached(key)
	switch {
	case err != nil:
		return nil, err
	case !ok:
		return b.back.Get(key)
	case item.deleted:
		return nil, nil
	default:
		return item.value, nil
	}
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	item, ok, err := b.cached(key)
	switch {
	case err != nil:
		return false, err
	case !ok:
		return b.back.Has(key)
	default:
		return !item.deleted, nil
	}
}

// cached returns the buffered write for key, if any.
func (b BTreeCacheWrap) cached(key []byte) (cacheItem, bool, error) {
	res := b.bt.Get(bkey{key})
	if res == nil {
		return cacheItem{}, false, nil
	}
	item, ok := res.(cacheItem)
	if !ok {
		return cacheItem{}, false, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", res)
	}
	return item, true, nil
}

// Iterator merges the buffered writes with the parent store, in ascending
// key order.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parentIter, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return ascendBtree(b.bt, start, end).wrap(parentIter, true), nil
}

// ReverseIterator is Iterator in descending key order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parentIter, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return descendBtree(b.bt, start, end).wrap(parentIter, false), nil
}

// keyer is implemented by everything stored in or compared against the
// btree.
type keyer interface {
	Key() []byte
}

// bkey orders items by key. It is also used as a lookup pivot.
type bkey struct {
	key []byte
}

var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

func (k bkey) Less(item btree.Item) bool {
	return bytes.Compare(k.key, item.(keyer).Key()) < 0
}

// cacheItem is a buffered write: a value or a tombstone.
type cacheItem struct {
	bkey
	value   []byte
	deleted bool
}

// bkeyLess sorts just below its key. Descending ranges use it so that their
// bounds match the ascending ones: start included, end excluded.
type bkeyLess struct {
	key []byte
}

var _ btree.Item = bkeyLess{}

func (k bkeyLess) Key() []byte {
	return k.key
}

func (k bkeyLess) Less(item btree.Item) bool {
	return bytes.Compare(k.key, item.(keyer).Key()) <= 0
}
