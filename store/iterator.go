package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/ledger/errors"
)

///////////////////////////////////////////////////////
// From Items to Iterator

// btreeIter is a snapshot of the cached items within a range, in the order
// of iteration.
type btreeIter struct {
	items []keyer
	pos   int
}

func ascendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	iter := &btreeIter{}
	insert := func(item btree.Item) bool {
		iter.items = append(iter.items, item.(keyer))
		return true
	}

	if start == nil && end == nil {
		bt.Ascend(insert)
	} else if start == nil { // end != nil
		bt.AscendLessThan(bkey{end}, insert)
	} else if end == nil { // start != nil
		bt.AscendGreaterOrEqual(bkey{start}, insert)
	} else { // both != nil
		bt.AscendRange(bkey{start}, bkey{end}, insert)
	}
	return iter
}

func descendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	iter := &btreeIter{}
	insert := func(item btree.Item) bool {
		iter.items = append(iter.items, item.(keyer))
		return true
	}

	if start == nil && end == nil {
		bt.Descend(insert)
	} else if start == nil { // end != nil
		bt.DescendLessOrEqual(bkeyLess{end}, insert)
	} else if end == nil { // start != nil
		bt.DescendGreaterThan(bkeyLess{start}, insert)
	} else { // both != nil
		bt.DescendRange(bkeyLess{end}, bkeyLess{start}, insert)
	}
	return iter
}

func (b *btreeIter) valid() bool {
	return b.pos < len(b.items)
}

// get requires this is valid, gets what we are pointing at
func (b *btreeIter) get() keyer {
	return b.items[b.pos]
}

func (b *btreeIter) next() {
	b.pos++
}

func (b *btreeIter) wrap(parent Iterator, ascending bool) *itemIter {
	return &itemIter{
		wrap:      b,
		parent:    parent,
		ascending: ascending,
	}
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// itemIter combines our results with those of the parent,
// taking into consideration overwrites and deletes.
type itemIter struct {
	wrap      *btreeIter
	parent    Iterator
	ascending bool

	// the parent iterator can only move forward, so keep the last read
	// item until it is consumed
	peeked     bool
	parentDone bool
	parentKey  []byte
	parentVal  []byte
}

var _ Iterator = (*itemIter)(nil)

// Next returns the next item that is not marked as deleted.
func (i *itemIter) Next() (key, value []byte, err error) {
	for {
		if err := i.peekParent(); err != nil {
			return nil, nil, err
		}

		switch i.firstKey() {
		case none:
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "btree")
		case parent:
			i.peeked = false
			return i.parentKey, i.parentVal, nil
		case both:
			// Our version overwrites the parent one.
			i.peeked = false
			fallthrough
		case us:
			item, ok := i.wrap.get().(cacheItem)
			i.wrap.next()
			if !ok {
				return nil, nil, errors.Wrap(errors.ErrDatabase, "unknown item in btree")
			}
			if item.deleted {
				continue
			}
			return item.key, item.value, nil
		}
	}
}

// Release releases the Iterator.
func (i *itemIter) Release() {
	if i.parent != nil {
		i.parent.Release()
	}
	i.wrap.items = nil
}

func (i *itemIter) peekParent() error {
	if i.peeked || i.parentDone {
		return nil
	}
	if i.parent == nil {
		i.parentDone = true
		return nil
	}
	key, value, err := i.parent.Next()
	switch {
	case err == nil:
		i.peeked = true
		i.parentKey, i.parentVal = key, value
		return nil
	case errors.ErrIteratorDone.Is(err):
		i.parentDone = true
		return nil
	default:
		return err
	}
}

// firstKey selects the iterator with the next key in iteration order, if any
func (i *itemIter) firstKey() source {
	parentValid := i.peeked && !i.parentDone
	// if only one or none is valid, it is clear which to use
	if !parentValid {
		if !i.wrap.valid() {
			return none
		}
		return us
	} else if !i.wrap.valid() {
		return parent
	}

	cmp := bytes.Compare(i.parentKey, i.wrap.get().Key())
	if !i.ascending {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}
