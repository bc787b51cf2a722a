package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
)

/*
TestSuite provides many methods that can be called in package-specific test code.
We just customize the store being tested (pass in constructor), the rest of the
logic is generic to the KVStore interface.

This is intended in particular to remove duplication between btree_test.go
and iavl/adapter_test.go, but can be used for any implementation of KVStore.
*/
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing all
// resources it holds.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet does basic sanity checks on our cache
//
// Other tests should handle deletes, setting same value,
// iterating over ranges, and general fuzzing
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	// make sure the store is empty at start but returns results
	// that are written to it
	k, v := []byte("french"), []byte("fry")
	s.AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	// now layer a cache on top and make sure that we get base data
	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	s.AssertGetHas(t, cache, k2, nil, false)
	assert.Nil(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	// we can write the cache to the base layer...
	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	s.AssertGetHas(t, c2, k, v, true)
	assert.Nil(t, c2.Set(k3, v3))
	c2.Discard()
	s.AssertGetHas(t, base, k3, nil, false)

	// and commit another
	c3 := base.CacheWrap()
	assert.Nil(t, c3.Delete(k))
	assert.Nil(t, c3.Write())

	// make sure it commits proper
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
	s.AssertGetHas(t, base, k3, nil, false)
}

// CacheConflicts checks that we can handle
// overwriting values and deleting underlying values
func (s *TestSuite) CacheConflicts(t *testing.T) {
	ks := randKeys(10, 16)
	vs := randKeys(20, 40)

	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []Model // Key is what we query, Value is what we expect
		childQueries  []Model // Key is what we query, Value is what we expect
	}{
		"overwrite one, delete another, add a third": {
			parentOps:     []Op{SetOp(ks[1], vs[1]), SetOp(ks[2], vs[2])},
			childOps:      []Op{SetOp(ks[1], vs[11]), SetOp(ks[3], vs[7]), DelOp(ks[2])},
			parentQueries: []Model{Pair(ks[1], vs[1]), Pair(ks[2], vs[2]), Pair(ks[3], nil)},
			childQueries:  []Model{Pair(ks[1], vs[11]), Pair(ks[2], nil), Pair(ks[3], vs[7])},
		},
		"add item then delete it": {
			parentOps:     []Op{SetOp(ks[0], vs[0]), SetOp(ks[5], vs[5])},
			childOps:      []Op{DelOp(ks[0]), SetOp(ks[4], vs[4]), SetOp(ks[4], vs[9]), DelOp(ks[4])},
			parentQueries: []Model{Pair(ks[0], vs[0]), Pair(ks[4], nil)},
			childQueries:  []Model{Pair(ks[0], nil), Pair(ks[4], nil), Pair(ks[5], vs[5])},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}

			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}

			// now check the parent is unaffected
			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}

			// the child shows changes
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			// write child to parent and make sure it also shows proper data
			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// Iterator checks that iteration over a cache merges the cached writes
// with the parent data in both directions.
func (s *TestSuite) Iterator(t *testing.T) {
	parent, cleanup := s.makeBase()
	defer cleanup()

	for _, k := range []string{"a", "c", "e", "g"} {
		assert.Nil(t, parent.Set([]byte(k), []byte("p"+k)))
	}
	child := parent.CacheWrap()
	assert.Nil(t, child.Set([]byte("b"), []byte("cb")))
	assert.Nil(t, child.Set([]byte("c"), []byte("cc")))
	assert.Nil(t, child.Delete([]byte("e")))
	assert.Nil(t, child.Set([]byte("h"), []byte("ch")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"full range": {
			want: []Model{
				Pair([]byte("a"), []byte("pa")),
				Pair([]byte("b"), []byte("cb")),
				Pair([]byte("c"), []byte("cc")),
				Pair([]byte("g"), []byte("pg")),
				Pair([]byte("h"), []byte("ch")),
			},
		},
		"bounded range": {
			start: []byte("b"),
			end:   []byte("g"),
			want: []Model{
				Pair([]byte("b"), []byte("cb")),
				Pair([]byte("c"), []byte("cc")),
			},
		},
		"reverse full range": {
			reverse: true,
			want: []Model{
				Pair([]byte("h"), []byte("ch")),
				Pair([]byte("g"), []byte("pg")),
				Pair([]byte("c"), []byte("cc")),
				Pair([]byte("b"), []byte("cb")),
				Pair([]byte("a"), []byte("pa")),
			},
		},
		"reverse bounded range": {
			start:   []byte("a"),
			end:     []byte("c"),
			reverse: true,
			want: []Model{
				Pair([]byte("b"), []byte("cb")),
				Pair([]byte("a"), []byte("pa")),
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				iter Iterator
				err  error
			)
			if tc.reverse {
				iter, err = child.ReverseIterator(tc.start, tc.end)
			} else {
				iter, err = child.Iterator(tc.start, tc.end)
			}
			assert.Nil(t, err)
			got := consumeIterator(t, iter)
			assert.Equal(t, tc.want, got)
		})
	}
}

// AssertGetHas makes sure that this key returns
// the proper value for Get and Has.
//
// nil for value means we expect no value
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	if !bytes.Equal(val, got) {
		t.Fatalf("want %q value, got %q", val, got)
	}
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

func consumeIterator(t testing.TB, iter Iterator) []Model {
	t.Helper()
	defer iter.Release()

	var res []Model
	for {
		k, v, err := iter.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		assert.Nil(t, err)
		res = append(res, Pair(k, v))
	}
}

// randKeys returns a sorted list of count keys of given length.
func randKeys(count, length int) [][]byte {
	res := make([][]byte, count)
	for i := 0; i < count; i++ {
		res[i] = make([]byte, length)
		if _, err := rand.Read(res[i]); err != nil {
			panic(err)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i], res[j]) < 0
	})
	return res
}
