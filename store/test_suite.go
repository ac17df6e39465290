package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/iov-one/tokenswap/weave"
	"github.com/stretchr/testify/require"
)

// TestStoreConstructor builds a fresh, empty store for every check run by
// the TestSuite. cleanup is called once the check completes.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// TestSuite runs KVStore contract checks against any CacheableKVStore
// implementation. Both the btree and the iavl adapters share it.
type TestSuite struct {
	newStore TestStoreConstructor
}

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{newStore: constructor}
}

// GetSet checks that values written to a cache layer stay invisible to the
// parent until Write and vanish on Discard.
func (s *TestSuite) GetSet(t *testing.T) {
	db, cleanup := s.newStore()
	defer cleanup()

	vault, escrow, offer := []byte("vault"), []byte("escrow"), []byte("offer")

	s.AssertGetHas(t, db, vault, nil, false)
	require.NoError(t, db.Set(vault, []byte("500")))
	s.AssertGetHas(t, db, vault, []byte("500"), true)

	pending := db.CacheWrap()
	s.AssertGetHas(t, pending, vault, []byte("500"), true)
	require.NoError(t, pending.Set(escrow, []byte("open")))
	s.AssertGetHas(t, pending, escrow, []byte("open"), true)
	s.AssertGetHas(t, db, escrow, nil, false)
	require.NoError(t, pending.Write())
	s.AssertGetHas(t, db, escrow, []byte("open"), true)

	dropped := db.CacheWrap()
	require.NoError(t, dropped.Set(offer, []byte("x")))
	require.NoError(t, dropped.Delete(vault))
	dropped.Discard()
	s.AssertGetHas(t, db, offer, nil, false)
	s.AssertGetHas(t, db, vault, []byte("500"), true)

	closing := db.CacheWrap()
	require.NoError(t, closing.Delete(vault))
	require.NoError(t, closing.Write())
	s.AssertGetHas(t, db, vault, nil, false)
	s.AssertGetHas(t, db, escrow, []byte("open"), true)
}

// CacheConflicts checks a child layer that overwrites and deletes keys
// held by its parent.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	keys := randKeys(4, 16)
	vals := randKeys(4, 32)

	db, cleanup := s.newStore()
	defer cleanup()

	require.NoError(t, db.Set(keys[0], vals[0]))
	require.NoError(t, db.Set(keys[1], vals[1]))

	child := db.CacheWrap()
	require.NoError(t, child.Set(keys[0], vals[2]))
	require.NoError(t, child.Delete(keys[1]))
	require.NoError(t, child.Set(keys[3], vals[3]))

	parentView := []Model{weave.Pair(keys[0], vals[0]), weave.Pair(keys[1], vals[1]), weave.Pair(keys[3], nil)}
	childView := []Model{weave.Pair(keys[0], vals[2]), weave.Pair(keys[1], nil), weave.Pair(keys[3], vals[3])}

	for _, m := range parentView {
		s.AssertGetHas(t, db, m.Key, m.Value, m.Value != nil)
	}
	for _, m := range childView {
		s.AssertGetHas(t, child, m.Key, m.Value, m.Value != nil)
	}
	require.NoError(t, child.Write())
	for _, m := range childView {
		s.AssertGetHas(t, db, m.Key, m.Value, m.Value != nil)
	}
}

// FuzzIterator checks ranged iteration in both directions over random data
// split between a parent and a cache layer, with deletes of missing keys
// mixed in.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	const n = 40

	child := randModels(n, 8, 24)
	parent := randModels(n, 8, 24)
	noise := randModels(10, 8, 24)

	childOps := append(setOps(child...), delOps(noise...)...)
	parentOps := append(setOps(parent...), delOps(noise...)...)

	onlyChild := sortModels(child)
	merged := sortModels(append(append([]Model{}, child...), parent...))

	t.Run("child over empty parent", func(t *testing.T) {
		db, cleanup := s.newStore()
		defer cleanup()
		checkIteration(t, db, nil, childOps, windows(onlyChild))
	})
	t.Run("child over populated parent", func(t *testing.T) {
		db, cleanup := s.newStore()
		defer cleanup()
		checkIteration(t, db, parentOps, childOps, windows(merged))
	})
}

// IteratorWithConflicts checks iteration where the cache layer shadows or
// deletes parent entries.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	m := randModels(5, 16, 32)
	a, b, c, d := m[0], m[1], m[2], m[3]
	a2 := Model{Key: a.Key, Value: m[4].Value}

	plain := sortModels([]Model{a, b, c})
	shadowed := sortModels([]Model{a2, b, c, d})

	cases := map[string]struct {
		parent, child []Op
		want          []rangeQuery
	}{
		"all in child": {
			child: setOps(a, b, c),
			want:  []rangeQuery{{want: plain}, {reverse: true, want: reverseModels(plain)}},
		},
		"all in parent": {
			parent: setOps(a, b, c),
			want:   []rangeQuery{{want: plain}, {start: plain[1].Key, end: plain[2].Key, want: plain[1:2]}},
		},
		"child shadows parent": {
			parent: setOps(a, b, c),
			child:  setOps(a2, d),
			want:   []rangeQuery{{want: shadowed}, {reverse: true, want: reverseModels(shadowed)}},
		},
		"child deletes parent": {
			parent: setOps(a, c, d),
			child:  delOps(a, b, d),
			want:   []rangeQuery{{want: []Model{c}}, {end: c.Key}},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db, cleanup := s.newStore()
			defer cleanup()
			checkIteration(t, db, tc.parent, tc.child, tc.want)
		})
	}
}

// AssertGetHas requires that Get returns val and Has returns has for key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	require.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	require.Equal(t, has, exists)
}

type rangeQuery struct {
	start, end []byte
	reverse    bool
	want       []Model
}

// windows returns full, open ended and bounded ranges over sorted models,
// in both directions.
func windows(sorted []Model) []rangeQuery {
	lo, hi := len(sorted)/4, 3*len(sorted)/4
	return []rangeQuery{
		{want: sorted},
		{start: sorted[lo].Key, want: sorted[lo:]},
		{end: sorted[hi].Key, want: sorted[:hi]},
		{start: sorted[lo].Key, end: sorted[hi].Key, want: sorted[lo:hi]},
		{reverse: true, want: reverseModels(sorted)},
		{reverse: true, start: sorted[lo].Key, want: reverseModels(sorted[lo:])},
		{reverse: true, end: sorted[hi].Key, want: reverseModels(sorted[:hi])},
		{reverse: true, start: sorted[lo].Key, end: sorted[hi].Key, want: reverseModels(sorted[lo:hi])},
	}
}

func checkIteration(t testing.TB, db CacheableKVStore, parent, child []Op, queries []rangeQuery) {
	t.Helper()
	for _, op := range parent {
		require.NoError(t, op.Apply(db))
	}
	cache := db.CacheWrap()
	for _, op := range child {
		require.NoError(t, op.Apply(cache))
	}

	for qi, q := range queries {
		var (
			it  Iterator
			err error
		)
		if q.reverse {
			it, err = cache.ReverseIterator(q.start, q.end)
		} else {
			it, err = cache.Iterator(q.start, q.end)
		}
		require.NoError(t, err)

		var got []Model
		for it.Valid() {
			got = append(got, Model{Key: it.Key(), Value: it.Value()})
			require.NoError(t, it.Next())
		}
		it.Close()

		require.Equal(t, len(q.want), len(got), "query %d", qi)
		for i := range q.want {
			require.Equal(t, q.want[i].Key, got[i].Key, "query %d item %d", qi, i)
			require.Equal(t, q.want[i].Value, got[i].Value, "query %d item %d", qi, i)
		}
	}
}

func randBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

func randKeys(count, size int) [][]byte {
	out := make([][]byte, count)
	for i := range out {
		out[i] = randBytes(size)
	}
	return out
}

func randModels(count, keySize, valueSize int) []Model {
	out := make([]Model, count)
	for i := range out {
		out[i] = Model{Key: randBytes(keySize), Value: randBytes(valueSize)}
	}
	return out
}

func reverseModels(ms []Model) []Model {
	out := make([]Model, len(ms))
	for i, m := range ms {
		out[len(ms)-1-i] = m
	}
	return out
}

func sortModels(ms []Model) []Model {
	out := append([]Model{}, ms...)
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].Key, out[j].Key) < 0 })
	return out
}

func setOps(ms ...Model) []Op {
	out := make([]Op, len(ms))
	for i, m := range ms {
		out[i] = SetOp(m.Key, m.Value)
	}
	return out
}

func delOps(ms ...Model) []Op {
	out := make([]Op, len(ms))
	for i, m := range ms {
		out[i] = DelOp(m.Key)
	}
	return out
}
