package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/tokenswap/errors"
)

// BTreeCacheable gives any KVStore the in-memory CacheWrap of this package.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an empty store that lives in memory only.
func MemStore() CacheableKVStore {
	var empty EmptyKVStore
	return NewBTreeCacheWrap(empty, empty.NewBatch(), nil)
}

// ShowOpser exposes the writes collected so far, in order.
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore is a MemStore that also records every write it receives.
func LogableStore() (CacheableKVStore, ShowOpser) {
	var empty EmptyKVStore
	log := NewNonAtomicBatch(empty)
	return NewBTreeCacheWrap(empty, log, nil), log
}

// BTreeCacheWrap keeps pending writes in a btree on top of a read only
// parent. Reads see the pending writes first. Write replays them through
// the batch, Discard forgets them.
type BTreeCacheWrap struct {
	pending *btree.BTree
	free    *btree.FreeList
	parent  ReadOnlyKVStore
	batch   Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap stacks a cache on parent. All writes also go to batch,
// which is flushed on Write. Nested caches share free so nodes are reused.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		pending: btree.NewWithFreeList(2, free),
		free:    free,
		parent:  parent,
		batch:   batch,
	}
}

func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes pending writes to the parent and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all pending writes.
func (b BTreeCacheWrap) Discard() {
	for b.pending.DeleteMin() != nil {
	}
	if r, ok := b.batch.(interface{ discard() }); ok {
		r.discard()
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrDatabase, "nil key")
	}
	b.pending.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrDatabase, "nil key")
	}
	b.pending.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := b.lookup(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return b.parent.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := b.lookup(key); ok {
		return !e.deleted, nil
	}
	return b.parent.Has(key)
}

func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	below, err := b.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(b.snapshot(start, end, false), below, false)
}

func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	below, err := b.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(b.snapshot(start, end, true), below, true)
}

func (b BTreeCacheWrap) lookup(key []byte) (entry, bool) {
	found := b.pending.Get(entry{key: key})
	if found == nil {
		return entry{}, false
	}
	return found.(entry), true
}

// snapshot copies the pending entries in [start, end) so the tree may
// change while an iterator is open. nil bounds are open.
func (b BTreeCacheWrap) snapshot(start, end []byte, desc bool) []entry {
	var out []entry
	add := func(i btree.Item) bool {
		out = append(out, i.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		b.pending.Ascend(add)
	case start == nil:
		b.pending.AscendLessThan(entry{key: end}, add)
	case end == nil:
		b.pending.AscendGreaterOrEqual(entry{key: start}, add)
	default:
		b.pending.AscendRange(entry{key: start}, entry{key: end}, add)
	}
	if desc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// entry is a pending write. A deleted entry hides the parent value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
