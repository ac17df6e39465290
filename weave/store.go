package weave

// ReadOnlyKVStore reads a sorted key space. Get returns nil for a missing
// key. Iteration ranges are [start, end), a nil bound is open. Writing
// inside a range while iterating over it is not allowed.
type ReadOnlyKVStore interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Iterator(start, end []byte) (Iterator, error)
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write half shared by stores and batches. Keys and
// values passed in must not be modified afterwards.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the store every handler works on.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch collects writes that reach the store on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator walks a key range. Once Valid reports false it stays false,
// and Next, Key or Value panic. Returned slices must not be modified.
//
//	itr, err := db.Iterator(start, end)
//	...
//	defer itr.Close()
//	for ; itr.Valid(); itr.Next() {
//		use(itr.Key(), itr.Value())
//	}
type Iterator interface {
	Valid() bool
	Next() error
	Key() []byte
	Value() []byte
	Close()
}

// CacheableKVStore can stack a pending layer on top of itself.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a pending layer. Reads see its own writes first. Write
// pushes them to the parent, Discard drops them. Layers nest, which is how
// a failed message is rolled back without touching the block state.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the persisted root store. Each Commit produces a new
// version, and after a crash LoadLatestVersion restores the last complete
// one.
type CommitKVStore interface {
	Get(key []byte) ([]byte, error)
	CacheWrap() KVCacheWrap
	Commit() (CommitID, error)
	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by height and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
