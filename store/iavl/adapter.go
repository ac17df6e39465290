package iavl

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

const (
	// DefaultCacheSize is the number of tree nodes kept in memory.
	DefaultCacheSize = 10000
	// DefaultHistory is the number of versions kept before pruning.
	DefaultHistory = 2
)

// CommitStore manages an iavl committed state. All writes go to the working
// tree through an Adapter and are persisted as a new version on Commit.
type CommitStore struct {
	db         dbm.DB
	tree       *iavl.MutableTree
	numHistory int64
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore creates a new store with disk backing. The database is
// stored in dir under the given name. An empty dir creates a store that is
// kept in memory only.
func NewCommitStore(dir, name string) (*CommitStore, error) {
	var db dbm.DB
	if dir == "" {
		db = dbm.NewMemDB()
	} else {
		ldb, err := dbm.NewGoLevelDB(name, dir)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "open %s/%s: %s", dir, name, err)
		}
		db = ldb
	}
	return &CommitStore{
		db:         db,
		tree:       iavl.NewMutableTree(db, DefaultCacheSize),
		numHistory: DefaultHistory,
	}, nil
}

// Close releases the underlying database.
func (s *CommitStore) Close() {
	s.db.Close()
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit the next version to disk, and returns info
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}

	// release an old version of history
	if s.numHistory > 0 && s.numHistory < version {
		toRelease := version - s.numHistory
		if s.tree.VersionExists(toRelease) {
			if err := s.tree.DeleteVersion(toRelease); err != nil {
				return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
			}
		}
	}

	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s *CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	version := s.tree.Version()
	if version == 0 {
		return store.CommitID{}, nil
	}
	tree, err := s.tree.GetImmutable(version)
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{
		Version: version,
		Hash:    tree.Hash(),
	}, nil
}

// Adapter returns a wrapped version of the tree.
//
// Data written here is stored in the tree and will be written to disk on
// Commit.
func (s *CommitStore) Adapter() store.CacheableKVStore {
	return adapter{tree: s.tree}
}

// CacheWrap wraps the Adapter with a cache, so it may be written or
// discarded as needed.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return s.Adapter().CacheWrap()
}

// adapter converts the working iavl.MutableTree into a KVStore.
type adapter struct {
	tree *iavl.MutableTree
}

var _ store.CacheableKVStore = adapter{}

// Get returns nil iff key doesn't exist. Panics on nil key.
func (a adapter) Get(key []byte) ([]byte, error) {
	_, val := a.tree.Get(key)
	return val, nil
}

// Has checks if a key exists. Panics on nil key.
func (a adapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

// Set adds a new value
func (a adapter) Set(key, value []byte) error {
	a.tree.Set(key, value)
	return nil
}

// Delete removes from the tree
func (a adapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

// NewBatch returns a batch that can write multiple ops atomically
func (a adapter) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(a)
}

// Iterator over a domain of keys in ascending order. End is exclusive.
// CONTRACT: No writes may happen within a domain while an iterator exists over it.
func (a adapter) Iterator(start, end []byte) (store.Iterator, error) {
	return a.collect(start, end, true), nil
}

// ReverseIterator over a domain of keys in descending order. End is exclusive.
// CONTRACT: No writes may happen within a domain while an iterator exists over it.
func (a adapter) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return a.collect(start, end, false), nil
}

func (a adapter) collect(start, end []byte, ascending bool) store.Iterator {
	var res []store.Model
	a.tree.IterateRange(start, end, ascending, func(key []byte, value []byte) bool {
		res = append(res, store.Model{Key: key, Value: value})
		return false
	})
	return store.NewSliceIterator(res)
}

// CacheWrap wraps us once again, with btree
func (a adapter) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(a, a.NewBatch(), nil)
}
