package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket stores objects of a single type under "<name>:" and keeps its
// secondary indexes in sync on every Save and Delete. Extensions wrap it
// in a type safe bucket of their own.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Object
	indexes map[string]Index
}

var _ weave.QueryHandler = Bucket{}

// NewBucket panics on an invalid name, buckets are declared at init time.
func NewBucket(name string, proto Object) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return Bucket{name: name, prefix: []byte(name + ":"), proto: proto}
}

func (b Bucket) Name() string {
	return b.name
}

// WithIndex returns a copy of the bucket that also maintains the named
// index. Registering the same name twice panics.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	if _, dup := b.indexes[name]; dup {
		panic(fmt.Sprintf("bucket %s: index %s registered twice", b.name, name))
	}
	next := make(map[string]Index, len(b.indexes)+1)
	for n, idx := range b.indexes {
		next[n] = idx
	}
	next[name] = NewIndex(b.name+"_"+name, indexer, unique, b.DBKey)
	b.indexes = next
	return b
}

// Register exposes the bucket at "/<path>" and each index at
// "/<path>/<index>". An empty path uses the bucket name.
func (b Bucket) Register(path string, r weave.QueryRouter) {
	if path == "" {
		path = b.name
	}
	r.Register("/"+path, b)
	for name, idx := range b.indexes {
		r.Register("/"+path+"/"+name, idx)
	}
}

// DBKey returns a freshly allocated prefixed key.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	return append(append(out, b.prefix...), key...)
}

// Query serves key and prefix lookups of raw stored values.
func (b Bucket) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		return queryKey(db, b.DBKey(data))
	case weave.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	}
	return nil, errors.Wrapf(errors.ErrInput, "query mod %q", mod)
}

// Get returns nil without an error when nothing is stored under key.
func (b Bucket) Get(db weave.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	switch {
	case err != nil:
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	case raw == nil:
		return nil, nil
	}
	return b.Parse(key, raw)
}

func (b Bucket) Has(db weave.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Parse builds an object of the bucket type from a stored value.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "%s: %s", b.name, err)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates obj, updates the indexes and stores it.
func (b Bucket) Save(db weave.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return errors.Wrap(err, b.name)
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return err
	}
	if err := b.reindex(db, obj.Key(), obj); err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

func (b Bucket) Delete(db weave.KVStore, key []byte) error {
	if err := b.reindex(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

// reindex moves the index entries of key from the stored object to next,
// nil next meaning removal.
func (b Bucket) reindex(db weave.KVStore, key []byte, next Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil || (prev == nil && next == nil) {
		return err
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, prev, next); err != nil {
			return err
		}
	}
	return nil
}

// GetIndexed loads every object the named index holds for key.
func (b Bucket) GetIndexed(db weave.ReadOnlyKVStore, name string, key []byte) ([]Object, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "bucket %s has no index %s", b.name, name)
	}
	refs, err := idx.GetAt(db, key)
	if err != nil || len(refs) == 0 {
		return nil, err
	}
	objs := make([]Object, 0, len(refs))
	for _, ref := range refs {
		obj, err := b.Get(db, ref)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}
