package orm

import (
	"bytes"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
)

// Indexer derives the index key of an object. A nil key leaves the object
// out of the index.
type Indexer func(Object) ([]byte, error)

// Index maps an index key to the primary keys of the objects holding it.
// A unique index stores the single primary key as is, other indexes store
// an encoded MultiRef.
type Index struct {
	name   string
	prefix []byte
	unique bool
	index  Indexer
	refKey func([]byte) []byte
}

var _ weave.QueryHandler = Index{}

// NewIndex stores entries under "_i.<name>:". refKey turns a primary key
// into the database key of the object, it is used by Query.
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	return Index{
		name:   name,
		prefix: []byte("_i." + name + ":"),
		unique: unique,
		index:  indexer,
		refKey: refKey,
	}
}

func (i Index) Name() string {
	return i.name
}

// IndexKey returns a freshly allocated prefixed key.
func (i Index) IndexKey(key []byte) []byte {
	out := make([]byte, 0, len(i.prefix)+len(key))
	return append(append(out, i.prefix...), key...)
}

// GetAt returns the primary keys stored for an index key.
func (i Index) GetAt(db weave.ReadOnlyKVStore, key []byte) ([][]byte, error) {
	raw, err := db.Get(i.IndexKey(key))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return i.decode(raw)
}

// Update moves the entry of an object from its prev to its next state.
// A nil prev is an insert, a nil next a removal. Both must share the same
// primary key.
func (i Index) Update(db weave.KVStore, prev, next Object) error {
	if prev == nil && next == nil {
		return errors.Wrap(errors.ErrHuman, "index update without object")
	}
	if prev != nil && next != nil && !bytes.Equal(prev.Key(), next.Key()) {
		return errors.Wrap(errors.ErrState, "primary key changed")
	}

	from, err := i.keyOf(prev)
	if err != nil {
		return err
	}
	to, err := i.keyOf(next)
	if err != nil {
		return err
	}
	if prev != nil && next != nil && bytes.Equal(from, to) {
		return nil
	}
	if from != nil {
		if err := i.unlink(db, from, prev.Key()); err != nil {
			return err
		}
	}
	if to != nil {
		return i.link(db, to, next.Key())
	}
	return nil
}

// Query resolves index entries to the objects they reference. Models are
// keyed with the full database key of the object.
func (i Index) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	var refs [][]byte
	switch mod {
	case weave.KeyQueryMod:
		found, err := i.GetAt(db, data)
		if err != nil {
			return nil, err
		}
		refs = found
	case weave.PrefixQueryMod:
		entries, err := queryPrefix(db, i.IndexKey(data))
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			found, err := i.decode(e.Value)
			if err != nil {
				return nil, err
			}
			refs = append(refs, found...)
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "query mod %q", mod)
	}

	out := make([]weave.Model, 0, len(refs))
	for _, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		out = append(out, weave.Pair(key, value))
	}
	return out, nil
}

func (i Index) keyOf(obj Object) ([]byte, error) {
	if obj == nil {
		return nil, nil
	}
	return i.index(obj)
}

func (i Index) decode(raw []byte) ([][]byte, error) {
	switch {
	case raw == nil:
		return nil, nil
	case i.unique:
		return [][]byte{raw}, nil
	}
	var set MultiRef
	if err := set.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "index refs")
	}
	return set.Refs, nil
}

func (i Index) link(db weave.KVStore, key, pk []byte) error {
	dbKey := i.IndexKey(key)
	raw, err := db.Get(dbKey)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if i.unique {
		if raw != nil {
			return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
		}
		return db.Set(dbKey, pk)
	}
	return i.editSet(db, dbKey, raw, func(set *MultiRef) error { return set.Add(pk) })
}

func (i Index) unlink(db weave.KVStore, key, pk []byte) error {
	dbKey := i.IndexKey(key)
	raw, err := db.Get(dbKey)
	switch {
	case err != nil:
		return errors.Wrap(errors.ErrDatabase, err.Error())
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "index %s has no entry", i.name)
	}
	if i.unique {
		if !bytes.Equal(raw, pk) {
			return errors.Wrapf(errors.ErrState, "index %s points to another object", i.name)
		}
		return db.Delete(dbKey)
	}
	return i.editSet(db, dbKey, raw, func(set *MultiRef) error { return set.Remove(pk) })
}

// editSet applies change to the stored reference set and drops the entry
// once the set is empty.
func (i Index) editSet(db weave.KVStore, dbKey, raw []byte, change func(*MultiRef) error) error {
	var set MultiRef
	if raw != nil {
		if err := set.Unmarshal(raw); err != nil {
			return err
		}
	}
	if err := change(&set); err != nil {
		return err
	}
	if len(set.Refs) == 0 {
		return db.Delete(dbKey)
	}
	out, err := set.Marshal()
	if err != nil {
		return err
	}
	return db.Set(dbKey, out)
}
