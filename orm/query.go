package orm

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
)

// RegisterQuery serves raw database keys, bucket prefix included, at "/".
func RegisterQuery(qr weave.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		return queryKey(db, data)
	case weave.PrefixQueryMod:
		return queryPrefix(db, data)
	}
	return nil, errors.Wrapf(errors.ErrInput, "query mod %q", mod)
}

// ConsumeIterator drains and closes itr.
func ConsumeIterator(itr weave.Iterator) ([]weave.Model, error) {
	defer itr.Close()
	found := []weave.Model{}
	for itr.Valid() {
		found = append(found, weave.Pair(itr.Key(), itr.Value()))
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return found, nil
}

// queryKey returns no models on a miss.
func queryKey(db weave.ReadOnlyKVStore, key []byte) ([]weave.Model, error) {
	value, err := db.Get(key)
	switch {
	case err != nil:
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	case value == nil:
		return nil, nil
	}
	return []weave.Model{weave.Pair(key, value)}, nil
}

func queryPrefix(db weave.ReadOnlyKVStore, prefix []byte) ([]weave.Model, error) {
	start, end := prefixRange(prefix)
	itr, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// prefixRange returns the [start, end) range of all keys that begin with
// prefix. end is nil when no key is greater than every such key.
func prefixRange(prefix []byte) (start, end []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	end = append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return prefix, end[:i+1]
		}
	}
	return prefix, nil
}
