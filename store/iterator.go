package store

import "bytes"

// side tells which input of a mergeIterator holds the current key.
type side int

const (
	exhausted side = iota
	fromCache
	fromParent
	fromBoth
)

// mergeIterator walks cached entries and a parent iterator together. On
// equal keys the cached entry wins, deleted entries are skipped along with
// the parent value they hide.
type mergeIterator struct {
	cached []entry
	pos    int
	parent Iterator
	desc   bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cached []entry, parent Iterator, desc bool) (*mergeIterator, error) {
	it := &mergeIterator{cached: cached, parent: parent, desc: desc}
	if err := it.skipDeleted(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

func (it *mergeIterator) Valid() bool {
	return it.head() != exhausted
}

// Next panics when called on an exhausted iterator.
func (it *mergeIterator) Next() error {
	if err := it.advance(it.head()); err != nil {
		return err
	}
	return it.skipDeleted()
}

func (it *mergeIterator) Key() []byte {
	switch it.head() {
	case fromCache, fromBoth:
		return it.cached[it.pos].key
	case fromParent:
		return it.parent.Key()
	}
	panic("iterator exhausted")
}

func (it *mergeIterator) Value() []byte {
	switch it.head() {
	case fromCache, fromBoth:
		return it.cached[it.pos].value
	case fromParent:
		return it.parent.Value()
	}
	panic("iterator exhausted")
}

func (it *mergeIterator) Close() {
	if it.parent != nil {
		it.parent.Close()
	}
	it.cached = nil
}

func (it *mergeIterator) advance(s side) error {
	switch s {
	case fromCache:
		it.pos++
		return nil
	case fromBoth:
		it.pos++
		return it.parent.Next()
	case fromParent:
		return it.parent.Next()
	}
	panic("iterator exhausted")
}

func (it *mergeIterator) skipDeleted() error {
	for {
		s := it.head()
		if (s != fromCache && s != fromBoth) || !it.cached[it.pos].deleted {
			return nil
		}
		if err := it.advance(s); err != nil {
			return err
		}
	}
}

func (it *mergeIterator) head() side {
	haveCached := it.pos < len(it.cached)
	haveParent := it.parent != nil && it.parent.Valid()
	switch {
	case !haveCached && !haveParent:
		return exhausted
	case !haveParent:
		return fromCache
	case !haveCached:
		return fromParent
	}

	cmp := bytes.Compare(it.cached[it.pos].key, it.parent.Key())
	if it.desc {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return fromCache
	case cmp > 0:
		return fromParent
	default:
		return fromBoth
	}
}
