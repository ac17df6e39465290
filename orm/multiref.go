package orm

import (
	"bytes"
	"sort"

	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
)

// MultiRef is an ordered set of primary keys.
type MultiRef struct {
	Refs [][]byte
}

var _ CloneableData = (*MultiRef)(nil)

func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	m := &MultiRef{}
	for _, r := range refs {
		if err := m.Add(r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// search returns the position of ref, or where it would be inserted.
func (m *MultiRef) search(ref []byte) (int, bool) {
	i := sort.Search(len(m.Refs), func(i int) bool {
		return bytes.Compare(m.Refs[i], ref) >= 0
	})
	return i, i < len(m.Refs) && bytes.Equal(m.Refs[i], ref)
}

func (m *MultiRef) Add(ref []byte) error {
	i, found := m.search(ref)
	if found {
		return errors.Wrap(errors.ErrDuplicate, "ref already in set")
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.search(ref)
	if !found {
		return errors.Wrap(errors.ErrNotFound, "ref not in set")
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

func (m *MultiRef) Copy() CloneableData {
	return &MultiRef{Refs: append([][]byte(nil), m.Refs...)}
}

// Validate rejects an empty set, index entries are removed instead.
func (m *MultiRef) Validate() error {
	if len(m.Refs) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no references")
	}
	return nil
}

// Marshal writes each ref as field 1. Refs are never empty, so none is
// dropped by the encoder.
func (m *MultiRef) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	for _, r := range m.Refs {
		e.Bytes(1, r)
	}
	return e.Result(), nil
}

func (m *MultiRef) Unmarshal(raw []byte) error {
	m.Refs = nil
	d := codec.NewDecoder(raw)
	for d.Next() {
		if d.Field() != 1 {
			if err := d.Skip(); err != nil {
				return err
			}
			continue
		}
		ref, err := d.Bytes()
		if err != nil {
			return err
		}
		m.Refs = append(m.Refs, ref)
	}
	return d.Err()
}
