package store

// SliceIterator iterates over models that are already in order.
type SliceIterator struct {
	data []Model
	pos  int
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Valid() bool {
	return s.pos < len(s.data)
}

func (s *SliceIterator) Next() error {
	s.current()
	s.pos++
	return nil
}

func (s *SliceIterator) Key() []byte {
	return s.current().Key
}

func (s *SliceIterator) Value() []byte {
	return s.current().Value
}

func (s *SliceIterator) Close() {
	s.data = nil
}

func (s *SliceIterator) current() Model {
	if !s.Valid() {
		panic("iterator exhausted")
	}
	return s.data[s.pos]
}

// EmptyKVStore holds nothing and ignores writes. It is the bottom layer
// of MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error) { return nil, nil }

func (EmptyKVStore) Has([]byte) (bool, error) { return false, nil }

func (EmptyKVStore) Set(_, _ []byte) error { return nil }

func (EmptyKVStore) Delete([]byte) error { return nil }

func (e EmptyKVStore) NewBatch() Batch { return NewNonAtomicBatch(e) }

func (EmptyKVStore) Iterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// Op is a single recorded write, either a set or a delete.
type Op struct {
	del   bool
	key   []byte
	value []byte
}

func SetOp(key, value []byte) Op {
	return Op{key: key, value: value}
}

func DelOp(key []byte) Op {
	return Op{del: true, key: key}
}

// Apply replays the write on out.
func (o Op) Apply(out SetDeleter) error {
	if o.del {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

func (o Op) IsSetOp() bool {
	return !o.del
}

// Key returns a copy of the key.
func (o Op) Key() []byte {
	return append([]byte(nil), o.key...)
}

// Value returns a copy of the value, nil for deletes.
func (o Op) Value() []byte {
	if o.del {
		return nil
	}
	return append([]byte(nil), o.value...)
}

// NonAtomicBatch queues writes and replays them one by one on Write. A
// failure halfway leaves out partially written, so it only backs in-memory
// layers.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var (
	_ Batch     = (*NonAtomicBatch)(nil)
	_ ShowOpser = (*NonAtomicBatch)(nil)
)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}

func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}

func (b *NonAtomicBatch) discard() {
	b.ops = nil
}
