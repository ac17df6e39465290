package utils

import (
	"github.com/iov-one/tokenswap/weave"
)

// Savepoint runs the rest of the chain on a cache layer and drops every
// write when the chain fails. It is inactive until enabled for check, for
// deliver, or for both.
type Savepoint struct {
	check, deliver bool
}

var _ weave.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

func (s Savepoint) OnCheck() Savepoint {
	s.check = true
	return s
}

func (s Savepoint) OnDeliver() Savepoint {
	s.deliver = true
	return s
}

func (s Savepoint) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	var res *weave.CheckResult
	err := s.guard(s.check, db, func(kv weave.KVStore) (err error) {
		res, err = next.Check(ctx, kv, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	var res *weave.DeliverResult
	err := s.guard(s.deliver, db, func(kv weave.KVStore) (err error) {
		res, err = next.Deliver(ctx, kv, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// guard calls fn directly when the savepoint is off or db has no cache
// support.
func (Savepoint) guard(on bool, db weave.KVStore, fn func(weave.KVStore) error) error {
	if _, ok := db.(weave.CacheableKVStore); !on || !ok {
		return fn(db)
	}
	return Atomic(db, fn)
}
