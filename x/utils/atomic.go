package utils

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
)

// Atomic runs fn on a cache wrap of db. All writes done by fn reach db only
// if fn succeeds, otherwise they are dropped.
//
// Stores that cannot be cache wrapped are rejected, as the rollback could
// not be guaranteed.
func Atomic(db weave.KVStore, fn func(weave.KVStore) error) error {
	cstore, ok := db.(weave.CacheableKVStore)
	if !ok {
		return errors.Wrapf(errors.ErrHuman, "%T cannot be cache wrapped", db)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
