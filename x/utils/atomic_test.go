package utils

import (
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/weave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomic(t *testing.T) {
	db := store.MemStore()
	require.NoError(t, db.Set([]byte("vault"), []byte("100")))

	err := Atomic(db, func(kv weave.KVStore) error {
		if err := kv.Set([]byte("vault"), []byte("0")); err != nil {
			return err
		}
		if err := kv.Set([]byte("taker"), []byte("100")); err != nil {
			return err
		}
		return errors.ErrInsufficientAmount.New("second leg failed")
	})
	assert.True(t, errors.ErrInsufficientAmount.Is(err))
	store.NewTestSuite(nil).AssertGetHas(t, db, []byte("vault"), []byte("100"), true)
	store.NewTestSuite(nil).AssertGetHas(t, db, []byte("taker"), nil, false)

	err = Atomic(db, func(kv weave.KVStore) error {
		return kv.Set([]byte("taker"), []byte("100"))
	})
	require.NoError(t, err)
	store.NewTestSuite(nil).AssertGetHas(t, db, []byte("taker"), []byte("100"), true)

	err = Atomic(store.EmptyKVStore{}, func(weave.KVStore) error { return nil })
	assert.True(t, errors.ErrHuman.Is(err))
}
