package token

import (
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountValidate(t *testing.T) {
	owner := weavetest.NewCondition().Address()
	cases := map[string]struct {
		acc     Account
		wantErr *errors.Error
	}{
		"valid":         {acc: Account{Mint: "XTK", Owner: owner, Amount: 5}},
		"empty account": {acc: Account{Mint: "YTKN", Owner: owner}},
		"lower case":    {acc: Account{Mint: "xtk", Owner: owner}, wantErr: errors.ErrCurrency},
		"long mint":     {acc: Account{Mint: "XTKXT", Owner: owner}, wantErr: errors.ErrCurrency},
		"no owner":      {acc: Account{Mint: "XTK"}, wantErr: errors.ErrInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if err := tc.acc.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestAccountBucketByOwner(t *testing.T) {
	db := store.MemStore()
	b := NewAccountBucket()
	alice := weavetest.NewCondition().Address()
	bob := weavetest.NewCondition().Address()

	x, y, z := weavetest.RandomAddr(t), weavetest.RandomAddr(t), weavetest.RandomAddr(t)
	require.NoError(t, b.Put(db, x, &Account{Mint: "XTK", Owner: alice, Amount: 1}))
	require.NoError(t, b.Put(db, y, &Account{Mint: "YTK", Owner: alice}))
	require.NoError(t, b.Put(db, z, &Account{Mint: "XTK", Owner: bob}))

	ids, err := b.ByOwner(db, alice)
	require.NoError(t, err)
	assert.ElementsMatch(t, []weave.Address{x, y}, ids)

	// moving an account to a new owner updates the index
	acc, err := b.Get(db, z)
	require.NoError(t, err)
	acc.Owner = alice
	require.NoError(t, b.Put(db, z, acc))
	ids, err = b.ByOwner(db, bob)
	require.NoError(t, err)
	assert.Empty(t, ids)

	missing, err := b.Get(db, weavetest.RandomAddr(t))
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.Error(t, b.Put(db, weavetest.RandomAddr(t), &Account{Mint: "bad", Owner: bob}))
}

func TestReserveBucket(t *testing.T) {
	db := store.MemStore()
	b := NewReserveBucket()
	owner := weavetest.NewCondition().Address()

	r, err := b.Get(db, owner)
	require.NoError(t, err)
	assert.Equal(t, &Reserve{}, r)

	require.NoError(t, b.Put(db, owner, &Reserve{Amount: 42}))
	r, err = b.Get(db, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), r.Amount)
}

