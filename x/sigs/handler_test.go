package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/orm"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBumpSequence(t *testing.T) {
	priv := crypto.GenPrivKeyEd25519()
	cond := priv.PublicKey().Condition()

	cases := map[string]struct {
		stored    *UserData
		increment uint32
		signer    weave.Condition
		wantErr   *errors.Error
		wantSeq   int64
	}{
		"increment by one is a noop beyond the tx bump": {
			stored:    &UserData{Pubkey: priv.PublicKey(), Sequence: 5},
			increment: 1,
			signer:    cond,
			wantSeq:   5,
		},
		"increment by many": {
			stored:    &UserData{Pubkey: priv.PublicKey(), Sequence: 5},
			increment: 10,
			signer:    cond,
			wantSeq:   14,
		},
		"zero increment is invalid": {
			stored:    &UserData{Pubkey: priv.PublicKey(), Sequence: 5},
			increment: 0,
			signer:    cond,
			wantErr:   errors.ErrMsg,
			wantSeq:   5,
		},
		"unknown signer": {
			increment: 3,
			signer:    cond,
			wantErr:   errors.ErrNotFound,
		},
		"no signer": {
			stored:    &UserData{Pubkey: priv.PublicKey(), Sequence: 5},
			increment: 3,
			wantErr:   errors.ErrUnauthorized,
			wantSeq:   5,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			b := NewBucket()
			if tc.stored != nil {
				require.NoError(t, b.Save(db, orm.NewSimpleObj(cond.Address(), tc.stored)))
			}

			auth := &weavetest.Auth{Signer: tc.signer}
			rt := &router{}
			RegisterRoutes(rt, auth)

			tx := &weavetest.Tx{Msg: &BumpSequenceMsg{Increment: tc.increment}}
			_, err := rt.h.Deliver(context.Background(), db, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.stored == nil {
				return
			}
			n, err := NextNonce(db, cond.Address())
			require.NoError(t, err)
			assert.Equal(t, tc.wantSeq, n)
		})
	}
}

// router captures the single handler registered by RegisterRoutes.
type router struct {
	h weave.Handler
}

func (r *router) Handle(m weave.Msg, h weave.Handler) {
	r.h = h
}
