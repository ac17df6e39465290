package utils

import (
	"context"
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	// some key, value to try to write
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}
	derr := errors.ErrInsufficientAmount.New("vault is short")

	cases := map[string]struct {
		save    weave.Decorator
		handler weave.Handler
		check   bool
		wantErr *errors.Error
		written bool
	}{
		"savepoint deactivated, error leaves the write": {
			save:    NewSavepoint(),
			handler: weavetest.WriteHandler{Key: nk, Value: nv, Err: derr},
			check:   true,
			wantErr: errors.ErrInsufficientAmount,
			written: true,
		},
		"savepoint on check rolls back": {
			save:    NewSavepoint().OnCheck(),
			handler: weavetest.WriteHandler{Key: nk, Value: nv, Err: derr},
			check:   true,
			wantErr: errors.ErrInsufficientAmount,
			written: false,
		},
		"savepoint on deliver rolls back": {
			save:    NewSavepoint().OnDeliver(),
			handler: weavetest.WriteHandler{Key: nk, Value: nv, Err: derr},
			wantErr: errors.ErrInsufficientAmount,
			written: false,
		},
		"double activation maintains both behaviors": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: weavetest.WriteHandler{Key: nk, Value: nv, Err: derr},
			wantErr: errors.ErrInsufficientAmount,
			written: false,
		},
		"savepoint on check does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: weavetest.WriteHandler{Key: nk, Value: nv, Err: derr},
			wantErr: errors.ErrInsufficientAmount,
			written: true,
		},
		"success is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: weavetest.WriteHandler{Key: nk, Value: nv},
			written: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kv := store.MemStore()
			h := weavetest.Decorate(tc.handler, tc.save)
			tx := &weavetest.Tx{}

			var err error
			if tc.check {
				_, err = h.Check(context.Background(), kv, tx)
			} else {
				_, err = h.Deliver(context.Background(), kv, tx)
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			has, err := kv.Has(nk)
			require.NoError(t, err)
			assert.Equal(t, tc.written, has)
		})
	}
}
