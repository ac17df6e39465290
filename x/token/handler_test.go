package token

import (
	"context"
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// router captures handlers registered by RegisterRoutes.
type router map[string]weave.Handler

func (r router) Handle(m weave.Msg, h weave.Handler) {
	r[m.Path()] = h
}

func TestOpenHandler(t *testing.T) {
	l := newLedger(t, 20)
	key := weavetest.NewCondition()
	id := key.Address()
	msg := &OpenMsg{ID: id, Mint: "YTK", Owner: l.bob.Address(), Payer: l.alice.Address()}
	// keyless has no private key, like an escrow vault
	keyless := weave.NewAddress([]byte("escrow/vault/swap-0001"))

	cases := map[string]struct {
		signers []weave.Condition
		msg     weave.Msg
		wantErr *errors.Error
	}{
		"payer and account sign": {
			signers: []weave.Condition{l.alice, key},
			msg:     msg,
		},
		"owner is not the payer": {
			signers: []weave.Condition{l.bob, key},
			msg:     msg,
			wantErr: errors.ErrUnauthorized,
		},
		"account did not sign": {
			signers: []weave.Condition{l.alice},
			msg:     msg,
			wantErr: errors.ErrUnauthorized,
		},
		"address without a key": {
			signers: []weave.Condition{l.alice},
			msg:     &OpenMsg{ID: keyless, Mint: "XTK", Owner: l.alice.Address(), Payer: l.alice.Address()},
			wantErr: errors.ErrUnauthorized,
		},
		"invalid mint": {
			signers: []weave.Condition{l.alice, key},
			msg:     &OpenMsg{ID: id, Mint: "y", Owner: l.bob.Address(), Payer: l.alice.Address()},
			wantErr: errors.ErrCurrency,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &weavetest.Auth{Signers: tc.signers}
			r := router{}
			RegisterRoutes(r, auth, NewController(auth))
			h := r[pathOpenMsg]
			db := l.db.CacheWrap()
			tx := &weavetest.Tx{Msg: tc.msg}

			if _, err := h.Check(context.Background(), db, tx); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			res, err := h.Deliver(context.Background(), db, tx)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}
			if tc.wantErr != nil {
				acc, err := NewAccountBucket().Get(db, keyless)
				require.NoError(t, err)
				assert.Nil(t, acc)
				return
			}
			assert.Equal(t, []byte(id), res.Data)
			acc, err := NewAccountBucket().Get(db, id)
			require.NoError(t, err)
			assert.Equal(t, l.bob.Address(), acc.Owner)
			assert.Equal(t, uint64(160), reserve(t, db, l.alice.Address()))
		})
	}
}

func TestTransferHandler(t *testing.T) {
	l := newLedger(t, 0)
	auth := &weavetest.Auth{Signer: l.alice}
	r := router{}
	RegisterRoutes(r, auth, NewController(auth))
	h := r[pathTransferMsg]

	tx := &weavetest.Tx{Msg: &TransferMsg{Source: l.aliceAcc, Destination: l.bobAcc, Amount: 250}}
	_, err := h.Check(context.Background(), l.db, tx)
	require.NoError(t, err)
	_, err = h.Deliver(context.Background(), l.db, tx)
	require.NoError(t, err)
	assert.Equal(t, uint64(750), balance(t, l.db, l.aliceAcc))
	assert.Equal(t, uint64(250), balance(t, l.db, l.bobAcc))

	tx = &weavetest.Tx{Msg: &TransferMsg{Source: l.bobAcc, Destination: l.aliceAcc, Amount: 1}}
	_, err = h.Check(context.Background(), l.db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = h.Deliver(context.Background(), l.db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	tx = &weavetest.Tx{Msg: &TransferMsg{Source: l.aliceAcc, Destination: l.bobAcc, Amount: 751}}
	_, err = h.Check(context.Background(), l.db, tx)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))

	tx = &weavetest.Tx{Msg: &TransferMsg{Source: l.aliceAcc, Destination: weavetest.RandomAddr(t), Amount: 1}}
	_, err = h.Check(context.Background(), l.db, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, uint64(750), balance(t, l.db, l.aliceAcc))

	tx = &weavetest.Tx{Msg: &TransferMsg{Source: l.bobAcc, Destination: l.aliceAcc}}
	_, err = h.Check(context.Background(), l.db, tx)
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestMsgMarshal(t *testing.T) {
	open := &OpenMsg{
		ID:    weavetest.RandomAddr(t),
		Mint:  "XTK",
		Owner: weavetest.RandomAddr(t),
		Payer: weavetest.RandomAddr(t),
	}
	raw, err := open.Marshal()
	require.NoError(t, err)
	var gotOpen OpenMsg
	require.NoError(t, gotOpen.Unmarshal(raw))
	assert.Equal(t, open, &gotOpen)

	acc := &Account{Mint: "XTK", Owner: weavetest.RandomAddr(t), Amount: 7, Deposit: 3}
	raw, err = acc.Marshal()
	require.NoError(t, err)
	var gotAcc Account
	require.NoError(t, gotAcc.Unmarshal(raw))
	assert.Equal(t, acc, &gotAcc)
}
