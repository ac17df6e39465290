package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/weave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	const chainID = "swap-decorator"
	ctx := weave.WithChainID(context.Background(), chainID)
	key := crypto.GenPrivKeyEd25519()
	signer := []weave.Condition{key.PublicKey().Condition()}

	tx := NewStdTx([]byte("cancel"))
	first, err := SignTx(key, tx, chainID, 0)
	require.NoError(t, err)
	second, err := SignTx(key, tx, chainID, 1)
	require.NoError(t, err)

	type runner func(weave.Decorator, weave.KVStore, *SigCheckHandler) error
	runners := map[string]runner{
		"check": func(d weave.Decorator, db weave.KVStore, h *SigCheckHandler) error {
			_, err := d.Check(ctx, db, tx, h)
			return err
		},
		"deliver": func(d weave.Decorator, db weave.KVStore, h *SigCheckHandler) error {
			_, err := d.Deliver(ctx, db, tx, h)
			return err
		},
	}

	for name, run := range runners {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			h := &SigCheckHandler{}
			strict := NewDecorator()
			lenient := strict.AllowMissingSigs()

			tx.Signatures = nil
			assert.Error(t, run(strict, db, h), "unsigned")

			tx.Signatures = []*StdSignature{first}
			require.NoError(t, run(strict, db, h))
			assert.Equal(t, signer, h.Signers)
			assert.Error(t, run(strict, db, h), "replay")

			tx.Signatures = nil
			require.NoError(t, run(lenient, db, h))
			assert.Equal(t, []weave.Condition{}, h.Signers)

			tx.Signatures = []*StdSignature{second}
			require.NoError(t, run(lenient, db, h))
			assert.Equal(t, signer, h.Signers)
		})
	}
}

func TestCheckChargesPerSignature(t *testing.T) {
	const chainID = "swap-gas-check"
	ctx := weave.WithChainID(context.Background(), chainID)
	key := crypto.GenPrivKeyEd25519()
	tx := NewStdTx([]byte("gas"))
	sig, err := SignTx(key, tx, chainID, 0)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{sig}

	res, err := NewDecorator().Check(ctx, store.MemStore(), tx, &SigCheckHandler{})
	require.NoError(t, err)
	assert.Equal(t, int64(signatureCost), res.GasPayment)
}

func TestAuthenticate(t *testing.T) {
	cond := crypto.GenPrivKeyEd25519().PublicKey().Condition()
	ctx := withSigners(context.Background(), []weave.Condition{cond})

	var a Authenticate
	assert.True(t, a.HasAddress(ctx, cond.Address()))
	assert.False(t, a.HasAddress(ctx, weave.NewAddress([]byte("other"))))
	assert.Nil(t, a.GetConditions(context.Background()))
}
