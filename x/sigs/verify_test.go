package sigs

import (
	"testing"

	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/weave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSignBytes(t *testing.T) {
	const chainID = "swap-sign-bytes"
	payload := []byte("initialize escrow")

	ref, err := BuildSignBytes(payload, chainID, 17)
	require.NoError(t, err)
	assert.Len(t, ref, 64)

	viaTx, err := BuildSignBytesTx(NewStdTx(payload), chainID, 17)
	require.NoError(t, err)
	assert.Equal(t, ref, viaTx)

	cases := map[string]struct {
		payload []byte
		chainID string
		seq     int64
		wantErr *errors.Error
	}{
		"other payload":  {payload: []byte("cancel escrow"), chainID: chainID, seq: 17},
		"other chain":    {payload: payload, chainID: chainID + "2", seq: 17},
		"other sequence": {payload: payload, chainID: chainID, seq: 18},
		"negative sequence": {
			payload: payload, chainID: chainID, seq: -1, wantErr: ErrInvalidSequence,
		},
		"invalid chain id": {
			payload: payload, chainID: "no", seq: 1, wantErr: errors.ErrInput,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := BuildSignBytes(tc.payload, tc.chainID, tc.seq)
			require.True(t, tc.wantErr.Is(err), "got %+v", err)
			if tc.wantErr == nil {
				assert.NotEqual(t, ref, got)
			}
		})
	}
}

func TestVerifySignatureSequence(t *testing.T) {
	const chainID = "swap-verify-1"
	db := store.MemStore()
	key := crypto.GenPrivKeyEd25519()
	payload := []byte("exchange")

	sign := func(seq int64) *StdSignature {
		sig, err := SignTx(key, NewStdTx(payload), chainID, seq)
		require.NoError(t, err)
		return sig
	}

	again := sign(2)
	assert.Equal(t, sign(2), again, "ed25519 signatures are deterministic")

	forged := *again
	forged.Signature = &crypto.Signature{Ed25519: append([]byte{1, 2, 3}, again.Signature.Ed25519[3:]...)}

	steps := []struct {
		name    string
		sig     *StdSignature
		chainID string
		wantErr *errors.Error
	}{
		{"first signature must use zero", sign(1), chainID, ErrInvalidSequence},
		{"empty signature", &StdSignature{}, chainID, errors.ErrUnauthorized},
		{"sequence zero", sign(0), chainID, nil},
		{"sequence one", sign(1), chainID, nil},
		{"replay", sign(1), chainID, ErrInvalidSequence},
		{"gap", sign(13), chainID, ErrInvalidSequence},
		{"other chain", sign(2), "swap-verify-2", errors.ErrUnauthorized},
		{"forged", &forged, chainID, errors.ErrUnauthorized},
	}
	for _, s := range steps {
		cond, err := VerifySignature(db, s.sig, payload, s.chainID)
		require.True(t, s.wantErr.Is(err), "%s: %+v", s.name, err)
		if s.wantErr == nil {
			assert.Equal(t, key.PublicKey().Condition(), cond, s.name)
		}
	}

	next, err := NextNonce(db, key.PublicKey().Address())
	require.NoError(t, err)
	assert.Equal(t, int64(2), next)
}

func TestVerifyTxSignatures(t *testing.T) {
	const chainID = "swap-multi-sig"
	db := store.MemStore()
	alice, bob := crypto.GenPrivKeyEd25519(), crypto.GenPrivKeyEd25519()

	tx := NewStdTx([]byte("transfer"))
	other := NewStdTx([]byte("another transfer"))

	mustSign := func(k *crypto.PrivateKey, tx *StdTx) *StdSignature {
		sig, err := SignTx(k, tx, chainID, 0)
		require.NoError(t, err)
		return sig
	}

	signers, err := VerifyTxSignatures(db, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)

	tx.Signatures = []*StdSignature{mustSign(alice, tx), mustSign(bob, tx)}
	signers, err = VerifyTxSignatures(db.CacheWrap(), tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, []weave.Condition{alice.PublicKey().Condition(), bob.PublicKey().Condition()}, signers)

	tx.Signatures = []*StdSignature{mustSign(alice, other)}
	_, err = VerifyTxSignatures(db.CacheWrap(), tx, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestUserData(t *testing.T) {
	key := crypto.GenPrivKeyEd25519()

	sig, err := SignTx(key, NewStdTx([]byte("payload")), "marshal-chain", 7)
	require.NoError(t, err)
	raw, err := sig.Marshal()
	require.NoError(t, err)
	var gotSig StdSignature
	require.NoError(t, gotSig.Unmarshal(raw))
	assert.Equal(t, sig, &gotSig)

	u := &UserData{Pubkey: key.PublicKey(), Sequence: 4}
	raw, err = u.Marshal()
	require.NoError(t, err)
	var gotUser UserData
	require.NoError(t, gotUser.Unmarshal(raw))
	assert.Equal(t, u, &gotUser)

	require.NoError(t, u.CheckAndIncrementSequence(4))
	assert.Equal(t, int64(5), u.Sequence)
	assert.True(t, ErrInvalidSequence.Is(u.CheckAndIncrementSequence(4)))

	u.Sequence = maxSequence
	assert.True(t, errors.ErrOverflow.Is(u.CheckAndIncrementSequence(maxSequence)))

	assert.True(t, ErrInvalidSequence.Is((&UserData{Sequence: 3}).Validate()))
}
