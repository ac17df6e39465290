package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
)

// signVersion leads every signed payload. A new layout gets a new
// version so that old signatures can never verify against it.
var signVersion = [4]byte{0, 0xCA, 0xFE, 0}

// BuildSignBytes returns the digest a signer signs:
//
//	sha512(version | len(chainID) | chainID | sequence | payload)
//
// The sequence is a big endian uint64. Binding the chain and the sequence
// stops a signature from being replayed on another chain or twice.
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !weave.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	buf := make([]byte, 0, len(signVersion)+1+len(chainID)+8+len(payload))
	buf = append(buf, signVersion[:]...)
	buf = append(buf, byte(len(chainID)))
	buf = append(buf, chainID...)
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(seq))
	buf = append(buf, n[:]...)
	buf = append(buf, payload...)

	digest := sha512.Sum512(buf)
	return digest[:], nil
}

// BuildSignBytesTx is BuildSignBytes over the sign bytes of tx.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(payload, chainID, seq)
}

// SignTx signs tx for the given chain and sequence.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	digest, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	return &StdSignature{Pubkey: signer.PublicKey(), Signature: sig, Sequence: seq}, nil
}

// VerifyTxSignatures verifies every signature of tx and returns the signer
// conditions in signature order. A transaction without signatures yields
// an empty list, the decorator decides whether that is allowed.
func VerifyTxSignatures(db weave.KVStore, tx SignedTx, chainID string) ([]weave.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()
	signers := make([]weave.Condition, 0, len(sigs))
	for _, sig := range sigs {
		cond, err := VerifySignature(db, sig, payload, chainID)
		if err != nil {
			return nil, err
		}
		signers = append(signers, cond)
	}
	return signers, nil
}

// VerifySignature checks sig over payload and consumes the sequence it
// carries. A signer seen for the first time must use sequence zero.
func VerifySignature(db weave.KVStore, sig *StdSignature, payload []byte, chainID string) (weave.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	b := NewBucket()
	obj, err := b.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	user := AsUser(obj)
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := b.Save(db, obj); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}
