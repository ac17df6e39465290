package sigs

import (
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the sigs.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	//
	// Helpful to store original, unparsed bytes here, just in case.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// StdSignature is a single signature over a transaction, together with the
// key that produced it and the sequence it consumes.
type StdSignature struct {
	Sequence  int64
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	e := codec.NewEncoder().Int64(1, s.Sequence)
	if s.Pubkey != nil {
		if err := e.Message(2, s.Pubkey); err != nil {
			return nil, err
		}
	}
	if s.Signature != nil {
		if err := e.Message(3, s.Signature); err != nil {
			return nil, err
		}
	}
	return e.Result(), nil
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	*s = StdSignature{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var (
			err error
			bz  []byte
		)
		switch d.Field() {
		case 1:
			s.Sequence, err = d.Int64()
		case 2:
			if bz, err = d.Bytes(); err == nil {
				s.Pubkey = &crypto.PublicKey{}
				err = s.Pubkey.Unmarshal(bz)
			}
		case 3:
			if bz, err = d.Bytes(); err == nil {
				s.Signature = &crypto.Signature{}
				err = s.Signature.Unmarshal(bz)
			}
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}
