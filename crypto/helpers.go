/*
Package crypto holds the keys used to sign transactions. Only ed25519 keys
are supported. Public keys are turned into conditions, so that a valid
signature authorizes actions of the address derived from the key.
*/
package crypto

import (
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/weave"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() weave.Condition
	Address() weave.Address
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte
}

func (s *Signature) Marshal() ([]byte, error) {
	return codec.NewEncoder().Bytes(1, s.Ed25519).Result(), nil
}

func (s *Signature) Unmarshal(raw []byte) error {
	return unmarshalBytes(raw, &s.Ed25519)
}

func unmarshalBytes(raw []byte, dst *[]byte) error {
	*dst = nil
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		if d.Field() == 1 {
			*dst, err = d.Bytes()
		} else {
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}
