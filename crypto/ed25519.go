package crypto

import (
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/weave"
	"golang.org/x/crypto/ed25519"
)

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte
}

var _ PubKey = (*PublicKey)(nil)

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if sig == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a weave condition
func (p *PublicKey) Condition() weave.Condition {
	return weave.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address is the address authorized by signatures of this key.
func (p *PublicKey) Address() weave.Address {
	return p.Condition().Address()
}

func (p *PublicKey) Marshal() ([]byte, error) {
	return codec.NewEncoder().Bytes(1, p.Ed25519).Result(), nil
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	return unmarshalBytes(raw, &p.Ed25519)
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

func (p *PrivateKey) Marshal() ([]byte, error) {
	return codec.NewEncoder().Bytes(1, p.Ed25519).Result(), nil
}

func (p *PrivateKey) Unmarshal(raw []byte) error {
	return unmarshalBytes(raw, &p.Ed25519)
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
