package crypto

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DefaultDerivationPath is the SLIP-0010 path of the first account key.
const DefaultDerivationPath = "m/44'/234'/0'"

// DerivePrivKeyEd25519 derives a private key from a master seed following
// SLIP-0010. Only hardened paths are supported for ed25519.
func DerivePrivKeyEd25519(seed []byte, path string) (*PrivateKey, error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be 16 to 64 bytes, got %d", len(seed))
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
