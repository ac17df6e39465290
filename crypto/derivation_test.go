package crypto

import (
	"bytes"
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weavetest/assert"
)

func TestDerivePrivKeyEd25519(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 32)

	a, err := DerivePrivKeyEd25519(seed, DefaultDerivationPath)
	assert.Nil(t, err)
	b, err := DerivePrivKeyEd25519(seed, DefaultDerivationPath)
	assert.Nil(t, err)
	if !a.PublicKey().Address().Equals(b.PublicKey().Address()) {
		t.Fatal("derivation is not deterministic")
	}

	other, err := DerivePrivKeyEd25519(seed, "m/44'/234'/1'")
	assert.Nil(t, err)
	if a.PublicKey().Address().Equals(other.PublicKey().Address()) {
		t.Fatal("different paths produced the same key")
	}

	sig, err := a.Sign([]byte("swap"))
	assert.Nil(t, err)
	if !b.PublicKey().Verify([]byte("swap"), sig) {
		t.Fatal("derived keys do not verify each other signatures")
	}

	if _, err := DerivePrivKeyEd25519(seed[:8], DefaultDerivationPath); !errors.ErrInput.Is(err) {
		t.Fatalf("short seed: unexpected error: %+v", err)
	}
	if _, err := DerivePrivKeyEd25519(seed, "not a path"); !errors.ErrInput.Is(err) {
		t.Fatalf("invalid path: unexpected error: %+v", err)
	}
}
