package weavetest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/tokenswap/weave"
)

// RandomAddr returns a fresh valid address. Tests use it for parties that
// never sign.
func RandomAddr(t testing.TB) weave.Address {
	t.Helper()
	a := make(weave.Address, weave.AddressLength)
	if _, err := rand.Read(a); err != nil {
		t.Fatalf("random address: %s", err)
	}
	return a
}

