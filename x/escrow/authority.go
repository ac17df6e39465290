package escrow

import (
	"context"

	solana "github.com/gagliardetto/solana-go"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/x"
)

const (
	// ExtensionName is used for the conditions of derived authorities.
	ExtensionName = "escrow"
	pdaType       = "pda"
)

// Authority is a keyless identity derived from a program ID and a list of
// seeds. It is found by searching the bump value that moves the derived
// key off the ed25519 curve, so no private key can exist for it.
type Authority struct {
	programID solana.PublicKey
	seeds     [][]byte
	bump      uint8
	key       solana.PublicKey
}

// DeriveAuthority computes the program derived address for given seeds.
// The highest bump value producing a key off the curve is used.
func DeriveAuthority(programID solana.PublicKey, seeds ...[]byte) (*Authority, error) {
	cpy := make([][]byte, len(seeds))
	for i, s := range seeds {
		cpy[i] = append([]byte(nil), s...)
	}
	key, bump, err := solana.FindProgramAddress(cpy, programID)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDerivation, "program %s: %s", programID, err)
	}
	return &Authority{
		programID: programID,
		seeds:     cpy,
		bump:      bump,
		key:       key,
	}, nil
}

// Bump returns the disambiguator found during derivation.
func (a *Authority) Bump() uint8 {
	return a.bump
}

// Key returns the derived public key.
func (a *Authority) Key() solana.PublicKey {
	return a.key
}

// Condition returns the condition fulfilled when this authority signs.
func (a *Authority) Condition() weave.Condition {
	return weave.NewCondition(ExtensionName, pdaType, a.key.Bytes())
}

// Address returns the address controlled by this authority.
func (a *Authority) Address() weave.Address {
	return a.Condition().Address()
}

// Sign returns a context in which this authority approved the operations.
// The address is derived again from the stored seeds and bump, so an
// authority with a tampered bump cannot sign.
func (a *Authority) Sign(ctx weave.Context) (weave.Context, error) {
	seeds := make([][]byte, 0, len(a.seeds)+1)
	seeds = append(seeds, a.seeds...)
	seeds = append(seeds, []byte{a.bump})
	key, err := solana.CreateProgramAddress(seeds, a.programID)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDerivation, "bump %d: %s", a.bump, err)
	}
	if !key.Equals(a.key) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "bump %d does not derive %s", a.bump, a.key)
	}

	signed := append(ProgramAuth{}.GetConditions(ctx), a.Condition())
	return context.WithValue(ctx, contextKeyAuthority, signed), nil
}

type contextKey int // local to the escrow module

const (
	contextKeyAuthority contextKey = iota
)

// ProgramAuth reveals the derived authorities that signed in the current
// context.
type ProgramAuth struct{}

var _ x.Authenticator = ProgramAuth{}

// GetConditions returns the conditions of all authorities that signed.
func (ProgramAuth) GetConditions(ctx weave.Context) []weave.Condition {
	val, _ := ctx.Value(contextKeyAuthority).([]weave.Condition)
	return append([]weave.Condition(nil), val...)
}

// HasAddress returns true if an authority of given address signed.
func (a ProgramAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
