package escrow

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/x/token"
)

// Vault is the token account holding the funds locked by one escrow.
// Operations that spend from the vault are approved by the authority.
type Vault struct {
	ID        weave.Address
	authority *Authority
	tokens    token.Controller
}

// DeriveVault computes the vault address of an escrow together with the
// bump a client must declare when initializing it.
func DeriveVault(conf *Configuration, escrowID []byte) (weave.Address, uint8, error) {
	program, err := conf.Program()
	if err != nil {
		return nil, 0, err
	}
	pda, err := DeriveAuthority(program, []byte(conf.VaultSeed), escrowID)
	if err != nil {
		return nil, 0, err
	}
	return pda.Address(), pda.Bump(), nil
}

// Open creates an empty vault of given mint. It belongs to the initializer
// until the authority is reassigned.
func (v *Vault) Open(db weave.KVStore, mint string, initializer weave.Address) error {
	_, err := v.tokens.Open(db, v.ID, mint, initializer, initializer)
	return errors.Wrap(err, "open vault")
}

// Lock moves amount from the source account into the vault.
func (v *Vault) Lock(ctx weave.Context, db weave.KVStore, source weave.Address, amount uint64) error {
	return errors.Wrap(v.tokens.Transfer(ctx, db, source, v.ID, amount), "lock")
}

// ReassignAuthority hands the control of the vault to the authority.
func (v *Vault) ReassignAuthority(ctx weave.Context, db weave.KVStore) error {
	return errors.Wrap(v.tokens.SetAuthority(ctx, db, v.ID, v.authority.Address()), "reassign authority")
}

// Release moves amount from the vault to destination.
func (v *Vault) Release(ctx weave.Context, db weave.KVStore, destination weave.Address, amount uint64) error {
	signed, err := v.authority.Sign(ctx)
	if err != nil {
		return err
	}
	return errors.Wrap(v.tokens.Transfer(signed, db, v.ID, destination, amount), "release")
}

// Close moves whatever is left in the vault to sweep, deletes it and
// refunds its storage deposit to refund. The vault address is public, so
// anyone may have credited it after the lock.
func (v *Vault) Close(ctx weave.Context, db weave.KVStore, sweep, refund weave.Address) error {
	signed, err := v.authority.Sign(ctx)
	if err != nil {
		return err
	}
	acc, err := v.tokens.Account(db, v.ID)
	if err != nil {
		return errors.Wrap(err, "close vault")
	}
	if acc.Amount > 0 {
		if err := v.tokens.Transfer(signed, db, v.ID, sweep, acc.Amount); err != nil {
			return errors.Wrap(err, "sweep vault")
		}
	}
	return errors.Wrap(v.tokens.CloseAccount(signed, db, v.ID, refund), "close vault")
}
