package token

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/x"
)

// Controller is the ledger API other extensions compose with. Spending
// operations authorize the account owner with the authenticator the
// controller was built with.
type Controller interface {
	Open(db weave.KVStore, id weave.Address, mint string, owner, payer weave.Address) (*Account, error)
	Account(db weave.ReadOnlyKVStore, id weave.Address) (*Account, error)
	Transfer(ctx weave.Context, db weave.KVStore, from, to weave.Address, amount uint64) error
	SetAuthority(ctx weave.Context, db weave.KVStore, id, newOwner weave.Address) error
	CloseAccount(ctx weave.Context, db weave.KVStore, id, destination weave.Address) error
	Mint(db weave.KVStore, id weave.Address, amount uint64) error
	Fund(db weave.KVStore, owner weave.Address, amount uint64) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	auth     x.Authenticator
	accounts AccountBucket
	reserves ReserveBucket
}

var _ Controller = BaseController{}

// NewController returns a controller that authorizes spending with auth.
func NewController(auth x.Authenticator) BaseController {
	return BaseController{
		auth:     auth,
		accounts: NewAccountBucket(),
		reserves: NewReserveBucket(),
	}
}

// Open creates an empty account. The storage deposit is taken from the
// payer reserve.
func (c BaseController) Open(db weave.KVStore, id weave.Address, mint string, owner, payer weave.Address) (*Account, error) {
	if err := id.Validate(); err != nil {
		return nil, errors.Wrap(err, "account id")
	}
	if !IsMint(mint) {
		return nil, errors.Wrapf(errors.ErrCurrency, "invalid mint %q", mint)
	}
	if ok, err := c.accounts.Has(db, id); err != nil {
		return nil, err
	} else if ok {
		return nil, errors.Wrapf(errors.ErrDuplicate, "account %s", id)
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}

	if conf.StorageDeposit > 0 {
		reserve, err := c.reserves.Get(db, payer)
		if err != nil {
			return nil, err
		}
		if reserve.Amount < conf.StorageDeposit {
			return nil, errors.Wrapf(errors.ErrInsufficientAmount, "reserve %d below storage deposit %d", reserve.Amount, conf.StorageDeposit)
		}
		reserve.Amount -= conf.StorageDeposit
		if err := c.reserves.Put(db, payer, reserve); err != nil {
			return nil, errors.Wrap(err, "save reserve")
		}
	}

	acc := &Account{
		Mint:    mint,
		Owner:   owner,
		Deposit: conf.StorageDeposit,
	}
	if err := c.accounts.Put(db, id, acc); err != nil {
		return nil, errors.Wrap(err, "save account")
	}
	return acc, nil
}

// Account returns the account stored under id or ErrNotFound.
func (c BaseController) Account(db weave.ReadOnlyKVStore, id weave.Address) (*Account, error) {
	acc, err := c.accounts.Get(db, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", id)
	}
	return acc, nil
}

// Transfer moves amount from one account to another. Both accounts must
// hold the same mint and the owner of the source must authorize it.
func (c BaseController) Transfer(ctx weave.Context, db weave.KVStore, from, to weave.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	if from.Equals(to) {
		return errors.Wrap(errors.ErrInput, "source and destination are the same account")
	}
	src, err := c.Account(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	dst, err := c.Account(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if src.Mint != dst.Mint {
		return errors.Wrapf(errors.ErrCurrency, "cannot move %s into %s account", src.Mint, dst.Mint)
	}
	if !c.auth.HasAddress(ctx, src.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "source owner signature missing")
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", src.Amount, amount)
	}
	if dst.Amount+amount < dst.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}

	src.Amount -= amount
	dst.Amount += amount
	if err := c.accounts.Put(db, from, src); err != nil {
		return errors.Wrap(err, "save source")
	}
	if err := c.accounts.Put(db, to, dst); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

// SetAuthority hands the account over to a new owner. The current owner
// must authorize it.
func (c BaseController) SetAuthority(ctx weave.Context, db weave.KVStore, id, newOwner weave.Address) error {
	if err := newOwner.Validate(); err != nil {
		return errors.Wrap(err, "new owner")
	}
	acc, err := c.Account(db, id)
	if err != nil {
		return err
	}
	if !c.auth.HasAddress(ctx, acc.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "owner signature missing")
	}
	acc.Owner = newOwner
	return c.accounts.Put(db, id, acc)
}

// CloseAccount deletes an empty account and refunds its storage deposit to
// the reserve of destination.
func (c BaseController) CloseAccount(ctx weave.Context, db weave.KVStore, id, destination weave.Address) error {
	acc, err := c.Account(db, id)
	if err != nil {
		return err
	}
	if !c.auth.HasAddress(ctx, acc.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "owner signature missing")
	}
	if acc.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "account holds %d %s", acc.Amount, acc.Mint)
	}
	if err := c.accounts.Delete(db, id); err != nil {
		return errors.Wrap(err, "delete account")
	}
	if acc.Deposit == 0 {
		return nil
	}
	return c.Fund(db, destination, acc.Deposit)
}

// Mint issues new tokens into an existing account.
func (c BaseController) Mint(db weave.KVStore, id weave.Address, amount uint64) error {
	acc, err := c.Account(db, id)
	if err != nil {
		return err
	}
	if acc.Amount+amount < acc.Amount {
		return errors.Wrap(errors.ErrOverflow, "account balance")
	}
	acc.Amount += amount
	return c.accounts.Put(db, id, acc)
}

// Fund credits the reserve of owner.
func (c BaseController) Fund(db weave.KVStore, owner weave.Address, amount uint64) error {
	if err := owner.Validate(); err != nil {
		return errors.Wrap(err, "reserve owner")
	}
	r, err := c.reserves.Get(db, owner)
	if err != nil {
		return err
	}
	if r.Amount+amount < r.Amount {
		return errors.Wrap(errors.ErrOverflow, "reserve")
	}
	r.Amount += amount
	return c.reserves.Put(db, owner, r)
}
