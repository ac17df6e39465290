package escrow

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/x"
	"github.com/iov-one/tokenswap/x/token"
	"github.com/iov-one/tokenswap/x/utils"
)

const (
	initializeEscrowCost int64 = 300
	exchangeEscrowCost   int64 = 200
	cancelEscrowCost     int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this
// package. The token controller must accept the signatures of derived
// authorities, see ProgramAuth.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, tokens token.Controller) {
	bucket := NewBucket()
	r.Handle(&InitializeMsg{}, InitializeHandler{auth: auth, bucket: bucket, tokens: tokens})
	r.Handle(&ExchangeMsg{}, ExchangeHandler{auth: auth, bucket: bucket, tokens: tokens})
	r.Handle(&CancelMsg{}, CancelHandler{auth: auth, bucket: bucket, tokens: tokens})
}

// RegisterQuery will register this bucket as "/escrows"
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// InitializeHandler opens a vault, locks the initializer funds in it and
// stores the terms of the swap.
type InitializeHandler struct {
	auth   x.Authenticator
	bucket Bucket
	tokens token.Controller
}

var _ weave.Handler = InitializeHandler{}

// Check verifies all preconditions without modifying the state.
func (h InitializeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: initializeEscrowCost}, nil
}

// Deliver creates the escrow. Every mutation happens in a single atomic
// step.
func (h InitializeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, vault, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	deposit, err := h.tokens.Account(db, msg.InitializerDepositAccount)
	if err != nil {
		return nil, errors.Wrap(err, "deposit")
	}

	escrow := &Escrow{
		Initializer:               msg.Initializer,
		InitializerDepositAccount: msg.InitializerDepositAccount,
		InitializerReceiveAccount: msg.InitializerReceiveAccount,
		InitializerAmount:         msg.InitializerAmount,
		TakerAmount:               msg.TakerAmount,
		Vault:                     vault.ID,
	}
	err = utils.Atomic(db, func(db weave.KVStore) error {
		if err := vault.Open(db, deposit.Mint, msg.Initializer); err != nil {
			return err
		}
		if err := vault.Lock(ctx, db, msg.InitializerDepositAccount, msg.InitializerAmount); err != nil {
			return err
		}
		if err := vault.ReassignAuthority(ctx, db); err != nil {
			return err
		}
		return h.bucket.Put(db, msg.EscrowID, escrow)
	})
	if err != nil {
		return nil, err
	}

	weave.GetLogger(ctx).Debug("escrow initialized",
		"id", msg.EscrowID, "vault", vault.ID, "amount", msg.InitializerAmount)
	return &weave.DeliverResult{Data: msg.EscrowID}, nil
}

// validate checks, in order: the message itself, the initializer
// signature, that the escrow ID is free, the declared vault bump, the
// deposit balance and the receive account.
func (h InitializeHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*InitializeMsg, *Vault, error) {
	var msg InitializeMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Initializer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "initializer signature missing")
	}
	if ok, err := h.bucket.Has(db, msg.EscrowID); err != nil {
		return nil, nil, err
	} else if ok {
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "escrow %X", msg.EscrowID)
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	vaultID, bump, err := DeriveVault(conf, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if uint32(bump) != msg.VaultBump {
		return nil, nil, errors.Wrapf(errors.ErrInput, "vault bump %d, expected %d", msg.VaultBump, bump)
	}

	deposit, err := h.tokens.Account(db, msg.InitializerDepositAccount)
	if err != nil {
		return nil, nil, errors.Wrap(err, "deposit")
	}
	if deposit.Amount < msg.InitializerAmount {
		return nil, nil, errors.Wrapf(errors.ErrInsufficientAmount, "deposit holds %d, required %d", deposit.Amount, msg.InitializerAmount)
	}
	if _, err := h.tokens.Account(db, msg.InitializerReceiveAccount); err != nil {
		return nil, nil, errors.Wrap(err, "receive")
	}

	vault, err := newVault(conf, vaultID, h.tokens)
	if err != nil {
		return nil, nil, err
	}
	return &msg, vault, nil
}

func newVault(conf *Configuration, id weave.Address, tokens token.Controller) (*Vault, error) {
	authority, err := conf.Authority()
	if err != nil {
		return nil, err
	}
	return &Vault{ID: id, authority: authority, tokens: tokens}, nil
}

// ExchangeHandler completes a swap.
type ExchangeHandler struct {
	auth   x.Authenticator
	bucket Bucket
	tokens token.Controller
}

var _ weave.Handler = ExchangeHandler{}

// Check verifies all preconditions without modifying the state.
func (h ExchangeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: exchangeEscrowCost}, nil
}

// Deliver pays the initializer, releases the vault to the taker, closes
// the vault and deletes the escrow, all or nothing.
func (h ExchangeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	vault, err := newVault(conf, escrow.Vault, h.tokens)
	if err != nil {
		return nil, err
	}

	err = utils.Atomic(db, func(db weave.KVStore) error {
		if err := h.tokens.Transfer(ctx, db, msg.TakerDepositAccount, escrow.InitializerReceiveAccount, escrow.TakerAmount); err != nil {
			return errors.Wrap(err, "pay initializer")
		}
		if err := vault.Release(ctx, db, msg.TakerReceiveAccount, escrow.InitializerAmount); err != nil {
			return err
		}
		if err := vault.Close(ctx, db, msg.TakerReceiveAccount, escrow.Initializer); err != nil {
			return err
		}
		return h.bucket.Delete(db, msg.EscrowID)
	})
	if err != nil {
		return nil, err
	}

	weave.GetLogger(ctx).Debug("escrow exchanged", "id", msg.EscrowID, "taker", msg.Taker)
	return &weave.DeliverResult{Data: msg.EscrowID}, nil
}

func (h ExchangeHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*ExchangeMsg, *Escrow, error) {
	var msg ExchangeMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadEscrow(db, h.bucket, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, msg.Taker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}
	switch {
	case !escrow.Initializer.Equals(msg.Initializer):
		return nil, nil, errors.Wrap(errors.ErrMismatchedTerms, "initializer")
	case !escrow.InitializerDepositAccount.Equals(msg.InitializerDepositAccount):
		return nil, nil, errors.Wrap(errors.ErrMismatchedTerms, "initializer deposit account")
	case !escrow.InitializerReceiveAccount.Equals(msg.InitializerReceiveAccount):
		return nil, nil, errors.Wrap(errors.ErrMismatchedTerms, "initializer receive account")
	}
	deposit, err := h.tokens.Account(db, msg.TakerDepositAccount)
	if err != nil {
		return nil, nil, errors.Wrap(err, "taker deposit")
	}
	if deposit.Amount < escrow.TakerAmount {
		return nil, nil, errors.Wrapf(errors.ErrInsufficientAmount, "taker deposit holds %d, required %d", deposit.Amount, escrow.TakerAmount)
	}
	return &msg, escrow, nil
}

// CancelHandler returns the locked funds to the initializer.
type CancelHandler struct {
	auth   x.Authenticator
	bucket Bucket
	tokens token.Controller
}

var _ weave.Handler = CancelHandler{}

// Check verifies all preconditions without modifying the state.
func (h CancelHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: cancelEscrowCost}, nil
}

// Deliver drains the vault back to the deposit account, closes it and
// deletes the escrow, all or nothing.
func (h CancelHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	vault, err := newVault(conf, escrow.Vault, h.tokens)
	if err != nil {
		return nil, err
	}

	err = utils.Atomic(db, func(db weave.KVStore) error {
		if err := vault.Release(ctx, db, escrow.InitializerDepositAccount, escrow.InitializerAmount); err != nil {
			return err
		}
		if err := vault.Close(ctx, db, escrow.InitializerDepositAccount, escrow.Initializer); err != nil {
			return err
		}
		return h.bucket.Delete(db, msg.EscrowID)
	})
	if err != nil {
		return nil, err
	}

	weave.GetLogger(ctx).Debug("escrow cancelled", "id", msg.EscrowID)
	return &weave.DeliverResult{Data: msg.EscrowID}, nil
}

func (h CancelHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*CancelMsg, *Escrow, error) {
	var msg CancelMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadEscrow(db, h.bucket, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if !escrow.Initializer.Equals(msg.Initializer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not the initializer")
	}
	if !h.auth.HasAddress(ctx, msg.Initializer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "initializer signature missing")
	}
	if !escrow.InitializerDepositAccount.Equals(msg.InitializerDepositAccount) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not the initializer deposit account")
	}
	return &msg, escrow, nil
}

func loadEscrow(db weave.ReadOnlyKVStore, b Bucket, id []byte) (*Escrow, error) {
	escrow, err := b.Get(db, id)
	if err != nil {
		return nil, err
	}
	if escrow == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "escrow %X", id)
	}
	return escrow, nil
}
