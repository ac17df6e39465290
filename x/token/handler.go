package token

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/x"
)

const (
	openCost     int64 = 100
	transferCost int64 = 50
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r weave.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&OpenMsg{}, OpenHandler{auth: auth, control: control})
	r.Handle(&TransferMsg{}, TransferHandler{auth: auth, control: control})
}

// RegisterQuery will register the account bucket as "/accounts" and the
// reserve bucket as "/reserves"
func RegisterQuery(qr weave.QueryRouter) {
	NewAccountBucket().Register("accounts", qr)
	NewReserveBucket().Register("reserves", qr)
}

// OpenHandler opens new token accounts.
type OpenHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ weave.Handler = OpenHandler{}

func (h OpenHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: openCost}, nil
}

func (h OpenHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.control.Open(db, msg.ID, msg.Mint, msg.Owner, msg.Payer); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{Data: msg.ID}, nil
}

func (h OpenHandler) validate(ctx weave.Context, tx weave.Tx) (*OpenMsg, error) {
	var msg OpenMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Payer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer signature missing")
	}
	// Addresses derived for escrow vaults have no key, so they cannot be
	// taken over by opening them first.
	if !h.auth.HasAddress(ctx, msg.ID) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account signature missing")
	}
	return &msg, nil
}

// TransferHandler moves tokens between accounts. The source owner must
// sign.
type TransferHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ weave.Handler = TransferHandler{}

func (h TransferHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: transferCost}, nil
}

func (h TransferHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(ctx, db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h TransferHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*TransferMsg, error) {
	var msg TransferMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	src, err := h.control.Account(db, msg.Source)
	if err != nil {
		return nil, errors.Wrap(err, "source")
	}
	dst, err := h.control.Account(db, msg.Destination)
	if err != nil {
		return nil, errors.Wrap(err, "destination")
	}
	switch {
	case src.Mint != dst.Mint:
		return nil, errors.Wrapf(errors.ErrCurrency, "cannot send %s to a %s account", src.Mint, dst.Mint)
	case !h.auth.HasAddress(ctx, src.Owner):
		return nil, errors.Wrap(errors.ErrUnauthorized, "source owner signature missing")
	case src.Amount < msg.Amount:
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "source holds %d, required %d", src.Amount, msg.Amount)
	}
	return &msg, nil
}
