/*
Package sigs verifies the ed25519 signatures of a transaction and keeps a
per signer sequence that rejects replays.
*/
package sigs

import (
	"context"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
	"github.com/iov-one/tokenswap/x"
)

// signatureCost is the gas charged in CheckTx per verified signature.
const signatureCost = 500

// RegisterQuery exposes signer records at "/auth".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signatures of a SignedTx and stores the signers
// in the context for Authenticate. Other transactions pass through.
type Decorator struct {
	allowMissingSigs bool
}

var _ weave.Decorator = Decorator{}

// NewDecorator requires at least one signature.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs lets unsigned transactions through.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

func (d Decorator) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	ctx, n, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.GasPayment += int64(n * signatureCost)
	return res, nil
}

func (d Decorator) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	ctx, _, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

// authenticate returns ctx with the verified signers and their count.
func (d Decorator) authenticate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (weave.Context, int, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, 0, nil
	}
	signers, err := VerifyTxSignatures(db, stx, weave.GetChainID(ctx))
	if err != nil {
		return nil, 0, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), len(signers), nil
}

type ctxKey struct{}

func withSigners(ctx weave.Context, signers []weave.Condition) weave.Context {
	return context.WithValue(ctx, ctxKey{}, signers)
}

// Authenticate reports the keys that signed the current transaction.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetConditions(ctx weave.Context) []weave.Condition {
	signers, _ := ctx.Value(ctxKey{}).([]weave.Condition)
	return signers
}

func (a Authenticate) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
