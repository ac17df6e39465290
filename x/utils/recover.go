package utils

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
)

// Recovery converts a panic raised below it into an ErrPanic error, so a
// broken handler fails its tx instead of halting the node. The panic is
// logged with the message path.
type Recovery struct{}

var _ weave.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (res *weave.CheckResult, err error) {
	defer catchPanic(ctx, tx, &err)
	res, err = next.Check(ctx, db, tx)
	return res, err
}

func (Recovery) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (res *weave.DeliverResult, err error) {
	defer catchPanic(ctx, tx, &err)
	res, err = next.Deliver(ctx, db, tx)
	return res, err
}

// catchPanic must be deferred directly for recover to see the panic.
func catchPanic(ctx weave.Context, tx weave.Tx, err *error) {
	p := recover()
	if p == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", p)
	weave.GetLogger(ctx).Error("handler panic", "path", weave.GetPath(tx), "panic", p)
}
