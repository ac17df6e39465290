package weavetest

import "github.com/iov-one/tokenswap/weave"

// Decorator counts its calls and can fail either phase. Without an error
// set it calls the next handler.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	checks, delivers int
}

var _ weave.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	d.checks++
	if d.CheckErr != nil {
		return &weave.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	d.delivers++
	if d.DeliverErr != nil {
		return &weave.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int   { return d.checks }
func (d *Decorator) DeliverCallCount() int { return d.delivers }
func (d *Decorator) CallCount() int        { return d.checks + d.delivers }

// Decorate wraps h with d.
func Decorate(h weave.Handler, d weave.Decorator) weave.Handler {
	return decorated{h: h, d: d}
}

type decorated struct {
	h weave.Handler
	d weave.Decorator
}

func (w decorated) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return w.d.Check(ctx, db, tx, w.h)
}

func (w decorated) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	return w.d.Deliver(ctx, db, tx, w.h)
}
