package app

import (
	"reflect"

	"github.com/iov-one/tokenswap/weave"
)

// Decorators is an ordered middleware stack waiting for its final handler.
// The first decorator runs first.
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//	).WithHandler(router)
type Decorators []weave.Decorator

// ChainDecorators starts a stack. Nil decorators are skipped so optional
// middleware can be passed unconditionally.
func ChainDecorators(chain ...weave.Decorator) Decorators {
	return Decorators(nil).Chain(chain...)
}

// Chain returns a new stack with the non nil decorators appended.
func (d Decorators) Chain(chain ...weave.Decorator) Decorators {
	out := append(make(Decorators, 0, len(d)+len(chain)), d...)
	for _, dec := range chain {
		if dec == nil {
			continue
		}
		if v := reflect.ValueOf(dec); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		out = append(out, dec)
	}
	return out
}

// WithHandler closes the stack around h.
func (d Decorators) WithHandler(h weave.Handler) weave.Handler {
	for i := len(d) - 1; i >= 0; i-- {
		h = link{dec: d[i], next: h}
	}
	return h
}

type link struct {
	dec  weave.Decorator
	next weave.Handler
}

func (l link) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l link) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
