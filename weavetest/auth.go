package weavetest

import (
	"context"

	"github.com/iov-one/tokenswap/weave"
)

// Auth authorizes a fixed set of conditions, Signer and Signers together.
type Auth struct {
	Signer  weave.Condition
	Signers []weave.Condition
}

func (a *Auth) GetConditions(weave.Context) []weave.Condition {
	all := append([]weave.Condition(nil), a.Signers...)
	if a.Signer != nil {
		all = append(all, a.Signer)
	}
	return all
}

func (a *Auth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth authorizes the conditions stored in the context under Key.
type CtxAuth struct {
	Key string
}

func (a *CtxAuth) SetConditions(ctx weave.Context, conds ...weave.Condition) weave.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx weave.Context) []weave.Condition {
	conds, _ := ctx.Value(a.Key).([]weave.Condition)
	return conds
}

func (a *CtxAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []weave.Condition, addr weave.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
