package x

import "github.com/iov-one/tokenswap/weave"

// Authenticator tells a handler which conditions authorized the current
// transaction. Handlers receive it in their constructor so that signature
// keys and escrow vaults can authorize through the same check.
type Authenticator interface {
	GetConditions(weave.Context) []weave.Condition
	HasAddress(weave.Context, weave.Address) bool
}

// MultiAuth merges several Authenticators, in order.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

func ChainAuth(auths ...Authenticator) MultiAuth {
	return MultiAuth(auths)
}

func (m MultiAuth) GetConditions(ctx weave.Context) []weave.Condition {
	var all []weave.Condition
	for _, a := range m {
		all = append(all, a.GetConditions(ctx)...)
	}
	return all
}

func (m MultiAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses returns the addresses of all authorizing conditions.
func GetAddresses(ctx weave.Context, auth Authenticator) []weave.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]weave.Address, 0, len(conds))
	for _, c := range conds {
		addrs = append(addrs, c.Address())
	}
	return addrs
}

// MainSigner returns the first authorizing condition or nil.
func MainSigner(ctx weave.Context, auth Authenticator) weave.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}
