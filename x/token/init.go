package token

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/gconf"
	"github.com/iov-one/tokenswap/weave"
)

// GenesisAccount is used to parse the json from genesis file.
// Addresses are hex encoded.
type GenesisAccount struct {
	ID     weave.Address `json:"id"`
	Mint   string        `json:"mint"`
	Owner  weave.Address `json:"owner"`
	Amount uint64        `json:"amount"`
}

// GenesisReserve funds the storage reserve of an identity.
type GenesisReserve struct {
	Owner  weave.Address `json:"owner"`
	Amount uint64        `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis stores the ledger configuration and the initial accounts and
// reserves. Genesis accounts do not pay a storage deposit.
func (Initializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(kv, opts, confPkg, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	var state struct {
		Accounts []GenesisAccount `json:"accounts"`
		Reserves []GenesisReserve `json:"reserves"`
	}
	if err := opts.ReadOptions("token", &state); err != nil {
		return err
	}

	accounts := NewAccountBucket()
	for _, a := range state.Accounts {
		if err := a.ID.Validate(); err != nil {
			return errors.Wrap(err, "genesis account id")
		}
		acc := &Account{Mint: a.Mint, Owner: a.Owner, Amount: a.Amount}
		if err := accounts.Put(kv, a.ID, acc); err != nil {
			return errors.Wrapf(err, "genesis account %s", a.ID)
		}
	}

	reserves := NewReserveBucket()
	for _, r := range state.Reserves {
		if err := r.Owner.Validate(); err != nil {
			return errors.Wrap(err, "genesis reserve owner")
		}
		if err := reserves.Put(kv, r.Owner, &Reserve{Amount: r.Amount}); err != nil {
			return errors.Wrapf(err, "genesis reserve %s", r.Owner)
		}
	}
	return nil
}
