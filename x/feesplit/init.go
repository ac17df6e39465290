package feesplit

import (
	"github.com/iov-one/tokenswap/gconf"
	"github.com/iov-one/tokenswap/weave"
)

// Initializer fulfils the Initializer interface to load the fee split
// configuration from the genesis file.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis stores the configuration declared under conf.feesplit. The
// fee defaults to DefaultFee.
func (Initializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	conf := Configuration{Fee: DefaultFee}
	return gconf.InitConfig(kv, opts, confPkg, &conf)
}
