package escrow

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/gconf"
	"github.com/iov-one/tokenswap/weave"
)

// Initializer fulfils the Initializer interface to load the escrow
// configuration from the genesis file.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis stores the configuration declared under conf.escrow, or the
// default one if genesis declares none.
func (Initializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(kv, opts, confPkg, &conf)
	if errors.ErrNotFound.Is(err) {
		return SaveConfiguration(kv, DefaultConfiguration())
	}
	return err
}
