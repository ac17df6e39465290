package token

import (
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/gconf"
)

const confPkg = "token"

// Configuration holds the ledger parameters set at genesis.
type Configuration struct {
	// StorageDeposit is charged from the payer reserve for every opened
	// account and refunded when it is closed.
	StorageDeposit uint64 `json:"storage_deposit"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return codec.NewEncoder().Uint64(1, c.StorageDeposit).Result(), nil
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		if d.Field() == 1 {
			c.StorageDeposit, err = d.Uint64()
		} else {
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// SaveConfiguration writes the ledger configuration.
func SaveConfiguration(db gconf.Store, conf Configuration) error {
	return gconf.Save(db, confPkg, &conf)
}
