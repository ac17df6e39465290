package feesplit

import (
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/gconf"
	"github.com/iov-one/tokenswap/weave"
)

const confPkg = "feesplit"

// DefaultFee is used when the genesis configuration does not declare a fee.
var DefaultFee = weave.Fraction{Numerator: 5, Denominator: 100}

// Configuration of the fee split transfer.
type Configuration struct {
	// ServiceAccount is the token account collecting the fees.
	ServiceAccount weave.Address `json:"service_account"`
	// Fee is the share of every transfer paid to the service account.
	Fee weave.Fraction `json:"fee"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if err := c.ServiceAccount.Validate(); err != nil {
		return errors.Wrap(err, "service account")
	}
	if err := c.Fee.Validate(); err != nil {
		return errors.Wrap(err, "fee")
	}
	if c.Fee.Numerator >= c.Fee.Denominator {
		return errors.Wrapf(errors.ErrInput, "fee %s must be less than 1", c.Fee.String())
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, c.ServiceAccount).
		Uint32(2, c.Fee.Numerator).
		Uint32(3, c.Fee.Denominator).
		Result(), nil
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			c.ServiceAccount, err = d.Bytes()
		case 2:
			c.Fee.Numerator, err = d.Uint32()
		case 3:
			c.Fee.Denominator, err = d.Uint32()
		default:
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

// SaveConfiguration writes the fee split configuration.
func SaveConfiguration(db gconf.Store, conf Configuration) error {
	return gconf.Save(db, confPkg, &conf)
}
