package escrow

import (
	solana "github.com/gagliardetto/solana-go"
	"github.com/iov-one/tokenswap/codec"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/gconf"
)

const confPkg = "escrow"

// Configuration names the program identity and the seeds all derived
// addresses of this extension are computed from.
type Configuration struct {
	// ProgramID is the base58 encoded program public key.
	ProgramID string `json:"program_id"`
	// AuthoritySeed derives the authority that controls every vault.
	AuthoritySeed string `json:"authority_seed"`
	// VaultSeed, together with the escrow ID, derives the vault address.
	VaultSeed string `json:"vault_seed"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// DefaultConfiguration returns the configuration used when genesis does not
// declare one.
func DefaultConfiguration() Configuration {
	return Configuration{
		ProgramID:     "7iDKuYGEDgVKqxAzM3GygLeGKgnJxk3jhVyDmiAhSx8h",
		AuthoritySeed: "escrow",
		VaultSeed:     "token-seed",
	}
}

func (c *Configuration) Validate() error {
	if _, err := c.Program(); err != nil {
		return err
	}
	if len(c.AuthoritySeed) == 0 || len(c.AuthoritySeed) > solana.MaxSeedLength {
		return errors.Wrapf(errors.ErrInput, "authority seed must be 1 to %d bytes", solana.MaxSeedLength)
	}
	if len(c.VaultSeed) == 0 || len(c.VaultSeed) > solana.MaxSeedLength {
		return errors.Wrapf(errors.ErrInput, "vault seed must be 1 to %d bytes", solana.MaxSeedLength)
	}
	if c.AuthoritySeed == c.VaultSeed {
		return errors.Wrap(errors.ErrInput, "authority and vault seeds must differ")
	}
	return nil
}

// Program decodes the program public key.
func (c *Configuration) Program() (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(c.ProgramID)
	if err != nil {
		return solana.PublicKey{}, errors.Wrapf(errors.ErrInput, "program id %q: %s", c.ProgramID, err)
	}
	return key, nil
}

// Authority derives the authority controlling all vaults.
func (c *Configuration) Authority() (*Authority, error) {
	program, err := c.Program()
	if err != nil {
		return nil, err
	}
	return DeriveAuthority(program, []byte(c.AuthoritySeed))
}

func (c *Configuration) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		String(1, c.ProgramID).
		String(2, c.AuthoritySeed).
		String(3, c.VaultSeed).
		Result(), nil
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			c.ProgramID, err = d.String()
		case 2:
			c.AuthoritySeed, err = d.String()
		case 3:
			c.VaultSeed, err = d.String()
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

// SaveConfiguration writes the escrow configuration.
func SaveConfiguration(db gconf.Store, conf Configuration) error {
	return gconf.Save(db, confPkg, &conf)
}
