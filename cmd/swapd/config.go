package main

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/tokenswap/errors"
	"github.com/tendermint/tendermint/libs/log"
	"gopkg.in/yaml.v3"
)

const configFile = "swapd.yaml"

// Config is the node configuration kept in the home directory.
type Config struct {
	// ABCIAddress is where the ABCI socket server listens for tendermint.
	ABCIAddress string `yaml:"abci_address"`
	// DBDir is the application database directory. Relative paths are
	// resolved against the home directory. An empty value keeps the
	// state in memory.
	DBDir string `yaml:"db_dir"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `yaml:"log_level"`
	// Debug returns full error stacks in ABCI responses.
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the configuration written by init.
func DefaultConfig() Config {
	return Config{
		ABCIAddress: "tcp://localhost:26658",
		DBDir:       "data",
		LogLevel:    "info",
	}
}

// LoadConfig reads the configuration from home. Missing values are
// taken from DefaultConfig and a missing file is not an error.
func LoadConfig(home string) (Config, error) {
	conf := DefaultConfig()
	raw, err := ioutil.ReadFile(filepath.Join(home, configFile))
	if os.IsNotExist(err) {
		return conf, nil
	}
	if err != nil {
		return conf, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(raw, &conf); err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "parse %s: %s", configFile, err)
	}
	return conf, conf.Validate()
}

// Validate checks that the configuration can be used to start the node.
func (c Config) Validate() error {
	if c.ABCIAddress == "" {
		return errors.Wrap(errors.ErrEmpty, "abci_address")
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		return errors.Wrapf(errors.ErrInput, "log_level: %s", err)
	}
	return nil
}

// Save writes the configuration to home.
func (c Config) Save(home string) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "serialize config")
	}
	if err := os.MkdirAll(home, 0700); err != nil {
		return errors.Wrap(err, "create home")
	}
	return errors.Wrap(ioutil.WriteFile(filepath.Join(home, configFile), raw, 0600), "write config")
}

// DBPath returns the database location, or an empty string for an
// in memory database.
func (c Config) DBPath(home string) string {
	if c.DBDir == "" {
		return ""
	}
	dir := c.DBDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(home, dir)
	}
	return filepath.Join(dir, "swap.db")
}

// Logger returns a logger filtered by the configured level.
func (c Config) Logger(base log.Logger) (log.Logger, error) {
	opt, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "log_level: %s", err)
	}
	return log.NewFilter(base, opt), nil
}
