package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/tokenswap/errors"
)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// ChainID returns the chain_id declared in the genesis file.
func (g GenesisDoc) ChainID() (string, error) {
	var id string
	if err := json.Unmarshal(g["chain_id"], &id); err != nil {
		return "", errors.Wrap(errors.ErrInput, "chain_id")
	}
	return id, nil
}

// LoadGenesis reads a tendermint genesis file.
func LoadGenesis(filename string) (GenesisDoc, error) {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return doc, nil
}

// AddGenesisOptions sets the app_state of an existing genesis file.
// Any previous app_state is overwritten.
func AddGenesisOptions(filename string, options json.RawMessage) error {
	doc, err := LoadGenesis(filename)
	if err != nil {
		return err
	}

	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serialize genesis")
	}
	if err := ioutil.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	return nil
}
