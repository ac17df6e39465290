package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/iov-one/tokenswap/app"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/spf13/cobra"
)

func deriveCmd(home *string) *cobra.Command {
	return &cobra.Command{
		Use:   "derive <escrow-id>",
		Short: "Print the vault address and bump of an escrow",
		Long: `Derive the vault of an escrow the same way the escrow handlers do.
The escrow configuration is read from the genesis file when present.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := escrowConfiguration(*home)
			if err != nil {
				return err
			}
			vault, bump, err := escrow.DeriveVault(&conf, []byte(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "vault %s\nbump %d\n", vault, bump)
			return nil
		},
	}
}

// escrowConfiguration returns the escrow configuration declared in the
// genesis file of home, or the default one.
func escrowConfiguration(home string) (escrow.Configuration, error) {
	conf := escrow.DefaultConfiguration()
	genFile := genesisFile(home)
	if _, err := os.Stat(genFile); os.IsNotExist(err) {
		return conf, nil
	}
	doc, err := app.LoadGenesis(genFile)
	if err != nil {
		return conf, err
	}

	var state struct {
		Conf struct {
			Escrow *escrow.Configuration `json:"escrow"`
		} `json:"conf"`
	}
	if raw, ok := doc["app_state"]; ok {
		if err := json.Unmarshal(raw, &state); err != nil {
			return conf, errors.Wrap(errors.ErrInput, err.Error())
		}
	}
	if state.Conf.Escrow != nil {
		conf = *state.Conf.Escrow
	}
	return conf, conf.Validate()
}
