package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/tokenswap/app"
	swapapp "github.com/iov-one/tokenswap/cmd/swapd/app"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/weave"
	"github.com/spf13/cobra"
)

// genesisFile returns the location tendermint keeps its genesis in.
func genesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

func initCmd(home *string) *cobra.Command {
	var seed string
	cmd := &cobra.Command{
		Use:   "init [owner-address]",
		Short: "Initialize app options in genesis file",
		Long: `Write the application state into an existing tendermint genesis file
and create the node configuration.

The owner receives funded XTK and YTK accounts, a storage reserve and the
fee split service account. The owner is either given as an address, derived
from --seed, or a new seed is generated and printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, *home, seed, args)
		},
	}
	cmd.Flags().StringVar(&seed, "seed", "", "hex encoded seed the owner key is derived from")
	return cmd
}

func runInit(cmd *cobra.Command, home, seed string, args []string) error {
	genFile := genesisFile(home)
	if _, err := os.Stat(genFile); err != nil {
		return errors.Wrapf(errors.ErrNotFound, "genesis file %s, run tendermint init first", genFile)
	}

	var owner weave.Address
	switch {
	case len(args) == 1 && seed != "":
		return errors.Wrap(errors.ErrInput, "give either an owner address or a seed")
	case len(args) == 1:
		addr, err := weave.ParseAddress(args[0])
		if err != nil {
			return errors.Wrap(err, "owner address")
		}
		owner = addr
	case seed != "":
		key, err := swapapp.OwnerFromSeed(seed)
		if err != nil {
			return err
		}
		owner = key.PublicKey().Address()
		fmt.Fprintf(cmd.OutOrStdout(), "owner %s\n", owner)
	default:
		addr, secret, err := swapapp.GenerateCoinKey()
		if err != nil {
			return err
		}
		owner = addr
		fmt.Fprintf(cmd.OutOrStdout(), "owner %s\nseed %s\n", addr, secret)
	}

	options, err := swapapp.GenInitOptions(owner)
	if err != nil {
		return err
	}
	if err := app.AddGenesisOptions(genFile, options); err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Join(home, configFile)); os.IsNotExist(err) {
		return DefaultConfig().Save(home)
	}
	return nil
}
