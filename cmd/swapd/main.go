package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

// version is overwritten at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "swapd")

	if err := newRootCmd(logger).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(logger log.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "swapd",
		Short:         "Token swap escrow node",
		Long:          "ABCI application holding token accounts, two party swap escrows and fee split transfers.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".swapd")
	home := root.PersistentFlags().String("home", defaultHome, "directory to store files under")

	root.AddCommand(
		initCmd(home),
		startCmd(home, logger),
		deriveCmd(home),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
