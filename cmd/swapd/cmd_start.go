package main

import (
	"os"
	"os/signal"
	"syscall"

	swapapp "github.com/iov-one/tokenswap/cmd/swapd/app"
	"github.com/iov-one/tokenswap/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/abci/server"
	"github.com/tendermint/tendermint/libs/log"
)

func startCmd(home *string, logger log.Logger) *cobra.Command {
	var (
		bind  string
		debug bool
	)
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := LoadConfig(*home)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bind") {
				conf.ABCIAddress = bind
			}
			if cmd.Flags().Changed("debug") {
				conf.Debug = debug
			}
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			return runStart(*home, conf, logger, stop)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "address server listens on, overrides abci_address")
	cmd.Flags().BoolVar(&debug, "debug", false, "call stack returned on error")
	return cmd
}

// runStart serves the application until a value is received on stop.
func runStart(home string, conf Config, base log.Logger, stop <-chan os.Signal) error {
	logger, err := conf.Logger(base)
	if err != nil {
		return err
	}

	application, err := swapapp.GenerateApp(conf.DBPath(home), logger, conf.Debug)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", conf.ABCIAddress)
	svr, err := server.NewServer(conf.ABCIAddress, "socket", application)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "start abci server")
	}

	sig := <-stop
	logger.Info("Stopping ABCI app", "signal", sig)
	return svr.Stop()
}
