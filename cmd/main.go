// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/ethersphere/beekeeper/pkg/logging"
	"github.com/ethersphere/cfx-account/pkg/distributor"
	"github.com/spf13/cobra"
)

const (
	optionLogVerbosity  string = "log-verbosity"
	optionConfig        string = "config"
	optionEndpoint      string = "endpoint"
	optionWalletKey     string = "wallet-key"
	optionKeyStoreDir   string = "keystore-dir"
	optionAddress       string = "address"
	optionPassword      string = "password"
	optionUnlockTimeout string = "unlock-timeout"
	optionMetrics       string = "metrics"
)

func main() {
	cfg := distributor.Config{}

	var (
		logLevel    string
		configPath  string
		dumpMetrics bool
		logger      logging.Logger
	)

	rootCmd := &cobra.Command{
		Use:   "cfx-account",
		Short: "issue Conflux transactions from a nonce tracked account",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error

			logger, err = newLogger(cmd, logLevel)
			if err != nil {
				return err
			}

			if configPath == "" {
				return nil
			}

			fileCfg, err := distributor.LoadConfig(configPath)
			if err != nil {
				return err
			}

			mergeConfig(cmd.Flags(), &cfg, fileCfg)

			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			if err := cmd.Help(); err != nil {
				log.Fatal(err)
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, optionLogVerbosity, "info", "log verbosity level 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace")
	rootCmd.PersistentFlags().StringVar(&configPath, optionConfig, "", "path to a YAML config file, flags override its values")
	rootCmd.PersistentFlags().StringVar(&cfg.ChainNodeEndpoint, optionEndpoint, "", "endpoint to the Conflux node")
	rootCmd.PersistentFlags().StringVar(&cfg.WalletKey, optionWalletKey, "", "hex encoded private key to sign with")
	rootCmd.PersistentFlags().StringVar(&cfg.KeyStore.Dir, optionKeyStoreDir, "", "key store directory to sign with instead of --wallet-key")
	rootCmd.PersistentFlags().StringVar(&cfg.KeyStore.Address, optionAddress, "", "key store address to unlock")
	rootCmd.PersistentFlags().StringVar(&cfg.KeyStore.Password, optionPassword, "", "key store password")
	rootCmd.PersistentFlags().DurationVar(&cfg.KeyStore.UnlockTimeout.Duration, optionUnlockTimeout, 0, "how long the key stays unlocked, 0 for the whole run")
	rootCmd.PersistentFlags().BoolVar(&dumpMetrics, optionMetrics, false, "print account metrics on exit")

	logf := func() logging.Logger { return logger }

	rootCmd.AddCommand(
		newNonceCmd(&cfg, logf),
		newTransferCmd(&cfg, logf, &dumpMetrics),
		newDeployCmd(&cfg, logf, &dumpMetrics),
		newCallCmd(&cfg, logf, &dumpMetrics),
		newDistributeCmd(&cfg, logf, &dumpMetrics),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if logger != nil {
			logger.NewEntry().Fatal(err)
		}

		log.Fatal(err)
	}
}

func newLogger(cmd *cobra.Command, verbosity string) (logging.Logger, error) {
	var logger logging.Logger

	switch strings.ToLower(verbosity) {
	case "0", "silent":
		logger = logging.New(io.Discard, 0, "")
	case "1", "error":
		logger = logging.New(cmd.OutOrStdout(), 2, "")
	case "2", "warn":
		logger = logging.New(cmd.OutOrStdout(), 3, "")
	case "3", "info":
		logger = logging.New(cmd.OutOrStdout(), 4, "")
	case "4", "debug":
		logger = logging.New(cmd.OutOrStdout(), 5, "")
	case "5", "trace":
		logger = logging.New(cmd.OutOrStdout(), 6, "")
	default:
		return nil, fmt.Errorf("unknown %s level %q, use help to check flag usage options", optionLogVerbosity, verbosity)
	}

	return logger, nil
}
