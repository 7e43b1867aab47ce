// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethersphere/beekeeper/pkg/logging"
	"github.com/ethersphere/cfx-account/pkg/account"
	"github.com/ethersphere/cfx-account/pkg/cfxclient"
	"github.com/ethersphere/cfx-account/pkg/distributor"
	"github.com/ethersphere/cfx-account/pkg/wallet"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const (
	optionTo             string = "to"
	optionValue          string = "value"
	optionBytecode       string = "bytecode"
	optionContract       string = "contract"
	optionData           string = "data"
	optionRecipients     string = "recipients"
	optionRecipientsFile string = "recipients-file"
	optionMinNative      string = "min-native"
	optionMinToken       string = "min-token"
	optionToken          string = "token"
	optionTokenDecimals  string = "token-decimals"
	optionConcurrency    string = "concurrency"
	optionWait           string = "wait"
	optionPollInterval   string = "poll-interval"
)

func newNonceCmd(cfg *distributor.Config, logf func() logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "nonce",
		Short: "print the address, nonce and balance of the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, client, err := openAccount(cmd.Context(), *cfg, logf())
			if err != nil {
				return err
			}
			defer client.Close()

			balance, err := acc.Balance(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get balance: %w", err)
			}

			symbol := "CFX"
			if coin, err := wallet.NativeCoinForChain(acc.ChainID().Uint64()); err == nil {
				symbol = coin.Symbol
			}

			cmd.Printf("address: %s\n", acc.Address().String())
			cmd.Printf("chain id: %s\n", acc.ChainID())
			cmd.Printf("nonce: %d\n", acc.Nonce())
			cmd.Printf("balance: %s %s\n", decimal.NewFromBigInt(balance, -wallet.NativeCoinDecimals), symbol)

			return nil
		},
	}
}

func newTransferCmd(cfg *distributor.Config, logf func() logging.Logger, dumpMetrics *bool) *cobra.Command {
	var (
		to    string
		value string
		wait  bool
		flags optionFlags
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "transfer CFX to an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			drips, err := parseCFX(value)
			if err != nil {
				return err
			}

			opt, err := flags.option(cmd)
			if err != nil {
				return err
			}

			return runIssue(cmd, *cfg, logf(), *dumpMetrics, wait, func(acc *account.Account) (common.Hash, error) {
				recipient, err := wallet.ParseAddress(to, wallet.NetworkID(acc.Address()))
				if err != nil {
					return common.Hash{}, err
				}

				return acc.Transfer(cmd.Context(), opt, recipient, drips)
			})
		},
	}

	cmd.Flags().StringVar(&to, optionTo, "", "recipient address, base32 or hex")
	cmd.Flags().StringVar(&value, optionValue, "", "amount in CFX")
	cmd.Flags().BoolVar(&wait, optionWait, false, "wait for the node to include the transaction")
	flags.register(cmd)
	markRequired(cmd, optionTo, optionValue)

	return cmd
}

func newDeployCmd(cfg *distributor.Config, logf func() logging.Logger, dumpMetrics *bool) *cobra.Command {
	var (
		bytecode string
		wait     bool
		flags    optionFlags
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "deploy a contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := hexutil.Decode(bytecode)
			if err != nil {
				return fmt.Errorf("invalid --%s: %w", optionBytecode, err)
			}

			opt, err := flags.option(cmd)
			if err != nil {
				return err
			}

			return runIssue(cmd, *cfg, logf(), *dumpMetrics, wait, func(acc *account.Account) (common.Hash, error) {
				return acc.Deploy(cmd.Context(), opt, code)
			})
		},
	}

	cmd.Flags().StringVar(&bytecode, optionBytecode, "", "0x prefixed contract bytecode")
	cmd.Flags().BoolVar(&wait, optionWait, false, "wait for the node to include the transaction")
	flags.register(cmd)
	markRequired(cmd, optionBytecode)

	return cmd
}

func newCallCmd(cfg *distributor.Config, logf func() logging.Logger, dumpMetrics *bool) *cobra.Command {
	var (
		contract string
		data     string
		value    string
		wait     bool
		flags    optionFlags
	)

	cmd := &cobra.Command{
		Use:   "call",
		Short: "send a transaction to a contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			var input []byte
			if data != "" {
				var err error
				if input, err = hexutil.Decode(data); err != nil {
					return fmt.Errorf("invalid --%s: %w", optionData, err)
				}
			}

			opt, err := flags.option(cmd)
			if err != nil {
				return err
			}

			if value != "" {
				drips, err := parseCFX(value)
				if err != nil {
					return err
				}

				opt.WithValue(drips)
			}

			return runIssue(cmd, *cfg, logf(), *dumpMetrics, wait, func(acc *account.Account) (common.Hash, error) {
				target, err := wallet.ParseAddress(contract, wallet.NetworkID(acc.Address()))
				if err != nil {
					return common.Hash{}, err
				}

				return acc.Call(cmd.Context(), opt, target, input)
			})
		},
	}

	cmd.Flags().StringVar(&contract, optionContract, "", "contract address, base32 or hex")
	cmd.Flags().StringVar(&data, optionData, "", "0x prefixed call data")
	cmd.Flags().StringVar(&value, optionValue, "", "amount in CFX sent along")
	cmd.Flags().BoolVar(&wait, optionWait, false, "wait for the node to include the transaction")
	flags.register(cmd)
	markRequired(cmd, optionContract)

	return cmd
}

func newDistributeCmd(cfg *distributor.Config, logf func() logging.Logger, dumpMetrics *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distribute",
		Short: "top up recipients with CFX and tokens",
		Long: `Tops up every recipient to the configured minimum amounts.
Recipients already holding the minimum are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logf()

			acc, client, err := openAccount(cmd.Context(), *cfg, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			if *dumpMetrics {
				defer dumpAccountMetrics(cmd, acc, logger)
			}

			report, err := distributor.Distribute(
				cmd.Context(),
				*cfg,
				client,
				acc,
				distributor.NewRecipientLister(*cfg),
				distributor.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			cmd.Println(report.String())

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&cfg.Recipients, optionRecipients, nil, "recipient addresses, base32 or hex")
	cmd.Flags().StringVar(&cfg.RecipientsFile, optionRecipientsFile, "", "file with one recipient address per line")
	cmd.Flags().Float64Var(&cfg.MinAmounts.NativeCoin, optionMinNative, 0, "required minimum amount of CFX")
	cmd.Flags().Float64Var(&cfg.MinAmounts.Token, optionMinToken, 0, "required minimum amount of tokens")
	cmd.Flags().StringVar(&cfg.Token.Address, optionToken, "", "token contract address")
	cmd.Flags().IntVar(&cfg.Token.Decimals, optionTokenDecimals, distributor.DefaultTokenDecimals, "token decimals")
	cmd.Flags().IntVar(&cfg.Concurrency, optionConcurrency, distributor.DefaultConcurrency, "number of recipients funded at once")
	cmd.Flags().BoolVar(&cfg.WaitForNonce, optionWait, false, "wait for the node to include the transfers")
	cmd.Flags().DurationVar(&cfg.PollInterval.Duration, optionPollInterval, cfxclient.DefaultPollInterval, "nonce poll interval while waiting")

	return cmd
}

// runIssue opens the account, issues one transaction and prints its hash.
func runIssue(
	cmd *cobra.Command,
	cfg distributor.Config,
	logger logging.Logger,
	dumpMetrics bool,
	wait bool,
	issue func(acc *account.Account) (common.Hash, error),
) error {
	acc, client, err := openAccount(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	if dumpMetrics {
		defer dumpAccountMetrics(cmd, acc, logger)
	}

	hash, err := issue(acc)
	if err != nil {
		return err
	}

	cmd.Println(hash.Hex())

	if !wait {
		return nil
	}

	logger.Infof("waiting for nonce %d...", acc.Nonce())

	return acc.WaitForNonceUpdated(cmd.Context(), cfg.PollInterval.Duration)
}

func dumpAccountMetrics(cmd *cobra.Command, acc *account.Account, logger logging.Logger) {
	if err := printMetrics(cmd.OutOrStdout(), acc); err != nil {
		logger.Errorf("printing metrics: %v", err)
	}
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}
