// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/ethersphere/beekeeper/pkg/logging"
	"github.com/ethersphere/cfx-account/pkg/account"
	"github.com/ethersphere/cfx-account/pkg/cfxclient"
	"github.com/ethersphere/cfx-account/pkg/distributor"
	"github.com/ethersphere/cfx-account/pkg/wallet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const (
	optionGasPrice     string = "gas-price"
	optionGasLimit     string = "gas-limit"
	optionStorageLimit string = "storage-limit"
	optionEpochHeight  string = "epoch-height"
)

// openAccount dials the node and builds the account from a wallet key or a
// key store, in that order.
func openAccount(ctx context.Context, cfg distributor.Config, logger logging.Logger) (*account.Account, *cfxclient.RPCClient, error) {
	if cfg.ChainNodeEndpoint == "" {
		return nil, nil, fmt.Errorf("--%s must be set", optionEndpoint)
	}

	client, err := cfxclient.Dial(ctx, cfg.ChainNodeEndpoint)
	if err != nil {
		return nil, nil, err
	}

	acc, err := newAccount(ctx, cfg, client, logger)
	if err != nil {
		client.Close()
		return nil, nil, err
	}

	logger.Infof("using account %s, nonce %d", acc.Address().String(), acc.Nonce())

	return acc, client, nil
}

func newAccount(ctx context.Context, cfg distributor.Config, client cfxclient.Client, logger logging.Logger) (*account.Account, error) {
	if cfg.WalletKey != "" {
		return account.Create(ctx, client, wallet.WalletKey(cfg.WalletKey), account.WithLogger(logger))
	}

	if cfg.KeyStore.Dir == "" {
		return nil, fmt.Errorf("--%s or --%s must be set", optionWalletKey, optionKeyStoreDir)
	}

	if cfg.KeyStore.Address == "" {
		return nil, fmt.Errorf("--%s must be set", optionAddress)
	}

	status, err := client.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get node status, %w", err)
	}

	address, err := wallet.ParseAddress(cfg.KeyStore.Address, status.NetworkID)
	if err != nil {
		return nil, err
	}

	return account.Unlock(
		ctx,
		client,
		wallet.NewKeyStore(cfg.KeyStore.Dir),
		address,
		cfg.KeyStore.Password,
		cfg.KeyStore.UnlockTimeout.Duration,
		account.WithLogger(logger),
	)
}

type optionFlags struct {
	gasPrice     string
	gasLimit     uint64
	storageLimit uint64
	epochHeight  uint64
}

func (f *optionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.gasPrice, optionGasPrice, "", "gas price in drip, defaults to 1 GDrip")
	cmd.Flags().Uint64Var(&f.gasLimit, optionGasLimit, 0, "gas limit, estimated when unset")
	cmd.Flags().Uint64Var(&f.storageLimit, optionStorageLimit, 0, "storage limit, estimated when unset")
	cmd.Flags().Uint64Var(&f.epochHeight, optionEpochHeight, 0, "epoch height, the current epoch when unset")
}

// option builds the transaction option from the flags given on the command
// line. Unset flags are left to resolution.
func (f *optionFlags) option(cmd *cobra.Command) (*account.Option, error) {
	opt := account.NewOption()
	flags := cmd.Flags()

	if flags.Changed(optionGasPrice) {
		price, ok := new(big.Int).SetString(f.gasPrice, 10)
		if !ok || price.Sign() < 0 {
			return nil, fmt.Errorf("invalid --%s %q", optionGasPrice, f.gasPrice)
		}

		opt.WithGasPrice(price)
	}

	if flags.Changed(optionGasLimit) {
		opt.WithGasLimit(f.gasLimit)
	}

	if flags.Changed(optionStorageLimit) {
		opt.WithStorageLimit(f.storageLimit)
	}

	if flags.Changed(optionEpochHeight) {
		opt.WithEpochHeight(f.epochHeight)
	}

	return opt, nil
}

// parseCFX converts a decimal CFX amount into drips.
func parseCFX(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	drips := d.Shift(wallet.NativeCoinDecimals)
	if !drips.Equal(drips.Truncate(0)) || drips.IsNegative() {
		return nil, fmt.Errorf("invalid amount %q", s)
	}

	return drips.BigInt(), nil
}

// printMetrics writes the account collectors in the Prometheus text format.
func printMetrics(w io.Writer, acc *account.Account) error {
	registry := prometheus.NewRegistry()

	for _, c := range acc.Metrics() {
		if err := registry.Register(c); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var errs []error

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
