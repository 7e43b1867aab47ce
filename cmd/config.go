// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/ethersphere/cfx-account/pkg/distributor"
	"github.com/spf13/pflag"
)

// mergeConfig copies the values of the config file into cfg for every flag
// not given on the command line.
func mergeConfig(flags *pflag.FlagSet, cfg *distributor.Config, file distributor.Config) {
	unset := func(name string) bool {
		f := flags.Lookup(name)
		return f == nil || !f.Changed
	}

	if unset(optionEndpoint) && file.ChainNodeEndpoint != "" {
		cfg.ChainNodeEndpoint = file.ChainNodeEndpoint
	}

	if unset(optionWalletKey) && file.WalletKey != "" {
		cfg.WalletKey = file.WalletKey
	}

	if unset(optionKeyStoreDir) && file.KeyStore.Dir != "" {
		cfg.KeyStore.Dir = file.KeyStore.Dir
	}

	if unset(optionAddress) && file.KeyStore.Address != "" {
		cfg.KeyStore.Address = file.KeyStore.Address
	}

	if unset(optionPassword) && file.KeyStore.Password != "" {
		cfg.KeyStore.Password = file.KeyStore.Password
	}

	if unset(optionUnlockTimeout) && file.KeyStore.UnlockTimeout.Duration != 0 {
		cfg.KeyStore.UnlockTimeout = file.KeyStore.UnlockTimeout
	}

	if unset(optionRecipients) && len(file.Recipients) > 0 {
		cfg.Recipients = file.Recipients
	}

	if unset(optionRecipientsFile) && file.RecipientsFile != "" {
		cfg.RecipientsFile = file.RecipientsFile
	}

	if unset(optionMinNative) && file.MinAmounts.NativeCoin != 0 {
		cfg.MinAmounts.NativeCoin = file.MinAmounts.NativeCoin
	}

	if unset(optionMinToken) && file.MinAmounts.Token != 0 {
		cfg.MinAmounts.Token = file.MinAmounts.Token
	}

	if unset(optionToken) && file.Token.Address != "" {
		cfg.Token.Address = file.Token.Address
	}

	if unset(optionTokenDecimals) {
		cfg.Token.Decimals = file.Token.Decimals
	}

	if unset(optionConcurrency) {
		cfg.Concurrency = file.Concurrency
	}

	if unset(optionWait) && file.WaitForNonce {
		cfg.WaitForNonce = true
	}

	if unset(optionPollInterval) && file.PollInterval.Duration != 0 {
		cfg.PollInterval = file.PollInterval
	}
}
