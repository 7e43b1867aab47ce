// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package distributor tops up a set of recipients from one account.
package distributor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"sync"

	"github.com/Conflux-Chain/go-conflux-sdk/types/cfxaddress"
	"github.com/ethersphere/beekeeper/pkg/logging"
	"github.com/ethersphere/cfx-account/pkg/account"
	"github.com/ethersphere/cfx-account/pkg/cfxclient"
	"github.com/ethersphere/cfx-account/pkg/wallet"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	ErrFailedFunding           = errors.New("failed funding recipient")
	ErrFailedFundingNativeCoin = errors.New("failed funding recipient with native coin")
	ErrFailedFundingToken      = errors.New("failed funding recipient with token")
)

type options struct {
	log logging.Logger
}

type DistributorOption func(*options)

func WithLogger(l logging.Logger) DistributorOption {
	return func(o *options) {
		o.log = l
	}
}

func defaultOptions() *options {
	return &options{
		log: logging.New(io.Discard, 0, ""),
	}
}

// Distribute tops up every recipient listed by rl to the configured minimum
// amounts. Failures for single recipients are logged and counted, the
// returned error reports only failures to start.
func Distribute(
	ctx context.Context,
	cfg Config,
	c cfxclient.Client,
	issuer Issuer,
	rl RecipientLister,
	opts ...DistributorOption,
) (Report, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}

	if rl == nil {
		rl = NewRecipientLister(cfg)
	}

	o.log.Infof("distribution started...")
	defer o.log.Info("distribution finished")

	networkID := wallet.NetworkID(issuer.Address())

	raw, err := rl.List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("listing recipients failed: %w", err)
	}

	recipients, invalid := parseRecipients(raw, networkID)
	if len(invalid) > 0 {
		o.log.Infof("ignoring invalid recipients %v", invalid)
	}

	d := &distributor{
		cfg:    cfg,
		client: c,
		issuer: issuer,
		log:    o.log,
	}

	if cfg.MinAmounts.Token > 0 {
		token, err := wallet.ParseAddress(cfg.Token.Address, networkID)
		if err != nil {
			return Report{}, fmt.Errorf("invalid token address: %w", err)
		}

		d.token = &token
	}

	report := d.fundAll(ctx, recipients)
	report.Failed += len(invalid)
	report.Total += len(invalid)

	o.log.Infof("%s", report)

	if cfg.WaitForNonce {
		o.log.Infof("waiting for the chain to include the transfers...")

		if err := issuer.WaitForNonceUpdated(ctx, cfg.PollInterval.Duration); err != nil {
			return report, fmt.Errorf("waiting for nonce failed: %w", err)
		}
	}

	return report, nil
}

type distributor struct {
	cfg    Config
	client cfxclient.Client
	issuer Issuer
	token  *cfxaddress.Address
	log    logging.Logger
}

func (d *distributor) fundAll(ctx context.Context, recipients []recipient) Report {
	var (
		mu     sync.Mutex
		report = Report{Total: len(recipients)}
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Concurrency)

	for _, r := range recipients {
		r := r

		g.Go(func() error {
			funded, err := d.fund(ctx, r)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err != nil:
				report.Failed++
				d.log.Errorf("%s - funding failed; reason: %s", r.name, err)
			case funded:
				report.Funded++
				d.log.Infof("%s - funded", r.name)
			default:
				report.Skipped++
				d.log.Infof("%s - already funded", r.name)
			}

			// a failed recipient does not stop the others
			return nil
		})
	}

	_ = g.Wait()

	return report
}

// fund tops up the native coin and the token of one recipient. Both are
// attempted even if one fails.
func (d *distributor) fund(ctx context.Context, r recipient) (bool, error) {
	var errorMsg []string

	nativeFunded, err := d.fundNativeCoin(ctx, r)
	if err != nil {
		errorMsg = append(errorMsg, err.Error())
	}

	tokenFunded, err := d.fundToken(ctx, r)
	if err != nil {
		errorMsg = append(errorMsg, err.Error())
	}

	if len(errorMsg) > 0 {
		return false, fmt.Errorf("%w (%s), reason: %s", ErrFailedFunding, r.name, strings.Join(errorMsg, ", "))
	}

	return nativeFunded || tokenFunded, nil
}

func (d *distributor) fundNativeCoin(ctx context.Context, r recipient) (bool, error) {
	if d.cfg.MinAmounts.NativeCoin <= 0 {
		return false, nil
	}

	balance, err := d.client.Balance(ctx, r.address)
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrFailedFundingNativeCoin, err)
	}

	topUpAmount := calcTopUpAmount(d.cfg.MinAmounts.NativeCoin, balance, wallet.NativeCoinDecimals)
	if topUpAmount.Sign() <= 0 {
		// Recipient holds enough, top up is not needed
		return false, nil
	}

	hash, err := d.issuer.Transfer(ctx, nil, r.address, topUpAmount)
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrFailedFundingNativeCoin, err)
	}

	d.log.Debugf("%s - sent %s CFX in %s", r.name, formatAmount(topUpAmount, wallet.NativeCoinDecimals), hash)

	return true, nil
}

func (d *distributor) fundToken(ctx context.Context, r recipient) (bool, error) {
	if d.token == nil {
		return false, nil
	}

	balance, err := account.TokenBalance(ctx, d.client, *d.token, r.address)
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrFailedFundingToken, err)
	}

	topUpAmount := calcTopUpAmount(d.cfg.MinAmounts.Token, balance, d.cfg.Token.Decimals)
	if topUpAmount.Sign() <= 0 {
		return false, nil
	}

	hash, err := d.issuer.TransferToken(ctx, nil, *d.token, r.address, topUpAmount)
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrFailedFundingToken, err)
	}

	d.log.Debugf("%s - sent %s tokens in %s", r.name, formatAmount(topUpAmount, d.cfg.Token.Decimals), hash)

	return true, nil
}

func parseRecipients(raw []string, networkID uint32) ([]recipient, []string) {
	result := make([]recipient, 0, len(raw))
	invalid := make([]string, 0)

	for _, s := range raw {
		addr, err := wallet.ParseAddress(s, networkID)
		if err != nil {
			invalid = append(invalid, s)
			continue
		}

		result = append(result, newRecipient(s, addr))
	}

	return result, invalid
}

// calcTopUpAmount returns minVal, in whole units, minus the current amount in
// base units. It is not positive when no top up is needed.
func calcTopUpAmount(minVal float64, currAmount *big.Int, decimals int) *big.Int {
	minAmount := decimal.NewFromFloat(minVal).Shift(int32(decimals)).BigInt()

	if currAmount == nil {
		return minAmount
	}

	return minAmount.Sub(minAmount, currAmount)
}

func formatAmount(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}

	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}
