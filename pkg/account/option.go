// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Conflux-Chain/go-conflux-sdk/types/cfxaddress"
	"github.com/ethersphere/cfx-account/pkg/cfxclient"
	"github.com/ethersphere/cfx-account/pkg/wallet"
	"github.com/shopspring/decimal"
)

var (
	DefaultGasOverflowRatio        = decimal.RequireFromString("1.3")
	DefaultCollateralOverflowRatio = decimal.RequireFromString("1.3")
)

// ChainState is the part of the chain client an Option resolves against.
type ChainState interface {
	GasEstimator
	EpochNumber(ctx context.Context) (*big.Int, error)
}

// Option holds the optional fields of a single transaction. Nil fields are
// resolved just before submission. An Option is meant for one submission and
// must not be shared between concurrent calls.
type Option struct {
	GasPrice     *big.Int
	GasLimit     *big.Int
	StorageLimit *big.Int
	Value        *big.Int
	EpochHeight  *big.Int
	ChainID      *big.Int

	gasOverflowRatio        decimal.NullDecimal
	collateralOverflowRatio decimal.NullDecimal
}

func NewOption() *Option {
	return NewOptionWithRatios(DefaultGasOverflowRatio, DefaultCollateralOverflowRatio)
}

func NewOptionWithRatios(gasOverflowRatio, collateralOverflowRatio decimal.Decimal) *Option {
	return &Option{
		Value:                   new(big.Int),
		gasOverflowRatio:        decimal.NewNullDecimal(gasOverflowRatio),
		collateralOverflowRatio: decimal.NewNullDecimal(collateralOverflowRatio),
	}
}

func (o *Option) WithGasPrice(price *big.Int) *Option {
	o.GasPrice = price
	return o
}

func (o *Option) WithGasLimit(gasLimit uint64) *Option {
	o.GasLimit = new(big.Int).SetUint64(gasLimit)
	return o
}

func (o *Option) WithStorageLimit(storageLimit uint64) *Option {
	o.StorageLimit = new(big.Int).SetUint64(storageLimit)
	return o
}

func (o *Option) WithValue(value *big.Int) *Option {
	o.Value = value
	return o
}

func (o *Option) WithEpochHeight(epoch uint64) *Option {
	o.EpochHeight = new(big.Int).SetUint64(epoch)
	return o
}

func (o *Option) WithChainID(chainID uint64) *Option {
	o.ChainID = new(big.Int).SetUint64(chainID)
	return o
}

// GasOverflowRatio returns the ratio applied to estimated gas. An Option not
// made by a constructor uses DefaultGasOverflowRatio.
func (o *Option) GasOverflowRatio() decimal.Decimal {
	if !o.gasOverflowRatio.Valid {
		return DefaultGasOverflowRatio
	}

	return o.gasOverflowRatio.Decimal
}

// CollateralOverflowRatio returns the ratio applied to estimated storage
// collateral. An Option not made by a constructor uses
// DefaultCollateralOverflowRatio.
func (o *Option) CollateralOverflowRatio() decimal.Decimal {
	if !o.collateralOverflowRatio.Valid {
		return DefaultCollateralOverflowRatio
	}

	return o.collateralOverflowRatio.Decimal
}

// NeedsEstimation reports whether resolution will query the node. Estimation
// is all or nothing: a single preset limit disables it and the other limit
// is left to the transaction defaults.
func (o *Option) NeedsEstimation() bool {
	return o.GasLimit == nil && o.StorageLimit == nil
}

// Resolve fills the unset fields of o from the given chain answers and
// returns the result, o is not modified. A nil estimation leaves the limits
// untouched.
func Resolve(o Option, epoch *big.Int, est *cfxclient.Estimation) Option {
	if o.EpochHeight == nil && epoch != nil {
		o.EpochHeight = new(big.Int).Set(epoch)
	}

	if est == nil {
		return o
	}

	if o.GasLimit == nil {
		o.GasLimit = applyOverflowRatio(est.GasUsed, o.GasOverflowRatio())
	}

	if o.StorageLimit == nil {
		o.StorageLimit = applyOverflowRatio(est.StorageCollateralized, o.CollateralOverflowRatio())
	}

	return o
}

// applyEpoch resolves the epoch height only.
func (o *Option) applyEpoch(ctx context.Context, c ChainState) error {
	if o.EpochHeight != nil {
		return nil
	}

	epoch, err := c.EpochNumber(ctx)
	if err != nil {
		return fmt.Errorf("failed to get epoch number, %w", err)
	}

	*o = Resolve(*o, epoch, nil)

	return nil
}

// Apply resolves o in place for a call of the given shape. The epoch height
// is queried on every Apply when unset.
func (o *Option) Apply(ctx context.Context, c ChainState, from, to *cfxaddress.Address, data []byte) error {
	if err := o.applyEpoch(ctx, c); err != nil {
		return err
	}

	if !o.NeedsEstimation() {
		return nil
	}

	call := cfxclient.CallRequest{
		From:  from,
		To:    to,
		Value: o.value(),
	}

	if len(data) > 0 {
		call.Data = data
	}

	est, err := NewEstimator(c).Estimate(ctx, call)
	if err != nil {
		return err
	}

	*o = Resolve(*o, nil, &est)

	return nil
}

// updatePriceAndChainID copies caller supplied values over the draft defaults.
func (o *Option) updatePriceAndChainID(tx *wallet.RawTransaction) {
	if o.GasPrice != nil {
		tx.GasPrice = o.GasPrice
	}

	if o.ChainID != nil {
		tx.ChainID = o.ChainID
	}
}

func (o *Option) updateGasLimit(tx *wallet.RawTransaction) {
	if o.GasLimit != nil {
		tx.Gas = o.GasLimit
	}
}

func (o *Option) updateStorageLimit(tx *wallet.RawTransaction) {
	if o.StorageLimit != nil {
		tx.StorageLimit = o.StorageLimit
	}
}

func (o *Option) value() *big.Int {
	if o.Value == nil {
		return new(big.Int)
	}

	return o.Value
}
