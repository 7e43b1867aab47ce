// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"context"
	"math/big"

	"github.com/ethersphere/cfx-account/pkg/cfxclient"
	"github.com/shopspring/decimal"
)

// GasEstimator is the part of the chain client used for estimation.
type GasEstimator interface {
	EstimateGasAndCollateral(ctx context.Context, call cfxclient.CallRequest) (cfxclient.Estimation, error)
}

// EstimateError is returned when the node could not estimate a call.
type EstimateError struct {
	Err  error
	Call cfxclient.CallRequest
}

func (e *EstimateError) Error() string {
	if e == nil || e.Err == nil {
		return "estimate gas and collateral failed"
	}

	return "estimate gas and collateral failed: " + e.Err.Error()
}

func (e *EstimateError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

// Estimator queries gas and storage collateral for a call.
type Estimator struct {
	client GasEstimator
}

func NewEstimator(client GasEstimator) *Estimator {
	return &Estimator{client: client}
}

// Estimate returns the raw node estimation. The overflow ratios are applied
// by Resolve.
func (e *Estimator) Estimate(ctx context.Context, call cfxclient.CallRequest) (cfxclient.Estimation, error) {
	est, err := e.client.EstimateGasAndCollateral(ctx, call)
	if err != nil {
		return cfxclient.Estimation{}, &EstimateError{Err: err, Call: call}
	}

	return est, nil
}

// applyOverflowRatio multiplies in exact decimal arithmetic and truncates
// toward zero.
func applyOverflowRatio(v *big.Int, ratio decimal.Decimal) *big.Int {
	if v == nil {
		return new(big.Int)
	}

	return decimal.NewFromBigInt(v, 0).Mul(ratio).BigInt()
}
