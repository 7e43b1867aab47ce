// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cfxclient talks to a Conflux full node over JSON-RPC.
package cfxclient

import (
	"context"
	"math/big"

	"github.com/Conflux-Chain/go-conflux-sdk/types/cfxaddress"
	"github.com/ethereum/go-ethereum/common"
)

// Client is the subset of the node API needed to issue transactions. It is
// safe for concurrent use.
type Client interface {
	Status(ctx context.Context) (Status, error)
	NextNonce(ctx context.Context, address cfxaddress.Address) (uint64, error)
	EpochNumber(ctx context.Context) (*big.Int, error)
	EstimateGasAndCollateral(ctx context.Context, call CallRequest) (Estimation, error)
	// SendRawTransaction returns the transaction hash. A rejection by the
	// node is reported as an error implementing go-ethereum's rpc.Error.
	SendRawTransaction(ctx context.Context, payload []byte) (common.Hash, error)
	Balance(ctx context.Context, address cfxaddress.Address) (*big.Int, error)
	Call(ctx context.Context, call CallRequest) ([]byte, error)
}

// Status is the part of cfx_getStatus the SDK depends on.
type Status struct {
	NetworkID   uint32
	ChainID     uint64
	EpochNumber *big.Int
}

// CallRequest describes a call for estimation or execution. Nil fields are
// left out of the request.
type CallRequest struct {
	From  *cfxaddress.Address
	To    *cfxaddress.Address
	Value *big.Int
	Data  []byte
}

// Estimation is the result of cfx_estimateGasAndCollateral.
type Estimation struct {
	GasLimit              *big.Int
	GasUsed               *big.Int
	StorageCollateralized *big.Int
}
