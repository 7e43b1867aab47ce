// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfxclient

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Conflux-Chain/go-conflux-sdk/types/cfxaddress"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

const epochLatestState = "latest_state"

// RPCClient implements Client over a go-ethereum JSON-RPC connection.
type RPCClient struct {
	c *rpc.Client
}

var _ Client = (*RPCClient)(nil)

// Dial connects to the node endpoint (http, ws or ipc).
func Dial(ctx context.Context, endpoint string) (*RPCClient, error) {
	c, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s, %w", endpoint, err)
	}

	return New(c), nil
}

// New wraps an existing JSON-RPC connection.
func New(c *rpc.Client) *RPCClient {
	return &RPCClient{c: c}
}

func (r *RPCClient) Close() {
	r.c.Close()
}

type statusResponse struct {
	NetworkID   hexutil.Uint64 `json:"networkId"`
	ChainID     hexutil.Uint64 `json:"chainId"`
	EpochNumber *hexutil.Big   `json:"epochNumber"`
}

func (r *RPCClient) Status(ctx context.Context) (Status, error) {
	var resp statusResponse
	if err := r.c.CallContext(ctx, &resp, "cfx_getStatus"); err != nil {
		return Status{}, err
	}

	return Status{
		NetworkID:   uint32(resp.NetworkID),
		ChainID:     uint64(resp.ChainID),
		EpochNumber: resp.EpochNumber.ToInt(),
	}, nil
}

func (r *RPCClient) NextNonce(ctx context.Context, address cfxaddress.Address) (uint64, error) {
	var nonce hexutil.Big
	if err := r.c.CallContext(ctx, &nonce, "cfx_getNextNonce", address.String(), epochLatestState); err != nil {
		return 0, err
	}

	n := nonce.ToInt()
	if !n.IsUint64() {
		return 0, fmt.Errorf("%w: %s", ErrNonceOverflow, n)
	}

	return n.Uint64(), nil
}

func (r *RPCClient) EpochNumber(ctx context.Context) (*big.Int, error) {
	var epoch hexutil.Big
	if err := r.c.CallContext(ctx, &epoch, "cfx_epochNumber"); err != nil {
		return nil, err
	}

	return epoch.ToInt(), nil
}

type estimateResponse struct {
	GasLimit              *hexutil.Big `json:"gasLimit"`
	GasUsed               *hexutil.Big `json:"gasUsed"`
	StorageCollateralized *hexutil.Big `json:"storageCollateralized"`
}

func (r *RPCClient) EstimateGasAndCollateral(ctx context.Context, call CallRequest) (Estimation, error) {
	var resp estimateResponse
	if err := r.c.CallContext(ctx, &resp, "cfx_estimateGasAndCollateral", toCallArg(call), epochLatestState); err != nil {
		return Estimation{}, err
	}

	return Estimation{
		GasLimit:              resp.GasLimit.ToInt(),
		GasUsed:               resp.GasUsed.ToInt(),
		StorageCollateralized: resp.StorageCollateralized.ToInt(),
	}, nil
}

func (r *RPCClient) SendRawTransaction(ctx context.Context, payload []byte) (common.Hash, error) {
	var hash common.Hash
	if err := r.c.CallContext(ctx, &hash, "cfx_sendRawTransaction", hexutil.Encode(payload)); err != nil {
		return common.Hash{}, err
	}

	return hash, nil
}

func (r *RPCClient) Balance(ctx context.Context, address cfxaddress.Address) (*big.Int, error) {
	var balance hexutil.Big
	if err := r.c.CallContext(ctx, &balance, "cfx_getBalance", address.String(), epochLatestState); err != nil {
		return nil, err
	}

	return balance.ToInt(), nil
}

func (r *RPCClient) Call(ctx context.Context, call CallRequest) ([]byte, error) {
	var out hexutil.Bytes
	if err := r.c.CallContext(ctx, &out, "cfx_call", toCallArg(call), epochLatestState); err != nil {
		return nil, err
	}

	return out, nil
}

type callArg struct {
	From  string        `json:"from,omitempty"`
	To    string        `json:"to,omitempty"`
	Value *hexutil.Big  `json:"value,omitempty"`
	Data  hexutil.Bytes `json:"data,omitempty"`
}

func toCallArg(call CallRequest) callArg {
	var arg callArg

	if call.From != nil {
		arg.From = call.From.String()
	}

	if call.To != nil {
		arg.To = call.To.String()
	}

	if call.Value != nil {
		arg.Value = (*hexutil.Big)(call.Value)
	}

	if len(call.Data) > 0 {
		arg.Data = call.Data
	}

	return arg
}
