// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mock

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/Conflux-Chain/go-conflux-sdk/types/cfxaddress"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/cfx-account/pkg/cfxclient"
	"github.com/ethersphere/cfx-account/pkg/wallet"
)

// SendFunc decides the outcome of a raw transaction submission.
type SendFunc func(payload []byte) (common.Hash, error)

type Option func(*Client)

// Client is an in-memory chain. Every call to EpochNumber moves the epoch
// forward by one and every accepted transaction moves the chain nonce.
type Client struct {
	mu sync.Mutex

	status      cfxclient.Status
	nonce       uint64
	epoch       *big.Int
	estimation  cfxclient.Estimation
	estimateErr error
	epochErr    error
	sendFunc    SendFunc
	callFunc    func(call cfxclient.CallRequest) ([]byte, error)
	balances    map[string]*big.Int

	epochCalls       int
	estimateRequests []cfxclient.CallRequest
	sent             [][]byte
}

var _ cfxclient.Client = (*Client)(nil)

func New(opts ...Option) *Client {
	c := &Client{
		status: cfxclient.Status{
			NetworkID:   1,
			ChainID:     1,
			EpochNumber: big.NewInt(100),
		},
		epoch: big.NewInt(100),
		estimation: cfxclient.Estimation{
			GasLimit:              big.NewInt(21000),
			GasUsed:               big.NewInt(21000),
			StorageCollateralized: big.NewInt(0),
		},
		balances: make(map[string]*big.Int),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func WithStatus(s cfxclient.Status) Option {
	return func(c *Client) { c.status = s }
}

// WithNonce sets the next nonce the chain reports.
func WithNonce(n uint64) Option {
	return func(c *Client) { c.nonce = n }
}

func WithEpoch(epoch int64) Option {
	return func(c *Client) { c.epoch = big.NewInt(epoch) }
}

func WithEpochError(err error) Option {
	return func(c *Client) { c.epochErr = err }
}

func WithEstimation(gasUsed, storageCollateralized int64) Option {
	return func(c *Client) {
		c.estimation = cfxclient.Estimation{
			GasLimit:              big.NewInt(gasUsed),
			GasUsed:               big.NewInt(gasUsed),
			StorageCollateralized: big.NewInt(storageCollateralized),
		}
	}
}

func WithEstimateError(err error) Option {
	return func(c *Client) { c.estimateErr = err }
}

// WithSendFunc replaces the default outcome, which accepts every payload.
// The chain nonce is advanced only for payloads the function accepts.
func WithSendFunc(f SendFunc) Option {
	return func(c *Client) { c.sendFunc = f }
}

func WithCallFunc(f func(call cfxclient.CallRequest) ([]byte, error)) Option {
	return func(c *Client) { c.callFunc = f }
}

func WithBalance(address cfxaddress.Address, balance *big.Int) Option {
	return func(c *Client) { c.balances[balanceKey(address)] = balance }
}

func (c *Client) Status(context.Context) (cfxclient.Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status, nil
}

func (c *Client) NextNonce(context.Context, cfxaddress.Address) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.nonce, nil
}

func (c *Client) EpochNumber(context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epochErr != nil {
		return nil, c.epochErr
	}

	c.epochCalls++
	c.epoch = new(big.Int).Add(c.epoch, big.NewInt(1))

	return new(big.Int).Set(c.epoch), nil
}

func (c *Client) EstimateGasAndCollateral(_ context.Context, call cfxclient.CallRequest) (cfxclient.Estimation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.estimateRequests = append(c.estimateRequests, call)

	if c.estimateErr != nil {
		return cfxclient.Estimation{}, c.estimateErr
	}

	return cfxclient.Estimation{
		GasLimit:              new(big.Int).Set(c.estimation.GasLimit),
		GasUsed:               new(big.Int).Set(c.estimation.GasUsed),
		StorageCollateralized: new(big.Int).Set(c.estimation.StorageCollateralized),
	}, nil
}

func (c *Client) SendRawTransaction(_ context.Context, payload []byte) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sent = append(c.sent, append([]byte(nil), payload...))

	if c.sendFunc != nil {
		hash, err := c.sendFunc(payload)
		if err != nil {
			return common.Hash{}, err
		}

		c.nonce++

		return hash, nil
	}

	c.nonce++

	return wallet.SignedHash(payload), nil
}

func (c *Client) Balance(_ context.Context, address cfxaddress.Address) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.balances[balanceKey(address)]; ok {
		return new(big.Int).Set(b), nil
	}

	return big.NewInt(0), nil
}

func (c *Client) Call(_ context.Context, call cfxclient.CallRequest) ([]byte, error) {
	c.mu.Lock()
	f := c.callFunc
	c.mu.Unlock()

	if f == nil {
		return nil, nil
	}

	return f(call)
}

// SetNonce moves the chain nonce, as if transactions were mined that this
// client did not see.
func (c *Client) SetNonce(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nonce = n
}

func (c *Client) EpochCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.epochCalls
}

func (c *Client) EstimateCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.estimateRequests)
}

func (c *Client) EstimateRequests() []cfxclient.CallRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]cfxclient.CallRequest(nil), c.estimateRequests...)
}

// Sent returns every payload submitted so far, accepted or not.
func (c *Client) Sent() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([][]byte(nil), c.sent...)
}

func balanceKey(address cfxaddress.Address) string {
	return strings.ToLower(address.GetHexAddress())
}
