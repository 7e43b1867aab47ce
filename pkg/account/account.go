// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package account issues Conflux transactions from a single address while
// keeping track of its nonce.
//
// An Account seeds its nonce from the node once, at construction, and is
// expected to be the only issuer for its address afterwards. Every
// submission runs under the account lock: the nonce is read, the draft is
// built, signed and sent, and the nonce is advanced by one only when the node
// accepted the transaction or reported that the nonce was already consumed
// (TxAlreadyExists, InvalidNonceAlreadyUsed). Any other rejection leaves the
// nonce so the next call reuses it.
package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/Conflux-Chain/go-conflux-sdk/types/cfxaddress"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/beekeeper/pkg/logging"
	"github.com/ethersphere/cfx-account/pkg/cfxclient"
	"github.com/ethersphere/cfx-account/pkg/wallet"
)

const (
	// DefaultTransferGas is the fixed cost of a native transfer.
	DefaultTransferGas = 21000
	// DefaultGas is used when a draft has no gas limit.
	DefaultGas = 21000
)

// DefaultGasPrice is 1 GDrip.
var DefaultGasPrice = big.NewInt(1_000_000_000)

var (
	ErrUnlock          = errors.New("failed to unlock account")
	ErrNetworkMismatch = errors.New("address network does not match node network")
)

// Account is a nonce tracked transaction issuer. It is safe for concurrent
// use, submissions are serialized.
type Account struct {
	client  cfxclient.Client
	address cfxaddress.Address
	chainID *big.Int
	signer  wallet.Signer
	logger  logging.Logger
	metrics metrics

	mu    sync.Mutex
	nonce uint64
}

type AccountOption func(*Account)

func WithLogger(l logging.Logger) AccountOption {
	return func(a *Account) {
		a.logger = l
	}
}

// Create returns an Account signing in process with key.
func Create(ctx context.Context, client cfxclient.Client, key wallet.Key, opts ...AccountOption) (*Account, error) {
	signer, err := wallet.NewKeySigner(key)
	if err != nil {
		return nil, err
	}

	return newAccount(ctx, client, signer, nil, opts)
}

// Unlock returns an Account whose key stays in ks. The key is unlocked for
// timeout, zero meaning for the lifetime of the key store.
func Unlock(
	ctx context.Context,
	client cfxclient.Client,
	ks wallet.KeyStore,
	address cfxaddress.Address,
	password string,
	timeout time.Duration,
	opts ...AccountOption,
) (*Account, error) {
	body := wallet.HexAddress(address)

	if err := ks.Unlock(body, password, timeout); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrUnlock, address.String(), err)
	}

	return newAccount(ctx, client, wallet.NewKeyStoreSigner(ks, body), &address, opts)
}

func newAccount(
	ctx context.Context,
	client cfxclient.Client,
	signer wallet.Signer,
	expected *cfxaddress.Address,
	opts []AccountOption,
) (*Account, error) {
	status, err := client.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get node status, %w", err)
	}

	if expected != nil && wallet.NetworkID(*expected) != status.NetworkID {
		return nil, fmt.Errorf("%w: %s on network %d", ErrNetworkMismatch, expected.String(), status.NetworkID)
	}

	address, err := cfxaddress.NewFromCommon(signer.Address(), status.NetworkID)
	if err != nil {
		return nil, fmt.Errorf("failed to make address, %w", err)
	}

	nonce, err := client.NextNonce(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce, %w", err)
	}

	a := &Account{
		client:  client,
		address: address,
		chainID: new(big.Int).SetUint64(status.ChainID),
		signer:  signer,
		logger:  logging.New(io.Discard, 0, ""),
		nonce:   nonce,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.metrics = newMetrics(address)

	a.logger.Debugf("account %s ready, chain id %d, nonce %d", address.String(), status.ChainID, nonce)

	return a, nil
}

func (a *Account) Address() cfxaddress.Address {
	return a.address
}

func (a *Account) ChainID() *big.Int {
	return new(big.Int).Set(a.chainID)
}

// Nonce returns the nonce the next submission will use.
func (a *Account) Nonce() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.nonce
}

// Transfer sends value drips to to. Only the epoch height is resolved, the
// gas limit defaults to DefaultTransferGas.
func (a *Account) Transfer(ctx context.Context, opt *Option, to cfxaddress.Address, value *big.Int) (common.Hash, error) {
	if opt == nil {
		opt = NewOption()
	}

	opt.Value = value

	if err := opt.applyEpoch(ctx, a.client); err != nil {
		return common.Hash{}, err
	}

	tx := a.draft(opt, &to, nil)
	if opt.GasLimit == nil {
		tx.Gas = big.NewInt(DefaultTransferGas)
	}

	return a.submit(ctx, tx)
}

// Deploy creates a contract from bytecode.
func (a *Account) Deploy(ctx context.Context, opt *Option, bytecode []byte) (common.Hash, error) {
	if opt == nil {
		opt = NewOption()
	}

	if err := opt.Apply(ctx, a.client, &a.address, nil, bytecode); err != nil {
		return common.Hash{}, err
	}

	return a.submit(ctx, a.draft(opt, nil, bytecode))
}

// Call sends a transaction with data to contract.
func (a *Account) Call(ctx context.Context, opt *Option, contract cfxaddress.Address, data []byte) (common.Hash, error) {
	if opt == nil {
		opt = NewOption()
	}

	if err := opt.Apply(ctx, a.client, &a.address, &contract, data); err != nil {
		return common.Hash{}, err
	}

	return a.submit(ctx, a.draft(opt, &contract, data))
}

// CallMethod packs method and args with contractABI and calls contract. An
// empty method sends no data.
func (a *Account) CallMethod(
	ctx context.Context,
	opt *Option,
	contract cfxaddress.Address,
	contractABI abi.ABI,
	method string,
	args ...interface{},
) (common.Hash, error) {
	var data []byte

	if method != "" {
		var err error

		data, err = contractABI.Pack(method, args...)
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to pack abi, %w", err)
		}
	}

	return a.Call(ctx, opt, contract, data)
}

// Send signs and submits a prepared draft. The nonce of tx is overwritten
// with the account nonce. The error is non nil only when the payload could
// not be signed or did not reach the node, a rejection by the node is
// reported in the result.
func (a *Account) Send(ctx context.Context, tx *wallet.RawTransaction) (SendTransactionResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx.Nonce = a.nonce

	payload, err := a.signer.Sign(tx)
	if err != nil {
		return SendTransactionResult{}, fmt.Errorf("failed to sign transaction, %w", err)
	}

	return a.sendLocked(ctx, payload)
}

// SendSigned submits a payload signed elsewhere with the current account
// nonce.
func (a *Account) SendSigned(ctx context.Context, payload []byte) (SendTransactionResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.sendLocked(ctx, payload)
}

func (a *Account) sendLocked(ctx context.Context, payload []byte) (SendTransactionResult, error) {
	hash, err := a.client.SendRawTransaction(ctx, payload)
	if err != nil {
		if _, _, ok := cfxclient.AsRPCError(err); !ok {
			a.metrics.transportErrors.Inc()
			return SendTransactionResult{}, fmt.Errorf("failed to send transaction, %w", err)
		}
	}

	result := newResult(hash, payload, err)
	a.metrics.submissions.WithLabelValues(result.Kind.String()).Inc()

	if result.Kind.AdvancesNonce() {
		a.nonce++
		a.metrics.nonceAdvances.Inc()
	}

	if result.OK() {
		a.logger.Debugf("account %s sent transaction %s, next nonce %d", a.address.String(), hash, a.nonce)
	} else {
		a.logger.Debugf("account %s transaction rejected as %s, next nonce %d: %v", a.address.String(), result.Kind, a.nonce, err)
	}

	return result, nil
}

func (a *Account) submit(ctx context.Context, tx *wallet.RawTransaction) (common.Hash, error) {
	result, err := a.Send(ctx, tx)
	if err != nil {
		return common.Hash{}, err
	}

	if err := result.Err(); err != nil {
		return common.Hash{}, err
	}

	return result.TxHash, nil
}

// WaitForNonceUpdated blocks until the node reports a next nonce of at least
// the account nonce. It has no deadline of its own, bound it with ctx.
func (a *Account) WaitForNonceUpdated(ctx context.Context, interval time.Duration) error {
	return cfxclient.WaitForNonce(ctx, a.client, a.address, a.Nonce(), interval)
}

// Balance returns the native balance of the account.
func (a *Account) Balance(ctx context.Context) (*big.Int, error) {
	return a.client.Balance(ctx, a.address)
}

// draft builds an unsigned transaction from a resolved option. The nonce is
// set by Send.
func (a *Account) draft(opt *Option, to *cfxaddress.Address, data []byte) *wallet.RawTransaction {
	tx := &wallet.RawTransaction{
		GasPrice:     DefaultGasPrice,
		Gas:          big.NewInt(DefaultGas),
		Value:        opt.value(),
		StorageLimit: new(big.Int),
		EpochHeight:  opt.EpochHeight,
		ChainID:      a.chainID,
		Data:         data,
	}

	if to != nil {
		body := wallet.HexAddress(*to)
		tx.To = &body
	}

	opt.updateGasLimit(tx)
	opt.updateStorageLimit(tx)
	opt.updatePriceAndChainID(tx)

	return tx
}
