// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/cfx-account/pkg/cfxclient"
	"github.com/ethersphere/cfx-account/pkg/wallet"
)

// ErrorKind classifies the node's answer to a raw transaction submission.
type ErrorKind int

const (
	// NoError is the kind of a successful submission.
	NoError ErrorKind = iota
	Unknown
	// TxAlreadyExists means the node already holds this exact transaction,
	// typically because a send was retried.
	TxAlreadyExists
	// InvalidNonceAlreadyUsed means another transaction with the same nonce
	// was accepted first. The nonce is consumed.
	InvalidNonceAlreadyUsed
	TxPoolFull
	InvalidNonceTooStale
	InvalidNonceTooFuture
	InvalidEpochHeight
	InvalidChainID
	InvalidGasPrice
	InvalidGasLimit
	InvalidSignature
	NotEnoughCash
	Rlp
)

var errorKindNames = map[ErrorKind]string{
	NoError:                 "ok",
	Unknown:                 "unknown",
	TxAlreadyExists:         "tx_already_exists",
	InvalidNonceAlreadyUsed: "nonce_already_used",
	TxPoolFull:              "txpool_full",
	InvalidNonceTooStale:    "nonce_too_stale",
	InvalidNonceTooFuture:   "nonce_too_future",
	InvalidEpochHeight:      "invalid_epoch_height",
	InvalidChainID:          "invalid_chain_id",
	InvalidGasPrice:         "invalid_gas_price",
	InvalidGasLimit:         "invalid_gas_limit",
	InvalidSignature:        "invalid_signature",
	NotEnoughCash:           "not_enough_cash",
	Rlp:                     "rlp",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("error_kind(%d)", int(k))
}

// AdvancesNonce reports whether the local nonce moves on after a submission
// of this kind.
func (k ErrorKind) AdvancesNonce() bool {
	switch k {
	case NoError, TxAlreadyExists, InvalidNonceAlreadyUsed:
		return true
	}

	return false
}

// Order matters: the nonce-reuse message must win over the generic nonce
// ones. Patterns for kinds that advance the nonce match only the txpool
// messages themselves.
var errorPatterns = []struct {
	kind     ErrorKind
	patterns []string
}{
	{InvalidNonceAlreadyUsed, []string{"tx with same nonce already inserted"}},
	{TxAlreadyExists, []string{"tx already exist"}},
	{TxPoolFull, []string{"txpool is full", "transaction pool is full"}},
	{InvalidNonceTooStale, []string{"too stale nonce"}},
	{InvalidNonceTooFuture, []string{"too distant future"}},
	{InvalidEpochHeight, []string{"epoch height"}},
	{InvalidChainID, []string{"chain_id", "chainid", "chain id"}},
	{InvalidGasPrice, []string{"gas price"}},
	{InvalidGasLimit, []string{"gas limit", "intrinsic gas", "not enough gas"}},
	{InvalidSignature, []string{"signature"}},
	{NotEnoughCash, []string{"not enough cash", "insufficient balance", "not enough balance"}},
	{Rlp, []string{"rlp"}},
}

// Classify maps a submission error to its kind. Nil is NoError.
func Classify(err error) ErrorKind {
	if err == nil {
		return NoError
	}

	message := err.Error()
	if msg, data, ok := cfxclient.AsRPCError(err); ok {
		message = msg
		if data != nil {
			message += " " + fmt.Sprint(data)
		}
	}

	message = strings.ToLower(message)

	for _, p := range errorPatterns {
		for _, pattern := range p.patterns {
			if strings.Contains(message, pattern) {
				return p.kind
			}
		}
	}

	return Unknown
}

// SendTransactionResult is the outcome of one submission: a transaction hash
// on success, the raw node error and its kind otherwise.
type SendTransactionResult struct {
	TxHash   common.Hash
	RawError error
	Kind     ErrorKind

	payloadHash common.Hash
}

func newResult(hash common.Hash, payload []byte, err error) SendTransactionResult {
	if err != nil {
		return SendTransactionResult{
			RawError:    err,
			Kind:        Classify(err),
			payloadHash: wallet.SignedHash(payload),
		}
	}

	return SendTransactionResult{TxHash: hash, Kind: NoError}
}

func (r SendTransactionResult) OK() bool {
	return r.RawError == nil
}

// Err returns a *SendError for a failed submission and nil otherwise.
func (r SendTransactionResult) Err() error {
	if r.RawError == nil {
		return nil
	}

	return &SendError{Kind: r.Kind, Err: r.RawError, TxHash: r.payloadHash}
}

// SendError is a submission rejected by the node. It is returned even when
// the rejection is benign and the nonce moved on. TxHash is the hash of the
// rejected payload, for TxAlreadyExists it is the hash the node already has.
type SendError struct {
	Kind   ErrorKind
	Err    error
	TxHash common.Hash
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send transaction rejected (%s): %v", e.Kind, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
