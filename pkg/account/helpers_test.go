// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethersphere/cfx-account/pkg/cfxclient/mock"
	"github.com/ethersphere/cfx-account/pkg/wallet"
)

func assertBigEqual(t *testing.T, want int64, got *big.Int, msgAndArgs ...interface{}) {
	t.Helper()

	require.NotNil(t, got, msgAndArgs...)
	assert.Equal(t, big.NewInt(want).String(), got.String(), msgAndArgs...)
}

func generateKey(t *testing.T) wallet.WalletKey {
	t.Helper()

	key, err := wallet.GenerateKey()
	require.NoError(t, err)

	return key
}

// sentTransactions decodes every payload the mock received.
func sentTransactions(t *testing.T, c *mock.Client) []*wallet.RawTransaction {
	t.Helper()

	payloads := c.Sent()
	txs := make([]*wallet.RawTransaction, 0, len(payloads))

	for _, p := range payloads {
		tx, _, err := wallet.DecodeSigned(p)
		require.NoError(t, err)

		txs = append(txs, tx)
	}

	return txs
}
