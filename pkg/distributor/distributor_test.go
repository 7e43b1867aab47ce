// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package distributor_test

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Conflux-Chain/go-conflux-sdk/types/cfxaddress"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethersphere/cfx-account/pkg/account"
	"github.com/ethersphere/cfx-account/pkg/cfxclient"
	"github.com/ethersphere/cfx-account/pkg/cfxclient/mock"
	"github.com/ethersphere/cfx-account/pkg/distributor"
	distributormock "github.com/ethersphere/cfx-account/pkg/distributor/mock"
	"github.com/ethersphere/cfx-account/pkg/wallet"
)

const (
	funded   = "0x1000000000000000000000000000000000000001"
	unfunded = "0x1000000000000000000000000000000000000002"
	token    = "0x8000000000000000000000000000000000000003"
)

func Test_Distribute(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("no recipients", func(t *testing.T) {
		t.Parallel()

		c := mock.New()
		report, err := distributor.Distribute(ctx, distributor.Config{}, c, newAccount(t, c), distributormock.NewRecipientLister(nil))
		require.NoError(t, err)
		assert.Equal(t, distributor.Report{}, report)
		assert.Empty(t, c.Sent())
	})

	t.Run("native coin", func(t *testing.T) {
		t.Parallel()

		c := mock.New(
			mock.WithBalance(parse(t, funded), toBigInt("3000000000000000000")),
			mock.WithBalance(parse(t, unfunded), toBigInt("1000000000000000000")),
		)
		acc := newAccount(t, c)

		cfg := distributor.Config{MinAmounts: distributor.MinAmounts{NativeCoin: 2.5}}
		rl := distributormock.NewRecipientLister([]string{funded, unfunded, "not-an-address"})

		report, err := distributor.Distribute(ctx, cfg, c, acc, rl)
		require.NoError(t, err)
		assert.Equal(t, distributor.Report{Funded: 1, Skipped: 1, Failed: 1, Total: 3}, report)

		sent := c.Sent()
		require.Len(t, sent, 1)

		tx, _, err := wallet.DecodeSigned(sent[0])
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress(unfunded), *tx.To)
		assert.Equal(t, "1500000000000000000", tx.Value.String())
		assert.Equal(t, uint64(1), acc.Nonce())
	})

	t.Run("token", func(t *testing.T) {
		t.Parallel()

		balances := map[common.Address]*big.Int{
			common.HexToAddress(funded):   big.NewInt(500),
			common.HexToAddress(unfunded): big.NewInt(20),
		}

		c := mock.New(mock.WithCallFunc(func(call cfxclient.CallRequest) ([]byte, error) {
			args, err := account.ERC20ABI.Methods["balanceOf"].Inputs.Unpack(call.Data[4:])
			if err != nil {
				return nil, err
			}

			return account.ERC20ABI.Methods["balanceOf"].Outputs.Pack(balances[args[0].(common.Address)])
		}))
		acc := newAccount(t, c)

		cfg := distributor.Config{
			MinAmounts: distributor.MinAmounts{Token: 1},
			Token:      distributor.Token{Address: token, Decimals: 2},
		}
		rl := distributormock.NewRecipientLister([]string{funded, unfunded})

		report, err := distributor.Distribute(ctx, cfg, c, acc, rl)
		require.NoError(t, err)
		assert.Equal(t, distributor.Report{Funded: 1, Skipped: 1, Total: 2}, report)

		sent := c.Sent()
		require.Len(t, sent, 1)

		tx, _, err := wallet.DecodeSigned(sent[0])
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress(token), *tx.To)

		want, err := account.ERC20ABI.Pack("transfer", common.HexToAddress(unfunded), big.NewInt(80))
		require.NoError(t, err)
		assert.Equal(t, want, tx.Data)
	})

	t.Run("rejected transfer is counted", func(t *testing.T) {
		t.Parallel()

		c := mock.New(mock.WithSendFunc(func([]byte) (common.Hash, error) {
			return common.Hash{}, &cfxclient.RPCError{Code: -32602, Message: "not enough cash"}
		}))
		acc := newAccount(t, c)

		cfg := distributor.Config{MinAmounts: distributor.MinAmounts{NativeCoin: 1}}
		rl := distributormock.NewRecipientLister([]string{funded, unfunded})

		report, err := distributor.Distribute(ctx, cfg, c, acc, rl)
		require.NoError(t, err)
		assert.Equal(t, distributor.Report{Failed: 2, Total: 2}, report)
		assert.Equal(t, uint64(0), acc.Nonce())
	})

	t.Run("many recipients share the account nonce", func(t *testing.T) {
		t.Parallel()

		c := mock.New(mock.WithNonce(40))
		acc := newAccount(t, c)

		recipients := make([]string, 0, 20)
		for i := 0; i < 20; i++ {
			recipients = append(recipients, fmt.Sprintf("0x10%038x", i))
		}

		cfg := distributor.Config{MinAmounts: distributor.MinAmounts{NativeCoin: 0.1}, Concurrency: 4, WaitForNonce: true, PollInterval: distributor.Duration{Duration: time.Millisecond}}

		report, err := distributor.Distribute(ctx, cfg, c, acc, distributormock.NewRecipientLister(recipients))
		require.NoError(t, err)
		assert.Equal(t, 20, report.Funded)
		assert.Equal(t, uint64(60), acc.Nonce())

		seen := make(map[uint64]bool)
		for _, p := range c.Sent() {
			tx, _, err := wallet.DecodeSigned(p)
			require.NoError(t, err)
			assert.False(t, seen[tx.Nonce])
			seen[tx.Nonce] = true
		}
		assert.Len(t, seen, 20)
	})

	t.Run("lister failure", func(t *testing.T) {
		t.Parallel()

		c := mock.New()
		listErr := errors.New("boom")

		_, err := distributor.Distribute(ctx, distributor.Config{}, c, newAccount(t, c), distributormock.NewFailingRecipientLister(listErr))
		assert.ErrorIs(t, err, listErr)
	})

	t.Run("token address required", func(t *testing.T) {
		t.Parallel()

		c := mock.New()
		cfg := distributor.Config{MinAmounts: distributor.MinAmounts{Token: 1}}

		_, err := distributor.Distribute(ctx, cfg, c, newAccount(t, c), distributormock.NewRecipientLister(nil))
		assert.Error(t, err)
	})
}

func Test_RecipientLister(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "recipients.txt")
	require.NoError(t, os.WriteFile(path, []byte("# team wallets\n"+funded+"\n\n  "+unfunded+"  \n"), 0o600))

	rl := distributor.NewRecipientLister(distributor.Config{Recipients: []string{token}, RecipientsFile: path})

	got, err := rl.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{token, funded, unfunded}, got)

	_, err = distributor.NewRecipientLister(distributor.Config{RecipientsFile: filepath.Join(t.TempDir(), "missing")}).List(context.Background())
	assert.Error(t, err)
}

func Test_LoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
endpoint: http://localhost:12537
recipients:
  - `+funded+`
min-amounts:
  native: 2.5
poll-interval: 250
keystore:
  dir: /tmp/keys
  unlock-timeout: 1m
`), 0o600))

	cfg, err := distributor.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:12537", cfg.ChainNodeEndpoint)
	assert.Equal(t, []string{funded}, cfg.Recipients)
	assert.Equal(t, 2.5, cfg.MinAmounts.NativeCoin)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval.Duration)
	assert.Equal(t, time.Minute, cfg.KeyStore.UnlockTimeout.Duration)
	assert.Equal(t, distributor.DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, distributor.DefaultTokenDecimals, cfg.Token.Decimals)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("poll-interval: soon\n"), 0o600))

	_, err = distributor.LoadConfig(bad)
	assert.Error(t, err)
}

func Test_CalcTopUpAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		min           float64
		currAmount    string
		tokenDecimals int
		expected      string
	}{
		{
			min:           2.4,
			currAmount:    "1000000000000000000",
			tokenDecimals: 18,
			expected:      "1400000000000000000",
		},
		{
			min:           2.4,
			currAmount:    "3000000000000000000",
			tokenDecimals: 18,
			expected:      "-600000000000000000",
		},
		{
			min:           0.1,
			currAmount:    "0",
			tokenDecimals: 18,
			expected:      "100000000000000000",
		},
		{
			min:           1,
			currAmount:    "20",
			tokenDecimals: 2,
			expected:      "80",
		},
	}

	for _, tc := range tests {
		got := distributor.CalcTopUpAmount(tc.min, toBigInt(tc.currAmount), tc.tokenDecimals)
		assert.Equal(t, tc.expected, got.String())
	}

	assert.Equal(t, "5", distributor.CalcTopUpAmount(5, nil, 0).String())
}

func Test_FormatAmount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", distributor.FormatAmount(nil, 0))
	assert.Equal(t, "0", distributor.FormatAmount(nil, 10))
	assert.Equal(t, "1000", distributor.FormatAmount(big.NewInt(1000), 0))
	assert.Equal(t, "10", distributor.FormatAmount(big.NewInt(1000), 2))
	assert.Equal(t, "10.1", distributor.FormatAmount(big.NewInt(1010), 2))
	assert.Equal(t, "10.01", distributor.FormatAmount(big.NewInt(1001), 2))
}

func newAccount(t *testing.T, c cfxclient.Client) *account.Account {
	t.Helper()

	key, err := wallet.GenerateKey()
	require.NoError(t, err)

	acc, err := account.Create(context.Background(), c, key)
	require.NoError(t, err)

	return acc
}

func parse(t *testing.T, s string) cfxaddress.Address {
	t.Helper()

	addr, err := wallet.ParseAddress(s, 1)
	require.NoError(t, err)

	return addr
}

func toBigInt(val string) *big.Int {
	bi := new(big.Int)
	bi.SetString(val, 10)

	return bi
}
