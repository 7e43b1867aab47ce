// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wallet_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethersphere/cfx-account/pkg/wallet"
)

func Test_GenerateKey(t *testing.T) {
	t.Parallel()

	key, err := wallet.GenerateKey()
	require.NoError(t, err)

	priv, err := key.PrivateECDSA()
	require.NoError(t, err)

	pub, err := key.PublicECDSA()
	require.NoError(t, err)
	assert.Equal(t, priv.PublicKey, *pub)

	prefixed := wallet.WalletKey("0x" + string(key))
	pub2, err := prefixed.PublicECDSA()
	require.NoError(t, err)
	assert.Equal(t, pub, pub2)

	_, err = wallet.WalletKey("zz").PrivateECDSA()
	assert.Error(t, err)
}

func Test_UserAddress(t *testing.T) {
	t.Parallel()

	for i := 0; i < 8; i++ {
		key, err := wallet.GenerateKey()
		require.NoError(t, err)

		pub, err := key.PublicECDSA()
		require.NoError(t, err)

		addr := wallet.UserAddress(pub)
		eth := crypto.PubkeyToAddress(*pub)

		assert.Equal(t, byte(0x10), addr[0]&0xf0)
		assert.Equal(t, eth[0]&0x0f, addr[0]&0x0f)
		assert.Equal(t, eth[1:], addr[1:])
	}
}

func Test_KeySigner(t *testing.T) {
	t.Parallel()

	key, err := wallet.GenerateKey()
	require.NoError(t, err)

	signer, err := wallet.NewKeySigner(key)
	require.NoError(t, err)

	to := common.HexToAddress("0x1a2b3c4d5e6f708192a3b4c5d6e7f80910111213")

	tests := []struct {
		name string
		tx   *wallet.RawTransaction
	}{
		{
			name: "transfer",
			tx: &wallet.RawTransaction{
				Nonce:        12,
				GasPrice:     big.NewInt(1_000_000_000),
				Gas:          big.NewInt(21000),
				To:           &to,
				Value:        big.NewInt(1e18),
				StorageLimit: big.NewInt(0),
				EpochHeight:  big.NewInt(4242),
				ChainID:      big.NewInt(1),
			},
		},
		{
			name: "deploy",
			tx: &wallet.RawTransaction{
				GasPrice:     big.NewInt(1),
				Gas:          big.NewInt(3_000_000),
				Value:        big.NewInt(0),
				StorageLimit: big.NewInt(1024),
				EpochHeight:  big.NewInt(1),
				ChainID:      big.NewInt(1029),
				Data:         []byte{0x60, 0x80, 0x60, 0x40, 0x52},
			},
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			payload, err := signer.Sign(tc.tx)
			require.NoError(t, err)

			decoded, from, err := wallet.DecodeSigned(payload)
			require.NoError(t, err)

			assert.Equal(t, signer.Address(), from)
			assert.Equal(t, tc.tx.Nonce, decoded.Nonce)
			assert.Equal(t, tc.tx.To, decoded.To)
			assert.Equal(t, 0, tc.tx.Value.Cmp(decoded.Value))
			assert.Equal(t, 0, tc.tx.Gas.Cmp(decoded.Gas))
			assert.Equal(t, 0, tc.tx.StorageLimit.Cmp(decoded.StorageLimit))
			assert.Equal(t, 0, tc.tx.EpochHeight.Cmp(decoded.EpochHeight))
			assert.Equal(t, 0, tc.tx.ChainID.Cmp(decoded.ChainID))
			assert.Equal(t, len(tc.tx.Data), len(decoded.Data))

			want, err := tc.tx.Hash()
			require.NoError(t, err)

			got, err := decoded.Hash()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func Test_EncodeSigned(t *testing.T) {
	t.Parallel()

	tx := &wallet.RawTransaction{}

	_, err := tx.EncodeSigned(make([]byte, 64))
	assert.Error(t, err)

	sig := make([]byte, 65)
	sig[64] = 27
	_, err = tx.EncodeSigned(sig)
	assert.Error(t, err)

	_, _, err = wallet.DecodeSigned([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func Test_KeyStoreSigner(t *testing.T) {
	t.Parallel()

	ks := keystore.NewKeyStore(t.TempDir(), keystore.LightScryptN, keystore.LightScryptP)

	key, err := wallet.GenerateKey()
	require.NoError(t, err)

	address, err := wallet.ImportKey(ks, key, "secret")
	require.NoError(t, err)

	store := wallet.NewKeyStoreFrom(ks)
	signer := wallet.NewKeyStoreSigner(store, address)
	tx := &wallet.RawTransaction{Nonce: 1, Gas: big.NewInt(21000), ChainID: big.NewInt(1)}

	_, err = signer.Sign(tx)
	assert.Error(t, err, "locked key must not sign")

	assert.ErrorIs(t, store.Unlock(address, "wrong", 0), wallet.ErrInvalidPassword)
	assert.ErrorIs(t, store.Unlock(common.HexToAddress("0x1000000000000000000000000000000000000001"), "secret", 0), wallet.ErrAccountNotFound)
	require.NoError(t, store.Unlock(address, "secret", 0))

	payload, err := signer.Sign(tx)
	require.NoError(t, err)

	_, from, err := wallet.DecodeSigned(payload)
	require.NoError(t, err)
	assert.Equal(t, address, from)

	keySigner, err := wallet.NewKeySigner(key)
	require.NoError(t, err)
	assert.Equal(t, keySigner.Address(), signer.Address())
}

func Test_ParseAddress(t *testing.T) {
	t.Parallel()

	hex := "0x1a2b3c4d5e6f708192a3b4c5d6e7f80910111213"

	fromHex, err := wallet.ParseAddress(hex, 1029)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(hex), wallet.HexAddress(fromHex))
	assert.Equal(t, uint32(1029), wallet.NetworkID(fromHex))

	fromBase32, err := wallet.ParseAddress(fromHex.String(), 1)
	require.NoError(t, err)
	assert.True(t, wallet.SameAddress(fromHex, fromBase32))
	assert.Equal(t, uint32(1029), wallet.NetworkID(fromBase32))

	testnet, err := wallet.ParseAddress(hex, 1)
	require.NoError(t, err)
	assert.False(t, wallet.SameAddress(fromHex, testnet))

	upper, err := wallet.ParseAddress("0X1A2B3C4D5E6F708192A3B4C5D6E7F80910111213", 1)
	require.NoError(t, err)
	assert.True(t, wallet.SameAddress(testnet, upper))

	_, err = wallet.ParseAddress("0x1234", 1)
	assert.Error(t, err)

	_, err = wallet.ParseAddress("cfx:not-an-address", 1)
	assert.Error(t, err)
}

func Test_NativeCoinForChain(t *testing.T) {
	t.Parallel()

	token, err := wallet.NativeCoinForChain(1029)
	require.NoError(t, err)
	assert.Equal(t, "CFX", token.Symbol)
	assert.Equal(t, wallet.NativeCoinDecimals, token.Decimals)

	_, err = wallet.NativeCoinForChain(5)
	assert.Error(t, err)
}
