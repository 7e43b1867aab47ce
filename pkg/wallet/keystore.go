// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wallet

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrAccountNotFound = errors.New("account not found in keystore")
	ErrInvalidPassword = errors.New("invalid keystore password")
)

// KeyStore holds encrypted keys and signs with them without exposing the key
// material.
type KeyStore interface {
	// Unlock decrypts the key of address for timeout, zero meaning until the
	// process exits.
	Unlock(address common.Address, password string, timeout time.Duration) error
	SignTransaction(tx *RawTransaction, address common.Address) ([]byte, error)
}

type keyStore struct {
	ks *keystore.KeyStore
}

// NewKeyStore opens a web3 secret storage directory.
func NewKeyStore(dir string) KeyStore {
	return NewKeyStoreFrom(keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP))
}

// NewKeyStoreFrom wraps an already opened go-ethereum key store.
func NewKeyStoreFrom(ks *keystore.KeyStore) KeyStore {
	return &keyStore{ks: ks}
}

func (k *keyStore) Unlock(address common.Address, password string, timeout time.Duration) error {
	acct, err := k.find(address)
	if err != nil {
		return err
	}

	if err := k.ks.TimedUnlock(acct, password, timeout); err != nil {
		if errors.Is(err, keystore.ErrDecrypt) {
			return fmt.Errorf("%w: %s", ErrInvalidPassword, address)
		}

		return fmt.Errorf("failed to unlock account %s, %w", address, err)
	}

	return nil
}

func (k *keyStore) SignTransaction(tx *RawTransaction, address common.Address) ([]byte, error) {
	acct, err := k.find(address)
	if err != nil {
		return nil, err
	}

	hash, err := tx.Hash()
	if err != nil {
		return nil, err
	}

	sig, err := k.ks.SignHash(acct, hash.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction, %w", err)
	}

	return tx.EncodeSigned(sig)
}

// find matches on the keccak account address, the key store knows nothing of
// the Conflux type nibble.
func (k *keyStore) find(address common.Address) (accounts.Account, error) {
	for _, acct := range k.ks.Accounts() {
		if normalizeUser(acct.Address) == address || acct.Address == address {
			return acct, nil
		}
	}

	return accounts.Account{}, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
}

// ImportKey stores key in the key store encrypted with password and returns
// the Conflux user address body it signs for.
func ImportKey(ks *keystore.KeyStore, key Key, password string) (common.Address, error) {
	priv, err := key.PrivateECDSA()
	if err != nil {
		return common.Address{}, err
	}

	if _, err := ks.ImportECDSA(priv, password); err != nil {
		return common.Address{}, fmt.Errorf("failed to import key, %w", err)
	}

	return UserAddress(&priv.PublicKey), nil
}
