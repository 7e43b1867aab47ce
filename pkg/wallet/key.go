// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Key gives access to secp256k1 key material.
type Key interface {
	PrivateECDSA() (*ecdsa.PrivateKey, error)
	PublicECDSA() (*ecdsa.PublicKey, error)
}

// WalletKey is a hex encoded private key, with or without 0x prefix.
type WalletKey string

func (k WalletKey) PrivateECDSA() (*ecdsa.PrivateKey, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(string(k), "0x"))
	if err != nil {
		return nil, err
	}

	return privateKey, nil
}

func (k WalletKey) PublicECDSA() (*ecdsa.PublicKey, error) {
	privateKey, err := k.PrivateECDSA()
	if err != nil {
		return nil, err
	}

	publicKeyECDSA, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to get public key from private key")
	}

	return publicKeyECDSA, nil
}

func GenerateKey() (WalletKey, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return "", err
	}

	privateKeyBytes := crypto.FromECDSA(privateKey)
	keyStr := hex.EncodeToString(privateKeyBytes)

	return WalletKey(keyStr), nil
}

// UserAddress derives the Conflux user address body of a public key: the
// keccak based account address with its type nibble forced to 0x1.
func UserAddress(pub *ecdsa.PublicKey) common.Address {
	return normalizeUser(crypto.PubkeyToAddress(*pub))
}

func normalizeUser(addr common.Address) common.Address {
	addr[0] = addr[0]&0x0f | 0x10
	return addr
}
