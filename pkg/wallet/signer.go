// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wallet

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer turns a draft transaction into a signed payload on behalf of a
// single address.
type Signer interface {
	Address() common.Address
	Sign(tx *RawTransaction) ([]byte, error)
}

type keySigner struct {
	key     Key
	address common.Address
}

// NewKeySigner signs in process with the given key.
func NewKeySigner(key Key) (Signer, error) {
	pub, err := key.PublicECDSA()
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet keys, %w", err)
	}

	return &keySigner{
		key:     key,
		address: UserAddress(pub),
	}, nil
}

func (s *keySigner) Address() common.Address {
	return s.address
}

func (s *keySigner) Sign(tx *RawTransaction) ([]byte, error) {
	hash, err := tx.Hash()
	if err != nil {
		return nil, err
	}

	// isCompressedKey is false here so we get the expected v value (27 or 28)
	signature, err := s.sign(hash.Bytes(), false)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction, %w", err)
	}

	// v value needs to be adjusted by 27 as the payload expects it to be 0 or 1
	signature[64] -= 27

	return tx.EncodeSigned(signature)
}

// sign the provided hash and convert it to the (r,s,v) format.
func (s *keySigner) sign(sighash []byte, isCompressedKey bool) ([]byte, error) {
	privateECDSA, err := s.key.PrivateECDSA()
	if err != nil {
		return nil, err
	}

	privateKey, _ := btcec.PrivKeyFromBytes(crypto.FromECDSA(privateECDSA))

	signature, err := btcecdsa.SignCompact(privateKey, sighash, isCompressedKey)
	if err != nil {
		return nil, err
	}

	// Convert to signature format with 'recovery id' v at the end.
	v := signature[0]
	copy(signature, signature[1:])
	signature[64] = v

	return signature, nil
}

type keyStoreSigner struct {
	ks      KeyStore
	address common.Address
}

// NewKeyStoreSigner delegates signing to a key store holding the key of
// address. The key must have been unlocked in the store.
func NewKeyStoreSigner(ks KeyStore, address common.Address) Signer {
	return &keyStoreSigner{
		ks:      ks,
		address: address,
	}
}

func (s *keyStoreSigner) Address() common.Address {
	return s.address
}

func (s *keyStoreSigner) Sign(tx *RawTransaction) ([]byte, error) {
	return s.ks.SignTransaction(tx, s.address)
}
