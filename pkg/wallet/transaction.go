// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wallet

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

const signatureLength = 65

// RawTransaction is an unsigned Conflux transaction. A nil To creates a
// contract.
type RawTransaction struct {
	Nonce        uint64
	GasPrice     *big.Int
	Gas          *big.Int
	To           *common.Address
	Value        *big.Int
	StorageLimit *big.Int
	EpochHeight  *big.Int
	ChainID      *big.Int
	Data         []byte
}

// rlpTransaction is the wire layout of the unsigned part.
type rlpTransaction struct {
	Nonce        uint64
	GasPrice     *big.Int
	Gas          *big.Int
	To           []byte
	Value        *big.Int
	StorageLimit *big.Int
	EpochHeight  *big.Int
	ChainID      *big.Int
	Data         []byte
}

type rlpSignedTransaction struct {
	Unsigned rlpTransaction
	V        uint8
	R        *big.Int
	S        *big.Int
}

func (tx *RawTransaction) wire() rlpTransaction {
	var to []byte
	if tx.To != nil {
		to = tx.To.Bytes()
	}

	return rlpTransaction{
		Nonce:        tx.Nonce,
		GasPrice:     orZero(tx.GasPrice),
		Gas:          orZero(tx.Gas),
		To:           to,
		Value:        orZero(tx.Value),
		StorageLimit: orZero(tx.StorageLimit),
		EpochHeight:  orZero(tx.EpochHeight),
		ChainID:      orZero(tx.ChainID),
		Data:         tx.Data,
	}
}

// Hash returns the signing hash, keccak256 of the RLP encoded unsigned
// transaction.
func (tx *RawTransaction) Hash() (common.Hash, error) {
	enc, err := rlp.EncodeToBytes(tx.wire())
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode transaction, %w", err)
	}

	return crypto.Keccak256Hash(enc), nil
}

// EncodeSigned attaches a 65 byte [R || S || V] signature, V being 0 or 1, and
// returns the signed RLP payload.
func (tx *RawTransaction) EncodeSigned(sig []byte) ([]byte, error) {
	if len(sig) != signatureLength {
		return nil, fmt.Errorf("invalid signature length %d", len(sig))
	}

	if sig[64] > 1 {
		return nil, fmt.Errorf("invalid signature recovery id %d", sig[64])
	}

	return rlp.EncodeToBytes(rlpSignedTransaction{
		Unsigned: tx.wire(),
		V:        sig[64],
		R:        new(big.Int).SetBytes(sig[:32]),
		S:        new(big.Int).SetBytes(sig[32:64]),
	})
}

// SignedHash is the hash the chain assigns to a signed payload.
func SignedHash(payload []byte) common.Hash {
	return crypto.Keccak256Hash(payload)
}

// DecodeSigned parses a signed payload and recovers the sender address body.
func DecodeSigned(payload []byte) (*RawTransaction, common.Address, error) {
	var signed rlpSignedTransaction
	if err := rlp.DecodeBytes(payload, &signed); err != nil {
		return nil, common.Address{}, fmt.Errorf("failed to decode signed transaction, %w", err)
	}

	u := signed.Unsigned
	tx := &RawTransaction{
		Nonce:        u.Nonce,
		GasPrice:     u.GasPrice,
		Gas:          u.Gas,
		Value:        u.Value,
		StorageLimit: u.StorageLimit,
		EpochHeight:  u.EpochHeight,
		ChainID:      u.ChainID,
		Data:         u.Data,
	}

	switch len(u.To) {
	case 0:
	case common.AddressLength:
		to := common.BytesToAddress(u.To)
		tx.To = &to
	default:
		return nil, common.Address{}, errors.New("invalid recipient length")
	}

	hash, err := tx.Hash()
	if err != nil {
		return nil, common.Address{}, err
	}

	if signed.R.BitLen() > 256 || signed.S.BitLen() > 256 {
		return nil, common.Address{}, errors.New("invalid signature values")
	}

	sig := make([]byte, signatureLength)
	signed.R.FillBytes(sig[:32])
	signed.S.FillBytes(sig[32:64])
	sig[64] = signed.V

	pub, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("failed to recover sender, %w", err)
	}

	return tx, UserAddress(pub), nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}

	return v
}
