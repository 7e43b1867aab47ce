// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wallet

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// NativeCoinDecimals is the number of Drip decimals in one CFX.
const NativeCoinDecimals = 18

type Token struct {
	Contract common.Address
	Symbol   string
	Decimals int
}

var chainToNativeCoinMap = map[uint64]Token{
	// Mainnet (Hydra)
	1029: {
		Symbol:   "CFX",
		Decimals: NativeCoinDecimals,
	},

	// Testnet
	1: {
		Symbol:   "tCFX",
		Decimals: NativeCoinDecimals,
	},

	// Localnet
	1234: {
		Symbol:   "lCFX",
		Decimals: NativeCoinDecimals,
	},
}

func NativeCoinForChain(cid uint64) (Token, error) {
	if t, ok := chainToNativeCoinMap[cid]; ok {
		return t, nil
	}

	return Token{}, fmt.Errorf("native coin not specified for chain (id %d)", cid)
}
