// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wallet

import (
	"fmt"
	"strings"

	"github.com/Conflux-Chain/go-conflux-sdk/types/cfxaddress"
	"github.com/ethereum/go-ethereum/common"
)

// ParseAddress accepts a base32 (CIP-37) address or a 0x prefixed hex one. Hex
// addresses are bound to networkID, base32 ones carry their own network id.
func ParseAddress(s string, networkID uint32) (cfxaddress.Address, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if !common.IsHexAddress(s) {
			return cfxaddress.Address{}, fmt.Errorf("invalid hex address %q", s)
		}

		return cfxaddress.NewFromCommon(common.HexToAddress(s), networkID)
	}

	addr, err := cfxaddress.NewFromBase32(s)
	if err != nil {
		return cfxaddress.Address{}, fmt.Errorf("invalid base32 address %q: %w", s, err)
	}

	return addr, nil
}

// HexAddress returns the 20 byte body of a Conflux address.
func HexAddress(addr cfxaddress.Address) common.Address {
	return common.HexToAddress(addr.GetHexAddress())
}

// SameAddress reports whether both addresses have the same body and network.
func SameAddress(a, b cfxaddress.Address) bool {
	return strings.EqualFold(a.GetHexAddress(), b.GetHexAddress()) &&
		NetworkID(a) == NetworkID(b)
}

// NetworkID returns the network id of addr.
func NetworkID(addr cfxaddress.Address) uint32 {
	return addr.GetNetworkID()
}
