// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/Conflux-Chain/go-conflux-sdk/types/cfxaddress"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/cfx-account/pkg/cfxclient"
	"github.com/ethersphere/cfx-account/pkg/wallet"
	"github.com/ethersphere/go-sw3-abi/sw3abi"
)

// ERC20ABI is the token interface, CRC20 tokens share it.
var ERC20ABI = mustParseABI(sw3abi.ERC20ABIv0_3_1)

// TransferToken calls transfer(to, amount) on the token contract.
func (a *Account) TransferToken(
	ctx context.Context,
	opt *Option,
	token cfxaddress.Address,
	to cfxaddress.Address,
	amount *big.Int,
) (common.Hash, error) {
	hash, err := a.CallMethod(ctx, opt, token, ERC20ABI, "transfer", wallet.HexAddress(to), amount)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to make token transfer, %w", err)
	}

	return hash, nil
}

// TokenBalance returns the token balance of owner by calling balanceOf.
func TokenBalance(ctx context.Context, c cfxclient.Client, token, owner cfxaddress.Address) (*big.Int, error) {
	data, err := ERC20ABI.Pack("balanceOf", wallet.HexAddress(owner))
	if err != nil {
		return nil, fmt.Errorf("failed to pack abi, %w", err)
	}

	out, err := c.Call(ctx, cfxclient.CallRequest{To: &token, Data: data})
	if err != nil {
		return nil, fmt.Errorf("failed to call balanceOf, %w", err)
	}

	results, err := ERC20ABI.Unpack("balanceOf", out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack balanceOf, %w", err)
	}

	if len(results) != 1 {
		return nil, fmt.Errorf("unexpected balanceOf result count %d", len(results))
	}

	balance, ok := results[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf result type %T", results[0])
	}

	return balance, nil
}

func mustParseABI(json string) abi.ABI {
	cabi, err := abi.JSON(strings.NewReader(json))
	if err != nil {
		panic(fmt.Sprintf("error creating ABI for contract: %v", err))
	}

	return cabi
}
