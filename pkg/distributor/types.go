// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package distributor

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/Conflux-Chain/go-conflux-sdk/types/cfxaddress"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethersphere/cfx-account/pkg/account"
)

// Issuer sends the top up transactions. It is implemented by
// *account.Account.
type Issuer interface {
	Address() cfxaddress.Address
	Transfer(ctx context.Context, opt *account.Option, to cfxaddress.Address, value *big.Int) (common.Hash, error)
	TransferToken(ctx context.Context, opt *account.Option, token, to cfxaddress.Address, amount *big.Int) (common.Hash, error)
	WaitForNonceUpdated(ctx context.Context, interval time.Duration) error
}

// Report counts the outcome per recipient. A recipient is funded when at
// least one transfer was made for it and none failed.
type Report struct {
	Funded  int
	Skipped int
	Failed  int
	Total   int
}

func (r Report) String() string {
	return fmt.Sprintf("funded %d, skipped %d, failed %d, total %d", r.Funded, r.Skipped, r.Failed, r.Total)
}

type recipient struct {
	name    string
	address cfxaddress.Address
}

func newRecipient(raw string, address cfxaddress.Address) recipient {
	return recipient{
		name:    fmt.Sprintf("recipient (%s)", raw),
		address: address,
	}
}
