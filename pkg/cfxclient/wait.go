// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfxclient

import (
	"context"
	"fmt"
	"time"

	"github.com/Conflux-Chain/go-conflux-sdk/types/cfxaddress"
)

// DefaultPollInterval is used by WaitForNonce when no interval is given.
const DefaultPollInterval = time.Second

// NonceGetter is the part of Client WaitForNonce polls.
type NonceGetter interface {
	NextNonce(ctx context.Context, address cfxaddress.Address) (uint64, error)
}

// WaitForNonce blocks until the chain reports a next nonce of at least target
// for address. It has no deadline of its own, it returns only once the nonce
// is reached, a query fails or ctx is done.
func WaitForNonce(ctx context.Context, c NonceGetter, address cfxaddress.Address, target uint64, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		nonce, err := c.NextNonce(ctx, address)
		if err != nil {
			return fmt.Errorf("failed to get nonce, %w", err)
		}

		if nonce >= target {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
