// Copyright 2023 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"math/big"

	"github.com/shopspring/decimal"
)

func ApplyOverflowRatio(v *big.Int, ratio decimal.Decimal) *big.Int {
	return applyOverflowRatio(v, ratio)
}
