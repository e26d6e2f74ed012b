// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package currency

import (
	"math/bits"
)

// fee rates are parts per FeeScale
const (
	FeeScale       = 1000
	MaximumFeeRate = 100
)

// SplitFee - protocol fee and seller payout for a price
//
// the fee truncates toward zero so fee + payout == price always;
// the product is taken at 128 bits so large prices cannot wrap
func SplitFee(price uint64, feeRate uint64) (fee uint64, payout uint64) {
	hi, lo := bits.Mul64(price, feeRate)
	if hi >= FeeScale {
		// only reachable with a rate above FeeScale
		return price, 0
	}
	fee, _ = bits.Div64(hi, lo, FeeScale)
	if fee > price {
		fee = price
	}
	return fee, price - fee
}
