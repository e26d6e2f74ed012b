// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package currency

import (
	"context"

	"github.com/bitmark-inc/marketd/account"
)

// Transfer - moves settlement value between accounts
//
// implementations must pass ctx to any call back into the market; a
// call made with a fresh context waits on the operation that made
// this call
type Transfer interface {
	// move native value; the market collects a purchase's attached
	// payment with from=buyer and pays it out with from=market
	TransferNative(ctx context.Context, from *account.Account, to *account.Account, amount uint64) error

	// pull token value on behalf of the operator, from must have
	// approved the operator
	TransferFrom(ctx context.Context, operator *account.Account, c Currency, from *account.Account, to *account.Account, amount uint64) error
}
