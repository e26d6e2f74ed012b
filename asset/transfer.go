// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"context"

	"github.com/bitmark-inc/marketd/account"
)

// AcceptanceCode - value a receiver returns to accept an asset
type AcceptanceCode uint32

// Accepted - the only code that completes an inbound transfer
const Accepted = AcceptanceCode(0x150b7a02)

// Transfer - moves ownership of a unique asset
//
// implementations must pass ctx to any call back into the market; a
// call made with a fresh context waits on the operation that made
// this call
type Transfer interface {
	// operator must own the asset or be approved by from; when to has
	// a registered Receiver its hook is called and must accept
	TransferAsset(ctx context.Context, operator *account.Account, c Collection, from *account.Account, to *account.Account, id Identifier) error
}

// Receiver - hook run when an asset arrives at a registered account
//
// the same ctx rule as Transfer applies
type Receiver interface {
	OnAssetReceived(ctx context.Context, operator *account.Account, from *account.Account, c Collection, id Identifier) (AcceptanceCode, error)
}
