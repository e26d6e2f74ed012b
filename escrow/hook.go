// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package escrow

import (
	"context"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
)

// OnAssetReceived - accept assets the ledger itself pulled in
//
// only the operator is compared with the ledger identity, a transfer
// made by any other operator is refused
func (l *Ledger) OnAssetReceived(ctx context.Context, operator *account.Account, from *account.Account, c asset.Collection, id asset.Identifier) (asset.AcceptanceCode, error) {
	code := asset.AcceptanceCode(0)
	err := l.guard.Within(ctx, func(ctx context.Context) error {
		if !operator.Equal(l.identity) {
			l.log.Warnf("unsolicited transfer: operator: %s  asset: %s/%s", operator, c, id)
			return fault.ErrUnsolicitedTransfer
		}
		l.guard.Emit(ctx, event.AssetReceived{
			Operator:   operator,
			From:       from,
			Collection: c,
			AssetId:    id,
		})
		code = asset.Accepted
		return nil
	})
	return code, err
}
