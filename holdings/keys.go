// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package holdings

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/currency"
)

// approvals pool key types
const (
	operatorTag  = 'o'
	allowanceTag = 'a'
)

// account bytes are fixed length so simple concatenation is unique

func balanceKey(c currency.Currency, a *account.Account) []byte {
	key := append([]byte(c), 0x00)
	return append(key, a.Bytes()...)
}

func operatorKey(owner *account.Account, operator *account.Account) []byte {
	key := append([]byte{operatorTag}, owner.Bytes()...)
	return append(key, operator.Bytes()...)
}

func allowanceKey(c currency.Currency, owner *account.Account, operator *account.Account) []byte {
	key := append([]byte{allowanceTag}, string(c)...)
	key = append(key, 0x00)
	key = append(key, owner.Bytes()...)
	return append(key, operator.Bytes()...)
}
