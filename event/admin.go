// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package event

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
)

// administrative changes

type TradingChanged struct {
	Enabled bool `json:"enabled"`
}

type CollectionChanged struct {
	Collection asset.Collection `json:"collection"`
	Supported  bool             `json:"supported"`
}

type CurrencyChanged struct {
	Currency  currency.Currency `json:"currency"`
	Supported bool              `json:"supported"`
}

type FeeReceiverChanged struct {
	Previous *account.Account `json:"previous"`
	Current  *account.Account `json:"current"`
}

type FeeRateChanged struct {
	Previous uint64 `json:"previous"`
	Current  uint64 `json:"current"`
}

type BaseURIChanged struct {
	URI string `json:"uri"`
}

type VerifierChanged struct {
	Previous *account.Account `json:"previous"`
	Current  *account.Account `json:"current"`
}

type IssuerChanged struct {
	Previous *account.Account `json:"previous"`
	Current  *account.Account `json:"current"`
}

func (TradingChanged) Name() string     { return "tradingChanged" }
func (CollectionChanged) Name() string  { return "collectionChanged" }
func (CurrencyChanged) Name() string    { return "currencyChanged" }
func (FeeReceiverChanged) Name() string { return "feeReceiverChanged" }
func (FeeRateChanged) Name() string     { return "feeRateChanged" }
func (BaseURIChanged) Name() string     { return "baseURIChanged" }
func (VerifierChanged) Name() string    { return "verifierChanged" }
func (IssuerChanged) Name() string      { return "issuerChanged" }
