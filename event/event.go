// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package event - observable outcomes of market operations
package event

import (
	"time"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
)

// Event - anything published to off-line consumers
type Event interface {
	Name() string
}

// Listed - an asset entered escrow for sale
type Listed struct {
	SaleId     uint64            `json:"saleId,string"`
	Collection asset.Collection  `json:"collection"`
	AssetId    asset.Identifier  `json:"assetId,string"`
	Seller     *account.Account  `json:"seller"`
	Price      uint64            `json:"price,string"`
	Currency   currency.Currency `json:"currency"`
	ListedAt   time.Time         `json:"listedAt"`
}

// Purchased - a sale settled
type Purchased struct {
	SaleId     uint64            `json:"saleId,string"`
	Collection asset.Collection  `json:"collection"`
	AssetId    asset.Identifier  `json:"assetId,string"`
	Seller     *account.Account  `json:"seller"`
	Buyer      *account.Account  `json:"buyer"`
	Price      uint64            `json:"price,string"`
	Fee        uint64            `json:"fee,string"`
	Currency   currency.Currency `json:"currency"`
}

// Canceled - a sale withdrawn by its seller
type Canceled struct {
	SaleId     uint64           `json:"saleId,string"`
	Collection asset.Collection `json:"collection"`
	AssetId    asset.Identifier `json:"assetId,string"`
	Seller     *account.Account `json:"seller"`
}

// AssetReceived - the market accepted an inbound asset
type AssetReceived struct {
	Operator   *account.Account `json:"operator"`
	From       *account.Account `json:"from"`
	Collection asset.Collection `json:"collection"`
	AssetId    asset.Identifier `json:"assetId,string"`
}

// Issued - an entitlement was issued
type Issued struct {
	TokenId   uint64           `json:"tokenId,string"`
	Recipient *account.Account `json:"recipient"`
	Category  uint64           `json:"category"`
	Signed    bool             `json:"signed"`
}

// AttributeRecordCreated - first record for a principal
type AttributeRecordCreated struct {
	RecordId uint64           `json:"recordId,string"`
	Owner    *account.Account `json:"owner"`
	Values   []uint64         `json:"values"`
	Label    string           `json:"label"`
}

// AttributeRecordUpdated - record content replaced
type AttributeRecordUpdated struct {
	RecordId    uint64           `json:"recordId,string"`
	Owner       *account.Account `json:"owner"`
	Values      []uint64         `json:"values"`
	Label       string           `json:"label"`
	LinkedAsset uint64           `json:"linkedAsset,string"`
}

func (Listed) Name() string                 { return "listed" }
func (Purchased) Name() string              { return "purchased" }
func (Canceled) Name() string               { return "canceled" }
func (AssetReceived) Name() string          { return "assetReceived" }
func (Issued) Name() string                 { return "issued" }
func (AttributeRecordCreated) Name() string { return "attributeRecordCreated" }
func (AttributeRecordUpdated) Name() string { return "attributeRecordUpdated" }
