// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/rpc/sale"
)

// SaleData - identifies a listed asset and its terms
type SaleData struct {
	Collection asset.Collection
	AssetId    asset.Identifier
	Currency   currency.Currency
	Price      uint64
	Payment    uint64
}

// List - put an owned asset into escrow
func (client *Client) List(data *SaleData) (*sale.ListReply, error) {
	arguments := &sale.ListArguments{
		Collection: data.Collection,
		AssetId:    data.AssetId,
		Price:      data.Price,
		Currency:   data.Currency,
	}
	reply := &sale.ListReply{}
	if err := client.sealed("Sale.List", arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// Cancel - return an escrowed asset to its seller
func (client *Client) Cancel(data *SaleData) error {
	arguments := &sale.CancelArguments{
		Collection: data.Collection,
		AssetId:    data.AssetId,
	}
	return client.sealed("Sale.Cancel", arguments, &sale.CancelReply{})
}

// Purchase - buy a listed asset, Price is the expected price
func (client *Client) Purchase(data *SaleData) (*sale.PurchaseReply, error) {
	arguments := &sale.PurchaseArguments{
		Collection:    data.Collection,
		AssetId:       data.AssetId,
		Currency:      data.Currency,
		ExpectedPrice: data.Price,
		Payment:       data.Payment,
	}
	reply := &sale.PurchaseReply{}
	if err := client.sealed("Sale.Purchase", arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// GetSale - the live sale record for an asset
func (client *Client) GetSale(data *SaleData) (*sale.GetReply, error) {
	arguments := &sale.GetArguments{
		Collection: data.Collection,
		AssetId:    data.AssetId,
	}
	reply := &sale.GetReply{}
	if err := client.call("Sale.Get", arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// GetPrice - asking price of a listed asset
func (client *Client) GetPrice(data *SaleData) (*sale.PriceReply, error) {
	arguments := &sale.GetArguments{
		Collection: data.Collection,
		AssetId:    data.AssetId,
	}
	reply := &sale.PriceReply{}
	if err := client.call("Sale.Price", arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// AllSales - page through live sales
func (client *Client) AllSales(start uint64, count int) (*sale.AllReply, error) {
	arguments := &sale.AllArguments{
		Start: start,
		Count: count,
	}
	reply := &sale.AllReply{}
	if err := client.call("Sale.All", arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}
