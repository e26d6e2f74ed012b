// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/command/market-cli/rpccalls"
)

// collect the sale terms common to list and purchase
func saleData(c *cli.Context, priced bool) (*rpccalls.SaleData, error) {
	collection, assetId, err := checkAsset(c)
	if nil != err {
		return nil, err
	}
	data := &rpccalls.SaleData{
		Collection: collection,
		AssetId:    assetId,
	}
	if !priced {
		return data, nil
	}

	data.Price = c.Uint64("price")
	if 0 == data.Price {
		return nil, ErrRequiredPrice
	}
	data.Currency, err = checkCurrency(c.String("currency"))
	if nil != err {
		return nil, err
	}
	return data, nil
}

func runList(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	data, err := saleData(c, true)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "asset: %s/%s\n", data.Collection, data.AssetId)
		fmt.Fprintf(m.e, "price: %d %s\n", data.Price, data.Currency)
	}

	client, err := connect(m, true)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.List(data)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

func runCancel(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	data, err := saleData(c, false)
	if nil != err {
		return err
	}

	client, err := connect(m, true)
	if nil != err {
		return err
	}
	defer client.Close()

	return client.Cancel(data)
}

func runPurchase(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	data, err := saleData(c, true)
	if nil != err {
		return err
	}

	// native purchases attach the price unless told otherwise
	data.Payment = c.Uint64("payment")
	if 0 == data.Payment && data.Currency.IsNative() {
		data.Payment = data.Price
	}

	client, err := connect(m, true)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Purchase(data)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

func runSale(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	data, err := saleData(c, false)
	if nil != err {
		return err
	}

	client, err := connect(m, false)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.GetSale(data)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

func runSales(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	count := c.Int("count")
	if count <= 0 {
		return fmt.Errorf("invalid count: %d", count)
	}

	client, err := connect(m, false)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.AllSales(c.Uint64("start"), count)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}
