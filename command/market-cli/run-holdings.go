// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/command/market-cli/rpccalls"
)

func holdingsCommands(assetFlags []cli.Flag) []cli.Command {
	return []cli.Command{
		{
			Name:      "approve",
			Usage:     "approve an operator for assets, or set a currency allowance",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "operator, o",
					Value: "",
					Usage: "*operator `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "currency, u",
					Value: "",
					Usage: " allowance `CURRENCY`, omit for asset approval",
				},
				cli.Uint64Flag{
					Name:  "amount, A",
					Value: 0,
					Usage: " allowance `AMOUNT`",
				},
				cli.BoolFlag{
					Name:  "revoke, x",
					Usage: " withdraw asset approval",
				},
			},
			Action: runApprove,
		},
		{
			Name:      "deposit",
			Usage:     "owner only: mint an asset or credit a balance",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "to, r",
					Value: "",
					Usage: "*receiving `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "currency, u",
					Value: "",
					Usage: "+credited `CURRENCY`",
				},
				cli.Uint64Flag{
					Name:  "amount, A",
					Value: 0,
					Usage: " credited `AMOUNT`",
				},
			}, assetFlags...),
			Action: runDeposit,
		},
		{
			Name:      "balance",
			Usage:     "display a currency balance",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, O",
					Value: "",
					Usage: "*holding `ACCOUNT`",
				},
				cli.StringFlag{
					Name:  "currency, u",
					Value: "",
					Usage: "*`CURRENCY`",
				},
				cli.StringFlag{
					Name:  "operator, o",
					Value: "",
					Usage: " also show the allowance of `ACCOUNT`",
				},
			},
			Action: runBalance,
		},
		{
			Name:      "owner",
			Usage:     "display the holder of an asset",
			ArgsUsage: "\n   (* = required)",
			Flags:     assetFlags,
			Action:    runOwner,
		},
	}
}

func runApprove(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	operator, err := checkAccount(c.String("operator"))
	if nil != err {
		return err
	}

	data := &rpccalls.HoldingsData{
		Operator: operator,
		Approved: !c.Bool("revoke"),
		Amount:   c.Uint64("amount"),
	}
	if "" != c.String("currency") {
		data.Currency, err = checkCurrency(c.String("currency"))
		if nil != err {
			return err
		}
	}

	client, err := connect(m, true)
	if nil != err {
		return err
	}
	defer client.Close()

	return client.Approve(data)
}

func runDeposit(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	to, err := checkAccount(c.String("to"))
	if nil != err {
		return err
	}
	data := &rpccalls.HoldingsData{
		Account: to,
		Amount:  c.Uint64("amount"),
	}

	if "" != c.String("currency") {
		data.Currency, err = checkCurrency(c.String("currency"))
	} else {
		data.Collection, data.AssetId, err = checkAsset(c)
	}
	if nil != err {
		return err
	}

	client, err := connect(m, true)
	if nil != err {
		return err
	}
	defer client.Close()

	return client.Deposit(data)
}

func runBalance(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	owner, err := checkAccount(c.String("owner"))
	if nil != err {
		return err
	}
	cy, err := checkCurrency(c.String("currency"))
	if nil != err {
		return err
	}
	data := &rpccalls.HoldingsData{
		Account:  owner,
		Currency: cy,
	}
	if "" != c.String("operator") {
		data.Operator, err = checkAccount(c.String("operator"))
		if nil != err {
			return err
		}
	}

	client, err := connect(m, false)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Balance(data)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

func runOwner(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	collection, assetId, err := checkAsset(c)
	if nil != err {
		return err
	}

	client, err := connect(m, false)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Owner(&rpccalls.HoldingsData{
		Collection: collection,
		AssetId:    assetId,
	})
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}
