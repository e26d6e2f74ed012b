// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/command/market-cli/rpccalls"
)

func adminCommands() []cli.Command {
	return []cli.Command{
		{
			Name:      "trading",
			Usage:     "enable or disable trading",
			ArgsUsage: "on|off",
			Action:    runSetTrading,
		},
		{
			Name:      "collection",
			Usage:     "add or remove a supported collection",
			ArgsUsage: "NAME on|off",
			Action:    runSetCollection,
		},
		{
			Name:      "currency",
			Usage:     "add or remove a supported currency",
			ArgsUsage: "CURRENCY on|off",
			Action:    runSetCurrency,
		},
		{
			Name:      "account",
			Usage:     "replace an administered account",
			ArgsUsage: "fee-receiver|verifier|issuer ACCOUNT",
			Action:    runSetAccount,
		},
		{
			Name:      "fee-rate",
			Usage:     "set the fee in parts per thousand",
			ArgsUsage: "RATE",
			Action:    runSetFeeRate,
		},
		{
			Name:      "base-uri",
			Usage:     "set the entitlement URI prefix",
			ArgsUsage: "URI",
			Action:    runSetBaseURI,
		},
		{
			Name:   "get",
			Usage:  "display the current settings",
			Action: runSettings,
		},
	}
}

// positional arguments are checked for count before connecting
func adminArguments(c *cli.Context, n int) ([]string, error) {
	arguments := c.Args()
	if n != len(arguments) {
		return nil, fmt.Errorf("expected %d arguments: %s", n, c.Command.ArgsUsage)
	}
	return arguments, nil
}

func onOff(s string) (bool, error) {
	switch s {
	case "on", "yes", "true", "enable":
		return true, nil
	case "off", "no", "false", "disable":
		return false, nil
	default:
		return false, fmt.Errorf("expected on/off not: %q", s)
	}
}

// connect as the signing owner and run one administrative call
func administer(c *cli.Context, f func(client *rpccalls.Client) error) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := connect(m, true)
	if nil != err {
		return err
	}
	defer client.Close()

	return f(client)
}

func runSetTrading(c *cli.Context) error {
	arguments, err := adminArguments(c, 1)
	if nil != err {
		return err
	}
	enabled, err := onOff(arguments[0])
	if nil != err {
		return err
	}
	return administer(c, func(client *rpccalls.Client) error {
		return client.SetTrading(enabled)
	})
}

func runSetCollection(c *cli.Context) error {
	arguments, err := adminArguments(c, 2)
	if nil != err {
		return err
	}
	supported, err := onOff(arguments[1])
	if nil != err {
		return err
	}
	return administer(c, func(client *rpccalls.Client) error {
		return client.SetCollection(asset.Collection(arguments[0]), supported)
	})
}

func runSetCurrency(c *cli.Context) error {
	arguments, err := adminArguments(c, 2)
	if nil != err {
		return err
	}
	cy, err := checkCurrency(arguments[0])
	if nil != err {
		return err
	}
	supported, err := onOff(arguments[1])
	if nil != err {
		return err
	}
	return administer(c, func(client *rpccalls.Client) error {
		return client.SetCurrency(cy, supported)
	})
}

func runSetAccount(c *cli.Context) error {
	arguments, err := adminArguments(c, 2)
	if nil != err {
		return err
	}
	a, err := checkAccount(arguments[1])
	if nil != err {
		return err
	}
	return administer(c, func(client *rpccalls.Client) error {
		return client.SetAccount(arguments[0], a)
	})
}

func runSetFeeRate(c *cli.Context) error {
	arguments, err := adminArguments(c, 1)
	if nil != err {
		return err
	}
	rate, err := strconv.ParseUint(arguments[0], 10, 64)
	if nil != err {
		return err
	}
	return administer(c, func(client *rpccalls.Client) error {
		return client.SetFeeRate(rate)
	})
}

func runSetBaseURI(c *cli.Context) error {
	arguments, err := adminArguments(c, 1)
	if nil != err {
		return err
	}
	return administer(c, func(client *rpccalls.Client) error {
		return client.SetBaseURI(arguments[0])
	})
}

func runSettings(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := connect(m, false)
	if nil != err {
		return err
	}
	defer client.Close()

	state, err := client.GetSettings()
	if nil != err {
		return err
	}

	printJson(m.w, state)
	return nil
}
