// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
)

type metadata struct {
	connect  string
	keyFile  string
	password string
	testnet  bool
	verbose  bool
	e        io.Writer
	w        io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp()
	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {

	app := cli.NewApp()
	app.Name = "market-cli"
	app.Usage = "client for the marketd RPC services"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.BoolFlag{
			Name:  "testnet, t",
			Usage: " use test network accounts",
		},
		cli.StringFlag{
			Name:   "connect, c",
			Value:  "127.0.0.1:2130",
			Usage:  " marketd RPC `HOST:PORT`",
			EnvVar: "MARKET_CONNECT",
		},
		cli.StringFlag{
			Name:   "key, k",
			Value:  "",
			Usage:  " file holding the hex private key `FILE`",
			EnvVar: "MARKET_KEY_FILE",
		},
		cli.StringFlag{
			Name:   "password, p",
			Value:  "",
			Usage:  " key file `PASSWORD`",
			EnvVar: "MARKET_PASSWORD",
		},
	}

	assetFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "collection, C",
			Value: "",
			Usage: "*collection `NAME`",
		},
		cli.Uint64Flag{
			Name:  "asset, a",
			Value: 0,
			Usage: "*asset `ID`",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:      "keygen",
			Usage:     "generate a new private key",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "output, o",
					Value: "",
					Usage: " save the private key to `FILE`, encrypted if a password is set",
				},
			},
			Action: runKeygen,
		},
		{
			Name:   "account",
			Usage:  "display the account of the current key",
			Action: runAccount,
		},
		{
			Name:      "sign",
			Usage:     "sign an authorisation digest with the current key",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "digest, d",
					Value: "",
					Usage: "*digest from a nonce request `HEX`",
				},
			},
			Action: runSign,
		},
		{
			Name:   "info",
			Usage:  "display marketd status",
			Action: runInfo,
		},
		{
			Name:      "list",
			Usage:     "place an owned asset on sale",
			ArgsUsage: "\n   (* = required)",
			Flags: append([]cli.Flag{
				cli.Uint64Flag{
					Name:  "price, p",
					Value: 0,
					Usage: "*asking `PRICE`",
				},
				cli.StringFlag{
					Name:  "currency, u",
					Value: "",
					Usage: "*settlement `CURRENCY`",
				},
			}, assetFlags...),
			Action: runList,
		},
		{
			Name:      "cancel",
			Usage:     "withdraw an asset from sale",
			ArgsUsage: "\n   (* = required)",
			Flags:     assetFlags,
			Action:    runCancel,
		},
		{
			Name:      "purchase",
			Usage:     "buy a listed asset",
			ArgsUsage: "\n   (* = required)",
			Flags: append([]cli.Flag{
				cli.Uint64Flag{
					Name:  "price, p",
					Value: 0,
					Usage: "*expected `PRICE`",
				},
				cli.StringFlag{
					Name:  "currency, u",
					Value: "",
					Usage: "*settlement `CURRENCY`",
				},
				cli.Uint64Flag{
					Name:  "payment, P",
					Value: 0,
					Usage: " native `AMOUNT` attached [default: price]",
				},
			}, assetFlags...),
			Action: runPurchase,
		},
		{
			Name:      "sale",
			Usage:     "display a live sale and its price",
			ArgsUsage: "\n   (* = required)",
			Flags:     assetFlags,
			Action:    runSale,
		},
		{
			Name:      "sales",
			Usage:     "list live sales",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:  "start, s",
					Value: 0,
					Usage: " start from sale `ID`",
				},
				cli.IntFlag{
					Name:  "count, n",
					Value: 20,
					Usage: " maximum records `COUNT`",
				},
			},
			Action: runSales,
		},
		{
			Name:  "entitlement",
			Usage: "entitlement issuance and queries",
			Subcommands: []cli.Command{
				{
					Name:      "issue",
					Usage:     "issue an entitlement as the issuer, or with a verifier signature",
					ArgsUsage: "\n   (* = required)",
					Flags: []cli.Flag{
						cli.StringFlag{
							Name:  "recipient, r",
							Value: "",
							Usage: "*recipient `ACCOUNT`",
						},
						cli.Uint64Flag{
							Name:  "category, g",
							Value: 0,
							Usage: "*quota `CATEGORY`",
						},
						cli.Uint64Flag{
							Name:  "deadline, d",
							Value: 0,
							Usage: " authorisation deadline `UNIX-TIME`",
						},
						cli.StringFlag{
							Name:  "signature, s",
							Value: "",
							Usage: " verifier `SIGNATURE` for a signed issue",
						},
					},
					Action: runIssue,
				},
				{
					Name:      "get",
					Usage:     "display an entitlement",
					ArgsUsage: "\n   (* = required)",
					Flags: []cli.Flag{
						cli.Uint64Flag{
							Name:  "token, T",
							Value: 0,
							Usage: "*token `ID`",
						},
					},
					Action: runEntitlement,
				},
				{
					Name:      "remaining",
					Usage:     "display the unissued quota of a category",
					ArgsUsage: "\n   (* = required)",
					Flags: []cli.Flag{
						cli.Uint64Flag{
							Name:  "category, g",
							Value: 0,
							Usage: "*quota `CATEGORY`",
						},
					},
					Action: runRemaining,
				},
				{
					Name:      "nonce",
					Usage:     "display the digest a verifier must sign for an issue",
					ArgsUsage: "\n   (* = required)",
					Flags: []cli.Flag{
						cli.StringFlag{
							Name:  "recipient, r",
							Value: "",
							Usage: "*recipient `ACCOUNT`",
						},
						cli.Uint64Flag{
							Name:  "category, g",
							Value: 0,
							Usage: "*quota `CATEGORY`",
						},
						cli.Uint64Flag{
							Name:  "deadline, d",
							Value: 0,
							Usage: "*authorisation deadline `UNIX-TIME`",
						},
					},
					Action: runEntitlementNonce,
				},
			},
		},
		{
			Name:  "attribute",
			Usage: "soulbound attribute records",
			Subcommands: []cli.Command{
				{
					Name:      "mint",
					Usage:     "mint a record with a verifier signature",
					ArgsUsage: "\n   (* = required)",
					Flags: append(bundleFlags(),
						cli.StringFlag{
							Name:  "recipient, r",
							Value: "",
							Usage: "*recipient `ACCOUNT`",
						},
						cli.StringFlag{
							Name:  "signature, s",
							Value: "",
							Usage: "*verifier `SIGNATURE`",
						},
					),
					Action: runMint,
				},
				{
					Name:      "update",
					Usage:     "replace the bundle of an owned record",
					ArgsUsage: "\n   (* = required)",
					Flags: append(bundleFlags(),
						cli.Uint64Flag{
							Name:  "record, R",
							Value: 0,
							Usage: "*record `ID`",
						},
						cli.Uint64Flag{
							Name:  "linked, L",
							Value: 0,
							Usage: " linked asset `ID`",
						},
						cli.StringFlag{
							Name:  "signature, s",
							Value: "",
							Usage: "*verifier `SIGNATURE`",
						},
					),
					Action: runUpdate,
				},
				{
					Name:      "transfer",
					Usage:     "attempt to transfer a record",
					ArgsUsage: "\n   (* = required)",
					Flags: []cli.Flag{
						cli.Uint64Flag{
							Name:  "record, R",
							Value: 0,
							Usage: "*record `ID`",
						},
						cli.StringFlag{
							Name:  "receiver, r",
							Value: "",
							Usage: "*receiving `ACCOUNT`",
						},
					},
					Action: runAttributeTransfer,
				},
				{
					Name:      "get",
					Usage:     "display a record by id or by owner",
					ArgsUsage: "\n   (+ = select one)",
					Flags: []cli.Flag{
						cli.Uint64Flag{
							Name:  "record, R",
							Value: 0,
							Usage: "+record `ID`",
						},
						cli.StringFlag{
							Name:  "owner, O",
							Value: "",
							Usage: "+owning `ACCOUNT`",
						},
					},
					Action: runAttribute,
				},
				{
					Name:      "nonce",
					Usage:     "display the digest a verifier must sign for a mint or update",
					ArgsUsage: "\n   (* = required)",
					Flags: append(bundleFlags(),
						cli.StringFlag{
							Name:  "principal, r",
							Value: "",
							Usage: "*recipient or owner `ACCOUNT`",
						},
						cli.Uint64Flag{
							Name:  "record, R",
							Value: 0,
							Usage: " record `ID` for an update",
						},
						cli.Uint64Flag{
							Name:  "linked, L",
							Value: 0,
							Usage: " linked asset `ID`",
						},
					),
					Action: runAttributeNonce,
				},
			},
		},
		{
			Name:        "admin",
			Usage:       "owner administration",
			Subcommands: adminCommands(),
		},
		{
			Name:        "holdings",
			Usage:       "reference holdings",
			Subcommands: holdingsCommands(assetFlags),
		},
	}

	app.Before = func(c *cli.Context) error {

		c.App.Metadata["config"] = &metadata{
			connect:  c.GlobalString("connect"),
			keyFile:  c.GlobalString("key"),
			password: c.GlobalString("password"),
			testnet:  c.GlobalBool("testnet"),
			verbose:  c.GlobalBool("verbose"),
			e:        c.App.ErrWriter,
			w:        c.App.Writer,
		}
		return nil
	}

	return app
}

func bundleFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "values, V",
			Value: "",
			Usage: "*comma separated attribute `VALUES`",
		},
		cli.StringFlag{
			Name:  "label, l",
			Value: "",
			Usage: " bundle `LABEL`",
		},
		cli.Uint64Flag{
			Name:  "deadline, d",
			Value: 0,
			Usage: "*authorisation deadline `UNIX-TIME`",
		},
	}
}
