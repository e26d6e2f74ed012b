// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/attribute"
	"github.com/bitmark-inc/marketd/command/market-cli/keyfile"
	"github.com/bitmark-inc/marketd/command/market-cli/rpccalls"
	"github.com/bitmark-inc/marketd/currency"
)

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}

// read the key written by keygen
func loadKey(m *metadata) (*account.PrivateKey, error) {
	if "" == m.keyFile {
		return nil, ErrRequiredKeyFile
	}
	return keyfile.Read(os.ExpandEnv(m.keyFile), m.testnet, m.password)
}

// connect using the key if one is configured
func connect(m *metadata, signing bool) (*rpccalls.Client, error) {
	var key *account.PrivateKey
	if signing || "" != m.keyFile {
		k, err := loadKey(m)
		if nil != err {
			return nil, err
		}
		key = k
	}

	if m.verbose {
		fmt.Fprintf(m.e, "connect: %s\n", m.connect)
		if nil != key {
			fmt.Fprintf(m.e, "caller: %s\n", key.Account())
		}
	}
	return rpccalls.NewClient(m.connect, key, m.verbose, m.e)
}

func checkAccount(s string) (*account.Account, error) {
	if "" == s {
		return nil, ErrRequiredAccount
	}
	return account.FromBase58(s)
}

func checkSignature(s string) (account.Signature, error) {
	if "" == s {
		return nil, ErrRequiredSignature
	}
	var signature account.Signature
	err := signature.UnmarshalText([]byte(s))
	if nil != err {
		return nil, err
	}
	return signature, nil
}

func checkCurrency(s string) (currency.Currency, error) {
	if "" == s {
		return "", ErrRequiredCurrency
	}
	return currency.FromString(s)
}

func checkAsset(c *cli.Context) (asset.Collection, asset.Identifier, error) {
	collection := c.String("collection")
	if "" == collection {
		return "", 0, ErrRequiredCollection
	}
	assetId := c.Uint64("asset")
	if 0 == assetId {
		return "", 0, ErrRequiredAssetId
	}
	return asset.Collection(collection), asset.Identifier(assetId), nil
}

// values flag is a comma separated list of integers
func checkBundle(c *cli.Context) (attribute.Bundle, error) {
	s := strings.TrimSpace(c.String("values"))
	if "" == s {
		return attribute.Bundle{}, ErrRequiredValues
	}
	fields := strings.Split(s, ",")
	values := make([]uint64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 64)
		if nil != err {
			return attribute.Bundle{}, err
		}
		values = append(values, v)
	}
	return attribute.Bundle{
		Values: values,
		Label:  c.String("label"),
	}, nil
}

func checkDeadline(c *cli.Context) (uint64, error) {
	deadline := c.Uint64("deadline")
	if 0 == deadline {
		return 0, ErrRequiredDeadline
	}
	return deadline, nil
}
