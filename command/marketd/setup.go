// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc/listeners"
	"github.com/bitmark-inc/marketd/storage"
)

// true if the pool holds no committed records
func isEmpty(pool storage.Handle) bool {
	empty := true
	_ = pool.Iterate(func(key []byte, value []byte) bool {
		empty = false
		return false
	})
	return empty
}

// create the configured assets and balances in one operation
func grant(ctx context.Context, log *logger.L, m *market.Market, grants []GrantType) error {
	return m.Guard.Run(ctx, func(ctx context.Context) error {
		for _, g := range grants {
			to, err := account.FromBase58(g.Account)
			if nil != err {
				return err
			}

			if 0 != g.Asset {
				if err := m.Holdings.Mint(ctx, to, asset.Collection(g.Collection), asset.Identifier(g.Asset)); nil != err {
					return err
				}
				log.Infof("grant: %s/%d  to: %s", g.Collection, g.Asset, to)
				continue
			}

			c, err := currency.FromString(g.Currency)
			if nil != err {
				return err
			}
			if err := m.Holdings.Deposit(ctx, to, c, g.Amount); nil != err {
				return err
			}
			log.Infof("grant: %d %s  to: %s", g.Amount, c, to)
		}
		return nil
	})
}

// replace certificate and key file names by their PEM contents
func loadCertificates(client *listeners.RPCConfiguration, https *listeners.HTTPSConfiguration) error {
	files := []*string{
		&client.Certificate,
		&client.PrivateKey,
	}
	if 0 != len(https.Listen) {
		files = append(files, &https.Certificate, &https.PrivateKey)
	}
	for _, f := range files {
		data, err := os.ReadFile(*f)
		if nil != err {
			return err
		}
		*f = string(data)
	}
	return nil
}
