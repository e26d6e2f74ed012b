// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared setup for the RPC tests
package fixtures

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/chain"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/settings"
	"github.com/bitmark-inc/marketd/storage"
)

// LogCategory - logger channel used by the tests
const LogCategory = "testing"

// collection and currency supported by the test market
const (
	Collection = asset.Collection("art")
	Currency   = currency.Currency("USDC")
)

var (
	OwnerKey    = makeKey(0x01)
	IdentityKey = makeKey(0x02)
	VerifierKey = makeKey(0x03)
	SellerKey   = makeKey(0x04)
	BuyerKey    = makeKey(0x05)
	FeeKey      = makeKey(0x06)

	Now = time.Unix(1600000000, 0).UTC()
)

var logDirectory string

func makeKey(fill byte) *account.PrivateKey {
	k, err := account.PrivateKeyFromSeed(true, bytes.Repeat([]byte{fill}, 32))
	if nil != err {
		panic(err)
	}
	return k
}

// SetupTestLogger - log to a temporary directory
func SetupTestLogger() {
	logDirectory, _ = os.MkdirTemp("", "rpc-test")
	_ = logger.Initialise(logger.Configuration{
		Directory: logDirectory,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})
}

// TeardownTestLogger - stop logging and remove the directory
func TeardownTestLogger() {
	logger.Finalise()
	_ = os.RemoveAll(logDirectory)
}

// Clock - the fixed time of the test market
func Clock() time.Time {
	return Now
}

// NewMarket - a market over reference holdings in a memory store
func NewMarket() (*market.Market, *storage.Store, *event.Recorder, error) {
	store, err := storage.OpenMemory()
	if nil != err {
		return nil, nil, nil, err
	}
	recorder := &event.Recorder{}
	m, err := market.New(context.Background(), store, recorder, market.Options{
		Identity: IdentityKey.Account(),
		Chain:    chain.Local,
		Initial: settings.State{
			Owner:       OwnerKey.Account(),
			Trading:     true,
			Collections: []asset.Collection{Collection},
			Currencies:  []currency.Currency{currency.Native, Currency},
			FeeReceiver: FeeKey.Account(),
			FeeRate:     25,
			BaseURI:     "https://example.com/e/",
			Verifier:    VerifierKey.Account(),
			Issuer:      OwnerKey.Account(),
		},
		Clock: Clock,
	})
	if nil != err {
		store.Close()
		return nil, nil, nil, err
	}
	return m, store, recorder, nil
}
