// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package admin_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/rpc/admin"
	"github.com/bitmark-inc/marketd/rpc/envelope"
	"github.com/bitmark-inc/marketd/rpc/fixtures"
	"github.com/bitmark-inc/marketd/settings"
	"github.com/bitmark-inc/marketd/storage"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func setup(t *testing.T) (*admin.Admin, *storage.Store, *event.Recorder) {
	m, store, recorder, err := fixtures.NewMarket()
	if nil != err {
		t.Fatalf("market error: %s", err)
	}
	a := admin.New(
		logger.New(fixtures.LogCategory),
		m.Settings,
		envelope.NewVerifier(time.Minute, fixtures.Clock),
		nil,
	)
	return a, store, recorder
}

func TestSettersRequireOwner(t *testing.T) {
	a, store, _ := setup(t)
	defer store.Close()

	trading := &admin.TradingArguments{Enabled: false}
	assert.Nil(t, envelope.Seal(trading, fixtures.SellerKey, fixtures.Now))
	err := a.SetTrading(trading, &admin.Reply{})
	assert.Equal(t, fault.ErrNotAdministrator, err)

	rate := &admin.FeeRateArguments{Rate: 10}
	assert.Nil(t, envelope.Seal(rate, fixtures.BuyerKey, fixtures.Now))
	err = a.SetFeeRate(rate, &admin.Reply{})
	assert.Equal(t, fault.ErrNotAdministrator, err)

	var state settings.State
	assert.Nil(t, a.Get(&admin.GetArguments{}, &state))
	assert.True(t, state.Trading)
	assert.Equal(t, uint64(25), state.FeeRate)
}

func TestSetters(t *testing.T) {
	a, store, _ := setup(t)
	defer store.Close()

	trading := &admin.TradingArguments{Enabled: false}
	assert.Nil(t, envelope.Seal(trading, fixtures.OwnerKey, fixtures.Now))
	assert.Nil(t, a.SetTrading(trading, &admin.Reply{}))

	collection := &admin.CollectionArguments{Collection: asset.Collection("music"), Supported: true}
	assert.Nil(t, envelope.Seal(collection, fixtures.OwnerKey, fixtures.Now))
	assert.Nil(t, a.SetCollection(collection, &admin.Reply{}))

	removed := &admin.CurrencyArguments{Currency: fixtures.Currency, Supported: false}
	assert.Nil(t, envelope.Seal(removed, fixtures.OwnerKey, fixtures.Now))
	assert.Nil(t, a.SetCurrency(removed, &admin.Reply{}))

	receiver := &admin.AccountArguments{Account: fixtures.SellerKey.Account()}
	assert.Nil(t, envelope.Seal(receiver, fixtures.OwnerKey, fixtures.Now))
	assert.Nil(t, a.SetFeeReceiver(receiver, &admin.Reply{}))

	verifier := &admin.AccountArguments{Account: fixtures.BuyerKey.Account()}
	assert.Nil(t, envelope.Seal(verifier, fixtures.OwnerKey, fixtures.Now.Add(time.Second)))
	assert.Nil(t, a.SetVerifier(verifier, &admin.Reply{}))

	issuer := &admin.AccountArguments{Account: fixtures.FeeKey.Account()}
	assert.Nil(t, envelope.Seal(issuer, fixtures.OwnerKey, fixtures.Now.Add(2*time.Second)))
	assert.Nil(t, a.SetIssuer(issuer, &admin.Reply{}))

	rate := &admin.FeeRateArguments{Rate: 50}
	assert.Nil(t, envelope.Seal(rate, fixtures.OwnerKey, fixtures.Now))
	assert.Nil(t, a.SetFeeRate(rate, &admin.Reply{}))

	uri := &admin.BaseURIArguments{URI: "ipfs://meta/"}
	assert.Nil(t, envelope.Seal(uri, fixtures.OwnerKey, fixtures.Now))
	assert.Nil(t, a.SetBaseURI(uri, &admin.Reply{}))

	var state settings.State
	assert.Nil(t, a.Get(&admin.GetArguments{}, &state))
	assert.False(t, state.Trading)
	assert.Contains(t, state.Collections, asset.Collection("music"))
	assert.Equal(t, []currency.Currency{currency.Native}, state.Currencies)
	assert.True(t, fixtures.SellerKey.Account().Equal(state.FeeReceiver))
	assert.True(t, fixtures.BuyerKey.Account().Equal(state.Verifier))
	assert.True(t, fixtures.FeeKey.Account().Equal(state.Issuer))
	assert.Equal(t, uint64(50), state.FeeRate)
	assert.Equal(t, "ipfs://meta/", state.BaseURI)
}

func TestSetterValidation(t *testing.T) {
	a, store, recorder := setup(t)
	defer store.Close()

	before := len(recorder.Events())

	rate := &admin.FeeRateArguments{Rate: currency.MaximumFeeRate + 1}
	assert.Nil(t, envelope.Seal(rate, fixtures.OwnerKey, fixtures.Now))
	err := a.SetFeeRate(rate, &admin.Reply{})
	assert.Equal(t, fault.ErrFeeRateTooHigh, err)

	receiver := &admin.AccountArguments{}
	assert.Nil(t, envelope.Seal(receiver, fixtures.OwnerKey, fixtures.Now))
	err = a.SetFeeReceiver(receiver, &admin.Reply{})
	assert.Equal(t, fault.ErrInvalidAccount, err)

	assert.Equal(t, before, len(recorder.Events()), "rejected changes must not emit")

	stale := &admin.TradingArguments{Enabled: false}
	assert.Nil(t, envelope.Seal(stale, fixtures.OwnerKey, fixtures.Now.Add(-time.Hour)))
	err = a.SetTrading(stale, &admin.Reply{})
	assert.Equal(t, fault.ErrInvalidTimestamp, err)
}
