// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package admin

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/metrics"
	"github.com/bitmark-inc/marketd/rpc/envelope"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
	"github.com/bitmark-inc/marketd/settings"
)

const (
	rateLimitAdmin = 10
	rateBurstAdmin = 10
)

// Admin - type for RPC calls
type Admin struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Settings *settings.Settings
	Verifier *envelope.Verifier
	Metrics  *metrics.Metrics
}

// New - create the Admin service
func New(log *logger.L, s *settings.Settings, verifier *envelope.Verifier, m *metrics.Metrics) *Admin {
	return &Admin{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitAdmin, rateBurstAdmin),
		Settings: s,
		Verifier: verifier,
		Metrics:  m,
	}
}

// Reply - all setters return nothing
type Reply struct{}

// rate limit then authenticate; the owner check is made by settings
func (a *Admin) open(arguments envelope.Sealer) (*account.Account, error) {
	if err := ratelimit.Limit(a.Limiter); nil != err {
		return nil, err
	}
	return a.Verifier.Open(arguments)
}

// ---

// TradingArguments - enable or disable listing and purchase
type TradingArguments struct {
	envelope.Envelope
	Enabled bool `json:"enabled"`
}

// SetTrading - global trading switch
func (a *Admin) SetTrading(arguments *TradingArguments, reply *Reply) (err error) {
	defer a.Metrics.Track("Admin.SetTrading", time.Now(), &err)

	caller, err := a.open(arguments)
	if nil != err {
		return err
	}
	a.Log.Infof("trading: %t  caller: %s", arguments.Enabled, caller)
	return a.Settings.SetTrading(context.Background(), caller, arguments.Enabled)
}

// ---

// CollectionArguments - add or remove a collection
type CollectionArguments struct {
	envelope.Envelope
	Collection asset.Collection `json:"collection"`
	Supported  bool             `json:"supported"`
}

// SetCollection - change the collection allow-list
func (a *Admin) SetCollection(arguments *CollectionArguments, reply *Reply) (err error) {
	defer a.Metrics.Track("Admin.SetCollection", time.Now(), &err)

	caller, err := a.open(arguments)
	if nil != err {
		return err
	}
	return a.Settings.SetCollection(context.Background(), caller, arguments.Collection, arguments.Supported)
}

// ---

// CurrencyArguments - add or remove a currency
type CurrencyArguments struct {
	envelope.Envelope
	Currency  currency.Currency `json:"currency"`
	Supported bool              `json:"supported"`
}

// SetCurrency - change the currency allow-list
func (a *Admin) SetCurrency(arguments *CurrencyArguments, reply *Reply) (err error) {
	defer a.Metrics.Track("Admin.SetCurrency", time.Now(), &err)

	caller, err := a.open(arguments)
	if nil != err {
		return err
	}
	return a.Settings.SetCurrency(context.Background(), caller, arguments.Currency, arguments.Supported)
}

// ---

// AccountArguments - a single account parameter
type AccountArguments struct {
	envelope.Envelope
	Account *account.Account `json:"account"`
}

// SetFeeReceiver - account credited with fees
func (a *Admin) SetFeeReceiver(arguments *AccountArguments, reply *Reply) (err error) {
	defer a.Metrics.Track("Admin.SetFeeReceiver", time.Now(), &err)

	caller, err := a.open(arguments)
	if nil != err {
		return err
	}
	return a.Settings.SetFeeReceiver(context.Background(), caller, arguments.Account)
}

// SetVerifier - trusted signer of authorisations
func (a *Admin) SetVerifier(arguments *AccountArguments, reply *Reply) (err error) {
	defer a.Metrics.Track("Admin.SetVerifier", time.Now(), &err)

	caller, err := a.open(arguments)
	if nil != err {
		return err
	}
	a.Log.Warnf("verifier: %s  caller: %s", arguments.Account, caller)
	return a.Settings.SetVerifier(context.Background(), caller, arguments.Account)
}

// SetIssuer - privileged entitlement issuer
func (a *Admin) SetIssuer(arguments *AccountArguments, reply *Reply) (err error) {
	defer a.Metrics.Track("Admin.SetIssuer", time.Now(), &err)

	caller, err := a.open(arguments)
	if nil != err {
		return err
	}
	a.Log.Warnf("issuer: %s  caller: %s", arguments.Account, caller)
	return a.Settings.SetIssuer(context.Background(), caller, arguments.Account)
}

// ---

// FeeRateArguments - fee in parts per thousand
type FeeRateArguments struct {
	envelope.Envelope
	Rate uint64 `json:"rate"`
}

// SetFeeRate - change the protocol fee
func (a *Admin) SetFeeRate(arguments *FeeRateArguments, reply *Reply) (err error) {
	defer a.Metrics.Track("Admin.SetFeeRate", time.Now(), &err)

	caller, err := a.open(arguments)
	if nil != err {
		return err
	}
	return a.Settings.SetFeeRate(context.Background(), caller, arguments.Rate)
}

// ---

// BaseURIArguments - metadata prefix
type BaseURIArguments struct {
	envelope.Envelope
	URI string `json:"uri"`
}

// SetBaseURI - change the entitlement metadata prefix
func (a *Admin) SetBaseURI(arguments *BaseURIArguments, reply *Reply) (err error) {
	defer a.Metrics.Track("Admin.SetBaseURI", time.Now(), &err)

	caller, err := a.open(arguments)
	if nil != err {
		return err
	}
	return a.Settings.SetBaseURI(context.Background(), caller, arguments.URI)
}

// ---

// GetArguments - no parameters
type GetArguments struct{}

// Get - current administrative state
func (a *Admin) Get(arguments *GetArguments, reply *settings.State) (err error) {
	defer a.Metrics.Track("Admin.Get", time.Now(), &err)

	if err := ratelimit.Limit(a.Limiter); nil != err {
		return err
	}
	*reply = a.Settings.Snapshot()
	return nil
}
