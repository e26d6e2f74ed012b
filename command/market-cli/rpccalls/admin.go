// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/rpc/admin"
	"github.com/bitmark-inc/marketd/settings"
)

// ErrUnknownRole - not one of the administered accounts
var ErrUnknownRole = fault.InvalidError("unknown account role")

// account roles and the calls that set them
var roles = map[string]string{
	"fee-receiver": "Admin.SetFeeReceiver",
	"verifier":     "Admin.SetVerifier",
	"issuer":       "Admin.SetIssuer",
}

// SetTrading - global trading switch
func (client *Client) SetTrading(enabled bool) error {
	arguments := &admin.TradingArguments{
		Enabled: enabled,
	}
	return client.sealed("Admin.SetTrading", arguments, &admin.Reply{})
}

// SetCollection - add or remove a supported collection
func (client *Client) SetCollection(collection asset.Collection, supported bool) error {
	arguments := &admin.CollectionArguments{
		Collection: collection,
		Supported:  supported,
	}
	return client.sealed("Admin.SetCollection", arguments, &admin.Reply{})
}

// SetCurrency - add or remove a supported currency
func (client *Client) SetCurrency(c currency.Currency, supported bool) error {
	arguments := &admin.CurrencyArguments{
		Currency:  c,
		Supported: supported,
	}
	return client.sealed("Admin.SetCurrency", arguments, &admin.Reply{})
}

// SetAccount - replace the fee receiver, verifier or issuer
func (client *Client) SetAccount(role string, a *account.Account) error {
	method, ok := roles[role]
	if !ok {
		return ErrUnknownRole
	}
	arguments := &admin.AccountArguments{
		Account: a,
	}
	return client.sealed(method, arguments, &admin.Reply{})
}

// SetFeeRate - parts per thousand
func (client *Client) SetFeeRate(rate uint64) error {
	arguments := &admin.FeeRateArguments{
		Rate: rate,
	}
	return client.sealed("Admin.SetFeeRate", arguments, &admin.Reply{})
}

// SetBaseURI - prefix of entitlement URIs
func (client *Client) SetBaseURI(uri string) error {
	arguments := &admin.BaseURIArguments{
		URI: uri,
	}
	return client.sealed("Admin.SetBaseURI", arguments, &admin.Reply{})
}

// GetSettings - current administrative state
func (client *Client) GetSettings() (*settings.State, error) {
	reply := &settings.State{}
	if err := client.call("Admin.Get", &admin.GetArguments{}, reply); nil != err {
		return nil, err
	}
	return reply, nil
}
