// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/rpc/wallet"
)

// HoldingsData - parameters for the reference holdings calls
type HoldingsData struct {
	Account    *account.Account
	Operator   *account.Account
	Collection asset.Collection
	AssetId    asset.Identifier
	Currency   currency.Currency
	Amount     uint64
	Approved   bool
}

// Approve - operator approval for assets, or a currency allowance
func (client *Client) Approve(data *HoldingsData) error {
	arguments := &wallet.ApproveArguments{
		Operator: data.Operator,
		Currency: data.Currency,
		Approved: data.Approved,
		Amount:   data.Amount,
	}
	return client.sealed("Holdings.Approve", arguments, &wallet.ApproveReply{})
}

// Deposit - owner only: mint an asset or credit a balance
func (client *Client) Deposit(data *HoldingsData) error {
	arguments := &wallet.DepositArguments{
		To:         data.Account,
		Collection: data.Collection,
		AssetId:    data.AssetId,
		Currency:   data.Currency,
		Amount:     data.Amount,
	}
	return client.sealed("Holdings.Deposit", arguments, &wallet.DepositReply{})
}

// Balance - currency balance and optional operator allowance
func (client *Client) Balance(data *HoldingsData) (*wallet.BalanceReply, error) {
	arguments := &wallet.BalanceArguments{
		Account:  data.Account,
		Currency: data.Currency,
		Operator: data.Operator,
	}
	reply := &wallet.BalanceReply{}
	if err := client.call("Holdings.Balance", arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// Owner - current holder of an asset
func (client *Client) Owner(data *HoldingsData) (*wallet.OwnerReply, error) {
	arguments := &wallet.OwnerArguments{
		Collection: data.Collection,
		AssetId:    data.AssetId,
	}
	reply := &wallet.OwnerReply{}
	if err := client.call("Holdings.Owner", arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}
