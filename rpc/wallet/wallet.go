// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wallet - RPC access to the reference holdings
//
// only registered when the market runs over its own holdings rather
// than external asset and currency ports
package wallet

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/holdings"
	"github.com/bitmark-inc/marketd/metrics"
	"github.com/bitmark-inc/marketd/rpc/envelope"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
	"github.com/bitmark-inc/marketd/settings"
)

const (
	rateLimitHoldings = 100
	rateBurstHoldings = 50
)

// Holdings - type for RPC calls
type Holdings struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Holdings *holdings.Holdings
	Settings *settings.Settings
	Verifier *envelope.Verifier
	Metrics  *metrics.Metrics
}

// New - create the Holdings service
func New(log *logger.L, h *holdings.Holdings, s *settings.Settings, verifier *envelope.Verifier, m *metrics.Metrics) *Holdings {
	return &Holdings{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitHoldings, rateBurstHoldings),
		Holdings: h,
		Settings: s,
		Verifier: verifier,
		Metrics:  m,
	}
}

// ---

// ApproveArguments - the caller approves an operator
//
// with no currency this is an all-assets operator approval, otherwise
// Amount becomes the operator's allowance of that currency
type ApproveArguments struct {
	envelope.Envelope
	Operator *account.Account  `json:"operator"`
	Currency currency.Currency `json:"currency"`
	Approved bool              `json:"approved"`
	Amount   uint64            `json:"amount,string"`
}

// ApproveReply - empty reply
type ApproveReply struct{}

// Approve - operator approval or currency allowance
func (h *Holdings) Approve(arguments *ApproveArguments, reply *ApproveReply) (err error) {
	defer h.Metrics.Track("Holdings.Approve", time.Now(), &err)

	if err := ratelimit.Limit(h.Limiter); nil != err {
		return err
	}
	owner, err := h.Verifier.Open(arguments)
	if nil != err {
		return err
	}

	ctx := context.Background()
	if "" == arguments.Currency {
		return h.Holdings.ApproveOperator(ctx, owner, arguments.Operator, arguments.Approved)
	}
	return h.Holdings.Allow(ctx, owner, arguments.Operator, arguments.Currency, arguments.Amount)
}

// ---

// DepositArguments - administrative credit
//
// a non-zero AssetId creates that asset, otherwise Amount of Currency
// is credited
type DepositArguments struct {
	envelope.Envelope
	To         *account.Account  `json:"to"`
	Collection asset.Collection  `json:"collection"`
	AssetId    asset.Identifier  `json:"assetId,string"`
	Currency   currency.Currency `json:"currency"`
	Amount     uint64            `json:"amount,string"`
}

// DepositReply - empty reply
type DepositReply struct{}

// Deposit - create an asset or credit a balance, owner only
func (h *Holdings) Deposit(arguments *DepositArguments, reply *DepositReply) (err error) {
	defer h.Metrics.Track("Holdings.Deposit", time.Now(), &err)

	if err := ratelimit.Limit(h.Limiter); nil != err {
		return err
	}
	caller, err := h.Verifier.Open(arguments)
	if nil != err {
		return err
	}
	if !h.Settings.IsOwner(caller) {
		return fault.ErrNotAdministrator
	}

	ctx := context.Background()
	if 0 != arguments.AssetId {
		return h.Holdings.Mint(ctx, arguments.To, arguments.Collection, arguments.AssetId)
	}
	return h.Holdings.Deposit(ctx, arguments.To, arguments.Currency, arguments.Amount)
}

// ---

// BalanceArguments - balance, and allowance when Operator is given
type BalanceArguments struct {
	Account  *account.Account  `json:"account"`
	Currency currency.Currency `json:"currency"`
	Operator *account.Account  `json:"operator"`
}

// BalanceReply - amounts
type BalanceReply struct {
	Balance   uint64 `json:"balance,string"`
	Allowance uint64 `json:"allowance,string"`
}

// Balance - an account's balance of a currency
func (h *Holdings) Balance(arguments *BalanceArguments, reply *BalanceReply) (err error) {
	defer h.Metrics.Track("Holdings.Balance", time.Now(), &err)

	if err := ratelimit.Limit(h.Limiter); nil != err {
		return err
	}

	ctx := context.Background()
	reply.Balance, err = h.Holdings.Balance(ctx, arguments.Account, arguments.Currency)
	if nil != err || nil == arguments.Operator {
		return err
	}
	reply.Allowance, err = h.Holdings.Allowance(ctx, arguments.Account, arguments.Operator, arguments.Currency)
	return err
}

// ---

// OwnerArguments - identify an asset
type OwnerArguments struct {
	Collection asset.Collection `json:"collection"`
	AssetId    asset.Identifier `json:"assetId,string"`
}

// OwnerReply - current owner
type OwnerReply struct {
	Owner *account.Account `json:"owner"`
}

// Owner - current owner of an asset, the market identity while escrowed
func (h *Holdings) Owner(arguments *OwnerArguments, reply *OwnerReply) (err error) {
	defer h.Metrics.Track("Holdings.Owner", time.Now(), &err)

	if err := ratelimit.Limit(h.Limiter); nil != err {
		return err
	}
	reply.Owner, err = h.Holdings.Owner(context.Background(), arguments.Collection, arguments.AssetId)
	return err
}
