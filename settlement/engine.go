// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package settlement - purchase of listed assets
//
// the effects of a purchase always happen in this order:
//
//	status becomes Sold and the buyer is recorded
//	native: payment collected, excess refunded, fee paid, seller paid
//	token:  fee pulled from buyer, payout pulled from buyer
//	asset released to the buyer
//	Purchased event
package settlement

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/escrow"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/guard"
	"github.com/bitmark-inc/marketd/settings"
)

// Engine - settles purchases against the escrow ledger
type Engine struct {
	guard    *guard.Guard
	settings *settings.Settings
	ledger   *escrow.Ledger
	funds    currency.Transfer
	clock    func() time.Time
	log      *logger.L
}

// Receipt - what a completed purchase moved
type Receipt struct {
	SaleId   uint64            `json:"saleId,string"`
	Price    uint64            `json:"price,string"`
	Fee      uint64            `json:"fee,string"`
	Payout   uint64            `json:"payout,string"`
	Refund   uint64            `json:"refund,string"`
	Currency currency.Currency `json:"currency"`
}

// New - create an engine
func New(g *guard.Guard, st *settings.Settings, ledger *escrow.Ledger, funds currency.Transfer, clock func() time.Time) *Engine {
	if nil == clock {
		clock = time.Now
	}
	return &Engine{
		guard:    g,
		settings: st,
		ledger:   ledger,
		funds:    funds,
		clock:    clock,
		log:      logger.New("settlement"),
	}
}

// Purchase - buy a listed asset
//
// expectedPrice must equal the listed price; payment is the native
// value attached to the call and must be zero for token sales
func (e *Engine) Purchase(ctx context.Context, buyer *account.Account, c asset.Collection, id asset.Identifier, cur currency.Currency, expectedPrice uint64, payment uint64) (*Receipt, error) {
	var receipt *Receipt
	err := e.guard.Run(ctx, func(ctx context.Context) error {
		if buyer.IsZero() {
			return fault.ErrInvalidAccount
		}
		r, err := e.ledger.Record(ctx, c, id)
		if nil != err {
			return err
		}
		if escrow.Listed != r.Status {
			return fault.ErrAlreadySettled
		}
		if r.ListedAt.After(e.clock()) {
			return fault.ErrNotYetAvailable
		}
		if !e.settings.Trading() {
			return fault.ErrTradingDisabled
		}
		if buyer.Equal(r.Seller) {
			return fault.ErrSelfTrade
		}
		if cur != r.Currency {
			return fault.ErrCurrencyMismatch
		}
		if expectedPrice != r.Price {
			return fault.ErrPriceMismatch
		}
		if r.Currency.IsNative() {
			if payment < r.Price {
				return fault.ErrInsufficientPayment
			}
		} else if 0 != payment {
			return fault.ErrUnexpectedPayment
		}

		feeReceiver, feeRate := e.settings.Fees()
		fee, payout := currency.SplitFee(r.Price, feeRate)

		r, err = e.ledger.Settle(ctx, r.Id, buyer)
		if nil != err {
			return err
		}

		receipt = &Receipt{
			SaleId:   r.Id,
			Price:    r.Price,
			Fee:      fee,
			Payout:   payout,
			Currency: r.Currency,
		}

		if r.Currency.IsNative() {
			receipt.Refund = payment - r.Price
			err = e.payNative(ctx, r, payment, receipt.Refund, feeReceiver, fee, payout)
		} else {
			err = e.payToken(ctx, r, feeReceiver, fee, payout)
		}
		if nil != err {
			return err
		}

		err = e.ledger.Release(ctx, r)
		if nil != err {
			e.log.Errorf("release failed: sale: %d  buyer: %s  error: %s", r.Id, buyer, err)
			return err
		}

		e.guard.Emit(ctx, event.Purchased{
			SaleId:     r.Id,
			Collection: r.Collection,
			AssetId:    r.AssetId,
			Seller:     r.Seller,
			Buyer:      buyer,
			Price:      r.Price,
			Fee:        fee,
			Currency:   r.Currency,
		})
		return nil
	})
	if nil != err {
		return nil, err
	}
	e.log.Infof("purchased: sale: %d  asset: %s/%s  price: %d  fee: %d  %s", receipt.SaleId, c, id, receipt.Price, receipt.Fee, receipt.Currency)
	return receipt, nil
}

// native value: the attached payment is taken into the market account
// and pushed out from there
func (e *Engine) payNative(ctx context.Context, r *escrow.SaleRecord, payment uint64, refund uint64, feeReceiver *account.Account, fee uint64, payout uint64) error {
	market := e.ledger.Identity()

	if err := e.funds.TransferNative(ctx, r.Buyer, market, payment); nil != err {
		return err
	}
	if refund > 0 {
		if err := e.funds.TransferNative(ctx, market, r.Buyer, refund); nil != err {
			e.log.Errorf("refund failed: sale: %d  error: %s", r.Id, err)
			return err
		}
	}
	if fee > 0 {
		if err := e.funds.TransferNative(ctx, market, feeReceiver, fee); nil != err {
			e.log.Errorf("fee transfer failed: sale: %d  error: %s", r.Id, err)
			return err
		}
	}

	// a seller that cannot receive blocks the purchase
	if err := e.funds.TransferNative(ctx, market, r.Seller, payout); nil != err {
		e.log.Errorf("payout failed: sale: %d  seller: %s  error: %s", r.Id, r.Seller, err)
		return err
	}
	return nil
}

// token value: both amounts are pulled from the buyer by the market
func (e *Engine) payToken(ctx context.Context, r *escrow.SaleRecord, feeReceiver *account.Account, fee uint64, payout uint64) error {
	market := e.ledger.Identity()

	if err := e.funds.TransferFrom(ctx, market, r.Currency, r.Buyer, feeReceiver, fee); nil != err {
		return err
	}
	if err := e.funds.TransferFrom(ctx, market, r.Currency, r.Buyer, r.Seller, payout); nil != err {
		e.log.Errorf("payout failed: sale: %d  seller: %s  error: %s", r.Id, r.Seller, err)
		return err
	}
	return nil
}
