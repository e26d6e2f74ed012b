// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package escrow - sale records and the assets held for them
//
// a listed asset is owned by the market's own account until the sale
// ends; every state change is written before the asset moves so a
// call made from inside the transfer finds the sale already final
package escrow

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/guard"
	"github.com/bitmark-inc/marketd/settings"
	"github.com/bitmark-inc/marketd/storage"
)

// Pools - storage used by the ledger
type Pools struct {
	Sales     storage.Handle
	SaleIndex storage.Handle
	Sequences storage.Handle
}

// Ledger - owner of all sale records
type Ledger struct {
	guard    *guard.Guard
	settings *settings.Settings
	assets   asset.Transfer
	identity *account.Account
	sales    storage.Handle
	index    storage.Handle
	sequence *counter.Sequence
	clock    func() time.Time
	log      *logger.L
}

// New - create a ledger acting as identity
func New(g *guard.Guard, st *settings.Settings, assets asset.Transfer, identity *account.Account, pools Pools, clock func() time.Time) *Ledger {
	if nil == clock {
		clock = time.Now
	}
	return &Ledger{
		guard:    g,
		settings: st,
		assets:   assets,
		identity: identity,
		sales:    pools.Sales,
		index:    pools.SaleIndex,
		sequence: counter.NewSequence(pools.Sequences, "sale"),
		clock:    clock,
		log:      logger.New("escrow"),
	}
}

// Identity - the account holding escrowed assets
func (l *Ledger) Identity() *account.Account {
	return l.identity
}

// List - escrow an asset and offer it for sale
func (l *Ledger) List(ctx context.Context, seller *account.Account, c asset.Collection, id asset.Identifier, price uint64, cur currency.Currency) (uint64, error) {
	saleId := uint64(0)
	err := l.guard.Run(ctx, func(ctx context.Context) error {
		if !l.settings.Trading() {
			return fault.ErrTradingDisabled
		}
		if !l.settings.SupportsCollection(c) || !l.settings.SupportsCurrency(cur) {
			return fault.ErrNotSupported
		}
		if err := id.Validate(); nil != err {
			return err
		}
		if seller.IsZero() {
			return fault.ErrInvalidAccount
		}
		current, err := l.current(c, id)
		if nil != err {
			return err
		}
		if nil != current && Listed == current.Status {
			return fault.ErrAlreadyListed
		}

		err = l.assets.TransferAsset(ctx, l.identity, c, seller, l.identity, id)
		if nil != err {
			l.log.Warnf("escrow pull failed: %s/%s  seller: %s  error: %s", c, id, seller, err)
			return err
		}

		r := &SaleRecord{
			Id:         l.sequence.Next(),
			AssetId:    id,
			Collection: c,
			Currency:   cur,
			Seller:     seller,
			ListedAt:   time.Unix(l.clock().Unix(), 0).UTC(),
			Price:      price,
			Status:     Listed,
		}
		l.put(r)
		l.index.PutN(asset.Key(c, id), r.Id)

		l.guard.Emit(ctx, event.Listed{
			SaleId:     r.Id,
			Collection: c,
			AssetId:    id,
			Seller:     seller,
			Price:      price,
			Currency:   cur,
			ListedAt:   r.ListedAt,
		})
		saleId = r.Id
		return nil
	})
	if nil != err {
		return 0, err
	}
	l.log.Infof("listed: sale: %d  asset: %s/%s  price: %d %s", saleId, c, id, price, cur)
	return saleId, nil
}

// Cancel - seller withdraws a listed asset
//
// allowed while trading is disabled so assets are never stuck
func (l *Ledger) Cancel(ctx context.Context, caller *account.Account, c asset.Collection, id asset.Identifier) error {
	saleId := uint64(0)
	err := l.guard.Run(ctx, func(ctx context.Context) error {
		r, err := l.current(c, id)
		if nil != err {
			return err
		}
		if nil == r {
			return fault.ErrSaleNotFound
		}
		if Listed != r.Status {
			return fault.ErrAlreadyFinal
		}
		if !caller.Equal(r.Seller) {
			return fault.ErrNotSeller
		}

		r.Status = Canceled
		l.put(r)

		err = l.assets.TransferAsset(ctx, l.identity, c, l.identity, r.Seller, id)
		if nil != err {
			l.log.Criticalf("escrow return failed: sale: %d  asset: %s/%s  error: %s", r.Id, c, id, err)
			return err
		}

		l.guard.Emit(ctx, event.Canceled{
			SaleId:     r.Id,
			Collection: c,
			AssetId:    id,
			Seller:     r.Seller,
		})
		saleId = r.Id
		return nil
	})
	if nil != err {
		return err
	}
	l.log.Infof("canceled: sale: %d  asset: %s/%s", saleId, c, id)
	return nil
}

// Record - most recent sale record of an asset
func (l *Ledger) Record(ctx context.Context, c asset.Collection, id asset.Identifier) (*SaleRecord, error) {
	var r *SaleRecord
	err := l.guard.View(ctx, func(ctx context.Context) error {
		var err error
		r, err = l.current(c, id)
		if nil != err {
			return err
		}
		if nil == r {
			return fault.ErrSaleNotFound
		}
		return nil
	})
	return r, err
}

// Price - price of the most recent sale record of an asset
func (l *Ledger) Price(ctx context.Context, c asset.Collection, id asset.Identifier) (uint64, error) {
	r, err := l.Record(ctx, c, id)
	if nil != err {
		return 0, err
	}
	return r.Price, nil
}

// Sale - a record by its sale id
func (l *Ledger) Sale(ctx context.Context, saleId uint64) (*SaleRecord, error) {
	var r *SaleRecord
	err := l.guard.View(ctx, func(ctx context.Context) error {
		var err error
		r, err = l.get(saleId)
		return err
	})
	return r, err
}

// Sales - every record in sale id order
func (l *Ledger) Sales(ctx context.Context) ([]*SaleRecord, error) {
	records := []*SaleRecord{}
	err := l.guard.View(ctx, func(ctx context.Context) error {
		var unpackErr error
		err := l.sales.Iterate(func(key []byte, value []byte) bool {
			r, err := unpackSaleRecord(value)
			if nil != err {
				unpackErr = err
				return false
			}
			records = append(records, r)
			return true
		})
		if nil != err {
			return err
		}
		return unpackErr
	})
	if nil != err {
		return nil, err
	}
	return records, nil
}

// Settle - mark a listed sale sold to buyer
//
// only valid inside an operation of the ledger's guard
func (l *Ledger) Settle(ctx context.Context, saleId uint64, buyer *account.Account) (*SaleRecord, error) {
	if !l.guard.Inside(ctx) {
		return nil, fault.ErrWriteOutsideTransaction
	}
	r, err := l.get(saleId)
	if nil != err {
		return nil, err
	}
	if Listed != r.Status {
		return nil, fault.ErrAlreadySettled
	}
	r.Status = Sold
	r.Buyer = buyer
	l.put(r)
	return r, nil
}

// Release - hand a settled asset to its buyer
func (l *Ledger) Release(ctx context.Context, r *SaleRecord) error {
	if !l.guard.Inside(ctx) {
		return fault.ErrWriteOutsideTransaction
	}
	if Sold != r.Status || r.Buyer.IsZero() {
		return fault.ErrAlreadySettled
	}
	return l.assets.TransferAsset(ctx, l.identity, r.Collection, l.identity, r.Buyer, r.AssetId)
}

// latest record for an asset, nil if never listed
func (l *Ledger) current(c asset.Collection, id asset.Identifier) (*SaleRecord, error) {
	saleId, ok := l.index.GetN(asset.Key(c, id))
	if !ok {
		return nil, nil
	}
	return l.get(saleId)
}

func (l *Ledger) get(saleId uint64) (*SaleRecord, error) {
	buffer := l.sales.Get(saleKey(saleId))
	if nil == buffer {
		return nil, fault.ErrSaleNotFound
	}
	return unpackSaleRecord(buffer)
}

func (l *Ledger) put(r *SaleRecord) {
	l.sales.Put(saleKey(r.Id), r.pack())
}
