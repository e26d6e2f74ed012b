// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sale

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/escrow"
	"github.com/bitmark-inc/marketd/metrics"
	"github.com/bitmark-inc/marketd/rpc/envelope"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
	"github.com/bitmark-inc/marketd/settlement"
)

const (
	rateLimitSale = 200
	rateBurstSale = 100
)

// limit for All
const maximumSaleList = 1000

// Sale - type for RPC calls
type Sale struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	Ledger   *escrow.Ledger
	Engine   *settlement.Engine
	Verifier *envelope.Verifier
	Metrics  *metrics.Metrics
}

// New - create the Sale service
func New(log *logger.L, ledger *escrow.Ledger, engine *settlement.Engine, verifier *envelope.Verifier, m *metrics.Metrics) *Sale {
	return &Sale{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitSale, rateBurstSale),
		Ledger:   ledger,
		Engine:   engine,
		Verifier: verifier,
		Metrics:  m,
	}
}

// ---

// ListArguments - escrow an asset for sale, the caller is the seller
type ListArguments struct {
	envelope.Envelope
	Collection asset.Collection  `json:"collection"`
	AssetId    asset.Identifier  `json:"assetId,string"`
	Price      uint64            `json:"price,string"`
	Currency   currency.Currency `json:"currency"`
}

// ListReply - the new sale
type ListReply struct {
	SaleId uint64 `json:"saleId,string"`
}

// List - escrow and list an asset
func (s *Sale) List(arguments *ListArguments, reply *ListReply) (err error) {
	defer s.Metrics.Track("Sale.List", time.Now(), &err)

	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	seller, err := s.Verifier.Open(arguments)
	if nil != err {
		return err
	}

	s.Log.Infof("list: %s/%s  seller: %s  price: %d %s", arguments.Collection, arguments.AssetId, seller, arguments.Price, arguments.Currency)

	reply.SaleId, err = s.Ledger.List(context.Background(), seller, arguments.Collection, arguments.AssetId, arguments.Price, arguments.Currency)
	return err
}

// ---

// CancelArguments - withdraw a listing, the caller must be its seller
type CancelArguments struct {
	envelope.Envelope
	Collection asset.Collection `json:"collection"`
	AssetId    asset.Identifier `json:"assetId,string"`
}

// CancelReply - empty reply
type CancelReply struct{}

// Cancel - cancel a listing and return the asset
func (s *Sale) Cancel(arguments *CancelArguments, reply *CancelReply) (err error) {
	defer s.Metrics.Track("Sale.Cancel", time.Now(), &err)

	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	caller, err := s.Verifier.Open(arguments)
	if nil != err {
		return err
	}

	s.Log.Infof("cancel: %s/%s  caller: %s", arguments.Collection, arguments.AssetId, caller)

	return s.Ledger.Cancel(context.Background(), caller, arguments.Collection, arguments.AssetId)
}

// ---

// PurchaseArguments - buy a listed asset, the caller is the buyer
//
// Payment is the native value attached and must be zero for token sales
type PurchaseArguments struct {
	envelope.Envelope
	Collection    asset.Collection  `json:"collection"`
	AssetId       asset.Identifier  `json:"assetId,string"`
	Currency      currency.Currency `json:"currency"`
	ExpectedPrice uint64            `json:"expectedPrice,string"`
	Payment       uint64            `json:"payment,string"`
}

// PurchaseReply - what moved
type PurchaseReply struct {
	settlement.Receipt
}

// Purchase - settle a sale
func (s *Sale) Purchase(arguments *PurchaseArguments, reply *PurchaseReply) (err error) {
	defer s.Metrics.Track("Sale.Purchase", time.Now(), &err)

	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	buyer, err := s.Verifier.Open(arguments)
	if nil != err {
		return err
	}

	s.Log.Infof("purchase: %s/%s  buyer: %s", arguments.Collection, arguments.AssetId, buyer)

	receipt, err := s.Engine.Purchase(
		context.Background(),
		buyer,
		arguments.Collection,
		arguments.AssetId,
		arguments.Currency,
		arguments.ExpectedPrice,
		arguments.Payment,
	)
	if nil != err {
		return err
	}
	reply.Receipt = *receipt
	return nil
}

// ---

// GetArguments - identify an asset
type GetArguments struct {
	Collection asset.Collection `json:"collection"`
	AssetId    asset.Identifier `json:"assetId,string"`
}

// GetReply - the most recent sale of the asset
type GetReply struct {
	Sale *escrow.SaleRecord `json:"sale"`
}

// Get - current sale record of an asset
func (s *Sale) Get(arguments *GetArguments, reply *GetReply) (err error) {
	defer s.Metrics.Track("Sale.Get", time.Now(), &err)

	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	reply.Sale, err = s.Ledger.Record(context.Background(), arguments.Collection, arguments.AssetId)
	return err
}

// PriceReply - price of a listed asset
type PriceReply struct {
	Price uint64 `json:"price,string"`
}

// Price - price of a listed asset
func (s *Sale) Price(arguments *GetArguments, reply *PriceReply) (err error) {
	defer s.Metrics.Track("Sale.Price", time.Now(), &err)

	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	reply.Price, err = s.Ledger.Price(context.Background(), arguments.Collection, arguments.AssetId)
	return err
}

// ---

// AllArguments - page through sales in id order
type AllArguments struct {
	Start uint64 `json:"start,string"`
	Count int    `json:"count"`
}

// AllReply - a page of sales
type AllReply struct {
	Sales     []*escrow.SaleRecord `json:"sales"`
	NextStart uint64               `json:"nextStart,string"`
}

// All - every sale ever made, for audit
func (s *Sale) All(arguments *AllArguments, reply *AllReply) (err error) {
	defer s.Metrics.Track("Sale.All", time.Now(), &err)

	if err := ratelimit.LimitN(s.Limiter, arguments.Count, maximumSaleList); nil != err {
		return err
	}

	sales, err := s.Ledger.Sales(context.Background())
	if nil != err {
		return err
	}

	reply.Sales = make([]*escrow.SaleRecord, 0, arguments.Count)
	reply.NextStart = arguments.Start
	for _, r := range sales {
		if r.Id < arguments.Start {
			continue
		}
		if len(reply.Sales) >= arguments.Count {
			break
		}
		reply.Sales = append(reply.Sales, r)
		reply.NextStart = r.Id + 1
	}
	return nil
}
