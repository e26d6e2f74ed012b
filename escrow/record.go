// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package escrow

import (
	"encoding/binary"
	"time"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/util"
)

// Status - position of a sale in its life cycle
type Status uint8

// sale states, Listed moves to exactly one of the others and stops
const (
	Listed   Status = 1
	Sold     Status = 2
	Canceled Status = 3
)

func (s Status) String() string {
	switch s {
	case Listed:
		return "listed"
	case Sold:
		return "sold"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// IsFinal - Sold and Canceled never change again
func (s Status) IsFinal() bool {
	return Sold == s || Canceled == s
}

// MarshalText - status name for JSON
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SaleRecord - one listing of one asset, kept after it ends
type SaleRecord struct {
	Id         uint64            `json:"id,string"`
	AssetId    asset.Identifier  `json:"assetId,string"`
	Collection asset.Collection  `json:"collection"`
	Currency   currency.Currency `json:"currency"`
	Seller     *account.Account  `json:"seller"`
	Buyer      *account.Account  `json:"buyer,omitempty"`
	ListedAt   time.Time         `json:"listedAt"`
	Price      uint64            `json:"price,string"`
	Status     Status            `json:"status"`
}

// tag for packed sale records
const saleRecordTag = 0x01

func saleKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

func (r *SaleRecord) pack() []byte {
	buyer := []byte(nil)
	if nil != r.Buyer {
		buyer = r.Buyer.Bytes()
	}
	return util.NewPacked(saleRecordTag).
		AppendUint64(r.Id).
		AppendString(string(r.Collection)).
		AppendUint64(uint64(r.AssetId)).
		AppendString(string(r.Currency)).
		AppendBytes(r.Seller.Bytes()).
		AppendBytes(buyer).
		AppendUint64(uint64(r.ListedAt.Unix())).
		AppendUint64(r.Price).
		AppendUint64(uint64(r.Status))
}

func unpackSaleRecord(buffer []byte) (*SaleRecord, error) {
	u := util.NewUnpacker(buffer)
	if saleRecordTag != u.Uint64() {
		return nil, fault.ErrCorruptRecord
	}
	r := &SaleRecord{
		Id:         u.Uint64(),
		Collection: asset.Collection(u.String()),
		AssetId:    asset.Identifier(u.Uint64()),
		Currency:   currency.Currency(u.String()),
	}
	seller := u.Bytes()
	buyer := u.Bytes()
	r.ListedAt = time.Unix(int64(u.Uint64()), 0).UTC()
	r.Price = u.Uint64()
	r.Status = Status(u.Uint64())
	if nil != u.Err() {
		return nil, fault.ErrCorruptRecord
	}

	var err error
	r.Seller, err = account.FromBytes(seller)
	if nil != err {
		return nil, err
	}
	if 0 != len(buyer) {
		r.Buyer, err = account.FromBytes(buyer)
		if nil != err {
			return nil, err
		}
	}
	return r, nil
}
