// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package attribute

import (
	"encoding/binary"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/util"
)

// Record - the attribute record of one principal
type Record struct {
	Id          uint64           `json:"id,string"`
	Owner       *account.Account `json:"owner"`
	Bundle      Bundle           `json:"bundle"`
	LinkedAsset uint64           `json:"linkedAsset,string"`
	Soulbound   bool             `json:"soulbound"`
}

const recordTag = 0x01

func recordKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

func (r *Record) pack() []byte {
	p := util.NewPacked(recordTag).
		AppendUint64(r.Id).
		AppendBytes(r.Owner.Bytes())
	return r.Bundle.appendTo(p).
		AppendUint64(r.LinkedAsset).
		AppendBool(r.Soulbound)
}

func unpackRecord(buffer []byte) (*Record, error) {
	u := util.NewUnpacker(buffer)
	if recordTag != u.Uint64() {
		return nil, fault.ErrCorruptRecord
	}
	id := u.Uint64()
	owner := u.Bytes()
	bundle := unpackBundle(u)
	linked := u.Uint64()
	soulbound := u.Bool()
	if nil != u.Err() {
		return nil, fault.ErrCorruptRecord
	}
	a, err := account.FromBytes(owner)
	if nil != err {
		return nil, err
	}
	return &Record{
		Id:          id,
		Owner:       a,
		Bundle:      bundle,
		LinkedAsset: linked,
		Soulbound:   soulbound,
	}, nil
}
