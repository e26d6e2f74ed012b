// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package attribute

import (
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/util"
)

// bundle limits
const (
	MaximumValues      = 32
	MaximumLabelLength = 64
)

// payload tags keep mint and update authorisations distinct
const (
	mintPayloadTag   = 0x02
	updatePayloadTag = 0x03
)

// Bundle - ordered positive values and a label
type Bundle struct {
	Values []uint64 `json:"values"`
	Label  string   `json:"label"`
}

// Validate - 1..MaximumValues values all above zero, label present
func (b Bundle) Validate() error {
	if 0 == len(b.Values) || len(b.Values) > MaximumValues {
		return fault.ErrInvalidBundle
	}
	for _, v := range b.Values {
		if 0 == v {
			return fault.ErrInvalidBundle
		}
	}
	if 0 == len(b.Label) || len(b.Label) > MaximumLabelLength {
		return fault.ErrInvalidBundle
	}
	return nil
}

func (b Bundle) appendTo(p util.Packed) util.Packed {
	p = p.AppendUint64(uint64(len(b.Values)))
	for _, v := range b.Values {
		p = p.AppendUint64(v)
	}
	return p.AppendString(b.Label)
}

func unpackBundle(u *util.Unpacker) Bundle {
	n := u.Uint64()
	if n > MaximumValues {
		n = 0
	}
	values := make([]uint64, 0, n)
	for i := uint64(0); i < n; i += 1 {
		values = append(values, u.Uint64())
	}
	return Bundle{
		Values: values,
		Label:  u.String(),
	}
}

// MintPayload - the request bytes a mint authorises
func MintPayload(b Bundle) []byte {
	return b.appendTo(util.NewPacked(mintPayloadTag))
}

// UpdatePayload - the request bytes an update authorises
func UpdatePayload(recordId uint64, b Bundle, linkedAsset uint64) []byte {
	p := util.NewPacked(updatePayloadTag).AppendUint64(recordId)
	return b.appendTo(p).AppendUint64(linkedAsset)
}
