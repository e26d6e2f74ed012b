// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package asset

import (
	"encoding/binary"
	"strconv"

	"github.com/bitmark-inc/marketd/fault"
)

const maximumCollectionLength = 64

// Collection - name of an asset collection
type Collection string

// Validate - non-empty printable name
func (c Collection) Validate() error {
	if 0 == len(c) || len(c) > maximumCollectionLength {
		return fault.ErrInvalidCollection
	}
	for _, r := range c {
		if r <= ' ' || 0x7f == r {
			return fault.ErrInvalidCollection
		}
	}
	return nil
}

func (c Collection) String() string {
	return string(c)
}

// Identifier - an asset within a collection, zero is never valid
type Identifier uint64

// Validate - reject zero
func (id Identifier) Validate() error {
	if 0 == id {
		return fault.ErrInvalidAsset
	}
	return nil
}

func (id Identifier) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Key - storage key for a (collection, asset) pair
//
// fixed width identifier after the name keeps one collection's keys
// together and ordered by identifier
func Key(c Collection, id Identifier) []byte {
	key := make([]byte, 0, len(c)+9)
	key = append(key, c...)
	key = append(key, 0x00)
	return binary.BigEndian.AppendUint64(key, uint64(id))
}
