// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter

import (
	"github.com/bitmark-inc/marketd/storage"
)

// Sequence - a persistent identifier source
//
// the first value returned is 1 so zero can mean "no identifier";
// Next writes to the pool so it must be called inside a transaction
// and an aborted transaction gives the value back
type Sequence struct {
	pool storage.Handle
	key  []byte
}

// NewSequence - a named sequence held in the pool
func NewSequence(pool storage.Handle, name string) *Sequence {
	return &Sequence{
		pool: pool,
		key:  []byte(name),
	}
}

// Next - allocate the next identifier
func (s *Sequence) Next() uint64 {
	n, _ := s.pool.GetN(s.key)
	n += 1
	s.pool.PutN(s.key, n)
	return n
}

// Last - most recently allocated identifier, zero if none
func (s *Sequence) Last() uint64 {
	n, _ := s.pool.GetN(s.key)
	return n
}
