// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package nonce - per-principal replay counters
package nonce

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/storage"
)

// Registry - counters for one authorisation domain
//
// a counter starts at zero and only ever goes up by one
type Registry struct {
	pool storage.Handle
}

// NewRegistry - counters held in pool
func NewRegistry(pool storage.Handle) *Registry {
	return &Registry{
		pool: pool,
	}
}

// Get - current counter for a principal
func (r *Registry) Get(principal *account.Account) uint64 {
	n, _ := r.pool.GetN(principal.Bytes())
	return n
}

// Increment - advance the counter and return the new value
//
// only the authorisation package calls this
func (r *Registry) Increment(principal *account.Account) uint64 {
	key := principal.Bytes()
	n, _ := r.pool.GetN(key)
	n += 1
	r.pool.PutN(key, n)
	return n
}
