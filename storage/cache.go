// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	cache "github.com/patrickmn/go-cache"
)

type dbOperation int

const (
	dbPut dbOperation = iota
	dbDelete
)

type cacheData struct {
	op    dbOperation
	value []byte
}

// writes staged by the open transaction, deletions included so a
// staged delete hides the committed value
type stagedCache struct {
	cache *cache.Cache
}

func newStagedCache() *stagedCache {
	return &stagedCache{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (c *stagedCache) Get(key []byte) ([]byte, dbOperation, bool) {
	obj, found := c.cache.Get(string(key))
	if !found {
		return nil, dbPut, false
	}
	data := obj.(cacheData)
	return data.value, data.op, true
}

func (c *stagedCache) Set(op dbOperation, key []byte, value []byte) {
	c.cache.Set(string(key), cacheData{op: op, value: value}, cache.NoExpiration)
}

func (c *stagedCache) Clear() {
	c.cache.Flush()
}
