// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/logger"
)

// Handle - access to a single pool
type Handle interface {
	Get([]byte) []byte
	GetN([]byte) (uint64, bool)
	Has([]byte) bool
	Put([]byte, []byte)
	PutN([]byte, uint64)
	Delete([]byte)
	Iterate(func(key []byte, value []byte) bool) error
}

// PoolHandle - a prefix within the database
type PoolHandle struct {
	prefix byte
	limit  []byte
	access *dataAccess
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Put - stage a key/value pair, panics outside a transaction
func (p *PoolHandle) Put(key []byte, value []byte) {
	err := p.access.Put(p.prefixKey(key), value)
	if nil != err {
		logger.Panicf("pool.Put: prefix: %c  key: %x  error: %s", p.prefix, key, err)
	}
}

// PutN - stage a big endian uint64 value
func (p *PoolHandle) PutN(key []byte, value uint64) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, value)
	p.Put(key, buffer)
}

// Delete - stage removal of a key, panics outside a transaction
func (p *PoolHandle) Delete(key []byte) {
	err := p.access.Delete(p.prefixKey(key))
	if nil != err {
		logger.Panicf("pool.Delete: prefix: %c  key: %x  error: %s", p.prefix, key, err)
	}
}

// Get - read a value, nil if not found
func (p *PoolHandle) Get(key []byte) []byte {
	value, err := p.access.Get(p.prefixKey(key))
	if nil != err {
		logger.Panicf("pool.Get: prefix: %c  key: %x  error: %s", p.prefix, key, err)
	}
	return value
}

// GetN - read a record and decode first 8 bytes as big endian uint64
//
// second parameter is false if record was not found
func (p *PoolHandle) GetN(key []byte) (uint64, bool) {
	buffer := p.Get(key)
	if nil == buffer {
		return 0, false
	}
	if len(buffer) < 8 {
		logger.Panicf("pool.GetN truncated record for: %x: %x", key, buffer)
	}
	return binary.BigEndian.Uint64(buffer[:8]), true
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) bool {
	return nil != p.Get(key)
}

// Iterate - visit committed records in key order until fn returns false
//
// keys are passed without the prefix; both slices are copies
func (p *PoolHandle) Iterate(fn func(key []byte, value []byte) bool) error {
	searchRange := ldb_util.Range{
		Start: []byte{p.prefix},
		Limit: p.limit,
	}
	iter := p.access.Iterator(&searchRange)
	defer iter.Release()

	for iter.Next() {
		key := make([]byte, len(iter.Key())-1)
		copy(key, iter.Key()[1:])
		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())
		if !fn(key, value) {
			break
		}
	}
	return iter.Error()
}
