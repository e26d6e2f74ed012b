// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/marketd/fault"
)

// the batch and the cache of staged writes for one database
type dataAccess struct {
	sync.RWMutex
	db    *leveldb.DB
	batch *leveldb.Batch
	cache *stagedCache
	inUse bool
}

func newDataAccess(db *leveldb.DB) *dataAccess {
	return &dataAccess{
		db:    db,
		batch: new(leveldb.Batch),
		cache: newStagedCache(),
	}
}

func (d *dataAccess) Begin() error {
	d.Lock()
	defer d.Unlock()
	if d.inUse {
		return fault.ErrTransactionInUse
	}
	d.inUse = true
	d.batch.Reset()
	d.cache.Clear()
	return nil
}

func (d *dataAccess) Commit() error {
	d.Lock()
	defer d.Unlock()
	if !d.inUse {
		return fault.ErrWriteOutsideTransaction
	}
	err := d.db.Write(d.batch, nil)
	d.reset()
	return err
}

func (d *dataAccess) Abort() {
	d.Lock()
	d.reset()
	d.Unlock()
}

func (d *dataAccess) reset() {
	d.inUse = false
	d.batch.Reset()
	d.cache.Clear()
}

func (d *dataAccess) InUse() bool {
	d.RLock()
	defer d.RUnlock()
	return d.inUse
}

func (d *dataAccess) Put(key []byte, value []byte) error {
	d.Lock()
	defer d.Unlock()
	if !d.inUse {
		return fault.ErrWriteOutsideTransaction
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	d.batch.Put(key, stored)
	d.cache.Set(dbPut, key, stored)
	return nil
}

func (d *dataAccess) Delete(key []byte) error {
	d.Lock()
	defer d.Unlock()
	if !d.inUse {
		return fault.ErrWriteOutsideTransaction
	}
	d.batch.Delete(key)
	d.cache.Set(dbDelete, key, nil)
	return nil
}

// staged value first, then the database
func (d *dataAccess) Get(key []byte) ([]byte, error) {
	d.RLock()
	defer d.RUnlock()
	if d.inUse {
		if value, op, found := d.cache.Get(key); found {
			if dbDelete == op {
				return nil, nil
			}
			return value, nil
		}
	}
	value, err := d.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	return value, err
}

// committed data only
func (d *dataAccess) Iterator(searchRange *ldb_util.Range) iterator.Iterator {
	return d.db.NewIterator(searchRange, nil)
}
