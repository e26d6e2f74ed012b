// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"reflect"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/fault"
)

// Pools - the set of pools in one store
//
// note all must be exported (i.e. initial capital) or Open will fail
type Pools struct {
	Sales           *PoolHandle `prefix:"S"`
	SaleIndex       *PoolHandle `prefix:"X"`
	Sequences       *PoolHandle `prefix:"C"`
	IssuanceNonces  *PoolHandle `prefix:"N"`
	AttributeNonces *PoolHandle `prefix:"M"`
	Quotas          *PoolHandle `prefix:"Q"`
	Entitlements    *PoolHandle `prefix:"E"`
	Attributes      *PoolHandle `prefix:"A"`
	AttributeOwners *PoolHandle `prefix:"O"`
	AttributeMinted *PoolHandle `prefix:"K"`
	Settings        *PoolHandle `prefix:"G"`
	Holdings        *PoolHandle `prefix:"H"`
	Balances        *PoolHandle `prefix:"B"`
	Approvals       *PoolHandle `prefix:"P"`
}

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentVersion = 0x100

// Store - an open database and its pools
type Store struct {
	db     *leveldb.DB
	access *dataAccess
	log    *logger.L

	Pool Pools
}

// Open - open or create the database in the named directory
func Open(name string, readOnly bool) (*Store, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}
	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, err
	}
	return setup(db, readOnly)
}

// OpenMemory - a store that lives only in memory
func OpenMemory() (*Store, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return setup(db, false)
}

func setup(db *leveldb.DB, readOnly bool) (*Store, error) {
	s := &Store{
		db:     db,
		access: newDataAccess(db),
		log:    logger.New("storage"),
	}

	ok := false
	defer func() {
		if !ok {
			db.Close()
		}
	}()

	version, err := getVersion(db)
	if nil != err {
		return nil, err
	}
	switch {
	case version > currentVersion:
		s.log.Criticalf("database version: %d > current version: %d", version, currentVersion)
		return nil, fault.ErrDatabaseVersion
	case 0 == version && !readOnly:
		// empty database so tag as current version
		err = putVersion(db, currentVersion)
		if nil != err {
			return nil, err
		}
	case version != currentVersion && readOnly:
		s.log.Criticalf("read only database version: %d  current version: %d", version, currentVersion)
		return nil, fault.ErrDatabaseVersion
	}

	poolType := reflect.TypeOf(s.Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&s.Pool).Elem()

	seen := make(map[byte]string)
	for i := 0; i < poolType.NumField(); i += 1 {
		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			s.log.Criticalf("pool: %s has invalid prefix: %q", fieldInfo.Name, prefixTag)
			return nil, fault.ErrInvalidStructPointer
		}
		prefix := prefixTag[0]
		if other, ok := seen[prefix]; ok {
			s.log.Criticalf("pool: %s reuses prefix of: %s", fieldInfo.Name, other)
			return nil, fault.ErrInvalidStructPointer
		}
		seen[prefix] = fieldInfo.Name

		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		p := &PoolHandle{
			prefix: prefix,
			limit:  limit,
			access: s.access,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}

	ok = true
	return s, nil
}

// Close - release the database, any open transaction is discarded
func (s *Store) Close() {
	s.access.Abort()
	s.db.Close()
}

// Begin - start staging writes
func (s *Store) Begin() error {
	return s.access.Begin()
}

// Commit - write all staged changes atomically
func (s *Store) Commit() error {
	return s.access.Commit()
}

// Abort - discard all staged changes
func (s *Store) Abort() {
	s.access.Abort()
}

// InTransaction - true between Begin and Commit/Abort
func (s *Store) InTransaction() bool {
	return s.access.InUse()
}

func getVersion(db *leveldb.DB) (int, error) {
	value, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}
	if 4 != len(value) {
		return 0, fault.ErrDatabaseVersion
	}
	return int(binary.BigEndian.Uint32(value)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	buffer := make([]byte, 4)
	binary.BigEndian.PutUint32(buffer, uint32(version))
	return db.Put(versionKey, buffer, nil)
}

// access modes for Open
const (
	ReadOnly  = true
	ReadWrite = false
)
