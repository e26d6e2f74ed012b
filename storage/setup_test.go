// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/storage"
)

const (
	testingDirName = "testing"
)

func TestMain(m *testing.M) {
	_ = os.RemoveAll(testingDirName)
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	_ = logger.Initialise(logging)

	rc := m.Run()

	logger.Finalise()
	_ = os.RemoveAll(testingDirName)
	os.Exit(rc)
}

func openMemory(t *testing.T) *storage.Store {
	s, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory store error: %s", err)
	}
	return s
}

func TestCommit(t *testing.T) {
	s := openMemory(t)
	defer s.Close()

	pool := s.Pool.Sales

	assert.Nil(t, s.Begin(), "begin")
	assert.True(t, s.InTransaction())
	pool.Put([]byte("key-one"), []byte("data-one"))
	pool.PutN([]byte("key-two"), 42)

	// staged values are visible before commit
	assert.Equal(t, []byte("data-one"), pool.Get([]byte("key-one")))
	n, ok := pool.GetN([]byte("key-two"))
	assert.True(t, ok)
	assert.Equal(t, uint64(42), n)

	assert.Nil(t, s.Commit(), "commit")
	assert.False(t, s.InTransaction())

	assert.Equal(t, []byte("data-one"), pool.Get([]byte("key-one")))
	assert.True(t, pool.Has([]byte("key-two")))
	assert.False(t, s.Pool.SaleIndex.Has([]byte("key-one")), "pools are separate")
}

func TestAbort(t *testing.T) {
	s := openMemory(t)
	defer s.Close()

	pool := s.Pool.Quotas

	assert.Nil(t, s.Begin())
	pool.Put([]byte("kept"), []byte("v1"))
	assert.Nil(t, s.Commit())

	assert.Nil(t, s.Begin())
	pool.Put([]byte("dropped"), []byte("v2"))
	pool.Delete([]byte("kept"))
	assert.False(t, pool.Has([]byte("kept")), "staged delete hides committed value")
	s.Abort()

	assert.False(t, pool.Has([]byte("dropped")), "aborted write")
	assert.Equal(t, []byte("v1"), pool.Get([]byte("kept")), "aborted delete")
}

func TestBeginTwice(t *testing.T) {
	s := openMemory(t)
	defer s.Close()

	assert.Nil(t, s.Begin())
	assert.Equal(t, fault.ErrTransactionInUse, s.Begin())
	s.Abort()
	assert.Nil(t, s.Begin())
	s.Abort()
	assert.Equal(t, fault.ErrWriteOutsideTransaction, s.Commit())
}

func TestWriteOutsideTransaction(t *testing.T) {
	s := openMemory(t)
	defer s.Close()

	assert.Panics(t, func() {
		s.Pool.Balances.Put([]byte("k"), []byte("v"))
	})
	assert.Panics(t, func() {
		s.Pool.Balances.Delete([]byte("k"))
	})
}

func TestIterate(t *testing.T) {
	s := openMemory(t)
	defer s.Close()

	assert.Nil(t, s.Begin())
	for _, k := range []string{"c", "a", "b"} {
		s.Pool.Holdings.Put([]byte(k), []byte("value-"+k))
	}
	s.Pool.Approvals.Put([]byte("z"), []byte("other pool"))
	assert.Nil(t, s.Commit())

	keys := []string{}
	err := s.Pool.Holdings.Iterate(func(key []byte, value []byte) bool {
		keys = append(keys, string(key))
		assert.Equal(t, "value-"+string(key), string(value))
		return true
	})
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	count := 0
	err = s.Pool.Holdings.Iterate(func(key []byte, value []byte) bool {
		count += 1
		return false
	})
	assert.Nil(t, err)
	assert.Equal(t, 1, count, "early stop")
}

func TestReopen(t *testing.T) {
	name := filepath.Join(testingDirName, "reopen.leveldb")

	s, err := storage.Open(name, storage.ReadWrite)
	assert.Nil(t, err, "create")
	assert.Nil(t, s.Begin())
	s.Pool.Settings.Put([]byte("owner"), []byte("someone"))
	assert.Nil(t, s.Commit())
	s.Close()

	s, err = storage.Open(name, storage.ReadOnly)
	assert.Nil(t, err, "reopen")
	defer s.Close()
	assert.Equal(t, []byte("someone"), s.Pool.Settings.Get([]byte("owner")))
}
