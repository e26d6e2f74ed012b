// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate_test

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/rpc/certificate"
	"github.com/bitmark-inc/marketd/rpc/fixtures"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func TestGet(t *testing.T) {
	cer, key, err := certificate.NewPair("test", []string{"127.0.0.1"})
	assert.Nil(t, err)

	tlsConfig, fingerprint, err := certificate.Get(logger.New(fixtures.LogCategory), "test", cer, key)
	assert.Nil(t, err, "wrong Get")

	pair, _ := tls.X509KeyPair([]byte(cer), []byte(key))
	assert.Equal(t, sha3.Sum256(pair.Certificate[0]), fingerprint, "wrong fingerprint")
	assert.Equal(t, pair.Certificate, tlsConfig.Certificates[0].Certificate, "wrong config")

	_, _, err = certificate.Get(logger.New(fixtures.LogCategory), "test", cer, "junk")
	assert.NotNil(t, err)
}

func TestMakeSelfSigned(t *testing.T) {
	dir := t.TempDir()
	crt := filepath.Join(dir, "rpc.crt")
	key := filepath.Join(dir, "rpc.key")

	assert.Nil(t, certificate.MakeSelfSigned("test", crt, key, false, nil))
	assert.Equal(t, fault.ErrKeyFileAlreadyExists, certificate.MakeSelfSigned("test", crt, key, false, nil))

	_, err := tls.LoadX509KeyPair(crt, key)
	assert.Nil(t, err)
}
