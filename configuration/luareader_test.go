// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/configuration"
	"github.com/bitmark-inc/marketd/fault"
)

type quota struct {
	Category uint64 `gluamapper:"category"`
	Ceiling  uint64 `gluamapper:"ceiling"`
}

type sample struct {
	Chain  string   `gluamapper:"chain"`
	Rate   uint64   `gluamapper:"fee_rate"`
	Flag   bool     `gluamapper:"trading"`
	Names  []string `gluamapper:"collections"`
	Quotas []quota  `gluamapper:"quotas"`
	Nested struct {
		Listen []string `gluamapper:"listen"`
	} `gluamapper:"client_rpc"`
	Levels map[string]string `gluamapper:"levels"`
}

const script = `
local M = {}
M.chain = var.chain or "local"
M.fee_rate = 25
M.trading = true
M.collections = { "art", "music" }
M.quotas = {
    { category = 1, ceiling = 10 },
    { category = 6, ceiling = 2 },
}
M.client_rpc = { listen = { "127.0.0.1:2130" } }
M.levels = { rpc = "info", DEFAULT = "error" }
return M
`

func write(t *testing.T, content string) string {
	dir := t.TempDir()
	name := filepath.Join(dir, "marketd.conf")
	if err := os.WriteFile(name, []byte(content), 0600); nil != err {
		t.Fatalf("write error: %s", err)
	}
	return name
}

func TestParse(t *testing.T) {
	name := write(t, script)

	s := sample{}
	err := configuration.ParseConfigurationFile(name, &s, map[string]string{"chain": "testing"})
	assert.Nil(t, err)
	assert.Equal(t, "testing", s.Chain)
	assert.Equal(t, uint64(25), s.Rate)
	assert.True(t, s.Flag)
	assert.Equal(t, []string{"art", "music"}, s.Names)
	assert.Equal(t, []quota{{1, 10}, {6, 2}}, s.Quotas)
	assert.Equal(t, []string{"127.0.0.1:2130"}, s.Nested.Listen)
	assert.Equal(t, "error", s.Levels["DEFAULT"])

	s = sample{}
	err = configuration.ParseConfigurationFile(name, &s, nil)
	assert.Nil(t, err)
	assert.Equal(t, "local", s.Chain)
}

func TestParseErrors(t *testing.T) {
	name := write(t, script)

	s := sample{}
	assert.Equal(t, fault.ErrInvalidStructPointer, configuration.ParseConfigurationFile(name, s, nil))
	assert.Equal(t, fault.ErrInvalidStructPointer, configuration.ParseConfigurationFile(name, (*sample)(nil), nil))

	err := configuration.ParseConfigurationFile(write(t, "return 1"), &s, nil)
	assert.Equal(t, fault.ErrMissingParameters, err)

	err = configuration.ParseConfigurationFile(write(t, "this is not lua"), &s, nil)
	assert.NotNil(t, err)

	err = configuration.ParseConfigurationFile(filepath.Join(t.TempDir(), "absent.conf"), &s, nil)
	assert.NotNil(t, err)
}
