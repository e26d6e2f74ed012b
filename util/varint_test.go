// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/util"
)

var varint64Tests = []struct {
	value   uint64
	encoded []byte
}{
	{0, []byte{0x00}},
	{1, []byte{0x01}},
	{127, []byte{0x7f}},
	{128, []byte{0x80, 0x01}},
	{255, []byte{0xff, 0x01}},
	{16383, []byte{0xff, 0x7f}},
	{16384, []byte{0x80, 0x80, 0x01}},
	{0x7fffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}},
	{0x8000000000000000, []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80}},
	{0xffffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
}

func TestVarint64(t *testing.T) {
	for i, item := range varint64Tests {
		assert.Equal(t, item.encoded, util.ToVarint64(item.value), "%d: encode %x", i, item.value)

		value, n := util.FromVarint64(append(item.encoded, 0xff, 0x23))
		assert.Equal(t, item.value, value, "%d: decode", i)
		assert.Equal(t, len(item.encoded), n, "%d: length", i)
	}
}

func TestVarint64Truncated(t *testing.T) {
	for i, b := range [][]byte{{}, {0x80}, {0xff, 0xff}, {0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}} {
		value, n := util.FromVarint64(b)
		assert.Equal(t, uint64(0), value, "%d: value", i)
		assert.Equal(t, 0, n, "%d: count", i)
	}
}

func TestPackUnpack(t *testing.T) {
	p := util.NewPacked(7).
		AppendString("label").
		AppendUint64(300).
		AppendBytes([]byte{1, 2, 3}).
		AppendBool(true)

	u := util.NewUnpacker(p)
	assert.Equal(t, uint64(7), u.Uint64())
	assert.Equal(t, "label", u.String())
	assert.Equal(t, uint64(300), u.Uint64())
	assert.Equal(t, []byte{1, 2, 3}, u.Bytes())
	assert.True(t, u.Bool())
	assert.Nil(t, u.Err())
	assert.Equal(t, 0, u.Remaining())

	// reading past the end sticks the error
	assert.Equal(t, uint64(0), u.Uint64())
	assert.Equal(t, util.ErrTruncated, u.Err())
}

func TestUnpackShortField(t *testing.T) {
	u := util.NewUnpacker([]byte{0x05, 'a', 'b'})
	assert.Nil(t, u.Bytes())
	assert.Equal(t, util.ErrTruncated, u.Err())
}
