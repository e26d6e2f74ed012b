// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"errors"
)

// limit on any single length prefixed field
const maximumFieldLength = 8192

// ErrTruncated - returned when a packed buffer ends early
var ErrTruncated = errors.New("packed data truncated")

// Packed - fields concatenated as Varint64 numbers or length
// prefixed byte strings
type Packed []byte

// NewPacked - start a buffer with a Varint64 tag
func NewPacked(tag uint64) Packed {
	return Packed(ToVarint64(tag))
}

// AppendUint64 - append a Varint64
func (p Packed) AppendUint64(value uint64) Packed {
	return append(p, ToVarint64(value)...)
}

// AppendBytes - append a byte string prefixed by Varint64(length)
func (p Packed) AppendBytes(data []byte) Packed {
	p = append(p, ToVarint64(uint64(len(data)))...)
	return append(p, data...)
}

// AppendString - append a string prefixed by Varint64(length)
func (p Packed) AppendString(s string) Packed {
	return p.AppendBytes([]byte(s))
}

// AppendBool - append a single 0/1 byte
func (p Packed) AppendBool(flag bool) Packed {
	if flag {
		return append(p, 1)
	}
	return append(p, 0)
}

// Unpacker - sequential reader over a packed buffer
//
// the first error sticks and all later reads return zero values
type Unpacker struct {
	buffer []byte
	err    error
}

// NewUnpacker - create a reader for a packed buffer
func NewUnpacker(buffer []byte) *Unpacker {
	return &Unpacker{buffer: buffer}
}

// Uint64 - read a Varint64
func (u *Unpacker) Uint64() uint64 {
	if nil != u.err {
		return 0
	}
	value, n := FromVarint64(u.buffer)
	if 0 == n {
		u.err = ErrTruncated
		return 0
	}
	u.buffer = u.buffer[n:]
	return value
}

// Bytes - read a length prefixed byte string, the result is a copy
func (u *Unpacker) Bytes() []byte {
	length := u.Uint64()
	if nil != u.err {
		return nil
	}
	if length > maximumFieldLength || length > uint64(len(u.buffer)) {
		u.err = ErrTruncated
		return nil
	}
	data := make([]byte, length)
	copy(data, u.buffer[:length])
	u.buffer = u.buffer[length:]
	return data
}

// String - read a length prefixed string
func (u *Unpacker) String() string {
	return string(u.Bytes())
}

// Bool - read a single 0/1 byte
func (u *Unpacker) Bool() bool {
	if nil != u.err {
		return false
	}
	if 0 == len(u.buffer) {
		u.err = ErrTruncated
		return false
	}
	flag := 0 != u.buffer[0]
	u.buffer = u.buffer[1:]
	return flag
}

// Err - first error encountered
func (u *Unpacker) Err() error {
	return u.err
}

// Remaining - count of unread bytes
func (u *Unpacker) Remaining() int {
	return len(u.buffer)
}
