// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter

import (
	"sync/atomic"
)

// Counter - connection slots held by the RPC front ends
type Counter uint64

// Acquire - take a slot unless maximum are already held
func (c *Counter) Acquire(maximum uint64) bool {
	if atomic.AddUint64((*uint64)(c), 1) <= maximum {
		return true
	}
	c.Release()
	return false
}

// Release - return a slot taken by Acquire
func (c *Counter) Release() {
	atomic.AddUint64((*uint64)(c), ^uint64(0))
}

// Uint64 - slots currently held
func (c *Counter) Uint64() uint64 {
	return atomic.LoadUint64((*uint64)(c))
}
