// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ratelimit

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/marketd/fault"
)

// Limit - wait for a single request token
func Limit(limiter *rate.Limiter) error {
	return reserve(limiter, 1)
}

// LimitN - a paged request costs one token per record asked for
//
// counts outside 1..maximumCount are charged as one request and refused
func LimitN(limiter *rate.Limiter, count int, maximumCount int) error {
	if count < 1 || count > maximumCount {
		if err := reserve(limiter, 1); nil != err {
			return err
		}
		return fault.ErrInvalidCount
	}
	return reserve(limiter, count)
}

func reserve(limiter *rate.Limiter, n int) error {
	r := limiter.ReserveN(time.Now(), n)
	if !r.OK() {
		return fault.ErrRateLimiting
	}
	time.Sleep(r.Delay())
	return nil
}
