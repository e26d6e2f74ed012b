// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/rpc"
)

const (
	statsDelay = 60 * time.Second
	mega       = 1048576
)

// memory and connection statistics, runs as a background process
type memstats struct {
	log     *logger.L
	dropped func() uint64
}

func (s *memstats) Run(shutdown <-chan struct{}) {
loop:
	for {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		a := m.Alloc / mega
		t := m.TotalAlloc / mega
		v := m.Sys / mega
		s.log.Infof("allocated: %d M  cumulative: %d M  OS virtual: %d M", a, t, v)
		s.log.Infof("rpc connections: %d  dropped events: %d", rpc.Connections(), s.dropped())

		select {
		case <-shutdown:
			break loop
		case <-time.After(statsDelay):
		}
	}
}
