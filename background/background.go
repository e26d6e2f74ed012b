// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background

// Process - a long running task, Run returns after shutdown closes
type Process interface {
	Run(shutdown <-chan struct{})
}

type handle struct {
	shutdown chan struct{}
	finished chan struct{}
}

// T - a running set of processes
type T struct {
	h []handle
}

// Start - run each process in its own goroutine
func Start(processes ...Process) *T {
	t := &T{
		h: make([]handle, len(processes)),
	}
	for i, p := range processes {
		shutdown := make(chan struct{})
		finished := make(chan struct{})
		t.h[i] = handle{shutdown: shutdown, finished: finished}
		go func(p Process) {
			defer close(finished)
			p.Run(shutdown)
		}(p)
	}
	return t
}

// Stop - signal every process then wait for all to finish
func (t *T) Stop() {
	for _, h := range t.h {
		close(h.shutdown)
	}
	for _, h := range t.h {
		<-h.finished
	}
}
