// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package event

import (
	"sync"
)

// Sink - destination for committed events
type Sink interface {
	Emit(Event)
}

// Discard - a sink that drops everything
type Discard struct{}

// Emit - drop the event
func (Discard) Emit(Event) {}

// Recorder - a sink that keeps events in order
type Recorder struct {
	sync.Mutex
	events []Event
}

// Emit - append the event
func (r *Recorder) Emit(e Event) {
	r.Lock()
	r.events = append(r.events, e)
	r.Unlock()
}

// Events - copy of everything recorded so far
func (r *Recorder) Events() []Event {
	r.Lock()
	defer r.Unlock()
	return append([]Event(nil), r.events...)
}

// Names - names of recorded events in order
func (r *Recorder) Names() []string {
	r.Lock()
	defer r.Unlock()
	names := make([]string, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.Name())
	}
	return names
}

// Reset - forget everything recorded
func (r *Recorder) Reset() {
	r.Lock()
	r.events = nil
	r.Unlock()
}
