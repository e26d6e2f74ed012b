// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package guard - serialise operations on the shared store
//
// every mutating operation runs inside Run, which holds the write
// lock and one storage transaction for the whole operation, external
// transfer calls included; the context handed to the operation is
// marked so that code reached through a transfer port can tell it is
// running inside the operation
//
// the lock is not reentrant: a port that calls back into the market
// must pass on the context it was given, a fresh context waits for
// the operation that is waiting on it; such a wait only ends if the
// fresh context carries a deadline or is cancelled
//
// events emitted during an operation, and OnCommit actions, are held
// back until it commits
package guard

import (
	"context"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
)

// Store - transaction control of the underlying database
type Store interface {
	Begin() error
	Commit() error
	Abort()
}

// Guard - the single operation scope
type Guard struct {
	sync.RWMutex
	store Store
	sink  event.Sink
	log   *logger.L
}

// interval between lock attempts for a cancellable context
const lockPoll = 5 * time.Millisecond

type scopeKey struct{}

type scope struct {
	guard     *Guard
	writable  bool
	pending   *[]event.Event
	committed *[]func()
}

// New - create a guard over a store, committed events go to sink
func New(store Store, sink event.Sink) *Guard {
	if nil == sink {
		sink = event.Discard{}
	}
	return &Guard{
		store: store,
		sink:  sink,
		log:   logger.New("guard"),
	}
}

func (g *Guard) scopeOf(ctx context.Context) (scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(scope)
	if !ok || s.guard != g {
		return scope{}, false
	}
	return s, true
}

// Inside - true if ctx belongs to an operation of this guard
func (g *Guard) Inside(ctx context.Context) bool {
	_, ok := g.scopeOf(ctx)
	return ok
}

// Run - execute fn as one atomic operation
//
// the transaction commits only if fn returns nil; an error or a panic
// aborts it, so none of fn's writes survive; a ctx that is already
// inside this guard is rejected with ErrReentrantCall
func (g *Guard) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if g.Inside(ctx) {
		g.log.Warn("reentrant call rejected")
		return fault.ErrReentrantCall
	}
	if err := ctx.Err(); nil != err {
		return err
	}

	if err := acquire(ctx, g.TryLock, g.Lock); nil != err {
		g.log.Warnf("lock wait abandoned: %s", err)
		return err
	}
	defer g.Unlock()

	if err := g.store.Begin(); nil != err {
		return err
	}
	done := false
	defer func() {
		if !done {
			g.store.Abort()
		}
	}()

	pending := []event.Event{}
	committed := []func(){}
	err := fn(context.WithValue(ctx, scopeKey{}, scope{
		guard:     g,
		writable:  true,
		pending:   &pending,
		committed: &committed,
	}))
	if nil != err {
		return err
	}
	err = g.store.Commit()
	if nil != err {
		g.log.Criticalf("commit error: %s", err)
		return err
	}
	done = true

	for _, action := range committed {
		action()
	}
	for _, e := range pending {
		g.sink.Emit(e)
	}
	return nil
}

// Emit - queue an event on the operation that owns ctx
//
// outside an operation the event goes straight to the sink
func (g *Guard) Emit(ctx context.Context, e event.Event) {
	s, ok := g.scopeOf(ctx)
	if !ok || !s.writable {
		g.sink.Emit(e)
		return
	}
	*s.pending = append(*s.pending, e)
}

// OnCommit - run action once the operation that owns ctx commits
//
// actions run in order while the lock is still held; outside an
// operation the action runs at once
func (g *Guard) OnCommit(ctx context.Context, action func()) {
	s, ok := g.scopeOf(ctx)
	if !ok || !s.writable {
		action()
		return
	}
	*s.committed = append(*s.committed, action)
}

// Within - join the operation that owns ctx, or run as a new one
//
// a read-only scope cannot be upgraded
func (g *Guard) Within(ctx context.Context, fn func(ctx context.Context) error) error {
	s, ok := g.scopeOf(ctx)
	if !ok {
		return g.Run(ctx, fn)
	}
	if !s.writable {
		return fault.ErrReentrantCall
	}
	return fn(ctx)
}

// View - read under the guard
//
// inside an operation the read sees that operation's staged writes
func (g *Guard) View(ctx context.Context, fn func(ctx context.Context) error) error {
	if g.Inside(ctx) {
		return fn(ctx)
	}
	if err := acquire(ctx, g.TryRLock, g.RLock); nil != err {
		g.log.Warnf("read lock wait abandoned: %s", err)
		return err
	}
	defer g.RUnlock()
	return fn(context.WithValue(ctx, scopeKey{}, scope{guard: g, writable: false}))
}

// wait for a lock, giving up when ctx is done
func acquire(ctx context.Context, try func() bool, wait func()) error {
	done := ctx.Done()
	if nil == done {
		wait()
		return nil
	}
	if try() {
		return nil
	}
	ticker := time.NewTicker(lockPoll)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return ctx.Err()
		case <-ticker.C:
			if try() {
				return nil
			}
		}
	}
}
