// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package guard_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/guard"
	"github.com/bitmark-inc/marketd/storage"
)

func TestMain(m *testing.M) {
	dir, _ := os.MkdirTemp("", "guard-test")
	_ = logger.Initialise(logger.Configuration{
		Directory: dir,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})
	rc := m.Run()
	logger.Finalise()
	_ = os.RemoveAll(dir)
	os.Exit(rc)
}

func setup(t *testing.T) (*storage.Store, *guard.Guard) {
	s, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory store error: %s", err)
	}
	return s, guard.New(s, nil)
}

var key = []byte("k")

func TestRunCommits(t *testing.T) {
	s, g := setup(t)
	defer s.Close()

	err := g.Run(context.Background(), func(ctx context.Context) error {
		assert.True(t, g.Inside(ctx))
		s.Pool.Quotas.PutN(key, 7)
		return nil
	})
	assert.Nil(t, err)
	n, ok := s.Pool.Quotas.GetN(key)
	assert.True(t, ok)
	assert.Equal(t, uint64(7), n)
	assert.False(t, s.InTransaction())
}

func TestRunAbortsOnError(t *testing.T) {
	s, g := setup(t)
	defer s.Close()

	failure := errors.New("failure")
	err := g.Run(context.Background(), func(ctx context.Context) error {
		s.Pool.Quotas.PutN(key, 7)
		return failure
	})
	assert.Equal(t, failure, err)
	assert.False(t, s.Pool.Quotas.Has(key))
	assert.False(t, s.InTransaction())
}

func TestRunAbortsOnPanic(t *testing.T) {
	s, g := setup(t)
	defer s.Close()

	assert.Panics(t, func() {
		_ = g.Run(context.Background(), func(ctx context.Context) error {
			s.Pool.Quotas.PutN(key, 7)
			panic("port exploded")
		})
	})
	assert.False(t, s.Pool.Quotas.Has(key))

	// lock was released
	err := g.Run(context.Background(), func(ctx context.Context) error { return nil })
	assert.Nil(t, err)
}

func TestReentrantRun(t *testing.T) {
	s, g := setup(t)
	defer s.Close()

	var inner error
	err := g.Run(context.Background(), func(ctx context.Context) error {
		inner = g.Run(ctx, func(context.Context) error {
			t.Error("nested operation must not run")
			return nil
		})
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, fault.ErrReentrantCall, inner)
}

func TestWithinJoins(t *testing.T) {
	s, g := setup(t)
	defer s.Close()

	failure := errors.New("failure")
	err := g.Run(context.Background(), func(ctx context.Context) error {
		err := g.Within(ctx, func(ctx context.Context) error {
			s.Pool.Quotas.PutN(key, 1)
			return nil
		})
		assert.Nil(t, err)
		return failure
	})
	assert.Equal(t, failure, err)
	assert.False(t, s.Pool.Quotas.Has(key), "joined write rolled back with the operation")

	// standalone Within has its own transaction
	err = g.Within(context.Background(), func(ctx context.Context) error {
		s.Pool.Quotas.PutN(key, 2)
		return nil
	})
	assert.Nil(t, err)
	assert.True(t, s.Pool.Quotas.Has(key))
}

func TestViewSeesStagedWrites(t *testing.T) {
	s, g := setup(t)
	defer s.Close()

	err := g.Run(context.Background(), func(ctx context.Context) error {
		s.Pool.Quotas.PutN(key, 3)
		return g.View(ctx, func(ctx context.Context) error {
			n, _ := s.Pool.Quotas.GetN(key)
			assert.Equal(t, uint64(3), n)
			return nil
		})
	})
	assert.Nil(t, err)
}

func TestViewCannotMutate(t *testing.T) {
	s, g := setup(t)
	defer s.Close()

	err := g.View(context.Background(), func(ctx context.Context) error {
		assert.Equal(t, fault.ErrReentrantCall, g.Run(ctx, func(context.Context) error { return nil }))
		return g.Within(ctx, func(context.Context) error { return nil })
	})
	assert.Equal(t, fault.ErrReentrantCall, err)
}

func TestCanceledContext(t *testing.T) {
	s, g := setup(t)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.Run(ctx, func(context.Context) error {
		t.Error("must not run")
		return nil
	})
	assert.Equal(t, context.Canceled, err)
}

func TestSerialised(t *testing.T) {
	s, g := setup(t)
	defer s.Close()

	const n = 20
	wg := sync.WaitGroup{}
	for i := 0; i < n; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := g.Run(context.Background(), func(ctx context.Context) error {
				v, _ := s.Pool.Quotas.GetN(key)
				s.Pool.Quotas.PutN(key, v+1)
				return nil
			})
			assert.Nil(t, err)
		}()
	}
	wg.Wait()
	v, _ := s.Pool.Quotas.GetN(key)
	assert.Equal(t, uint64(n), v)
}

func TestEventsHeldUntilCommit(t *testing.T) {
	s, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory store error: %s", err)
	}
	defer s.Close()

	recorder := &event.Recorder{}
	g := guard.New(s, recorder)

	err = g.Run(context.Background(), func(ctx context.Context) error {
		g.Emit(ctx, event.TradingChanged{Enabled: true})
		assert.Equal(t, 0, len(recorder.Events()), "not yet committed")
		return g.Within(ctx, func(ctx context.Context) error {
			g.Emit(ctx, event.BaseURIChanged{URI: "x"})
			return nil
		})
	})
	assert.Nil(t, err)
	assert.Equal(t, []string{"tradingChanged", "baseURIChanged"}, recorder.Names())

	recorder.Reset()
	failure := errors.New("failure")
	err = g.Run(context.Background(), func(ctx context.Context) error {
		g.Emit(ctx, event.TradingChanged{Enabled: false})
		return failure
	})
	assert.Equal(t, failure, err)
	assert.Equal(t, 0, len(recorder.Events()), "aborted operation emits nothing")
}

func TestFreshContextDoesNotJoin(t *testing.T) {
	s, g := setup(t)
	defer s.Close()

	var nested error
	var viewed error
	err := g.Run(context.Background(), func(ctx context.Context) error {
		s.Pool.Quotas.PutN(key, 3)

		fresh, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		nested = g.Run(fresh, func(context.Context) error { return nil })
		viewed = g.View(fresh, func(context.Context) error { return nil })

		// the operation's own context joins
		return g.View(ctx, func(context.Context) error {
			n, _ := s.Pool.Quotas.GetN(key)
			assert.Equal(t, uint64(3), n)
			return nil
		})
	})
	assert.Nil(t, err)
	assert.Equal(t, context.DeadlineExceeded, nested)
	assert.Equal(t, context.DeadlineExceeded, viewed)

	n, _ := s.Pool.Quotas.GetN(key)
	assert.Equal(t, uint64(3), n)
}

func TestCancelledWaitLeavesLockUsable(t *testing.T) {
	s, g := setup(t)
	defer s.Close()

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = g.Run(context.Background(), func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, context.Canceled, g.View(ctx, func(context.Context) error { return nil }))

	close(release)
	err := g.Run(context.Background(), func(ctx context.Context) error {
		s.Pool.Quotas.PutN(key, 1)
		return nil
	})
	assert.Nil(t, err)
}

func TestOnCommit(t *testing.T) {
	s, g := setup(t)
	defer s.Close()

	ran := []string{}
	failure := errors.New("failure")
	err := g.Run(context.Background(), func(ctx context.Context) error {
		g.OnCommit(ctx, func() { ran = append(ran, "aborted") })
		return failure
	})
	assert.Equal(t, failure, err)
	assert.Empty(t, ran)

	err = g.Run(context.Background(), func(ctx context.Context) error {
		g.OnCommit(ctx, func() { ran = append(ran, "first") })
		assert.Empty(t, ran, "held until commit")
		return g.Within(ctx, func(ctx context.Context) error {
			g.OnCommit(ctx, func() { ran = append(ran, "second") })
			return nil
		})
	})
	assert.Nil(t, err)
	assert.Equal(t, []string{"first", "second"}, ran)

	g.OnCommit(context.Background(), func() { ran = append(ran, "outside") })
	assert.Equal(t, []string{"first", "second", "outside"}, ran)
}
