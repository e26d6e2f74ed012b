// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/messagebus"
)

func TestMain(m *testing.M) {
	dir, _ := os.MkdirTemp("", "publish-test")
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

type recordingSender struct {
	sync.Mutex
	sent   [][]interface{}
	closed bool
	done   chan struct{}
}

func (r *recordingSender) SendMessage(parts ...interface{}) (int, error) {
	r.Lock()
	r.sent = append(r.sent, parts)
	r.Unlock()
	r.done <- struct{}{}
	return len(parts), nil
}

func (r *recordingSender) Close() error {
	r.Lock()
	r.closed = true
	r.Unlock()
	return nil
}

func TestEncode(t *testing.T) {
	now := time.Unix(1600000000, 0).UTC()
	data, err := Encode("local", messagebus.Message{
		Command: "tradingChanged",
		Item:    event.TradingChanged{Enabled: true},
	}, now)
	assert.Nil(t, err)

	var decoded struct {
		Id        string          `json:"id"`
		Chain     string          `json:"chain"`
		Command   string          `json:"command"`
		Timestamp time.Time       `json:"timestamp"`
		Item      json.RawMessage `json:"item"`
	}
	assert.Nil(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 36, len(decoded.Id))
	assert.Equal(t, "local", decoded.Chain)
	assert.Equal(t, "tradingChanged", decoded.Command)
	assert.True(t, now.Equal(decoded.Timestamp))
	assert.JSONEq(t, `{"enabled":true}`, string(decoded.Item))

	again, err := Encode("local", messagebus.Message{Command: "x", Item: event.TradingChanged{}}, now)
	assert.Nil(t, err)
	assert.NotEqual(t, data, again)
}

func TestRun(t *testing.T) {
	queue := messagebus.New(4)
	s := &recordingSender{done: make(chan struct{}, 4)}
	p := newPublisher(logger.New("publish"), "testing", queue.Chan(), []sender{s})

	shutdown := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		p.Run(shutdown)
		close(stopped)
	}()

	queue.Emit(event.BaseURIChanged{URI: "https://example.com/"})
	queue.Emit(event.TradingChanged{Enabled: false})
	<-s.done
	<-s.done

	close(shutdown)
	<-stopped

	s.Lock()
	defer s.Unlock()
	assert.True(t, s.closed)
	assert.Equal(t, 2, len(s.sent))
	assert.Equal(t, "testing", s.sent[0][0])
	assert.Equal(t, "baseURIChanged", s.sent[0][1])
	assert.Equal(t, "tradingChanged", s.sent[1][1])
}
