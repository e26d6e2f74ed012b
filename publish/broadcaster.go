// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/messagebus"
)

// zmq sockets satisfy this
type sender interface {
	SendMessage(parts ...interface{}) (int, error)
	Close() error
}

type clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// Envelope - the JSON frame sent for each event
type Envelope struct {
	Id        uuid.UUID   `json:"id"`
	Chain     string      `json:"chain"`
	Command   string      `json:"command"`
	Timestamp time.Time   `json:"timestamp"`
	Item      event.Event `json:"item"`
}

// Encode - the frame for one message
func Encode(chain string, m messagebus.Message, now time.Time) ([]byte, error) {
	return json.Marshal(Envelope{
		Id:        uuid.New(),
		Chain:     chain,
		Command:   m.Command,
		Timestamp: now,
		Item:      m.Item,
	})
}

// Run - broadcast until shutdown, then close the sockets
//
// each message is three frames: chain, command and the envelope
func (p *Publisher) Run(shutdown <-chan struct{}) {
	p.log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case m := <-p.queue:
			p.send(m)
		}
	}

	for _, s := range p.senders {
		s.Close()
	}
	p.log.Info("stopped")
}

func (p *Publisher) send(m messagebus.Message) {
	data, err := Encode(p.chain, m, p.clock())
	if nil != err {
		p.log.Errorf("encode: %s  error: %s", m.Command, err)
		return
	}
	for _, s := range p.senders {
		if _, err := s.SendMessage(p.chain, m.Command, data); nil != err {
			p.log.Errorf("send: %s  error: %s", m.Command, err)
		}
	}
	p.log.Debugf("sent: %s", m.Command)
}
