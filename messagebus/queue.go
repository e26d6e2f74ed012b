// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/event"
)

// default number of queued messages
const QueueSize = 1000

// Message - an event and the name it is published under
type Message struct {
	Command string
	Item    event.Event
}

// Queue - bounded queue of messages
type Queue struct {
	c       chan Message
	dropped counter.Counter
	log     *logger.L
}

// New - create a queue holding up to size messages
func New(size int) *Queue {
	if size <= 0 {
		size = QueueSize
	}
	return &Queue{
		c:   make(chan Message, size),
		log: logger.New("messagebus"),
	}
}

// Emit - queue an event, dropping it if the queue is full so a stalled
// consumer never blocks an operation
func (queue *Queue) Emit(e event.Event) {
	select {
	case queue.c <- Message{Command: e.Name(), Item: e}:
	default:
		n := queue.dropped.Increment()
		queue.log.Warnf("queue full, dropped: %s  total dropped: %d", e.Name(), n)
	}
}

// Chan - channel to read from
func (queue *Queue) Chan() <-chan Message {
	return queue.c
}

// Dropped - count of events lost to a full queue
func (queue *Queue) Dropped() uint64 {
	return queue.dropped.Uint64()
}
