// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
	"github.com/bitmark-inc/marketd/settings"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Node - type for RPC calls
type Node struct {
	Log       *logger.L
	Limiter   *rate.Limiter
	Start     time.Time
	Version   string
	Chain     string
	Identity  *account.Account
	Settings  *settings.Settings
	PublicKey string
	counter   *counter.Counter
	dropped   func() uint64
}

// New - create the Node service
//
// publicKey is the event publisher's key, empty when publishing is off
func New(log *logger.L, chain string, identity *account.Account, s *settings.Settings, start time.Time, version string, counter *counter.Counter, publicKey string, dropped func() uint64) *Node {
	return &Node{
		Log:       log,
		Limiter:   rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:     start,
		Version:   version,
		Chain:     chain,
		Identity:  identity,
		Settings:  s,
		PublicKey: publicKey,
		counter:   counter,
		dropped:   dropped,
	}
}

// ---

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Chain         string           `json:"chain"`
	Identity      *account.Account `json:"identity"`
	Trading       bool             `json:"trading"`
	RPCs          uint64           `json:"rpcs"`
	DroppedEvents uint64           `json:"droppedEvents"`
	Version       string           `json:"version"`
	Uptime        string           `json:"uptime"`
	PublicKey     string           `json:"publicKey"`
}

// Info - return some information about this node
// only enough for clients to determine node state
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {
	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}
	*reply = node.Summary()
	return nil
}

// Summary - the Info reply, also served on the details page
func (node *Node) Summary() InfoReply {
	reply := InfoReply{
		Chain:     node.Chain,
		Identity:  node.Identity,
		Trading:   node.Settings.Trading(),
		RPCs:      node.counter.Uint64(),
		Version:   node.Version,
		Uptime:    time.Since(node.Start).String(),
		PublicKey: node.PublicKey,
	}
	if nil != node.dropped {
		reply.DroppedEvents = node.dropped()
	}
	return reply
}
