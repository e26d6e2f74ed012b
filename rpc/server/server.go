// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/metrics"
	"github.com/bitmark-inc/marketd/rpc/admin"
	"github.com/bitmark-inc/marketd/rpc/attributes"
	"github.com/bitmark-inc/marketd/rpc/entitlement"
	"github.com/bitmark-inc/marketd/rpc/envelope"
	"github.com/bitmark-inc/marketd/rpc/node"
	"github.com/bitmark-inc/marketd/rpc/sale"
	"github.com/bitmark-inc/marketd/rpc/wallet"
)

// Parameters - everything besides the market the services need
type Parameters struct {
	Version   string
	Skew      time.Duration
	Count     *counter.Counter
	PublicKey string
	Dropped   func() uint64
	Metrics   *metrics.Metrics
	Clock     func() time.Time
}

// Create - an RPC server with every market service registered
//
// the Holdings service exists only over the reference holdings
func Create(log *logger.L, m *market.Market, p Parameters) (*rpc.Server, *node.Node) {
	if 0 == p.Skew {
		p.Skew = envelope.DefaultSkew
	}
	if nil == p.Clock {
		p.Clock = time.Now
	}
	if nil == p.Count {
		p.Count = new(counter.Counter)
	}

	start := time.Now().UTC()
	verifier := envelope.NewVerifier(p.Skew, p.Clock)
	n := node.New(log, m.Chain, m.Identity, m.Settings, start, p.Version, p.Count, p.PublicKey, p.Dropped)

	server := rpc.NewServer()

	_ = server.Register(sale.New(log, m.Ledger, m.Engine, verifier, p.Metrics))
	_ = server.Register(entitlement.New(log, m.Issuance, verifier, p.Metrics))
	_ = server.Register(attributes.New(log, m.Attributes, verifier, p.Metrics))
	_ = server.Register(admin.New(log, m.Settings, verifier, p.Metrics))
	_ = server.Register(n)
	if nil != m.Holdings {
		_ = server.Register(wallet.New(log, m.Holdings, m.Settings, verifier, p.Metrics))
	}

	return server, n
}
