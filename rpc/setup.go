// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc/certificate"
	"github.com/bitmark-inc/marketd/rpc/listeners"
	"github.com/bitmark-inc/marketd/rpc/server"
)

const (
	rpcName   = "client_rpc"
	httpsName = "https_rpc"
)

// globals
type rpcData struct {
	sync.RWMutex // to allow locking

	log *logger.L // logger

	count     counter.Counter
	listeners []listeners.Listener

	// set once during initialise
	initialised bool
}

// global data
var globalData rpcData

// Initialise - start the RPC and HTTPS listeners over the market
func Initialise(rpcConfiguration *listeners.RPCConfiguration, httpsConfiguration *listeners.HTTPSConfiguration, m *market.Market, parameters server.Parameters) error {
	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	log := logger.New("rpc")
	globalData.log = log
	log.Info("starting…")

	parameters.Count = &globalData.count
	s, n := server.Create(log, m, parameters)

	tlsConfig, fingerprint, err := certificate.Get(log, rpcName, rpcConfiguration.Certificate, rpcConfiguration.PrivateKey)
	if nil != err {
		return err
	}
	rpcListener, err := listeners.NewRPC(rpcConfiguration, log, &globalData.count, s, tlsConfig, fingerprint)
	if nil != err {
		return err
	}

	if 0 != len(httpsConfiguration.Listen) {
		httpsTLS, httpsFingerprint, err := certificate.Get(log, httpsName, httpsConfiguration.Certificate, httpsConfiguration.PrivateKey)
		if nil != err {
			return err
		}
		log.Infof("%s: SHA3-256 fingerprint: %x", httpsName, httpsFingerprint)

		details := func() interface{} { return n.Summary() }
		handler := listeners.NewHandler(log, s, n.Start, parameters.Version, httpsConfiguration.MaximumConnections, details, parameters.Metrics.Handler())
		httpsListener, err := listeners.NewHTTPS(httpsConfiguration, log, httpsTLS, handler)
		if nil != err {
			return err
		}
		globalData.listeners = append(globalData.listeners, httpsListener)
	}
	globalData.listeners = append(globalData.listeners, rpcListener)

	for _, l := range globalData.listeners {
		if err := l.Serve(); nil != err {
			stop()
			return err
		}
	}

	// all data initialised
	globalData.initialised = true
	return nil
}

// Finalise - stop all listeners
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	stop()

	// finally...
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return nil
}

// Connections - current number of raw RPC connections
func Connections() uint64 {
	return globalData.count.Uint64()
}

func stop() {
	for _, l := range globalData.listeners {
		_ = l.Close()
	}
	globalData.listeners = nil
}
