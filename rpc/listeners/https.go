// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"crypto/tls"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/fault"
)

const (
	httpsLogName     = "http_rpc"
	readWriteTimeout = 10 * time.Second
	keepAlivePeriod  = 3 * time.Minute
)

// HTTPSConfiguration - configuration file data for HTTPS setup
type HTTPSConfiguration struct {
	MaximumConnections uint64              `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string            `gluamapper:"listen" json:"listen"`
	Certificate        string              `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string              `gluamapper:"private_key" json:"private_key"`
	Allow              map[string][]string `gluamapper:"allow" json:"allow"`
}

type httpsListener struct {
	sync.Mutex

	log       *logger.L
	addresses []string
	tlsConfig *tls.Config
	mux       *http.ServeMux
	servers   []*http.Server
}

type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if nil != err {
		return nil, err
	}
	_ = tc.SetKeepAlive(true)
	_ = tc.SetKeepAlivePeriod(keepAlivePeriod)
	return tc, nil
}

// NewHTTPS - JSON-RPC over HTTPS POST plus the details and metrics pages
//
// returns a nil listener when no listen address is configured
func NewHTTPS(configuration *HTTPSConfiguration, log *logger.L, tlsConfig *tls.Config, h *Handler) (Listener, error) {
	if 0 == len(configuration.Listen) {
		log.Infof("disable: %s", httpsLogName)
		return nil, nil
	}

	if configuration.MaximumConnections < minConnectionCount {
		log.Errorf("invalid %s maximum connection limit: %d", httpsLogName, configuration.MaximumConnections)
		return nil, fault.ErrMissingParameters
	}

	_, addresses, err := parseListenAddress(configuration.Listen, log)
	if nil != err {
		return nil, err
	}

	// create access control to match http.Request.RemoteAddr
	allow := make(map[string][]*net.IPNet)
	for key, cidrs := range configuration.Allow {
		set := make([]*net.IPNet, len(cidrs))
		for i, cidr := range cidrs {
			_, n, err := net.ParseCIDR(strings.TrimSpace(cidr))
			if nil != err {
				return nil, err
			}
			set[i] = n
		}
		allow[key] = set
	}
	h.SetAllow(allow)

	mux := http.NewServeMux()
	mux.HandleFunc("/marketd/rpc", h.RPC)
	mux.HandleFunc("/marketd/details", h.Details)
	mux.HandleFunc("/marketd/metrics", h.Metrics)
	mux.HandleFunc("/", h.Root)

	tlsConfig = tlsConfig.Clone()
	tlsConfig.NextProtos = []string{"http/1.1"}

	return &httpsListener{
		log:       log,
		addresses: addresses,
		tlsConfig: tlsConfig,
		mux:       mux,
	}, nil
}

// Serve - bind every address then serve in the background
func (l *httpsListener) Serve() error {
	l.Lock()
	defer l.Unlock()

	for _, listen := range l.addresses {
		l.log.Infof("starting server: %s on: %q", httpsLogName, listen)

		ln, err := net.Listen("tcp", listen)
		if nil != err {
			l.log.Errorf("%s listen error: %s", httpsLogName, err)
			return err
		}
		s := &http.Server{
			Handler:        l.mux,
			ReadTimeout:    readWriteTimeout,
			WriteTimeout:   readWriteTimeout,
			MaxHeaderBytes: 1 << 20,
		}
		l.servers = append(l.servers, s)

		tlsListener := tls.NewListener(tcpKeepAliveListener{ln.(*net.TCPListener)}, l.tlsConfig)
		go func() {
			if err := s.Serve(tlsListener); nil != err && http.ErrServerClosed != err {
				l.log.Errorf("%s serve error: %s", httpsLogName, err)
			}
		}()
	}
	return nil
}

// Close - stop all servers
func (l *httpsListener) Close() error {
	l.Lock()
	defer l.Unlock()

	for _, s := range l.servers {
		_ = s.Close()
	}
	l.servers = nil
	return nil
}
