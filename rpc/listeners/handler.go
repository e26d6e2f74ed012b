// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/counter"
)

// access control keys for SetAllow
const (
	AllowDetails = "details"
	AllowMetrics = "metrics"
)

const maximumRequestSize = 1 << 20

// Handler - HTTP endpoints of the HTTPS listener
type Handler struct {
	sync.RWMutex

	log                *logger.L
	server             *rpc.Server
	start              time.Time
	version            string
	maximumConnections uint64
	count              counter.Counter
	allow              map[string][]*net.IPNet
	details            func() interface{}
	metrics            http.Handler
}

type errorReply struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

type detailsReply struct {
	Version string      `json:"version"`
	Uptime  string      `json:"uptime"`
	Details interface{} `json:"details,omitempty"`
}

// a request body and a response buffer as one connection
type httpConn struct {
	in  io.Reader
	out io.Writer
}

func (c *httpConn) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c *httpConn) Write(p []byte) (int, error) { return c.out.Write(p) }
func (c *httpConn) Close() error                { return nil }

// NewHandler - create the handler, details and metrics may be nil
func NewHandler(log *logger.L, server *rpc.Server, start time.Time, version string, maximumConnections uint64, details func() interface{}, metrics http.Handler) *Handler {
	return &Handler{
		log:                log,
		server:             server,
		start:              start,
		version:            version,
		maximumConnections: maximumConnections,
		allow:              make(map[string][]*net.IPNet),
		details:            details,
		metrics:            metrics,
	}
}

// SetAllow - networks allowed to reach each restricted endpoint
func (h *Handler) SetAllow(allow map[string][]*net.IPNet) {
	h.Lock()
	h.allow = allow
	h.Unlock()
}

// RPC - one JSON-RPC call per POST
func (h *Handler) RPC(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !h.count.Acquire(h.maximumConnections) {
		sendError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
		return
	}
	defer h.count.Release()

	var out bytes.Buffer
	conn := &httpConn{
		in:  http.MaxBytesReader(w, r.Body, maximumRequestSize),
		out: &out,
	}
	err := h.server.ServeRequest(jsonrpc.NewServerCodec(conn))
	if nil != err && 0 == out.Len() {
		h.log.Warnf("rpc: remote: %s  error: %s", r.RemoteAddr, err)
		sendError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(out.Bytes())
}

// Details - version, uptime and the node summary
func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	if !h.allowed(AllowDetails, r) {
		sendError(w, http.StatusForbidden, "forbidden")
		return
	}

	reply := detailsReply{
		Version: h.version,
		Uptime:  time.Since(h.start).String(),
	}
	if nil != h.details {
		reply.Details = h.details()
	}
	sendJSON(w, http.StatusOK, reply)
}

// Metrics - prometheus exposition
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	if nil == h.metrics {
		sendError(w, http.StatusNotFound, "not found")
		return
	}
	if !h.allowed(AllowMetrics, r) {
		sendError(w, http.StatusForbidden, "forbidden")
		return
	}
	h.metrics.ServeHTTP(w, r)
}

// Root - everything else
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	sendError(w, http.StatusNotFound, "not found")
}

func (h *Handler) allowed(key string, r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if nil != err {
		return false
	}
	ip := net.ParseIP(host)
	if nil == ip {
		return false
	}

	h.RLock()
	defer h.RUnlock()
	for _, n := range h.allow[key] {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func sendError(w http.ResponseWriter, code int, message string) {
	sendJSON(w, code, errorReply{Code: code, Error: message})
}

func sendJSON(w http.ResponseWriter, code int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(value)
}
