// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/rpc"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/metrics"
	"github.com/bitmark-inc/marketd/rpc/fixtures"
	"github.com/bitmark-inc/marketd/rpc/listeners"
)

type eResp struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

type jResp struct {
	ID     int         `json:"id"`
	Result int         `json:"result"`
	Error  interface{} `json:"error"`
}

type jReq struct {
	ID     int      `json:"id"`
	Method string   `json:"method"`
	Params []AddArg `json:"params"`
}

type Add struct{}

type AddArg struct {
	A int `json:"A"`
	B int `json:"B"`
}

func (a Add) Add(arg *AddArg, reply *int) error {
	*reply = arg.A + arg.B
	return nil
}

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func newHandler(t *testing.T, maximumConnections uint64) *listeners.Handler {
	s := rpc.NewServer()
	if err := s.Register(Add{}); nil != err {
		t.Fatalf("register error: %s", err)
	}
	return listeners.NewHandler(
		logger.New(fixtures.LogCategory),
		s,
		time.Now(),
		"1.0",
		maximumConnections,
		func() interface{} { return map[string]string{"chain": "local"} },
		metrics.New(nil).Handler(),
	)
}

func post(h *listeners.Handler, body interface{}) *http.Response {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "http://market.test/marketd/rpc", bytes.NewReader(data))
	w := httptest.NewRecorder()
	h.RPC(w, req)
	return w.Result()
}

func TestRoot(t *testing.T) {
	h := newHandler(t, 5)

	req := httptest.NewRequest(http.MethodGet, "http://not.found", nil)
	w := httptest.NewRecorder()
	h.Root(w, req)

	var j eResp
	_ = json.NewDecoder(w.Result().Body).Decode(&j)
	assert.Equal(t, "not found", j.Error, "wrong response")
	assert.Equal(t, http.StatusNotFound, j.Code, "wrong http code")
}

func TestRPC(t *testing.T) {
	h := newHandler(t, 5)

	add := AddArg{A: 1, B: 2}
	resp := post(h, jReq{ID: 5, Method: "Add.Add", Params: []AddArg{add}})

	var j jResp
	_ = json.NewDecoder(resp.Body).Decode(&j)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "wrong status code")
	assert.Equal(t, 5, j.ID, "wrong id")
	assert.Equal(t, add.A+add.B, j.Result, "wrong result")
	assert.Nil(t, j.Error, "wrong error")
}

func TestRPCUnknownMethod(t *testing.T) {
	h := newHandler(t, 5)

	resp := post(h, jReq{ID: 6, Method: "Add.Subtract", Params: []AddArg{{}}})

	var j jResp
	_ = json.NewDecoder(resp.Body).Decode(&j)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "wrong status code")
	assert.NotNil(t, j.Error, "missing error")
}

func TestRPCWhenWrongHTTPMethod(t *testing.T) {
	h := newHandler(t, 5)

	req := httptest.NewRequest(http.MethodGet, "http://not.exist", nil)
	w := httptest.NewRecorder()
	h.RPC(w, req)

	var j eResp
	_ = json.NewDecoder(w.Result().Body).Decode(&j)
	assert.Equal(t, http.StatusMethodNotAllowed, j.Code, "wrong code")
	assert.Equal(t, "method not allowed", j.Error, "wrong method")
}

func TestRPCWhenTooManyConnections(t *testing.T) {
	h := newHandler(t, 0)

	req := httptest.NewRequest(http.MethodPost, "http://not.exist", nil)
	w := httptest.NewRecorder()
	h.RPC(w, req)

	var j eResp
	_ = json.NewDecoder(w.Result().Body).Decode(&j)
	assert.Equal(t, "Too Many Requests", j.Error, "wrong error")
}

func TestRPCWhenServeError(t *testing.T) {
	h := newHandler(t, 5)

	req := httptest.NewRequest(http.MethodPost, "http://not.exist", bytes.NewReader(nil))
	w := httptest.NewRecorder()
	h.RPC(w, req)

	b, _ := io.ReadAll(w.Result().Body)
	assert.Contains(t, string(b), "internal server error", "wrong response")
}

func TestDetails(t *testing.T) {
	h := newHandler(t, 5)

	// httptest requests come from 192.0.2.1
	req := httptest.NewRequest(http.MethodGet, "http://market.test/marketd/details", nil)
	w := httptest.NewRecorder()
	h.Details(w, req)
	assert.Equal(t, http.StatusForbidden, w.Result().StatusCode, "wrong status")

	_, n, _ := net.ParseCIDR("192.0.2.0/24")
	h.SetAllow(map[string][]*net.IPNet{listeners.AllowDetails: {n}})

	w = httptest.NewRecorder()
	h.Details(w, req)
	assert.Equal(t, http.StatusOK, w.Result().StatusCode, "wrong status")

	var reply struct {
		Version string            `json:"version"`
		Details map[string]string `json:"details"`
	}
	_ = json.NewDecoder(w.Result().Body).Decode(&reply)
	assert.Equal(t, "1.0", reply.Version)
	assert.Equal(t, "local", reply.Details["chain"])
}

func TestMetrics(t *testing.T) {
	h := newHandler(t, 5)

	req := httptest.NewRequest(http.MethodGet, "http://market.test/marketd/metrics", nil)
	w := httptest.NewRecorder()
	h.Metrics(w, req)
	assert.Equal(t, http.StatusForbidden, w.Result().StatusCode, "wrong status")

	_, n, _ := net.ParseCIDR("192.0.2.1/32")
	h.SetAllow(map[string][]*net.IPNet{listeners.AllowMetrics: {n}})

	w = httptest.NewRecorder()
	h.Metrics(w, req)
	assert.Equal(t, http.StatusOK, w.Result().StatusCode, "wrong status")
}
