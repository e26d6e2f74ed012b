// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners_test

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"net"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/rpc/certificate"
	"github.com/bitmark-inc/marketd/rpc/fixtures"
	"github.com/bitmark-inc/marketd/rpc/listeners"
)

func tlsConfig(t *testing.T) (*tls.Config, [32]byte) {
	cert, key, err := certificate.NewPair("test", []string{"127.0.0.1"})
	if nil != err {
		t.Fatalf("certificate error: %s", err)
	}
	c, fingerprint, err := certificate.Get(logger.New(fixtures.LogCategory), "test", cert, key)
	if nil != err {
		t.Fatalf("certificate error: %s", err)
	}
	return c, fingerprint
}

// a port that was free a moment ago
func freeAddress(t *testing.T) string {
	l, err := net.Listen("tcp4", "127.0.0.1:0")
	if nil != err {
		t.Fatalf("listen error: %s", err)
	}
	address := l.Addr().String()
	_ = l.Close()
	return address
}

func TestRPCListenerServe(t *testing.T) {
	address := freeAddress(t)
	configuration := listeners.RPCConfiguration{
		MaximumConnections: 5,
		Listen:             []string{address},
	}

	s := rpc.NewServer()
	assert.Nil(t, s.Register(Add{}))

	count := counter.Counter(0)
	c, fingerprint := tlsConfig(t)
	l, err := listeners.NewRPC(&configuration, logger.New(fixtures.LogCategory), &count, s, c, fingerprint)
	assert.Nil(t, err, "wrong NewRPC")
	assert.Nil(t, l.Serve(), "wrong Serve")
	defer l.Close()

	conn, err := tls.Dial("tcp", address, &tls.Config{InsecureSkipVerify: true})
	if nil != err {
		t.Fatalf("dial error: %s", err)
	}

	arg := AddArg{A: 2, B: 5}
	var reply int
	client := jsonrpc.NewClient(conn)
	defer client.Close()

	assert.Nil(t, client.Call("Add.Add", &arg, &reply), "wrong client Call")
	assert.Equal(t, arg.A+arg.B, reply, "wrong result")
	assert.Equal(t, uint64(1), count.Uint64(), "wrong connection count")
}

func TestNewRPCInvalid(t *testing.T) {
	s := rpc.NewServer()
	count := counter.Counter(0)
	c, fingerprint := tlsConfig(t)
	log := logger.New(fixtures.LogCategory)

	_, err := listeners.NewRPC(&listeners.RPCConfiguration{Listen: []string{"127.0.0.1:2150"}}, log, &count, s, c, fingerprint)
	assert.Equal(t, fault.ErrMissingParameters, err, "wrong maximum connections")

	_, err = listeners.NewRPC(&listeners.RPCConfiguration{MaximumConnections: 1}, log, &count, s, c, fingerprint)
	assert.Equal(t, fault.ErrMissingParameters, err, "wrong listen")

	_, err = listeners.NewRPC(&listeners.RPCConfiguration{MaximumConnections: 1, Listen: []string{"localhost:2150"}}, log, &count, s, c, fingerprint)
	assert.Equal(t, fault.ErrInvalidIPAddress, err, "wrong address")

	_, err = listeners.NewRPC(&listeners.RPCConfiguration{MaximumConnections: 1, Listen: []string{"*:2150", "[::1]:2150"}}, log, &count, s, c, fingerprint)
	assert.Nil(t, err, "wrong wildcard")
}

func TestHTTPSListener(t *testing.T) {
	log := logger.New(fixtures.LogCategory)
	c, _ := tlsConfig(t)

	s := rpc.NewServer()
	assert.Nil(t, s.Register(Add{}))
	h := listeners.NewHandler(log, s, time.Now(), "1.0", 5, nil, nil)

	l, err := listeners.NewHTTPS(&listeners.HTTPSConfiguration{}, log, c, h)
	assert.Nil(t, err, "wrong disabled")
	assert.Nil(t, l, "wrong disabled")

	_, err = listeners.NewHTTPS(&listeners.HTTPSConfiguration{
		MaximumConnections: 5,
		Listen:             []string{"127.0.0.1:2150"},
		Allow:              map[string][]string{"details": {"not-a-cidr"}},
	}, log, c, h)
	assert.NotNil(t, err, "wrong allow")

	address := freeAddress(t)
	l, err = listeners.NewHTTPS(&listeners.HTTPSConfiguration{
		MaximumConnections: 5,
		Listen:             []string{address},
		Allow:              map[string][]string{"details": {"127.0.0.1/32"}},
	}, log, c, h)
	assert.Nil(t, err, "wrong NewHTTPS")
	assert.Nil(t, l.Serve(), "wrong Serve")
	defer l.Close()

	client := &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}

	data, _ := json.Marshal(jReq{ID: 1, Method: "Add.Add", Params: []AddArg{{A: 3, B: 4}}})
	resp, err := client.Post("https://"+address+"/marketd/rpc", "application/json", bytes.NewReader(data))
	if nil != err {
		t.Fatalf("post error: %s", err)
	}
	defer resp.Body.Close()

	var j jResp
	_ = json.NewDecoder(resp.Body).Decode(&j)
	assert.Equal(t, 7, j.Result, "wrong result")

	details, err := client.Get("https://" + address + "/marketd/details")
	if nil != err {
		t.Fatalf("get error: %s", err)
	}
	defer details.Body.Close()
	assert.Equal(t, http.StatusOK, details.StatusCode, "wrong details status")
}
