// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/rpc/envelope"
)

// ErrMissingKey - a mutating call was made without a signing key
var ErrMissingKey = fault.InvalidError("private key is required to sign this request")

// Client - to hold RPC connections streams
type Client struct {
	conn    net.Conn
	client  *rpc.Client
	key     *account.PrivateKey
	verbose bool
	handle  io.Writer // if verbose is set output items here
}

// NewClient - create a RPC connection to a marketd
//
// key may be nil for read-only use
func NewClient(connect string, key *account.PrivateKey, verbose bool, handle io.Writer) (*Client, error) {

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}

	conn, err := tls.Dial("tcp", connect, tlsConfig)
	if nil != err {
		return nil, err
	}

	r := &Client{
		conn:    conn,
		client:  jsonrpc.NewClient(conn),
		key:     key,
		verbose: verbose,
		handle:  handle,
	}
	return r, nil
}

// Close - shutdown the marketd connection
func (client *Client) Close() {
	client.client.Close()
	client.conn.Close()
}

func (client *Client) call(method string, arguments interface{}, reply interface{}) error {

	client.printJson(method+" Request", arguments)

	err := client.client.Call(method, arguments, reply)
	if nil != err {
		return err
	}

	client.printJson(method+" Reply", reply)
	return nil
}

// sign the envelope with the current time then send
func (client *Client) sealed(method string, arguments envelope.Sealer, reply interface{}) error {
	if nil == client.key {
		return ErrMissingKey
	}
	err := envelope.Seal(arguments, client.key, time.Now())
	if nil != err {
		return err
	}
	return client.call(method, arguments, reply)
}

func (client *Client) printJson(title string, message interface{}) error {

	if !client.verbose {
		return nil
	}

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(client.handle, "%s:\n%s\n", title, b)
	return nil
}
