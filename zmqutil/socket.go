// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"net"
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"
)

const (
	heartbeatInterval = 15 * time.Second
	heartbeatTimeout  = 60 * time.Second
	heartbeatTTL      = 120 * time.Second
)

var authentication struct {
	once sync.Once
	err  error
}

// StartAuthentication - start the ZAP handler used by CURVE servers
//
// only the first call does any work, later calls see its result
func StartAuthentication() error {
	authentication.once.Do(func() {
		zmq.AuthSetVerbose(false)
		authentication.err = zmq.AuthStart()
	})
	return authentication.err
}

// CanonicalAddress - zmq endpoint for host:port and whether it is IPv6
func CanonicalAddress(address string) (string, bool, error) {
	host, port, err := net.SplitHostPort(address)
	if nil != err {
		return "", false, err
	}
	if "*" == host {
		return "tcp://*:" + port, false, nil
	}
	ip := net.ParseIP(host)
	if nil == ip {
		return "", false, &net.AddrError{Err: "not an IP address", Addr: address}
	}
	if nil != ip.To4() {
		return "tcp://" + ip.String() + ":" + port, false, nil
	}
	return "tcp://[" + ip.String() + "]:" + port, true, nil
}

// NewBind - bind a list of addresses
//
// creates up to 2 sockets for separate IPv4 and IPv6 traffic
func NewBind(log *logger.L, socketType zmq.Type, zapDomain string, privateKey []byte, publicKey []byte, listen []string) (*zmq.Socket, *zmq.Socket, error) {
	socket4 := (*zmq.Socket)(nil)
	socket6 := (*zmq.Socket)(nil)

	fail := func(err error) (*zmq.Socket, *zmq.Socket, error) {
		if nil != socket4 {
			socket4.Close()
		}
		if nil != socket6 {
			socket6.Close()
		}
		return nil, nil, err
	}

	for i, address := range listen {
		bindTo, v6, err := CanonicalAddress(address)
		if nil != err {
			return fail(err)
		}

		socket := &socket4
		if v6 {
			socket = &socket6
		}
		if nil == *socket {
			*socket, err = NewServerSocket(socketType, zapDomain, privateKey, publicKey, v6)
			if nil != err {
				return fail(err)
			}
		}

		if err := (*socket).Bind(bindTo); nil != err {
			log.Errorf("cannot bind[%d]: %q  error: %s", i, bindTo, err)
			return fail(err)
		}
		log.Infof("bind[%d]: %q  IPv6: %t", i, bindTo, v6)
	}
	return socket4, socket6, nil
}

// NewServerSocket - create a CURVE server socket that any client may connect to
func NewServerSocket(socketType zmq.Type, zapDomain string, privateKey []byte, publicKey []byte, v6 bool) (*zmq.Socket, error) {
	socket, err := zmq.NewSocket(socketType)
	if nil != err {
		return nil, err
	}

	zmq.AuthCurveAdd(zapDomain, zmq.CURVE_ALLOW_ANY)

	settings := []error{
		socket.SetCurveServer(1),
		socket.SetCurveSecretkey(string(privateKey)),
		socket.SetZapDomain(zapDomain),
		socket.SetIdentity(string(publicKey)),
		socket.SetIpv6(v6),
		socket.SetHeartbeatIvl(heartbeatInterval),
		socket.SetHeartbeatTimeout(heartbeatTimeout),
		socket.SetHeartbeatTtl(heartbeatTTL),
	}
	for _, err := range settings {
		if nil != err {
			socket.Close()
			return nil, err
		}
	}
	return socket, nil
}
