// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package listeners - TLS front ends for the RPC server
package listeners

import (
	"net"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/fault"
)

const minConnectionCount = 1

// Listener - a configured front end
type Listener interface {
	Serve() error
	Close() error
}

// expand "*:PORT" and work out the network of each address
func parseListenAddress(addrs []string, log *logger.L) ([]string, []string, error) {
	networks := make([]string, len(addrs))
	expanded := make([]string, len(addrs))
	for i, listen := range addrs {
		if 0 == len(listen) {
			return nil, nil, fault.ErrInvalidIPAddress
		}
		host := ""
		switch listen[0] {
		case '*':
			// on the assumption that this will listen on tcp4 and tcp6
			expanded[i] = "[::]:" + strings.Split(listen, ":")[1]
			host = "::"
			networks[i] = "tcp"
		case '[':
			expanded[i] = listen
			host = strings.Split(listen[1:], "]:")[0]
			networks[i] = "tcp6"
		default:
			expanded[i] = listen
			host = strings.Split(listen, ":")[0]
			networks[i] = "tcp4"
		}

		if ip := net.ParseIP(host); nil == ip {
			log.Errorf("listen: %q  error: %s", listen, fault.ErrInvalidIPAddress)
			return nil, nil, fault.ErrInvalidIPAddress
		}
	}
	return networks, expanded, nil
}
