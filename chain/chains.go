// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

// names of all chains
const (
	Live    = "live"
	Testing = "testing"
	Local   = "local"
)

// numeric identifiers bound into signed authorisations so a signature
// made for one deployment is useless on another
var identifiers = map[string]uint64{
	Live:    1,
	Testing: 2,
	Local:   3,
}

// Valid - validate a chain name
func Valid(name string) bool {
	_, ok := identifiers[name]
	return ok
}

// Identifier - numeric chain id, zero for an unknown name
func Identifier(name string) uint64 {
	return identifiers[name]
}

// IsTesting - accounts on this chain use the test network flag
func IsTesting(name string) bool {
	return Live != name
}
