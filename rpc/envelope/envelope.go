// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package envelope - caller authentication for mutating RPC requests
//
// the caller signs SHA3-256 of the JSON request with the signature
// field blank; the timestamp must be within the allowed skew and a
// signature is accepted only once
package envelope

import (
	"encoding/json"
	"time"

	cache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
)

// DefaultSkew - allowed distance between request and server clocks
const DefaultSkew = 5 * time.Minute

// Envelope - embed in an argument struct to make it signable
type Envelope struct {
	Caller    *account.Account  `json:"caller"`
	Timestamp int64             `json:"timestamp,string"`
	Signature account.Signature `json:"signature"`
}

// Sealed - access the embedded envelope
func (e *Envelope) Sealed() *Envelope {
	return e
}

// Sealer - any argument struct embedding an Envelope
type Sealer interface {
	Sealed() *Envelope
}

// Digest - SHA3-256 of the request with its signature blanked
func Digest(request Sealer) ([32]byte, error) {
	e := request.Sealed()
	signature := e.Signature
	e.Signature = nil
	data, err := json.Marshal(request)
	e.Signature = signature
	if nil != err {
		return [32]byte{}, err
	}
	return sha3.Sum256(data), nil
}

// Seal - fill in the envelope and sign the request
func Seal(request Sealer, key *account.PrivateKey, now time.Time) error {
	e := request.Sealed()
	e.Caller = key.Account()
	e.Timestamp = now.Unix()
	digest, err := Digest(request)
	if nil != err {
		return err
	}
	e.Signature = key.Sign(digest[:])
	return nil
}

// Verifier - checks envelopes and remembers accepted signatures
type Verifier struct {
	skew  time.Duration
	seen  *cache.Cache
	clock func() time.Time
}

// NewVerifier - create a verifier, zero skew selects the default
func NewVerifier(skew time.Duration, clock func() time.Time) *Verifier {
	if skew <= 0 {
		skew = DefaultSkew
	}
	if nil == clock {
		clock = time.Now
	}
	// a signature older than twice the skew is rejected by timestamp
	return &Verifier{
		skew:  skew,
		seen:  cache.New(2*skew, skew),
		clock: clock,
	}
}

// Open - authenticate a request, returning its caller
func (v *Verifier) Open(request Sealer) (*account.Account, error) {
	e := request.Sealed()
	if e.Caller.IsZero() {
		return nil, fault.ErrInvalidAccount
	}

	now := v.clock()
	timestamp := time.Unix(e.Timestamp, 0)
	if timestamp.Before(now.Add(-v.skew)) || timestamp.After(now.Add(v.skew)) {
		return nil, fault.ErrInvalidTimestamp
	}

	digest, err := Digest(request)
	if nil != err {
		return nil, err
	}
	if err := e.Caller.CheckSignature(digest[:], e.Signature); nil != err {
		return nil, err
	}

	if err := v.seen.Add(e.Signature.String(), struct{}{}, cache.DefaultExpiration); nil != err {
		return nil, fault.ErrReplayedRequest
	}
	return e.Caller, nil
}
