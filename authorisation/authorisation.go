// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package authorisation - replay protected signed authorisations
//
// a trusted verifier signs a digest binding the principal, the
// request payload, the identity of the system that will act on it, the
// principal's current nonce, a deadline and the chain; acting on the
// authorisation advances the nonce so the same signature can never
// match again
package authorisation

import (
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/nonce"
	"github.com/bitmark-inc/marketd/signature"
	"github.com/bitmark-inc/marketd/util"
)

// leading tag of the packed digest input
const digestTag = 0x61757468

// DigestSize - bytes in a digest
const DigestSize = 32

// Digest - the message a trusted verifier signs
type Digest [DigestSize]byte

// Request - inputs bound into one authorisation
type Request struct {
	Principal *account.Account
	Payload   []byte
	Identity  []byte
	Nonce     uint64
	Deadline  uint64 // unix seconds
	Chain     uint64
}

// Digest - SHA3-256 of the packed request
func (r Request) Digest() Digest {
	packed := util.NewPacked(digestTag).
		AppendBytes(r.Principal.Bytes()).
		AppendBytes(r.Payload).
		AppendBytes(r.Identity).
		AppendUint64(r.Nonce).
		AppendUint64(r.Deadline).
		AppendUint64(r.Chain)
	return Digest(sha3.Sum256(packed))
}

// Sign - produce an authorisation as the trusted verifier would
func Sign(verifierKey *account.PrivateKey, r Request) account.Signature {
	digest := r.Digest()
	return verifierKey.Sign(digest[:])
}

// Authoriser - checks and consumes authorisations for one domain
type Authoriser struct {
	nonces   *nonce.Registry
	verifier signature.Verifier
	trusted  func() *account.Account
	identity []byte
	chain    uint64
	clock    func() time.Time
}

// New - create an authoriser
//
// trusted is consulted on every check so a change of verifier
// takes effect immediately
func New(nonces *nonce.Registry, verifier signature.Verifier, trusted func() *account.Account, identity []byte, chain uint64, clock func() time.Time) *Authoriser {
	if nil == clock {
		clock = time.Now
	}
	return &Authoriser{
		nonces:   nonces,
		verifier: verifier,
		trusted:  trusted,
		identity: append([]byte(nil), identity...),
		chain:    chain,
		clock:    clock,
	}
}

// Identity - the domain separation bytes of this authoriser
func (a *Authoriser) Identity() []byte {
	return append([]byte(nil), a.identity...)
}

// Chain - the chain identifier bound into digests
func (a *Authoriser) Chain() uint64 {
	return a.chain
}

// Request - the request a signature must cover right now
func (a *Authoriser) Request(principal *account.Account, payload []byte, deadline uint64) Request {
	return Request{
		Principal: principal,
		Payload:   payload,
		Identity:  a.identity,
		Nonce:     a.nonces.Get(principal),
		Deadline:  deadline,
		Chain:     a.chain,
	}
}

// Check - verify without consuming
//
// the signature is checked before the deadline
func (a *Authoriser) Check(principal *account.Account, payload []byte, deadline uint64, sig account.Signature) error {
	if principal.IsZero() {
		return fault.ErrInvalidAccount
	}
	digest := a.Request(principal, payload, deadline).Digest()
	if err := a.verifier.Verify(a.trusted(), digest[:], sig); nil != err {
		return fault.ErrBadSignature
	}
	if deadline < uint64(a.clock().Unix()) {
		return fault.ErrExpired
	}
	return nil
}

// Consume - advance the principal's nonce after a successful Check
func (a *Authoriser) Consume(principal *account.Account) uint64 {
	return a.nonces.Increment(principal)
}

// Authorise - Check then Consume
//
// must run inside a storage transaction; on failure nothing is written
func (a *Authoriser) Authorise(principal *account.Account, payload []byte, deadline uint64, sig account.Signature) error {
	if err := a.Check(principal, payload, deadline, sig); nil != err {
		return err
	}
	a.Consume(principal)
	return nil
}

// Advance - bump a nonce without a signature, for privileged callers
// whose action must still invalidate outstanding authorisations
func (a *Authoriser) Advance(principal *account.Account) uint64 {
	return a.nonces.Increment(principal)
}

// Nonce - current nonce of a principal
func (a *Authoriser) Nonce(principal *account.Account) uint64 {
	return a.nonces.Get(principal)
}
