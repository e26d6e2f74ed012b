// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package entitlement

import (
	"context"
	"encoding/hex"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/issuance"
	"github.com/bitmark-inc/marketd/metrics"
	"github.com/bitmark-inc/marketd/rpc/envelope"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
)

const (
	rateLimitEntitlement = 100
	rateBurstEntitlement = 50
)

// Entitlement - type for RPC calls
type Entitlement struct {
	Log        *logger.L
	Limiter    *rate.Limiter
	Controller *issuance.Controller
	Verifier   *envelope.Verifier
	Metrics    *metrics.Metrics
}

// New - create the Entitlement service
func New(log *logger.L, controller *issuance.Controller, verifier *envelope.Verifier, m *metrics.Metrics) *Entitlement {
	return &Entitlement{
		Log:        log,
		Limiter:    rate.NewLimiter(rateLimitEntitlement, rateBurstEntitlement),
		Controller: controller,
		Verifier:   verifier,
		Metrics:    m,
	}
}

// ---

// IssueArguments - privileged issue, the caller must be the issuer
type IssueArguments struct {
	envelope.Envelope
	Recipient *account.Account `json:"recipient"`
	Category  uint64           `json:"category"`
}

// IssueSignedArguments - issue authorised by the trusted verifier
type IssueSignedArguments struct {
	Recipient *account.Account  `json:"recipient"`
	Category  uint64            `json:"category"`
	Deadline  uint64            `json:"deadline,string"`
	Signature account.Signature `json:"signature"`
}

// IssueReply - the new entitlement
type IssueReply struct {
	TokenId uint64 `json:"tokenId,string"`
}

// Issue - privileged issue
func (e *Entitlement) Issue(arguments *IssueArguments, reply *IssueReply) (err error) {
	defer e.Metrics.Track("Entitlement.Issue", time.Now(), &err)

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}
	caller, err := e.Verifier.Open(arguments)
	if nil != err {
		return err
	}

	e.Log.Infof("issue: category: %d  recipient: %s", arguments.Category, arguments.Recipient)

	reply.TokenId, err = e.Controller.Issue(context.Background(), caller, arguments.Recipient, arguments.Category)
	return err
}

// IssueSigned - issue with a verifier signature
func (e *Entitlement) IssueSigned(arguments *IssueSignedArguments, reply *IssueReply) (err error) {
	defer e.Metrics.Track("Entitlement.IssueSigned", time.Now(), &err)

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	e.Log.Infof("signed issue: category: %d  recipient: %s", arguments.Category, arguments.Recipient)

	reply.TokenId, err = e.Controller.IssueSigned(
		context.Background(),
		arguments.Recipient,
		arguments.Category,
		arguments.Deadline,
		arguments.Signature,
	)
	return err
}

// ---

// GetArguments - identify an entitlement
type GetArguments struct {
	TokenId uint64 `json:"tokenId,string"`
}

// GetReply - entitlement and its metadata URI
type GetReply struct {
	Entitlement *issuance.Entitlement `json:"entitlement"`
	URI         string                `json:"uri"`
}

// Get - an issued entitlement
func (e *Entitlement) Get(arguments *GetArguments, reply *GetReply) (err error) {
	defer e.Metrics.Track("Entitlement.Get", time.Now(), &err)

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	ctx := context.Background()
	reply.Entitlement, err = e.Controller.Entitlement(ctx, arguments.TokenId)
	if nil != err {
		return err
	}
	reply.URI, err = e.Controller.TokenURI(ctx, arguments.TokenId)
	return err
}

// ---

// RemainingArguments - identify a category
type RemainingArguments struct {
	Category uint64 `json:"category"`
}

// RemainingReply - quota state of a category
type RemainingReply struct {
	Remaining uint64 `json:"remaining"`
	Ceiling   uint64 `json:"ceiling"`
}

// Remaining - unissued quota of a category
func (e *Entitlement) Remaining(arguments *RemainingArguments, reply *RemainingReply) (err error) {
	defer e.Metrics.Track("Entitlement.Remaining", time.Now(), &err)

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	ctx := context.Background()
	reply.Remaining, err = e.Controller.Remaining(ctx, arguments.Category)
	if nil != err {
		return err
	}
	reply.Ceiling, err = e.Controller.Ceiling(ctx, arguments.Category)
	return err
}

// ---

// NonceArguments - identify a principal
type NonceArguments struct {
	Principal *account.Account `json:"principal"`
	Category  uint64           `json:"category"`
	Deadline  uint64           `json:"deadline,string"`
}

// NonceReply - the next nonce and the digest the verifier must sign
type NonceReply struct {
	Nonce  uint64 `json:"nonce,string"`
	Digest string `json:"digest"`
}

// Nonce - next issuance nonce of a principal
//
// when a category is given the digest of the matching signed issue
// is returned as well
func (e *Entitlement) Nonce(arguments *NonceArguments, reply *NonceReply) (err error) {
	defer e.Metrics.Track("Entitlement.Nonce", time.Now(), &err)

	if err := ratelimit.Limit(e.Limiter); nil != err {
		return err
	}

	if arguments.Principal.IsZero() {
		return fault.ErrInvalidAccount
	}

	ctx := context.Background()
	if 0 == arguments.Category {
		reply.Nonce, err = e.Controller.Nonce(ctx, arguments.Principal)
		return err
	}

	request, err := e.Controller.Request(ctx, arguments.Principal, arguments.Category, arguments.Deadline)
	if nil != err {
		return err
	}
	digest := request.Digest()
	reply.Nonce = request.Nonce
	reply.Digest = hex.EncodeToString(digest[:])
	return nil
}
