// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package attributes

import (
	"context"
	"encoding/hex"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/attribute"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/metrics"
	"github.com/bitmark-inc/marketd/rpc/envelope"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
)

const (
	rateLimitAttribute = 100
	rateBurstAttribute = 50
)

// Attribute - type for RPC calls
type Attribute struct {
	Log        *logger.L
	Limiter    *rate.Limiter
	Controller *attribute.Controller
	Verifier   *envelope.Verifier
	Metrics    *metrics.Metrics
}

// New - create the Attribute service
func New(log *logger.L, controller *attribute.Controller, verifier *envelope.Verifier, m *metrics.Metrics) *Attribute {
	return &Attribute{
		Log:        log,
		Limiter:    rate.NewLimiter(rateLimitAttribute, rateBurstAttribute),
		Controller: controller,
		Verifier:   verifier,
		Metrics:    m,
	}
}

// ---

// MintArguments - create a record authorised by the trusted verifier
type MintArguments struct {
	Recipient *account.Account  `json:"recipient"`
	Bundle    attribute.Bundle  `json:"bundle"`
	Deadline  uint64            `json:"deadline,string"`
	Signature account.Signature `json:"signature"`
}

// MintReply - the new record
type MintReply struct {
	RecordId uint64 `json:"recordId,string"`
}

// Mint - create the recipient's record
func (a *Attribute) Mint(arguments *MintArguments, reply *MintReply) (err error) {
	defer a.Metrics.Track("Attribute.Mint", time.Now(), &err)

	if err := ratelimit.Limit(a.Limiter); nil != err {
		return err
	}

	a.Log.Infof("mint: recipient: %s  label: %q", arguments.Recipient, arguments.Bundle.Label)

	reply.RecordId, err = a.Controller.Mint(
		context.Background(),
		arguments.Recipient,
		arguments.Bundle,
		arguments.Deadline,
		arguments.Signature,
	)
	return err
}

// ---

// UpdateArguments - replace a record, the caller must own it and the
// change must be authorised by the trusted verifier
type UpdateArguments struct {
	envelope.Envelope
	RecordId      uint64            `json:"recordId,string"`
	Bundle        attribute.Bundle  `json:"bundle"`
	LinkedAsset   uint64            `json:"linkedAsset,string"`
	Deadline      uint64            `json:"deadline,string"`
	Authorisation account.Signature `json:"authorisation"`
}

// UpdateReply - empty reply
type UpdateReply struct{}

// Update - replace the bundle and linked asset of a record
func (a *Attribute) Update(arguments *UpdateArguments, reply *UpdateReply) (err error) {
	defer a.Metrics.Track("Attribute.Update", time.Now(), &err)

	if err := ratelimit.Limit(a.Limiter); nil != err {
		return err
	}
	caller, err := a.Verifier.Open(arguments)
	if nil != err {
		return err
	}

	a.Log.Infof("update: record: %d  caller: %s", arguments.RecordId, caller)

	return a.Controller.Update(
		context.Background(),
		caller,
		arguments.RecordId,
		arguments.Bundle,
		arguments.LinkedAsset,
		arguments.Deadline,
		arguments.Authorisation,
	)
}

// ---

// TransferArguments - request to move a record
type TransferArguments struct {
	envelope.Envelope
	RecordId uint64           `json:"recordId,string"`
	To       *account.Account `json:"to"`
}

// TransferReply - empty reply
type TransferReply struct{}

// Transfer - always refused, records are soulbound
func (a *Attribute) Transfer(arguments *TransferArguments, reply *TransferReply) (err error) {
	defer a.Metrics.Track("Attribute.Transfer", time.Now(), &err)

	if err := ratelimit.Limit(a.Limiter); nil != err {
		return err
	}
	caller, err := a.Verifier.Open(arguments)
	if nil != err {
		return err
	}
	return a.Controller.Transfer(context.Background(), caller, arguments.To, arguments.RecordId)
}

// ---

// GetArguments - a record id, or the owner when the id is zero
type GetArguments struct {
	RecordId uint64           `json:"recordId,string"`
	Owner    *account.Account `json:"owner"`
}

// GetReply - the record and the owner's mint count
type GetReply struct {
	Record *attribute.Record `json:"record"`
	Minted uint64            `json:"minted"`
}

// Get - fetch a record
func (a *Attribute) Get(arguments *GetArguments, reply *GetReply) (err error) {
	defer a.Metrics.Track("Attribute.Get", time.Now(), &err)

	if err := ratelimit.Limit(a.Limiter); nil != err {
		return err
	}

	ctx := context.Background()
	switch {
	case 0 != arguments.RecordId:
		reply.Record, err = a.Controller.Record(ctx, arguments.RecordId)
	case !arguments.Owner.IsZero():
		reply.Record, err = a.Controller.RecordOf(ctx, arguments.Owner)
	default:
		return fault.ErrMissingParameters
	}
	if nil != err {
		return err
	}
	reply.Minted, err = a.Controller.Minted(ctx, reply.Record.Owner)
	return err
}

// ---

// NonceArguments - a principal and optionally the change to be signed
//
// with a bundle the digest of a mint, or of an update when RecordId
// is set, is returned as well
type NonceArguments struct {
	Principal   *account.Account  `json:"principal"`
	RecordId    uint64            `json:"recordId,string"`
	Bundle      *attribute.Bundle `json:"bundle"`
	LinkedAsset uint64            `json:"linkedAsset,string"`
	Deadline    uint64            `json:"deadline,string"`
}

// NonceReply - the next nonce and digest
type NonceReply struct {
	Nonce  uint64 `json:"nonce,string"`
	Digest string `json:"digest,omitempty"`
}

// Nonce - next attribute nonce of a principal
func (a *Attribute) Nonce(arguments *NonceArguments, reply *NonceReply) (err error) {
	defer a.Metrics.Track("Attribute.Nonce", time.Now(), &err)

	if err := ratelimit.Limit(a.Limiter); nil != err {
		return err
	}
	if arguments.Principal.IsZero() {
		return fault.ErrInvalidAccount
	}

	ctx := context.Background()
	reply.Nonce, err = a.Controller.Nonce(ctx, arguments.Principal)
	if nil != err || nil == arguments.Bundle {
		return err
	}

	if 0 == arguments.RecordId {
		request, err := a.Controller.MintRequest(ctx, arguments.Principal, *arguments.Bundle, arguments.Deadline)
		if nil != err {
			return err
		}
		digest := request.Digest()
		reply.Digest = hex.EncodeToString(digest[:])
		return nil
	}

	request, err := a.Controller.UpdateRequest(ctx, arguments.Principal, arguments.RecordId, *arguments.Bundle, arguments.LinkedAsset, arguments.Deadline)
	if nil != err {
		return err
	}
	digest := request.Digest()
	reply.Digest = hex.EncodeToString(digest[:])
	return nil
}
