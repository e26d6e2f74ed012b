// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package attribute - one mutable attribute record per principal
package attribute

import (
	"context"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/authorisation"
	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/guard"
	"github.com/bitmark-inc/marketd/storage"
)

// Pools - storage used by the controller
type Pools struct {
	Records   storage.Handle
	Owners    storage.Handle
	Minted    storage.Handle
	Sequences storage.Handle
}

// Controller - mints and updates attribute records
type Controller struct {
	guard      *guard.Guard
	authoriser *authorisation.Authoriser
	records    storage.Handle
	owners     storage.Handle
	minted     storage.Handle
	sequence   *counter.Sequence
	log        *logger.L
}

// New - create a controller
func New(g *guard.Guard, authoriser *authorisation.Authoriser, pools Pools) *Controller {
	return &Controller{
		guard:      g,
		authoriser: authoriser,
		records:    pools.Records,
		owners:     pools.Owners,
		minted:     pools.Minted,
		sequence:   counter.NewSequence(pools.Sequences, "attribute"),
		log:        logger.New("attribute"),
	}
}

// Mint - create the recipient's record
//
// minted records are soulbound
func (c *Controller) Mint(ctx context.Context, recipient *account.Account, bundle Bundle, deadline uint64, sig account.Signature) (uint64, error) {
	recordId := uint64(0)
	err := c.guard.Run(ctx, func(ctx context.Context) error {
		if recipient.IsZero() {
			return fault.ErrInvalidAccount
		}
		if c.owners.Has(recipient.Bytes()) {
			return fault.ErrAlreadyOwns
		}
		if err := bundle.Validate(); nil != err {
			return err
		}
		if err := c.authoriser.Authorise(recipient, MintPayload(bundle), deadline, sig); nil != err {
			return err
		}

		r := &Record{
			Id:        c.sequence.Next(),
			Owner:     recipient,
			Bundle:    bundle,
			Soulbound: true,
		}
		c.put(r)
		c.owners.PutN(recipient.Bytes(), r.Id)

		minted, _ := c.minted.GetN(recipient.Bytes())
		c.minted.PutN(recipient.Bytes(), minted+1)

		c.guard.Emit(ctx, event.AttributeRecordCreated{
			RecordId: r.Id,
			Owner:    recipient,
			Values:   bundle.Values,
			Label:    bundle.Label,
		})
		recordId = r.Id
		return nil
	})
	if nil != err {
		return 0, err
	}
	c.log.Infof("minted: record: %d  owner: %s", recordId, recipient)
	return recordId, nil
}

// Update - replace the bundle and linked asset of the caller's record
func (c *Controller) Update(ctx context.Context, caller *account.Account, recordId uint64, bundle Bundle, linkedAsset uint64, deadline uint64, sig account.Signature) error {
	err := c.guard.Run(ctx, func(ctx context.Context) error {
		r, err := c.owned(caller, recordId)
		if nil != err {
			return err
		}
		if err := bundle.Validate(); nil != err {
			return err
		}
		err = c.authoriser.Authorise(caller, UpdatePayload(recordId, bundle, linkedAsset), deadline, sig)
		if nil != err {
			return err
		}

		r.Bundle = bundle
		r.LinkedAsset = linkedAsset
		c.put(r)

		c.guard.Emit(ctx, event.AttributeRecordUpdated{
			RecordId:    r.Id,
			Owner:       r.Owner,
			Values:      bundle.Values,
			Label:       bundle.Label,
			LinkedAsset: linkedAsset,
		})
		return nil
	})
	if nil != err {
		return err
	}
	c.log.Infof("updated: record: %d  linked: %d", recordId, linkedAsset)
	return nil
}

// Transfer - records never change owner
//
// the caller must own the record; every request is then refused
func (c *Controller) Transfer(ctx context.Context, caller *account.Account, to *account.Account, recordId uint64) error {
	return c.guard.View(ctx, func(ctx context.Context) error {
		if _, err := c.owned(caller, recordId); nil != err {
			return err
		}
		if to.IsZero() {
			return fault.ErrInvalidAccount
		}
		c.log.Debugf("refused transfer: record: %d  to: %s", recordId, to)
		return fault.ErrSoulbound
	})
}

// Record - a record by id
func (c *Controller) Record(ctx context.Context, recordId uint64) (*Record, error) {
	var r *Record
	err := c.guard.View(ctx, func(ctx context.Context) error {
		var err error
		r, err = c.get(recordId)
		return err
	})
	return r, err
}

// RecordOf - the record owned by a principal
func (c *Controller) RecordOf(ctx context.Context, owner *account.Account) (*Record, error) {
	var r *Record
	err := c.guard.View(ctx, func(ctx context.Context) error {
		recordId, ok := c.owners.GetN(owner.Bytes())
		if !ok {
			return fault.ErrRecordNotFound
		}
		var err error
		r, err = c.get(recordId)
		return err
	})
	return r, err
}

// Minted - number of records ever minted to a principal
func (c *Controller) Minted(ctx context.Context, owner *account.Account) (uint64, error) {
	n := uint64(0)
	err := c.guard.View(ctx, func(ctx context.Context) error {
		n, _ = c.minted.GetN(owner.Bytes())
		return nil
	})
	return n, err
}

// Nonce - next attribute nonce of a principal
func (c *Controller) Nonce(ctx context.Context, principal *account.Account) (uint64, error) {
	n := uint64(0)
	err := c.guard.View(ctx, func(ctx context.Context) error {
		n = c.authoriser.Nonce(principal)
		return nil
	})
	return n, err
}

// MintRequest - what the trusted verifier must sign for a mint now
func (c *Controller) MintRequest(ctx context.Context, recipient *account.Account, bundle Bundle, deadline uint64) (authorisation.Request, error) {
	var r authorisation.Request
	err := c.guard.View(ctx, func(ctx context.Context) error {
		r = c.authoriser.Request(recipient, MintPayload(bundle), deadline)
		return nil
	})
	return r, err
}

// UpdateRequest - what the trusted verifier must sign for an update now
func (c *Controller) UpdateRequest(ctx context.Context, caller *account.Account, recordId uint64, bundle Bundle, linkedAsset uint64, deadline uint64) (authorisation.Request, error) {
	var r authorisation.Request
	err := c.guard.View(ctx, func(ctx context.Context) error {
		r = c.authoriser.Request(caller, UpdatePayload(recordId, bundle, linkedAsset), deadline)
		return nil
	})
	return r, err
}

func (c *Controller) owned(caller *account.Account, recordId uint64) (*Record, error) {
	r, err := c.get(recordId)
	if nil != err {
		return nil, err
	}
	if !caller.Equal(r.Owner) {
		return nil, fault.ErrNotOwner
	}
	return r, nil
}

func (c *Controller) get(recordId uint64) (*Record, error) {
	buffer := c.records.Get(recordKey(recordId))
	if nil == buffer {
		return nil, fault.ErrRecordNotFound
	}
	return unpackRecord(buffer)
}

func (c *Controller) put(r *Record) {
	c.records.Put(recordKey(r.Id), r.pack())
}
