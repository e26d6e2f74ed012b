// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package issuance - bounded supply entitlements
//
// each category has a fixed ceiling written once when the store is
// new; every issuance, privileged or signed, takes one from the
// category's remaining quota and the next token id
package issuance

import (
	"context"
	"encoding/binary"
	"strconv"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/authorisation"
	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/guard"
	"github.com/bitmark-inc/marketd/settings"
	"github.com/bitmark-inc/marketd/storage"
	"github.com/bitmark-inc/marketd/util"
)

// DefaultCeilings - category → maximum number of entitlements
var DefaultCeilings = map[uint64]uint64{
	1: 10000,
	2: 3000,
	3: 1000,
	4: 500,
	5: 200,
	6: 100,
}

// key prefixes inside the quota pool
const (
	quotaPrefix   = 'q'
	ceilingPrefix = 'c'
)

var seededKey = []byte("seeded")

// payload tag for signed issuance
const issuePayloadTag = 0x01

// Pools - storage used by the controller
type Pools struct {
	Quotas       storage.Handle
	Entitlements storage.Handle
	Sequences    storage.Handle
}

// Controller - issues entitlements
type Controller struct {
	guard        *guard.Guard
	settings     *settings.Settings
	authoriser   *authorisation.Authoriser
	quotas       storage.Handle
	entitlements storage.Handle
	sequence     *counter.Sequence
	log          *logger.L
}

// Entitlement - an issued token
type Entitlement struct {
	TokenId  uint64           `json:"tokenId,string"`
	Category uint64           `json:"category"`
	Owner    *account.Account `json:"owner"`
}

// New - create the controller, seeding quotas from ceilings on a new store
func New(ctx context.Context, g *guard.Guard, st *settings.Settings, authoriser *authorisation.Authoriser, pools Pools, ceilings map[uint64]uint64) (*Controller, error) {
	c := &Controller{
		guard:        g,
		settings:     st,
		authoriser:   authoriser,
		quotas:       pools.Quotas,
		entitlements: pools.Entitlements,
		sequence:     counter.NewSequence(pools.Sequences, "token"),
		log:          logger.New("issuance"),
	}

	err := g.Run(ctx, func(ctx context.Context) error {
		if c.quotas.Has(seededKey) {
			return nil
		}
		if 0 == len(ceilings) {
			return fault.ErrInvalidQuota
		}
		for category, ceiling := range ceilings {
			if 0 == category || 0 == ceiling {
				return fault.ErrInvalidQuota
			}
			c.quotas.PutN(categoryKey(ceilingPrefix, category), ceiling)
			c.quotas.PutN(categoryKey(quotaPrefix, category), ceiling)
		}
		c.quotas.PutN(seededKey, uint64(len(ceilings)))
		c.log.Infof("seeded %d categories", len(ceilings))
		return nil
	})
	if nil != err {
		return nil, err
	}
	return c, nil
}

// Payload - the request bytes a signed issuance authorises
func Payload(recipient *account.Account, category uint64) []byte {
	return util.NewPacked(issuePayloadTag).
		AppendBytes(recipient.Bytes()).
		AppendUint64(category)
}

// Issue - privileged issuance, caller must be the configured issuer
func (c *Controller) Issue(ctx context.Context, caller *account.Account, recipient *account.Account, category uint64) (uint64, error) {
	return c.issue(ctx, recipient, category, false, func() error {
		issuer := c.settings.Issuer()
		if issuer.IsZero() || !caller.Equal(issuer) {
			return fault.ErrNotPrivileged
		}
		c.authoriser.Advance(recipient)
		return nil
	})
}

// IssueSigned - issuance authorised by the trusted verifier
func (c *Controller) IssueSigned(ctx context.Context, recipient *account.Account, category uint64, deadline uint64, sig account.Signature) (uint64, error) {
	return c.issue(ctx, recipient, category, true, func() error {
		return c.authoriser.Authorise(recipient, Payload(recipient, category), deadline, sig)
	})
}

// common path: category, then quota, then the caller's authority
func (c *Controller) issue(ctx context.Context, recipient *account.Account, category uint64, signed bool, authorise func() error) (uint64, error) {
	tokenId := uint64(0)
	err := c.guard.Run(ctx, func(ctx context.Context) error {
		if recipient.IsZero() {
			return fault.ErrInvalidAccount
		}
		remaining, ok := c.quotas.GetN(categoryKey(quotaPrefix, category))
		if !ok {
			return fault.ErrInvalidCategory
		}
		if 0 == remaining {
			return fault.ErrQuotaExhausted
		}
		if err := authorise(); nil != err {
			return err
		}

		c.quotas.PutN(categoryKey(quotaPrefix, category), remaining-1)
		tokenId = c.sequence.Next()
		c.entitlements.Put(tokenKey(tokenId), util.NewPacked(category).AppendBytes(recipient.Bytes()))

		c.guard.Emit(ctx, event.Issued{
			TokenId:   tokenId,
			Recipient: recipient,
			Category:  category,
			Signed:    signed,
		})
		return nil
	})
	if nil != err {
		c.log.Debugf("issue rejected: category: %d  error: %s", category, err)
		return 0, err
	}
	c.log.Infof("issued: token: %d  category: %d  recipient: %s", tokenId, category, recipient)
	return tokenId, nil
}

// Remaining - quota left in a category
func (c *Controller) Remaining(ctx context.Context, category uint64) (uint64, error) {
	remaining := uint64(0)
	err := c.guard.View(ctx, func(ctx context.Context) error {
		var ok bool
		remaining, ok = c.quotas.GetN(categoryKey(quotaPrefix, category))
		if !ok {
			return fault.ErrInvalidCategory
		}
		return nil
	})
	return remaining, err
}

// Ceiling - configured maximum of a category
func (c *Controller) Ceiling(ctx context.Context, category uint64) (uint64, error) {
	ceiling := uint64(0)
	err := c.guard.View(ctx, func(ctx context.Context) error {
		var ok bool
		ceiling, ok = c.quotas.GetN(categoryKey(ceilingPrefix, category))
		if !ok {
			return fault.ErrInvalidCategory
		}
		return nil
	})
	return ceiling, err
}

// Entitlement - look up an issued token
func (c *Controller) Entitlement(ctx context.Context, tokenId uint64) (*Entitlement, error) {
	var e *Entitlement
	err := c.guard.View(ctx, func(ctx context.Context) error {
		buffer := c.entitlements.Get(tokenKey(tokenId))
		if nil == buffer {
			return fault.ErrRecordNotFound
		}
		u := util.NewUnpacker(buffer)
		category := u.Uint64()
		ownerBytes := u.Bytes()
		if nil != u.Err() {
			return fault.ErrCorruptRecord
		}
		owner, err := account.FromBytes(ownerBytes)
		if nil != err {
			return err
		}
		e = &Entitlement{
			TokenId:  tokenId,
			Category: category,
			Owner:    owner,
		}
		return nil
	})
	return e, err
}

// TokenURI - base URI followed by the decimal token id
func (c *Controller) TokenURI(ctx context.Context, tokenId uint64) (string, error) {
	if _, err := c.Entitlement(ctx, tokenId); nil != err {
		return "", err
	}
	return c.settings.BaseURI() + strconv.FormatUint(tokenId, 10), nil
}

// Nonce - next issuance nonce of a principal
func (c *Controller) Nonce(ctx context.Context, principal *account.Account) (uint64, error) {
	n := uint64(0)
	err := c.guard.View(ctx, func(ctx context.Context) error {
		n = c.authoriser.Nonce(principal)
		return nil
	})
	return n, err
}

// Request - what the trusted verifier must sign for an issuance now
func (c *Controller) Request(ctx context.Context, recipient *account.Account, category uint64, deadline uint64) (authorisation.Request, error) {
	var r authorisation.Request
	err := c.guard.View(ctx, func(ctx context.Context) error {
		r = c.authoriser.Request(recipient, Payload(recipient, category), deadline)
		return nil
	})
	return r, err
}

func categoryKey(prefix byte, category uint64) []byte {
	key := make([]byte, 9)
	key[0] = prefix
	binary.BigEndian.PutUint64(key[1:], category)
	return key
}

func tokenKey(tokenId uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, tokenId)
	return key
}
