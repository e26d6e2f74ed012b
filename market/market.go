// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package market - the assembled escrow, settlement and issuance system
package market

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/attribute"
	"github.com/bitmark-inc/marketd/authorisation"
	"github.com/bitmark-inc/marketd/chain"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/escrow"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/guard"
	"github.com/bitmark-inc/marketd/holdings"
	"github.com/bitmark-inc/marketd/issuance"
	"github.com/bitmark-inc/marketd/nonce"
	"github.com/bitmark-inc/marketd/settings"
	"github.com/bitmark-inc/marketd/settlement"
	"github.com/bitmark-inc/marketd/signature"
	"github.com/bitmark-inc/marketd/storage"
)

// Options - what the market is assembled from
//
// with nil Assets and Funds the reference holdings serve as both ports
type Options struct {
	Identity *account.Account
	Chain    string
	Initial  settings.State
	Ceilings map[uint64]uint64
	Assets   asset.Transfer
	Funds    currency.Transfer
	Clock    func() time.Time
}

// Market - all components over one store and one guard
type Market struct {
	Identity   *account.Account
	Chain      string
	Guard      *guard.Guard
	Settings   *settings.Settings
	Ledger     *escrow.Ledger
	Engine     *settlement.Engine
	Issuance   *issuance.Controller
	Attributes *attribute.Controller
	Holdings   *holdings.Holdings
}

// New - assemble the market
func New(ctx context.Context, store *storage.Store, sink event.Sink, options Options) (*Market, error) {
	log := logger.New("market")

	if options.Identity.IsZero() {
		return nil, fault.ErrInvalidAccount
	}
	if !chain.Valid(options.Chain) {
		return nil, fault.ErrInvalidChain
	}
	if chain.IsTesting(options.Chain) != options.Identity.Test {
		return nil, fault.ErrInvalidChain
	}
	if nil == options.Clock {
		options.Clock = time.Now
	}
	if nil == options.Ceilings {
		options.Ceilings = issuance.DefaultCeilings
	}

	g := guard.New(store, sink)
	st, err := settings.New(ctx, g, store.Pool.Settings, options.Initial)
	if nil != err {
		return nil, err
	}

	m := &Market{
		Identity: options.Identity,
		Chain:    options.Chain,
		Guard:    g,
		Settings: st,
	}

	assets := options.Assets
	funds := options.Funds
	if nil == assets || nil == funds {
		m.Holdings = holdings.New(g, holdings.Pools{
			Owners:    store.Pool.Holdings,
			Balances:  store.Pool.Balances,
			Approvals: store.Pool.Approvals,
		})
		if nil == assets {
			assets = m.Holdings
		}
		if nil == funds {
			funds = m.Holdings
		}
	}

	m.Ledger = escrow.New(g, st, assets, options.Identity, escrow.Pools{
		Sales:     store.Pool.Sales,
		SaleIndex: store.Pool.SaleIndex,
		Sequences: store.Pool.Sequences,
	}, options.Clock)
	if nil != m.Holdings {
		m.Holdings.Register(options.Identity, m.Ledger)
	}

	m.Engine = settlement.New(g, st, m.Ledger, funds, options.Clock)

	id := chain.Identifier(options.Chain)
	issuer := authorisation.New(
		nonce.NewRegistry(store.Pool.IssuanceNonces),
		signature.ED25519{},
		st.Verifier,
		SystemIdentity(options.Identity, "issuance"),
		id,
		options.Clock,
	)
	m.Issuance, err = issuance.New(ctx, g, st, issuer, issuance.Pools{
		Quotas:       store.Pool.Quotas,
		Entitlements: store.Pool.Entitlements,
		Sequences:    store.Pool.Sequences,
	}, options.Ceilings)
	if nil != err {
		return nil, err
	}

	updater := authorisation.New(
		nonce.NewRegistry(store.Pool.AttributeNonces),
		signature.ED25519{},
		st.Verifier,
		SystemIdentity(options.Identity, "attribute"),
		id,
		options.Clock,
	)
	m.Attributes = attribute.New(g, updater, attribute.Pools{
		Records:   store.Pool.Attributes,
		Owners:    store.Pool.AttributeOwners,
		Minted:    store.Pool.AttributeMinted,
		Sequences: store.Pool.Sequences,
	})

	log.Infof("market: %s  chain: %s  holdings: %t", options.Identity, options.Chain, nil != m.Holdings)
	return m, nil
}

// SystemIdentity - the bytes a verifier binds into authorisations for
// one subsystem of the market
func SystemIdentity(identity *account.Account, subsystem string) []byte {
	return append(identity.Bytes(), []byte("/"+subsystem)...)
}
