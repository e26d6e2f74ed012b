// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

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
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/settings"
	"github.com/bitmark-inc/marketd/storage"
)

func TestMain(m *testing.M) {
	dir, _ := os.MkdirTemp("", "market-test")
	_ = logger.Initialise(logger.Configuration{
		Directory: dir,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})
	rc := m.Run()
	logger.Finalise()
	_ = os.RemoveAll(dir)
	os.Exit(rc)
}

func makeKey(fill byte) *account.PrivateKey {
	k, _ := account.PrivateKeyFromSeed(true, bytes.Repeat([]byte{fill}, 32))
	return k
}

var (
	owner       = makeKey(0x01).Account()
	identity    = makeKey(0x02).Account()
	verifierKey = makeKey(0x03)
	seller      = makeKey(0x04).Account()
	buyer       = makeKey(0x05).Account()
	feeReceiver = makeKey(0x06).Account()

	now      = time.Unix(1600000000, 0).UTC()
	deadline = uint64(now.Unix() + 600)
)

const (
	art  = asset.Collection("art")
	usdc = currency.Currency("USDC")
)

func options() market.Options {
	return market.Options{
		Identity: identity,
		Chain:    chain.Local,
		Initial: settings.State{
			Owner:       owner,
			Trading:     true,
			Collections: []asset.Collection{art},
			Currencies:  []currency.Currency{currency.Native, usdc},
			FeeReceiver: feeReceiver,
			FeeRate:     25,
			BaseURI:     "https://example.com/e/",
			Verifier:    verifierKey.Account(),
			Issuer:      owner,
		},
		Clock: func() time.Time { return now },
	}
}

func TestNewChecks(t *testing.T) {
	store, err := storage.OpenMemory()
	assert.Nil(t, err)
	defer store.Close()

	ctx := context.Background()
	o := options()
	o.Identity = nil
	_, err = market.New(ctx, store, nil, o)
	assert.Equal(t, fault.ErrInvalidAccount, err)

	o = options()
	o.Chain = "moon"
	_, err = market.New(ctx, store, nil, o)
	assert.Equal(t, fault.ErrInvalidChain, err)

	// test accounts cannot serve the live chain
	o = options()
	o.Chain = chain.Live
	_, err = market.New(ctx, store, nil, o)
	assert.Equal(t, fault.ErrInvalidChain, err)

	o = options()
	o.Initial.FeeRate = 101
	_, err = market.New(ctx, store, nil, o)
	assert.Equal(t, fault.ErrFeeRateTooHigh, err)
}

func TestAssembled(t *testing.T) {
	store, err := storage.OpenMemory()
	assert.Nil(t, err)
	defer store.Close()

	recorder := &event.Recorder{}
	ctx := context.Background()
	m, err := market.New(ctx, store, recorder, options())
	if nil != err {
		t.Fatalf("market error: %s", err)
	}
	assert.NotNil(t, m.Holdings)

	// escrow and settlement through the reference holdings
	assert.Nil(t, m.Holdings.Mint(ctx, seller, art, 9))
	assert.Nil(t, m.Holdings.ApproveOperator(ctx, seller, identity, true))
	assert.Nil(t, m.Holdings.Deposit(ctx, buyer, usdc, 2000))
	assert.Nil(t, m.Holdings.Allow(ctx, buyer, identity, usdc, 2000))

	_, err = m.Ledger.List(ctx, seller, art, 9, 2000, usdc)
	assert.Nil(t, err)
	_, err = m.Engine.Purchase(ctx, buyer, art, 9, usdc, 2000, 0)
	assert.Nil(t, err)

	r, err := m.Ledger.Record(ctx, art, 9)
	assert.Nil(t, err)
	assert.Equal(t, escrow.Sold, r.Status)
	assert.True(t, buyer.Equal(r.Buyer))

	// signed issuance bound to this market and chain
	request, err := m.Issuance.Request(ctx, buyer, 1, deadline)
	assert.Nil(t, err)
	assert.Equal(t, market.SystemIdentity(identity, "issuance"), request.Identity)
	assert.Equal(t, chain.Identifier(chain.Local), request.Chain)

	tokenId, err := m.Issuance.IssueSigned(ctx, buyer, 1, deadline, authorisation.Sign(verifierKey, request))
	assert.Nil(t, err)
	uri, err := m.Issuance.TokenURI(ctx, tokenId)
	assert.Nil(t, err)
	assert.Equal(t, "https://example.com/e/1", uri)

	// issuance and attribute nonces are independent
	b := attribute.Bundle{Values: []uint64{1}, Label: "rank"}
	mint, err := m.Attributes.MintRequest(ctx, buyer, b, deadline)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), mint.Nonce)
	_, err = m.Attributes.Mint(ctx, buyer, b, deadline, authorisation.Sign(verifierKey, mint))
	assert.Nil(t, err)

	// a signature for one subsystem is useless for the other
	request, err = m.Issuance.Request(ctx, seller, 1, deadline)
	assert.Nil(t, err)
	sig := authorisation.Sign(verifierKey, request)
	_, err = m.Attributes.Mint(ctx, seller, b, deadline, sig)
	assert.Equal(t, fault.ErrBadSignature, err)

	assert.Equal(t, []string{
		"assetReceived", "listed", "purchased", "issued", "attributeRecordCreated",
	}, recorder.Names())
}

func TestPersistedSettingsWin(t *testing.T) {
	dir, err := os.MkdirTemp("", "market-store")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	name := filepath.Join(dir, "market.leveldb")

	ctx := context.Background()
	store, err := storage.Open(name, storage.ReadWrite)
	if nil != err {
		t.Fatalf("open error: %s", err)
	}
	m, err := market.New(ctx, store, nil, options())
	assert.Nil(t, err)
	assert.Nil(t, m.Settings.SetFeeRate(ctx, owner, 50))
	store.Close()

	store, err = storage.Open(name, storage.ReadWrite)
	if nil != err {
		t.Fatalf("reopen error: %s", err)
	}
	defer store.Close()

	m, err = market.New(ctx, store, nil, options())
	assert.Nil(t, err)
	_, rate := m.Settings.Fees()
	assert.Equal(t, uint64(50), rate)
}
