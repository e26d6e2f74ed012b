// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settings_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/guard"
	"github.com/bitmark-inc/marketd/settings"
	"github.com/bitmark-inc/marketd/storage"
)

func TestMain(m *testing.M) {
	dir, _ := os.MkdirTemp("", "settings-test")
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

func makeAccount(fill byte) *account.Account {
	k, _ := account.PrivateKeyFromSeed(true, bytes.Repeat([]byte{fill}, 32))
	return k.Account()
}

var (
	owner    = makeAccount(0x01)
	receiver = makeAccount(0x02)
	stranger = makeAccount(0x03)
)

func initialState() settings.State {
	return settings.State{
		Owner:       owner,
		Trading:     true,
		Collections: []asset.Collection{"art"},
		Currencies:  []currency.Currency{currency.Native},
		FeeReceiver: receiver,
		FeeRate:     25,
		BaseURI:     "https://example.com/token/",
	}
}

func setup(t *testing.T) (*storage.Store, *guard.Guard, *event.Recorder, *settings.Settings) {
	store, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory store error: %s", err)
	}
	recorder := &event.Recorder{}
	g := guard.New(store, recorder)
	s, err := settings.New(context.Background(), g, store.Pool.Settings, initialState())
	if nil != err {
		t.Fatalf("settings error: %s", err)
	}
	return store, g, recorder, s
}

func TestSeededOnce(t *testing.T) {
	store, g, _, s := setup(t)
	defer store.Close()

	ctx := context.Background()
	assert.True(t, s.Trading())
	assert.True(t, s.SupportsCollection("art"))
	assert.True(t, s.SupportsCurrency(currency.Native))
	assert.Nil(t, s.SetFeeRate(ctx, owner, 50))

	// a restart with different configuration keeps the persisted state
	changed := initialState()
	changed.FeeRate = 10
	changed.Trading = false
	reloaded, err := settings.New(ctx, g, store.Pool.Settings, changed)
	assert.Nil(t, err)
	feeReceiver, rate := reloaded.Fees()
	assert.Equal(t, uint64(50), rate)
	assert.True(t, feeReceiver.Equal(receiver))
	assert.True(t, reloaded.Trading())
}

func TestInvalidInitial(t *testing.T) {
	store, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory store error: %s", err)
	}
	defer store.Close()
	g := guard.New(store, nil)

	bad := initialState()
	bad.FeeRate = 101
	_, err = settings.New(context.Background(), g, store.Pool.Settings, bad)
	assert.Equal(t, fault.ErrFeeRateTooHigh, err)

	bad = initialState()
	bad.Owner = nil
	_, err = settings.New(context.Background(), g, store.Pool.Settings, bad)
	assert.Equal(t, fault.ErrInvalidAccount, err)
	assert.False(t, store.Pool.Settings.Has([]byte("state")), "nothing persisted")
}

func TestNotAdministrator(t *testing.T) {
	store, _, recorder, s := setup(t)
	defer store.Close()

	ctx := context.Background()
	before := s.Snapshot()

	errs := []error{
		s.SetTrading(ctx, stranger, false),
		s.SetCollection(ctx, stranger, "other", true),
		s.SetCurrency(ctx, stranger, "USDC", true),
		s.SetFeeReceiver(ctx, stranger, stranger),
		s.SetFeeRate(ctx, stranger, 1),
		s.SetBaseURI(ctx, stranger, "x"),
		s.SetVerifier(ctx, stranger, stranger),
		s.SetIssuer(ctx, stranger, stranger),
		s.SetTrading(ctx, nil, false),
	}
	for i, err := range errs {
		assert.Equal(t, fault.ErrNotAdministrator, err, "%d", i)
	}
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, 0, len(recorder.Events()))
	assert.False(t, s.IsOwner(stranger))
	assert.True(t, s.IsOwner(owner))
}

func TestChanges(t *testing.T) {
	store, _, recorder, s := setup(t)
	defer store.Close()

	ctx := context.Background()
	verifier := makeAccount(0x10)
	issuer := makeAccount(0x11)

	assert.Nil(t, s.SetTrading(ctx, owner, false))
	assert.Nil(t, s.SetCollection(ctx, owner, "photos", true))
	assert.Nil(t, s.SetCollection(ctx, owner, "art", false))
	assert.Nil(t, s.SetCurrency(ctx, owner, "USDC", true))
	assert.Nil(t, s.SetFeeReceiver(ctx, owner, stranger))
	assert.Nil(t, s.SetFeeRate(ctx, owner, 100))
	assert.Nil(t, s.SetBaseURI(ctx, owner, "ipfs://base/"))
	assert.Nil(t, s.SetVerifier(ctx, owner, verifier))
	assert.Nil(t, s.SetIssuer(ctx, owner, issuer))

	assert.False(t, s.Trading())
	assert.False(t, s.SupportsCollection("art"))
	assert.True(t, s.SupportsCollection("photos"))
	assert.True(t, s.SupportsCurrency("USDC"))
	feeReceiver, rate := s.Fees()
	assert.True(t, feeReceiver.Equal(stranger))
	assert.Equal(t, uint64(100), rate)
	assert.Equal(t, "ipfs://base/", s.BaseURI())
	assert.True(t, s.Verifier().Equal(verifier))
	assert.True(t, s.Issuer().Equal(issuer))

	snapshot := s.Snapshot()
	assert.Equal(t, []asset.Collection{"photos"}, snapshot.Collections)
	assert.Equal(t, []currency.Currency{currency.Native, "USDC"}, snapshot.Currencies)

	assert.Equal(t, []string{
		"tradingChanged",
		"collectionChanged",
		"collectionChanged",
		"currencyChanged",
		"feeReceiverChanged",
		"feeRateChanged",
		"baseURIChanged",
		"verifierChanged",
		"issuerChanged",
	}, recorder.Names())

	rateChange := recorder.Events()[5].(event.FeeRateChanged)
	assert.Equal(t, uint64(25), rateChange.Previous)
	assert.Equal(t, uint64(100), rateChange.Current)
}

func TestRejectedValues(t *testing.T) {
	store, _, recorder, s := setup(t)
	defer store.Close()

	ctx := context.Background()
	assert.Equal(t, fault.ErrFeeRateTooHigh, s.SetFeeRate(ctx, owner, 101))
	assert.Equal(t, fault.ErrInvalidAccount, s.SetFeeReceiver(ctx, owner, nil))
	assert.Equal(t, fault.ErrInvalidAccount, s.SetVerifier(ctx, owner, nil))
	assert.Equal(t, fault.ErrInvalidAccount, s.SetIssuer(ctx, owner, &account.Account{}))
	assert.Equal(t, fault.ErrInvalidCollection, s.SetCollection(ctx, owner, "", true))
	assert.Equal(t, fault.ErrInvalidCurrency, s.SetCurrency(ctx, owner, "usd", true))

	_, rate := s.Fees()
	assert.Equal(t, uint64(25), rate)
	assert.Equal(t, 0, len(recorder.Events()))
}

// store whose commit can be observed or made to fail
type commitHook struct {
	*storage.Store
	before func()
	fail   error
}

func (c *commitHook) Commit() error {
	if nil != c.before {
		c.before()
	}
	if nil != c.fail {
		return c.fail
	}
	return c.Store.Commit()
}

func TestChangeVisibleOnlyAfterCommit(t *testing.T) {
	store, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory store error: %s", err)
	}
	defer store.Close()

	hook := &commitHook{Store: store}
	recorder := &event.Recorder{}
	g := guard.New(hook, recorder)
	ctx := context.Background()
	s, err := settings.New(ctx, g, store.Pool.Settings, initialState())
	if nil != err {
		t.Fatalf("settings error: %s", err)
	}

	duringCommit := uint64(0)
	hook.before = func() {
		_, duringCommit = s.Fees()
	}
	assert.Nil(t, s.SetFeeRate(ctx, owner, 100))
	assert.Equal(t, uint64(25), duringCommit)
	_, rate := s.Fees()
	assert.Equal(t, uint64(100), rate)

	failure := errors.New("commit failure")
	hook.fail = failure
	issuer := makeAccount(0x12)
	assert.Equal(t, failure, s.SetFeeRate(ctx, owner, 200))
	assert.Equal(t, failure, s.SetIssuer(ctx, owner, issuer))
	assert.Equal(t, uint64(100), s.Snapshot().FeeRate)
	assert.False(t, issuer.Equal(s.Issuer()))
	assert.Equal(t, []string{"feeRateChanged"}, recorder.Names())

	// the stored copy agrees with the live one
	hook.fail = nil
	hook.before = nil
	reloaded, err := settings.New(ctx, g, store.Pool.Settings, initialState())
	assert.Nil(t, err)
	assert.Equal(t, s.Snapshot(), reloaded.Snapshot())
}
