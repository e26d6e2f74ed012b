// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settlement_test

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	assetmocks "github.com/bitmark-inc/marketd/asset/mocks"
	"github.com/bitmark-inc/marketd/currency"
	currencymocks "github.com/bitmark-inc/marketd/currency/mocks"
	"github.com/bitmark-inc/marketd/escrow"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/guard"
	"github.com/bitmark-inc/marketd/settings"
	"github.com/bitmark-inc/marketd/settlement"
	"github.com/bitmark-inc/marketd/storage"
)

func TestMain(m *testing.M) {
	dir, _ := os.MkdirTemp("", "settlement-test")
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
	owner       = makeAccount(0x01)
	market      = makeAccount(0x02)
	seller      = makeAccount(0x03)
	buyer       = makeAccount(0x04)
	feeReceiver = makeAccount(0x05)

	listTime = time.Unix(1600000000, 0).UTC()
)

const (
	art  = asset.Collection("art")
	usdc = currency.Currency("USDC")
)

type fixture struct {
	ctl      *gomock.Controller
	store    *storage.Store
	recorder *event.Recorder
	settings *settings.Settings
	assets   *assetmocks.MockTransfer
	funds    *currencymocks.MockTransfer
	ledger   *escrow.Ledger
	engine   *settlement.Engine
	now      time.Time
}

func setup(t *testing.T, feeRate uint64) *fixture {
	ctl := gomock.NewController(t)
	store, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory store error: %s", err)
	}
	recorder := &event.Recorder{}
	g := guard.New(store, recorder)

	st, err := settings.New(context.Background(), g, store.Pool.Settings, settings.State{
		Owner:       owner,
		Trading:     true,
		Collections: []asset.Collection{art},
		Currencies:  []currency.Currency{currency.Native, usdc},
		FeeReceiver: feeReceiver,
		FeeRate:     feeRate,
	})
	if nil != err {
		t.Fatalf("settings error: %s", err)
	}

	f := &fixture{
		ctl:      ctl,
		store:    store,
		recorder: recorder,
		settings: st,
		assets:   assetmocks.NewMockTransfer(ctl),
		funds:    currencymocks.NewMockTransfer(ctl),
		now:      listTime,
	}
	clock := func() time.Time { return f.now }
	f.ledger = escrow.New(g, st, f.assets, market, escrow.Pools{
		Sales:     store.Pool.Sales,
		SaleIndex: store.Pool.SaleIndex,
		Sequences: store.Pool.Sequences,
	}, clock)
	f.engine = settlement.New(g, st, f.ledger, f.funds, clock)
	return f
}

func (f *fixture) teardown() {
	f.ctl.Finish()
	f.store.Close()
}

func (f *fixture) list(t *testing.T, id asset.Identifier, price uint64, cur currency.Currency) uint64 {
	f.assets.EXPECT().TransferAsset(gomock.Any(), market, art, seller, market, id).Return(nil).Times(1)
	saleId, err := f.ledger.List(context.Background(), seller, art, id, price, cur)
	if nil != err {
		t.Fatalf("list error: %s", err)
	}
	f.recorder.Reset()
	return saleId
}

func (f *fixture) status(t *testing.T, id asset.Identifier) escrow.Status {
	r, err := f.ledger.Record(context.Background(), art, id)
	if nil != err {
		t.Fatalf("record error: %s", err)
	}
	return r.Status
}
