// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package attributes_test

import (
	"encoding/hex"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/attribute"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/rpc/attributes"
	"github.com/bitmark-inc/marketd/rpc/envelope"
	"github.com/bitmark-inc/marketd/rpc/fixtures"
	"github.com/bitmark-inc/marketd/storage"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func setup(t *testing.T) (*attributes.Attribute, *storage.Store) {
	m, store, _, err := fixtures.NewMarket()
	if nil != err {
		t.Fatalf("market error: %s", err)
	}
	a := attributes.New(
		logger.New(fixtures.LogCategory),
		m.Attributes,
		envelope.NewVerifier(time.Minute, fixtures.Clock),
		nil,
	)
	return a, store
}

// ask the service for the digest and have the verifier sign it
func authorise(t *testing.T, a *attributes.Attribute, arguments *attributes.NonceArguments) account.Signature {
	var reply attributes.NonceReply
	if err := a.Nonce(arguments, &reply); nil != err {
		t.Fatalf("nonce error: %s", err)
	}
	digest, err := hex.DecodeString(reply.Digest)
	if nil != err || 32 != len(digest) {
		t.Fatalf("bad digest: %q", reply.Digest)
	}
	return fixtures.VerifierKey.Sign(digest)
}

func mint(t *testing.T, a *attributes.Attribute, recipient *account.Account, bundle attribute.Bundle, deadline uint64) uint64 {
	sig := authorise(t, a, &attributes.NonceArguments{Principal: recipient, Bundle: &bundle, Deadline: deadline})
	var reply attributes.MintReply
	err := a.Mint(&attributes.MintArguments{
		Recipient: recipient,
		Bundle:    bundle,
		Deadline:  deadline,
		Signature: sig,
	}, &reply)
	if nil != err {
		t.Fatalf("mint error: %s", err)
	}
	return reply.RecordId
}

func TestMint(t *testing.T) {
	a, store := setup(t)
	defer store.Close()

	recipient := fixtures.BuyerKey.Account()
	deadline := uint64(fixtures.Now.Unix() + 60)
	bundle := attribute.Bundle{Values: []uint64{3, 1, 4}, Label: "level"}

	recordId := mint(t, a, recipient, bundle, deadline)
	assert.Equal(t, uint64(1), recordId)

	var get attributes.GetReply
	assert.Nil(t, a.Get(&attributes.GetArguments{RecordId: recordId}, &get))
	assert.Equal(t, bundle, get.Record.Bundle)
	assert.True(t, get.Record.Soulbound)
	assert.True(t, recipient.Equal(get.Record.Owner))
	assert.Equal(t, uint64(1), get.Minted)

	get = attributes.GetReply{}
	assert.Nil(t, a.Get(&attributes.GetArguments{Owner: recipient}, &get))
	assert.Equal(t, recordId, get.Record.Id)

	err := a.Get(&attributes.GetArguments{}, &get)
	assert.Equal(t, fault.ErrMissingParameters, err)

	err = a.Get(&attributes.GetArguments{RecordId: 99}, &get)
	assert.Equal(t, fault.ErrRecordNotFound, err)

	// a second record for the same owner is refused before the signature is checked
	err = a.Mint(&attributes.MintArguments{
		Recipient: recipient,
		Bundle:    bundle,
		Deadline:  deadline,
	}, &attributes.MintReply{})
	assert.Equal(t, fault.ErrAlreadyOwns, err)
}

func TestMintBadSignature(t *testing.T) {
	a, store := setup(t)
	defer store.Close()

	recipient := fixtures.BuyerKey.Account()
	deadline := uint64(fixtures.Now.Unix() + 60)
	bundle := attribute.Bundle{Values: []uint64{7}, Label: "rank"}

	var nonce attributes.NonceReply
	assert.Nil(t, a.Nonce(&attributes.NonceArguments{Principal: recipient, Bundle: &bundle, Deadline: deadline}, &nonce))
	digest, err := hex.DecodeString(nonce.Digest)
	assert.Nil(t, err)

	err = a.Mint(&attributes.MintArguments{
		Recipient: recipient,
		Bundle:    bundle,
		Deadline:  deadline,
		Signature: fixtures.SellerKey.Sign(digest),
	}, &attributes.MintReply{})
	assert.Equal(t, fault.ErrBadSignature, err)

	err = a.Mint(&attributes.MintArguments{
		Recipient: recipient,
		Bundle:    attribute.Bundle{Label: "empty"},
		Deadline:  deadline,
	}, &attributes.MintReply{})
	assert.Equal(t, fault.ErrInvalidBundle, err)
}

func TestUpdate(t *testing.T) {
	a, store := setup(t)
	defer store.Close()

	owner := fixtures.BuyerKey.Account()
	deadline := uint64(fixtures.Now.Unix() + 60)
	recordId := mint(t, a, owner, attribute.Bundle{Values: []uint64{1}, Label: "tier"}, deadline)

	changed := attribute.Bundle{Values: []uint64{2, 2}, Label: "tier"}
	sig := authorise(t, a, &attributes.NonceArguments{
		Principal:   owner,
		RecordId:    recordId,
		Bundle:      &changed,
		LinkedAsset: 42,
		Deadline:    deadline,
	})

	arguments := &attributes.UpdateArguments{
		RecordId:      recordId,
		Bundle:        changed,
		LinkedAsset:   42,
		Deadline:      deadline,
		Authorisation: sig,
	}

	// only the owner may update
	assert.Nil(t, envelope.Seal(arguments, fixtures.SellerKey, fixtures.Now))
	err := a.Update(arguments, &attributes.UpdateReply{})
	assert.Equal(t, fault.ErrNotOwner, err)

	assert.Nil(t, envelope.Seal(arguments, fixtures.BuyerKey, fixtures.Now))
	assert.Nil(t, a.Update(arguments, &attributes.UpdateReply{}))

	var get attributes.GetReply
	assert.Nil(t, a.Get(&attributes.GetArguments{RecordId: recordId}, &get))
	assert.Equal(t, changed, get.Record.Bundle)
	assert.Equal(t, uint64(42), get.Record.LinkedAsset)

	// same request again
	err = a.Update(arguments, &attributes.UpdateReply{})
	assert.Equal(t, fault.ErrReplayedRequest, err)

	// fresh envelope, consumed authorisation
	assert.Nil(t, envelope.Seal(arguments, fixtures.BuyerKey, fixtures.Now.Add(time.Second)))
	err = a.Update(arguments, &attributes.UpdateReply{})
	assert.Equal(t, fault.ErrBadSignature, err)
}

func TestTransfer(t *testing.T) {
	a, store := setup(t)
	defer store.Close()

	owner := fixtures.BuyerKey.Account()
	deadline := uint64(fixtures.Now.Unix() + 60)
	recordId := mint(t, a, owner, attribute.Bundle{Values: []uint64{5}, Label: "badge"}, deadline)

	arguments := &attributes.TransferArguments{
		RecordId: recordId,
		To:       fixtures.SellerKey.Account(),
	}
	assert.Nil(t, envelope.Seal(arguments, fixtures.BuyerKey, fixtures.Now))
	err := a.Transfer(arguments, &attributes.TransferReply{})
	assert.Equal(t, fault.ErrSoulbound, err)

	unsigned := &attributes.TransferArguments{
		RecordId: recordId,
		To:       fixtures.SellerKey.Account(),
	}
	err = a.Transfer(unsigned, &attributes.TransferReply{})
	assert.Equal(t, fault.ErrInvalidAccount, err)
}

func TestNonce(t *testing.T) {
	a, store := setup(t)
	defer store.Close()

	var reply attributes.NonceReply
	err := a.Nonce(&attributes.NonceArguments{}, &reply)
	assert.Equal(t, fault.ErrInvalidAccount, err)

	assert.Nil(t, a.Nonce(&attributes.NonceArguments{Principal: fixtures.BuyerKey.Account()}, &reply))
	assert.Equal(t, uint64(0), reply.Nonce)
	assert.Equal(t, "", reply.Digest)
}
