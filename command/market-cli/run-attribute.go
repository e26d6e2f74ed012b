// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/command/market-cli/rpccalls"
)

// bundle, deadline and verifier signature shared by mint and update
func attributeData(c *cli.Context, signed bool) (*rpccalls.AttributeData, error) {
	bundle, err := checkBundle(c)
	if nil != err {
		return nil, err
	}
	deadline, err := checkDeadline(c)
	if nil != err {
		return nil, err
	}
	data := &rpccalls.AttributeData{
		RecordId:    c.Uint64("record"),
		Bundle:      bundle,
		LinkedAsset: c.Uint64("linked"),
		Deadline:    deadline,
	}
	if signed {
		data.Authorisation, err = checkSignature(c.String("signature"))
		if nil != err {
			return nil, err
		}
	}
	return data, nil
}

func runMint(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	data, err := attributeData(c, true)
	if nil != err {
		return err
	}
	data.Recipient, err = checkAccount(c.String("recipient"))
	if nil != err {
		return err
	}

	client, err := connect(m, false)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Mint(data)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

func runUpdate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	data, err := attributeData(c, true)
	if nil != err {
		return err
	}
	if 0 == data.RecordId {
		return ErrRequiredRecordId
	}

	client, err := connect(m, true)
	if nil != err {
		return err
	}
	defer client.Close()

	return client.Update(data)
}

func runAttributeTransfer(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	recordId := c.Uint64("record")
	if 0 == recordId {
		return ErrRequiredRecordId
	}
	to, err := checkAccount(c.String("receiver"))
	if nil != err {
		return err
	}

	client, err := connect(m, true)
	if nil != err {
		return err
	}
	defer client.Close()

	return client.TransferAttribute(recordId, to)
}

func runAttribute(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	recordId := c.Uint64("record")
	var owner *account.Account
	if "" != c.String("owner") {
		a, err := checkAccount(c.String("owner"))
		if nil != err {
			return err
		}
		owner = a
	}

	client, err := connect(m, false)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.GetAttribute(recordId, owner)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

// without --values only the current nonce is shown
func runAttributeNonce(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	principal, err := checkAccount(c.String("principal"))
	if nil != err {
		return err
	}

	data := &rpccalls.AttributeData{}
	withBundle := "" != c.String("values")
	if withBundle {
		data, err = attributeData(c, false)
		if nil != err {
			return err
		}
	}

	client, err := connect(m, false)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.AttributeNonce(principal, data, withBundle)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}
