// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/command/market-cli/rpccalls"
)

func runIssue(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	recipient, err := checkAccount(c.String("recipient"))
	if nil != err {
		return err
	}
	category := c.Uint64("category")
	if 0 == category {
		return ErrRequiredCategory
	}

	data := &rpccalls.IssueData{
		Recipient: recipient,
		Category:  category,
	}

	// with a verifier signature the request needs no caller key
	signed := "" != c.String("signature")
	if signed {
		data.Deadline, err = checkDeadline(c)
		if nil != err {
			return err
		}
		data.Signature, err = checkSignature(c.String("signature"))
		if nil != err {
			return err
		}
	}

	client, err := connect(m, !signed)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Issue(data)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

func runEntitlement(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	tokenId := c.Uint64("token")
	if 0 == tokenId {
		return ErrRequiredTokenId
	}

	client, err := connect(m, false)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.GetEntitlement(tokenId)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

func runRemaining(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	category := c.Uint64("category")
	if 0 == category {
		return ErrRequiredCategory
	}

	client, err := connect(m, false)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Remaining(category)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

func runEntitlementNonce(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	recipient, err := checkAccount(c.String("recipient"))
	if nil != err {
		return err
	}
	category := c.Uint64("category")
	if 0 == category {
		return ErrRequiredCategory
	}
	deadline, err := checkDeadline(c)
	if nil != err {
		return err
	}

	client, err := connect(m, false)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.EntitlementNonce(recipient, category, deadline)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}
