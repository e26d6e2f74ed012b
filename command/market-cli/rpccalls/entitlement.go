// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/rpc/entitlement"
)

// IssueData - parameters for issuing an entitlement
//
// a nil Signature issues as the caller, otherwise the request is
// presented with the verifier's authorisation
type IssueData struct {
	Recipient *account.Account
	Category  uint64
	Deadline  uint64
	Signature account.Signature
}

// Issue - create a new entitlement for the recipient
func (client *Client) Issue(data *IssueData) (*entitlement.IssueReply, error) {
	reply := &entitlement.IssueReply{}

	if nil == data.Signature {
		arguments := &entitlement.IssueArguments{
			Recipient: data.Recipient,
			Category:  data.Category,
		}
		if err := client.sealed("Entitlement.Issue", arguments, reply); nil != err {
			return nil, err
		}
		return reply, nil
	}

	arguments := &entitlement.IssueSignedArguments{
		Recipient: data.Recipient,
		Category:  data.Category,
		Deadline:  data.Deadline,
		Signature: data.Signature,
	}
	if err := client.call("Entitlement.IssueSigned", arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// GetEntitlement - token record and its URI
func (client *Client) GetEntitlement(tokenId uint64) (*entitlement.GetReply, error) {
	arguments := &entitlement.GetArguments{
		TokenId: tokenId,
	}
	reply := &entitlement.GetReply{}
	if err := client.call("Entitlement.Get", arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// Remaining - unissued quota for a category
func (client *Client) Remaining(category uint64) (*entitlement.RemainingReply, error) {
	arguments := &entitlement.RemainingArguments{
		Category: category,
	}
	reply := &entitlement.RemainingReply{}
	if err := client.call("Entitlement.Remaining", arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// EntitlementNonce - next nonce and the digest the verifier must sign
func (client *Client) EntitlementNonce(principal *account.Account, category uint64, deadline uint64) (*entitlement.NonceReply, error) {
	arguments := &entitlement.NonceArguments{
		Principal: principal,
		Category:  category,
		Deadline:  deadline,
	}
	reply := &entitlement.NonceReply{}
	if err := client.call("Entitlement.Nonce", arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}
