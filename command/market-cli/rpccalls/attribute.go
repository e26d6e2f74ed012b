// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/attribute"
	"github.com/bitmark-inc/marketd/rpc/attributes"
)

// AttributeData - parameters for mint and update
type AttributeData struct {
	Recipient     *account.Account
	RecordId      uint64
	Bundle        attribute.Bundle
	LinkedAsset   uint64
	Deadline      uint64
	Authorisation account.Signature
}

// Mint - create the soulbound record, no caller signature required
func (client *Client) Mint(data *AttributeData) (*attributes.MintReply, error) {
	arguments := &attributes.MintArguments{
		Recipient: data.Recipient,
		Bundle:    data.Bundle,
		Deadline:  data.Deadline,
		Signature: data.Authorisation,
	}
	reply := &attributes.MintReply{}
	if err := client.call("Attribute.Mint", arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// Update - replace the bundle of an owned record
func (client *Client) Update(data *AttributeData) error {
	arguments := &attributes.UpdateArguments{
		RecordId:      data.RecordId,
		Bundle:        data.Bundle,
		LinkedAsset:   data.LinkedAsset,
		Deadline:      data.Deadline,
		Authorisation: data.Authorisation,
	}
	return client.sealed("Attribute.Update", arguments, &attributes.UpdateReply{})
}

// TransferAttribute - always refused by the node, kept for completeness
func (client *Client) TransferAttribute(recordId uint64, to *account.Account) error {
	arguments := &attributes.TransferArguments{
		RecordId: recordId,
		To:       to,
	}
	return client.sealed("Attribute.Transfer", arguments, &attributes.TransferReply{})
}

// GetAttribute - by record id or by owner
func (client *Client) GetAttribute(recordId uint64, owner *account.Account) (*attributes.GetReply, error) {
	arguments := &attributes.GetArguments{
		RecordId: recordId,
		Owner:    owner,
	}
	reply := &attributes.GetReply{}
	if err := client.call("Attribute.Get", arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

// AttributeNonce - next nonce, with a digest when a bundle is given
func (client *Client) AttributeNonce(principal *account.Account, data *AttributeData, bundle bool) (*attributes.NonceReply, error) {
	arguments := &attributes.NonceArguments{
		Principal:   principal,
		RecordId:    data.RecordId,
		LinkedAsset: data.LinkedAsset,
		Deadline:    data.Deadline,
	}
	if bundle {
		arguments.Bundle = &data.Bundle
	}
	reply := &attributes.NonceReply{}
	if err := client.call("Attribute.Nonce", arguments, reply); nil != err {
		return nil, err
	}
	return reply, nil
}
