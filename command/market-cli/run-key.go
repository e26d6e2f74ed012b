// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/command/market-cli/keyfile"
)

type keyReply struct {
	Account    *account.Account `json:"account"`
	PrivateKey string           `json:"privateKey,omitempty"`
	File       string           `json:"file,omitempty"`
}

func runKeygen(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	key, err := account.NewPrivateKey(m.testnet, rand.Reader)
	if nil != err {
		return err
	}

	reply := keyReply{
		Account: key.Account(),
	}

	output := c.String("output")
	if "" == output {
		reply.PrivateKey = key.String()
	} else {
		err = keyfile.Write(output, key, m.password)
		if nil != err {
			return err
		}
		reply.File = output
	}

	printJson(m.w, reply)
	return nil
}

func runAccount(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	key, err := loadKey(m)
	if nil != err {
		return err
	}

	printJson(m.w, keyReply{Account: key.Account()})
	return nil
}

type signReply struct {
	Signer    *account.Account  `json:"signer"`
	Signature account.Signature `json:"signature"`
}

// the verifier signs the raw digest bytes returned by a nonce call
func runSign(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	s := strings.TrimSpace(c.String("digest"))
	if "" == s {
		return ErrRequiredDigest
	}
	digest, err := hex.DecodeString(s)
	if nil != err || 32 != len(digest) {
		return ErrInvalidDigest
	}

	key, err := loadKey(m)
	if nil != err {
		return err
	}

	printJson(m.w, signReply{
		Signer:    key.Account(),
		Signature: key.Sign(digest),
	})
	return nil
}
