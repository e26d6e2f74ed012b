// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"encoding/hex"
	"io"
	"strings"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/marketd/fault"
)

// PrivateKey - signing key for an account
type PrivateKey struct {
	Test       bool
	PrivateKey ed25519.PrivateKey
}

// NewPrivateKey - generate a fresh key pair from the random source
func NewPrivateKey(test bool, random io.Reader) (*PrivateKey, error) {
	_, privateKey, err := ed25519.GenerateKey(random)
	if nil != err {
		return nil, err
	}
	return &PrivateKey{
		Test:       test,
		PrivateKey: privateKey,
	}, nil
}

// PrivateKeyFromSeed - deterministic key from a 32 byte seed
func PrivateKeyFromSeed(test bool, seed []byte) (*PrivateKey, error) {
	if ed25519.SeedSize != len(seed) {
		return nil, fault.ErrInvalidKeyLength
	}
	return &PrivateKey{
		Test:       test,
		PrivateKey: ed25519.NewKeyFromSeed(seed),
	}, nil
}

// PrivateKeyFromHex - parse the hex seed written by String
func PrivateKeyFromHex(test bool, s string) (*PrivateKey, error) {
	seed, err := hex.DecodeString(strings.TrimSpace(s))
	if nil != err {
		return nil, fault.ErrCannotDecodePrivateKey
	}
	return PrivateKeyFromSeed(test, seed)
}

// Account - the public side of the key
func (privateKey *PrivateKey) Account() *Account {
	publicKey := make([]byte, ed25519.PublicKeySize)
	copy(publicKey, privateKey.PrivateKey.Public().(ed25519.PublicKey))
	return &Account{
		Test:      privateKey.Test,
		PublicKey: publicKey,
	}
}

// Sign - detached signature over message
func (privateKey *PrivateKey) Sign(message []byte) Signature {
	return ed25519.Sign(privateKey.PrivateKey, message)
}

// String - hex of the seed
func (privateKey *PrivateKey) String() string {
	return hex.EncodeToString(privateKey.PrivateKey.Seed())
}
