// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keyfile - private keys stored for market-cli
//
// a file is either the bare hex seed, or a JSON object holding the
// seed sealed under a key derived from a password
package keyfile

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"

	"github.com/bitmark-inc/go-argon2"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
)

const (
	minimumPasswordLength = 8
	saltSize              = 32
)

// errors
var (
	ErrAccountMismatch  = fault.InvalidError("key does not match stored account")
	ErrPasswordRequired = fault.InvalidError("password is required to open key file")
	ErrPasswordTooShort = fault.InvalidError("password must be at least 8 characters")
	ErrWrongPassword    = fault.InvalidError("wrong password")
)

type sealed struct {
	Account *account.Account `json:"account"`
	Salt    string           `json:"salt"`
	Key     string           `json:"key"`
}

// Write - save the key, encrypted when a password is given
func Write(name string, key *account.PrivateKey, password string) error {
	if "" == password {
		return os.WriteFile(name, []byte(key.String()+"\n"), 0600)
	}
	if len(password) < minimumPasswordLength {
		return ErrPasswordTooShort
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); nil != err {
		return err
	}
	aead, err := newCipher(password, salt)
	if nil != err {
		return err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); nil != err {
		return err
	}

	seed := key.PrivateKey.Seed()
	s := sealed{
		Account: key.Account(),
		Salt:    hex.EncodeToString(salt),
		Key:     hex.EncodeToString(aead.Seal(nonce, nonce, seed, nil)),
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if nil != err {
		return err
	}
	return os.WriteFile(name, append(data, '\n'), 0600)
}

// Read - load a key written by Write
func Read(name string, test bool, password string) (*account.PrivateKey, error) {
	data, err := os.ReadFile(name)
	if nil != err {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if 0 == len(data) || '{' != data[0] {
		return account.PrivateKeyFromHex(test, string(data))
	}

	if "" == password {
		return nil, ErrPasswordRequired
	}

	var s sealed
	if err := json.Unmarshal(data, &s); nil != err {
		return nil, err
	}
	salt, err := hex.DecodeString(s.Salt)
	if nil != err {
		return nil, err
	}
	ciphertext, err := hex.DecodeString(s.Key)
	if nil != err {
		return nil, err
	}

	aead, err := newCipher(password, salt)
	if nil != err {
		return nil, err
	}
	if len(ciphertext) < aead.NonceSize() {
		return nil, fault.ErrCannotDecodePrivateKey
	}
	nonce := ciphertext[:aead.NonceSize()]
	seed, err := aead.Open(nil, nonce, ciphertext[aead.NonceSize():], nil)
	if nil != err {
		return nil, ErrWrongPassword
	}

	key, err := account.PrivateKeyFromSeed(test, seed)
	if nil != err {
		return nil, err
	}
	if !key.Account().Equal(s.Account) {
		return nil, ErrAccountMismatch
	}
	return key, nil
}

// AES-256-GCM keyed by argon2i of the password
func newCipher(password string, salt []byte) (cipher.AEAD, error) {
	ctx := &argon2.Context{
		Iterations:  5,
		Memory:      1 << 16,
		Parallelism: 4,
		HashLen:     32,
		Mode:        argon2.ModeArgon2i,
		Version:     argon2.Version13,
	}
	hash, err := argon2.Hash(ctx, []byte(password), salt)
	if nil != err {
		return nil, err
	}
	block, err := aes.NewCipher(hash)
	if nil != err {
		return nil, err
	}
	return cipher.NewGCM(block)
}
