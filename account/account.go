// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/util"
)

// supported key algorithms
const (
	ED25519 = 1
)

const (
	checksumLength = 4

	// bits in key code starting from LSB
	publicKeyCode  = 0x01
	testKeyCode    = 0x02
	algorithmShift = 4
)

// Account - a principal identified by an ED25519 public key
type Account struct {
	Test      bool
	PublicKey ed25519.PublicKey
}

// FromBase58 - decode the text form of an account
func FromBase58(s string) (*Account, error) {
	buffer, err := base58.Decode(s)
	if nil != err || len(buffer) <= checksumLength {
		return nil, fault.ErrCannotDecodeAccount
	}

	checksumStart := len(buffer) - checksumLength
	checksum := sha3.Sum256(buffer[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], buffer[checksumStart:]) {
		return nil, fault.ErrChecksumMismatch
	}
	return FromBytes(buffer[:checksumStart])
}

// FromBytes - decode the packed form of an account
func FromBytes(buffer []byte) (*Account, error) {
	keyVariant, n := util.FromVarint64(buffer)
	if 0 == n || keyVariant&publicKeyCode != publicKeyCode {
		return nil, fault.ErrNotPublicKey
	}
	if ED25519 != keyVariant>>algorithmShift {
		return nil, fault.ErrInvalidKeyType
	}
	if len(buffer)-n != ed25519.PublicKeySize {
		return nil, fault.ErrInvalidKeyLength
	}

	publicKey := make([]byte, ed25519.PublicKeySize)
	copy(publicKey, buffer[n:])
	return &Account{
		Test:      0 != keyVariant&testKeyCode,
		PublicKey: publicKey,
	}, nil
}

// Bytes - packed form: key variant followed by the public key
func (account *Account) Bytes() []byte {
	keyVariant := byte(ED25519<<algorithmShift) | publicKeyCode
	if account.Test {
		keyVariant |= testKeyCode
	}
	return append([]byte{keyVariant}, account.PublicKey...)
}

// String - base58 of the packed form with a checksum
func (account *Account) String() string {
	buffer := account.Bytes()
	checksum := sha3.Sum256(buffer)
	return base58.Encode(append(buffer, checksum[:checksumLength]...))
}

// Equal - same key on the same network
func (account *Account) Equal(other *Account) bool {
	if nil == account || nil == other {
		return account == other
	}
	return account.Test == other.Test && bytes.Equal(account.PublicKey, other.PublicKey)
}

// IsZero - true for a nil account
func (account *Account) IsZero() bool {
	return nil == account || 0 == len(account.PublicKey)
}

// CheckSignature - verify a detached signature over a message
func (account *Account) CheckSignature(message []byte, signature Signature) error {
	if ed25519.SignatureSize != len(signature) || ed25519.PublicKeySize != len(account.PublicKey) {
		return fault.ErrBadSignature
	}
	if !ed25519.Verify(account.PublicKey, message, signature) {
		return fault.ErrBadSignature
	}
	return nil
}

// MarshalText - JSON form is the base58 string
func (account Account) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// UnmarshalText - parse the base58 string
func (account *Account) UnmarshalText(s []byte) error {
	a, err := FromBase58(string(s))
	if nil != err {
		return err
	}
	*account = *a
	return nil
}
