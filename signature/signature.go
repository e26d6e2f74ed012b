// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package signature - detached signature verification
package signature

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
)

// Verifier - checks that signer produced sig over message
type Verifier interface {
	Verify(signer *account.Account, message []byte, sig account.Signature) error
}

// ED25519 - verifier for ED25519 account keys
type ED25519 struct{}

// Verify - fails with ErrBadSignature for any mismatch
func (ED25519) Verify(signer *account.Account, message []byte, sig account.Signature) error {
	if signer.IsZero() {
		return fault.ErrBadSignature
	}
	return signer.CheckSignature(message, sig)
}
