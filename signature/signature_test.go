// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signature_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/signature"
)

func TestED25519(t *testing.T) {
	key, err := account.PrivateKeyFromSeed(true, bytes.Repeat([]byte{3}, 32))
	assert.Nil(t, err)

	message := []byte("digest")
	sig := key.Sign(message)

	var v signature.Verifier = signature.ED25519{}
	assert.Nil(t, v.Verify(key.Account(), message, sig))
	assert.Equal(t, fault.ErrBadSignature, v.Verify(key.Account(), []byte("other"), sig))
	assert.Equal(t, fault.ErrBadSignature, v.Verify(nil, message, sig), "no signer configured")
	assert.Equal(t, fault.ErrBadSignature, v.Verify(key.Account(), message, nil))
}
