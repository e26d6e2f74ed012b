// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/marketd/fault"
)

// common errors - keep in alphabetic order
var (
	ErrRequiredAccount    = fault.InvalidError("account is required")
	ErrRequiredAssetId    = fault.InvalidError("asset id is required")
	ErrRequiredCategory   = fault.InvalidError("category is required")
	ErrRequiredCollection = fault.InvalidError("collection is required")
	ErrRequiredCurrency   = fault.InvalidError("currency is required")
	ErrRequiredDeadline   = fault.InvalidError("deadline is required")
	ErrRequiredDigest     = fault.InvalidError("digest is required")
	ErrRequiredKeyFile    = fault.InvalidError("key file is required")
	ErrRequiredPrice      = fault.InvalidError("price is required")
	ErrRequiredRecordId   = fault.InvalidError("record id is required")
	ErrRequiredSignature  = fault.InvalidError("signature is required")
	ErrRequiredTokenId    = fault.InvalidError("token id is required")
	ErrRequiredValues     = fault.InvalidError("attribute values are required")
	ErrInvalidDigest      = fault.InvalidError("digest must be 32 hex bytes")
)
