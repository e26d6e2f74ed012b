// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.  Each error
// belongs to exactly one class so callers can decide how to react:
//
//	InvalidError       - malformed input, resubmit with corrected fields
//	AuthorisationError - bad signature, expired deadline or wrong caller
//	StateError         - record or quota not in the required state
//	FundsError         - payment or currency does not match the sale
//
// the remaining classes cover infrastructure failures
package fault
