// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package currency

import (
	"github.com/bitmark-inc/marketd/fault"
)

// Currency - settlement currency symbol
type Currency string

// Native - sentinel for the platform's own currency, paid by
// attaching value to the purchase rather than by a token pull
const Native = Currency("NATIVE")

const maximumSymbolLength = 16

// FromString - parse and validate a symbol
func FromString(s string) (Currency, error) {
	c := Currency(s)
	if err := c.Validate(); nil != err {
		return "", err
	}
	return c, nil
}

// Validate - upper case letters and digits, starting with a letter
func (c Currency) Validate() error {
	if 0 == len(c) || len(c) > maximumSymbolLength {
		return fault.ErrInvalidCurrency
	}
	for i, r := range c {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return fault.ErrInvalidCurrency
		}
	}
	return nil
}

// IsNative - true for the sentinel
func (c Currency) IsNative() bool {
	return Native == c
}

func (c Currency) String() string {
	return string(c)
}

// UnmarshalText - validating JSON decode
func (c *Currency) UnmarshalText(s []byte) error {
	parsed, err := FromString(string(s))
	if nil != err {
		return err
	}
	*c = parsed
	return nil
}
