// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settings

import (
	"sort"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/fault"
)

// State - administrative parameters of the market
type State struct {
	Owner       *account.Account    `json:"owner"`
	Trading     bool                `json:"trading"`
	Collections []asset.Collection  `json:"collections"`
	Currencies  []currency.Currency `json:"currencies"`
	FeeReceiver *account.Account    `json:"feeReceiver"`
	FeeRate     uint64              `json:"feeRate"`
	BaseURI     string              `json:"baseURI"`
	Verifier    *account.Account    `json:"verifier"`
	Issuer      *account.Account    `json:"issuer"`
}

// Validate - check a complete state
func (s *State) Validate() error {
	if s.Owner.IsZero() || s.FeeReceiver.IsZero() {
		return fault.ErrInvalidAccount
	}
	if s.FeeRate > currency.MaximumFeeRate {
		return fault.ErrFeeRateTooHigh
	}
	for _, c := range s.Collections {
		if err := c.Validate(); nil != err {
			return err
		}
	}
	for _, c := range s.Currencies {
		if err := c.Validate(); nil != err {
			return err
		}
	}
	return nil
}

// working form with sets for the allow-lists
type state struct {
	State
	collections map[asset.Collection]struct{}
	currencies  currency.Set
}

func newState(s State) *state {
	st := &state{
		State:       s,
		collections: make(map[asset.Collection]struct{}),
		currencies:  currency.MakeSet(s.Currencies...),
	}
	for _, c := range s.Collections {
		st.collections[c] = struct{}{}
	}
	st.sync()
	return st
}

// copy with fresh sets
func (st *state) clone() *state {
	return newState(st.export())
}

// refresh the exported lists from the sets
func (st *state) sync() {
	st.Collections = make([]asset.Collection, 0, len(st.collections))
	for c := range st.collections {
		st.Collections = append(st.Collections, c)
	}
	sort.Slice(st.Collections, func(i, j int) bool { return st.Collections[i] < st.Collections[j] })
	st.Currencies = st.currencies.List()
}

func (st *state) export() State {
	s := st.State
	s.Collections = append([]asset.Collection(nil), st.Collections...)
	s.Currencies = append([]currency.Currency(nil), st.Currencies...)
	return s
}
