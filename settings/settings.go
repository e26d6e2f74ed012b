// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package settings - owner controlled market parameters
package settings

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/event"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/guard"
	"github.com/bitmark-inc/marketd/storage"
)

var stateKey = []byte("state")

// Settings - the current state and its owner check
type Settings struct {
	sync.RWMutex
	guard *guard.Guard
	pool  storage.Handle
	st    *state
	log   *logger.L
}

// New - load the persisted state, or persist initial on first start
func New(ctx context.Context, g *guard.Guard, pool storage.Handle, initial State) (*Settings, error) {
	s := &Settings{
		guard: g,
		pool:  pool,
		log:   logger.New("settings"),
	}

	err := g.Run(ctx, func(ctx context.Context) error {
		buffer := pool.Get(stateKey)
		if nil != buffer {
			var persisted State
			if err := json.Unmarshal(buffer, &persisted); nil != err {
				return err
			}
			s.st = newState(persisted)
			s.log.Info("loaded persisted settings")
			return nil
		}

		if err := initial.Validate(); nil != err {
			return err
		}
		s.st = newState(initial)
		s.log.Infof("seeded settings: owner: %s", initial.Owner)
		return s.persist(s.st)
	})
	if nil != err {
		return nil, err
	}
	return s, nil
}

func (s *Settings) persist(st *state) error {
	buffer, err := json.Marshal(st.export())
	if nil != err {
		return err
	}
	s.pool.Put(stateKey, buffer)
	return nil
}

// apply a change as one guarded operation
//
// change mutates a copy, which becomes current only once the
// operation commits and before the next operation can start
func (s *Settings) update(ctx context.Context, caller *account.Account, change func(st *state) (event.Event, error)) error {
	err := s.guard.Run(ctx, func(ctx context.Context) error {
		s.RLock()
		current := s.st
		s.RUnlock()

		if !caller.Equal(current.Owner) {
			return fault.ErrNotAdministrator
		}

		next := current.clone()
		e, err := change(next)
		if nil != err {
			return err
		}
		next.sync()
		if err := s.persist(next); nil != err {
			return err
		}
		s.guard.Emit(ctx, e)

		s.guard.OnCommit(ctx, func() {
			s.Lock()
			s.st = next
			s.Unlock()
		})
		return nil
	})
	if nil != err {
		s.log.Warnf("change rejected: caller: %s  error: %s", caller, err)
		return err
	}
	return nil
}

// Snapshot - copy of the whole state
func (s *Settings) Snapshot() State {
	s.RLock()
	defer s.RUnlock()
	return s.st.export()
}

// IsOwner - the single administrative capability check
func (s *Settings) IsOwner(a *account.Account) bool {
	s.RLock()
	defer s.RUnlock()
	return a.Equal(s.st.Owner)
}

// Trading - true if new listings and purchases are allowed
func (s *Settings) Trading() bool {
	s.RLock()
	defer s.RUnlock()
	return s.st.Trading
}

// SupportsCollection - allow-list check
func (s *Settings) SupportsCollection(c asset.Collection) bool {
	s.RLock()
	defer s.RUnlock()
	_, ok := s.st.collections[c]
	return ok
}

// SupportsCurrency - allow-list check
func (s *Settings) SupportsCurrency(c currency.Currency) bool {
	s.RLock()
	defer s.RUnlock()
	return s.st.currencies.Contains(c)
}

// Fees - receiver and rate read together
func (s *Settings) Fees() (*account.Account, uint64) {
	s.RLock()
	defer s.RUnlock()
	return s.st.FeeReceiver, s.st.FeeRate
}

// BaseURI - prefix of entitlement metadata URIs
func (s *Settings) BaseURI() string {
	s.RLock()
	defer s.RUnlock()
	return s.st.BaseURI
}

// Verifier - trusted signer of authorisations, may be nil
func (s *Settings) Verifier() *account.Account {
	s.RLock()
	defer s.RUnlock()
	return s.st.Verifier
}

// Issuer - privileged issuer, may be nil
func (s *Settings) Issuer() *account.Account {
	s.RLock()
	defer s.RUnlock()
	return s.st.Issuer
}

// SetTrading - enable or disable trading
func (s *Settings) SetTrading(ctx context.Context, caller *account.Account, enabled bool) error {
	return s.update(ctx, caller, func(st *state) (event.Event, error) {
		st.Trading = enabled
		return event.TradingChanged{Enabled: enabled}, nil
	})
}

// SetCollection - add or remove a supported collection
func (s *Settings) SetCollection(ctx context.Context, caller *account.Account, c asset.Collection, supported bool) error {
	return s.update(ctx, caller, func(st *state) (event.Event, error) {
		if err := c.Validate(); nil != err {
			return nil, err
		}
		if supported {
			st.collections[c] = struct{}{}
		} else {
			delete(st.collections, c)
		}
		return event.CollectionChanged{Collection: c, Supported: supported}, nil
	})
}

// SetCurrency - add or remove a supported currency
func (s *Settings) SetCurrency(ctx context.Context, caller *account.Account, c currency.Currency, supported bool) error {
	return s.update(ctx, caller, func(st *state) (event.Event, error) {
		if err := c.Validate(); nil != err {
			return nil, err
		}
		if supported {
			st.currencies.Add(c)
		} else {
			st.currencies.Remove(c)
		}
		return event.CurrencyChanged{Currency: c, Supported: supported}, nil
	})
}

// SetFeeReceiver - account credited with protocol fees
func (s *Settings) SetFeeReceiver(ctx context.Context, caller *account.Account, receiver *account.Account) error {
	return s.update(ctx, caller, func(st *state) (event.Event, error) {
		if receiver.IsZero() {
			return nil, fault.ErrInvalidAccount
		}
		e := event.FeeReceiverChanged{Previous: st.FeeReceiver, Current: receiver}
		st.FeeReceiver = receiver
		return e, nil
	})
}

// SetFeeRate - parts per thousand, at most MaximumFeeRate
func (s *Settings) SetFeeRate(ctx context.Context, caller *account.Account, rate uint64) error {
	return s.update(ctx, caller, func(st *state) (event.Event, error) {
		if rate > currency.MaximumFeeRate {
			return nil, fault.ErrFeeRateTooHigh
		}
		e := event.FeeRateChanged{Previous: st.FeeRate, Current: rate}
		st.FeeRate = rate
		return e, nil
	})
}

// SetBaseURI - metadata URI prefix
func (s *Settings) SetBaseURI(ctx context.Context, caller *account.Account, uri string) error {
	return s.update(ctx, caller, func(st *state) (event.Event, error) {
		st.BaseURI = uri
		return event.BaseURIChanged{URI: uri}, nil
	})
}

// SetVerifier - trusted signer of authorisations
func (s *Settings) SetVerifier(ctx context.Context, caller *account.Account, verifier *account.Account) error {
	return s.update(ctx, caller, func(st *state) (event.Event, error) {
		if verifier.IsZero() {
			return nil, fault.ErrInvalidAccount
		}
		e := event.VerifierChanged{Previous: st.Verifier, Current: verifier}
		st.Verifier = verifier
		return e, nil
	})
}

// SetIssuer - privileged issuer of entitlements
func (s *Settings) SetIssuer(ctx context.Context, caller *account.Account, issuer *account.Account) error {
	return s.update(ctx, caller, func(st *state) (event.Event, error) {
		if issuer.IsZero() {
			return nil, fault.ErrInvalidAccount
		}
		e := event.IssuerChanged{Previous: st.Issuer, Current: issuer}
		st.Issuer = issuer
		return e, nil
	})
}
