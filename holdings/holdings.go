// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package holdings - reference asset and currency ports
//
// ownership, balances and approvals share the market's database so a
// failed market operation also rolls back anything moved here
package holdings

import (
	"context"
	"math/bits"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/asset"
	"github.com/bitmark-inc/marketd/currency"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/guard"
	"github.com/bitmark-inc/marketd/storage"
)

// Pools - storage used by the holdings
type Pools struct {
	Owners    storage.Handle
	Balances  storage.Handle
	Approvals storage.Handle
}

// Holdings - asset owners, balances and operator approvals
type Holdings struct {
	sync.RWMutex
	guard     *guard.Guard
	owners    storage.Handle
	balances  storage.Handle
	approvals storage.Handle
	receivers map[string]asset.Receiver
	log       *logger.L
}

// New - create holdings over the given pools
func New(g *guard.Guard, pools Pools) *Holdings {
	return &Holdings{
		guard:     g,
		owners:    pools.Owners,
		balances:  pools.Balances,
		approvals: pools.Approvals,
		receivers: make(map[string]asset.Receiver),
		log:       logger.New("holdings"),
	}
}

// Register - call r whenever an asset is transferred to a
func (h *Holdings) Register(a *account.Account, r asset.Receiver) {
	h.Lock()
	h.receivers[string(a.Bytes())] = r
	h.Unlock()
}

func (h *Holdings) receiver(a *account.Account) (asset.Receiver, bool) {
	h.RLock()
	defer h.RUnlock()
	r, ok := h.receivers[string(a.Bytes())]
	return r, ok
}

// TransferAsset - move an asset from its owner
func (h *Holdings) TransferAsset(ctx context.Context, operator *account.Account, c asset.Collection, from *account.Account, to *account.Account, id asset.Identifier) error {
	return h.guard.Within(ctx, func(ctx context.Context) error {
		if to.IsZero() || operator.IsZero() {
			return fault.ErrInvalidAccount
		}
		key := asset.Key(c, id)
		if from.IsZero() || !from.Equal(h.owner(key)) {
			return fault.ErrNotAssetOwner
		}
		if !operator.Equal(from) && !h.approved(from, operator) {
			return fault.ErrNotApproved
		}

		h.owners.Put(key, to.Bytes())
		h.log.Debugf("asset: %s/%s  from: %s  to: %s", c, id, from, to)

		r, ok := h.receiver(to)
		if !ok {
			return nil
		}
		code, err := r.OnAssetReceived(ctx, operator, from, c, id)
		if nil != err {
			return err
		}
		if asset.Accepted != code {
			return fault.ErrTransferRejected
		}
		return nil
	})
}

// TransferNative - move native value
func (h *Holdings) TransferNative(ctx context.Context, from *account.Account, to *account.Account, amount uint64) error {
	return h.guard.Within(ctx, func(ctx context.Context) error {
		return h.move(currency.Native, from, to, amount)
	})
}

// TransferFrom - spend an operator's allowance
func (h *Holdings) TransferFrom(ctx context.Context, operator *account.Account, c currency.Currency, from *account.Account, to *account.Account, amount uint64) error {
	return h.guard.Within(ctx, func(ctx context.Context) error {
		if operator.IsZero() {
			return fault.ErrInvalidAccount
		}
		key := allowanceKey(c, from, operator)
		allowance, _ := h.approvals.GetN(key)
		if allowance < amount {
			return fault.ErrNotApproved
		}
		if err := h.move(c, from, to, amount); nil != err {
			return err
		}
		h.approvals.PutN(key, allowance-amount)
		return nil
	})
}

func (h *Holdings) move(c currency.Currency, from *account.Account, to *account.Account, amount uint64) error {
	if from.IsZero() || to.IsZero() {
		return fault.ErrInvalidAccount
	}
	fromKey := balanceKey(c, from)
	balance, _ := h.balances.GetN(fromKey)
	if balance < amount {
		return fault.ErrInsufficientBalance
	}

	toKey := balanceKey(c, to)
	credit := balance - amount
	if !from.Equal(to) {
		credit, _ = h.balances.GetN(toKey)
	}
	total, carry := bits.Add64(credit, amount, 0)
	if 0 != carry {
		return fault.ErrBalanceOverflow
	}

	h.balances.PutN(fromKey, balance-amount)
	h.balances.PutN(toKey, total)

	h.log.Debugf("currency: %s  from: %s  to: %s  amount: %d", c, from, to, amount)
	return nil
}

// Mint - create a new asset owned by to
func (h *Holdings) Mint(ctx context.Context, to *account.Account, c asset.Collection, id asset.Identifier) error {
	return h.guard.Within(ctx, func(ctx context.Context) error {
		if err := c.Validate(); nil != err {
			return err
		}
		if err := id.Validate(); nil != err {
			return err
		}
		if to.IsZero() {
			return fault.ErrInvalidAccount
		}
		key := asset.Key(c, id)
		if h.owners.Has(key) {
			return fault.ErrAssetExists
		}
		h.owners.Put(key, to.Bytes())
		h.log.Infof("minted asset: %s/%s  owner: %s", c, id, to)
		return nil
	})
}

// Deposit - credit an account
func (h *Holdings) Deposit(ctx context.Context, to *account.Account, c currency.Currency, amount uint64) error {
	return h.guard.Within(ctx, func(ctx context.Context) error {
		if to.IsZero() {
			return fault.ErrInvalidAccount
		}
		if err := c.Validate(); nil != err {
			return err
		}
		key := balanceKey(c, to)
		balance, _ := h.balances.GetN(key)
		total, carry := bits.Add64(balance, amount, 0)
		if 0 != carry {
			return fault.ErrBalanceOverflow
		}
		h.balances.PutN(key, total)
		h.log.Infof("deposit: %s  currency: %s  amount: %d", to, c, amount)
		return nil
	})
}

// ApproveOperator - let operator move all of owner's assets
func (h *Holdings) ApproveOperator(ctx context.Context, owner *account.Account, operator *account.Account, approved bool) error {
	return h.guard.Within(ctx, func(ctx context.Context) error {
		if owner.IsZero() || operator.IsZero() {
			return fault.ErrInvalidAccount
		}
		key := operatorKey(owner, operator)
		if approved {
			h.approvals.PutN(key, 1)
		} else {
			h.approvals.Delete(key)
		}
		return nil
	})
}

// Allow - set the amount operator may pull from owner
func (h *Holdings) Allow(ctx context.Context, owner *account.Account, operator *account.Account, c currency.Currency, amount uint64) error {
	return h.guard.Within(ctx, func(ctx context.Context) error {
		if owner.IsZero() || operator.IsZero() {
			return fault.ErrInvalidAccount
		}
		if err := c.Validate(); nil != err {
			return err
		}
		if c.IsNative() {
			return fault.ErrInvalidCurrency
		}
		h.approvals.PutN(allowanceKey(c, owner, operator), amount)
		return nil
	})
}

// Owner - current owner of an asset
func (h *Holdings) Owner(ctx context.Context, c asset.Collection, id asset.Identifier) (*account.Account, error) {
	var owner *account.Account
	err := h.guard.View(ctx, func(ctx context.Context) error {
		owner = h.owner(asset.Key(c, id))
		if nil == owner {
			return fault.ErrRecordNotFound
		}
		return nil
	})
	return owner, err
}

// Balance - an account's balance of a currency
func (h *Holdings) Balance(ctx context.Context, a *account.Account, c currency.Currency) (uint64, error) {
	balance := uint64(0)
	err := h.guard.View(ctx, func(ctx context.Context) error {
		if a.IsZero() {
			return fault.ErrInvalidAccount
		}
		balance, _ = h.balances.GetN(balanceKey(c, a))
		return nil
	})
	return balance, err
}

// Allowance - what operator may still pull from owner
func (h *Holdings) Allowance(ctx context.Context, owner *account.Account, operator *account.Account, c currency.Currency) (uint64, error) {
	allowance := uint64(0)
	err := h.guard.View(ctx, func(ctx context.Context) error {
		if owner.IsZero() || operator.IsZero() {
			return fault.ErrInvalidAccount
		}
		allowance, _ = h.approvals.GetN(allowanceKey(c, owner, operator))
		return nil
	})
	return allowance, err
}

func (h *Holdings) owner(key []byte) *account.Account {
	buffer := h.owners.Get(key)
	if nil == buffer {
		return nil
	}
	a, err := account.FromBytes(buffer)
	if nil != err {
		h.log.Errorf("owner decode error: %s", err)
		return nil
	}
	return a
}

func (h *Holdings) approved(owner *account.Account, operator *account.Account) bool {
	return h.approvals.Has(operatorKey(owner, operator))
}
