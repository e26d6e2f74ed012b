// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package currency

import (
	"sort"
)

// Set - currency allow-list
type Set map[Currency]struct{}

// MakeSet - create a set of currencies
func MakeSet(currencies ...Currency) Set {
	s := make(Set)
	for _, c := range currencies {
		s.Add(c)
	}
	return s
}

// Add - returns true if already present
func (set Set) Add(c Currency) bool {
	if _, ok := set[c]; ok {
		return true
	}
	set[c] = struct{}{}
	return false
}

// Remove - returns true if it was present
func (set Set) Remove(c Currency) bool {
	if _, ok := set[c]; !ok {
		return false
	}
	delete(set, c)
	return true
}

// Contains - membership test
func (set Set) Contains(c Currency) bool {
	_, ok := set[c]
	return ok
}

// List - members in sorted order
func (set Set) List() []Currency {
	list := make([]Currency, 0, len(set))
	for c := range set {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}
