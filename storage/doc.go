// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// one LevelDB database is split into pools, each pool owns a single
// byte key prefix declared by a struct tag on the Pools type
//
// all writes are staged in a batch between Begin and Commit; reads made
// while a transaction is open see the staged writes first, Abort throws
// the batch away so a failed operation leaves the database untouched
package storage
