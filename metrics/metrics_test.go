// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics_test

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/metrics"
)

func TestResult(t *testing.T) {
	items := []struct {
		err    error
		result string
	}{
		{nil, "ok"},
		{fault.ErrInvalidBundle, "invalid"},
		{fault.ErrBadSignature, "authorisation"},
		{fault.ErrAlreadySettled, "state"},
		{fault.ErrPriceMismatch, "funds"},
		{fault.ErrSaleNotFound, "not_found"},
		{fault.ErrAssetExists, "exists"},
		{fault.ErrRateLimiting, "process"},
		{errors.New("other"), "error"},
	}
	for i, item := range items {
		assert.Equal(t, item.result, metrics.Result(item.err), "item: %d", i)
	}
}

func TestObserve(t *testing.T) {
	dropped := uint64(3)
	m := metrics.New(func() uint64 { return dropped })

	m.Observe("Sale.Purchase", nil, time.Millisecond)
	m.Observe("Sale.Purchase", nil, time.Millisecond)
	m.Observe("Sale.Purchase", fault.ErrSelfTrade, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Counter("Sale.Purchase", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Counter("Sale.Purchase", "state")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.Counter("Sale.Cancel", "ok")))

	track := func(err error) (result error) {
		defer m.Track("Sale.List", time.Now(), &result)
		return err
	}
	_ = track(nil)
	_ = track(fault.ErrSaleNotFound)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Counter("Sale.List", "not_found")))

	// a nil collector ignores everything
	var none *metrics.Metrics
	none.Observe("Sale.List", nil, time.Second)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `marketd_operations_total{operation="Sale.Purchase",result="ok"} 2`), body)
	assert.True(t, strings.Contains(body, "marketd_events_dropped_total 3"), body)
}
