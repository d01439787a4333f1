package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusProvider(t *testing.T) {
	p := NewPrometheusProvider()

	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("list_posts", "ok"))
	p.IncrementAPIRequests("list_posts", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(APIRequestsTotal.WithLabelValues("list_posts", "ok")))

	hits := testutil.ToFloat64(CacheHitsTotal)
	p.IncrementCacheHits()
	assert.Equal(t, hits+1, testutil.ToFloat64(CacheHitsTotal))

	dup := testutil.ToFloat64(DuplicateActionsTotal.WithLabelValues("submit"))
	p.IncrementDuplicateActions("submit")
	assert.Equal(t, dup+1, testutil.ToFloat64(DuplicateActionsTotal.WithLabelValues("submit")))

	p.SetServiceHealth(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(ServiceHealth))
	p.SetServiceHealth(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(ServiceHealth))

	// Histograms only need to accept observations.
	p.RecordAPIRequestDuration("list_posts", 10*time.Millisecond)
	p.RecordHTTPRequestDuration("GET", "/", 5*time.Millisecond)
	p.IncrementHTTPRequests("GET", "/", 200)
}
