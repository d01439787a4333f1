package metrics

import (
	"strconv"
	"time"
)

type Provider interface {
	IncrementHTTPRequests(method, route string, status int)
	RecordHTTPRequestDuration(method, route string, duration time.Duration)

	IncrementAPIRequests(operation, status string)
	RecordAPIRequestDuration(operation string, duration time.Duration)

	IncrementCacheHits()
	IncrementCacheMisses()

	IncrementDuplicateActions(action string)

	SetServiceHealth(healthy bool)
}

type PrometheusProvider struct{}

func NewPrometheusProvider() Provider {
	return &PrometheusProvider{}
}

func (p *PrometheusProvider) IncrementHTTPRequests(method, route string, status int) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (p *PrometheusProvider) RecordHTTPRequestDuration(method, route string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (p *PrometheusProvider) IncrementAPIRequests(operation, status string) {
	APIRequestsTotal.WithLabelValues(operation, status).Inc()
}

func (p *PrometheusProvider) RecordAPIRequestDuration(operation string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (p *PrometheusProvider) IncrementCacheHits() {
	CacheHitsTotal.Inc()
}

func (p *PrometheusProvider) IncrementCacheMisses() {
	CacheMissesTotal.Inc()
}

func (p *PrometheusProvider) IncrementDuplicateActions(action string) {
	DuplicateActionsTotal.WithLabelValues(action).Inc()
}

func (p *PrometheusProvider) SetServiceHealth(healthy bool) {
	if healthy {
		ServiceHealth.Set(1)
	} else {
		ServiceHealth.Set(0)
	}
}

// Noop discards every measurement.
type Noop struct{}

func (Noop) IncrementHTTPRequests(string, string, int)               {}
func (Noop) RecordHTTPRequestDuration(string, string, time.Duration) {}
func (Noop) IncrementAPIRequests(string, string)                     {}
func (Noop) RecordAPIRequestDuration(string, time.Duration)          {}
func (Noop) IncrementCacheHits()                                     {}
func (Noop) IncrementCacheMisses()                                   {}
func (Noop) IncrementDuplicateActions(string)                        {}
func (Noop) SetServiceHealth(bool)                                   {}
