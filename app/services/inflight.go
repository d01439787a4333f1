package services

import (
	"context"
	"log/slog"

	"newsportal/app/metrics"
	"newsportal/app/state"

	"golang.org/x/sync/singleflight"
)

// inflight collapses overlapping identical actions from one session. The
// second caller waits for the first and receives its result instead of
// issuing its own backend request.
type inflight struct {
	group   singleflight.Group
	log     *slog.Logger
	metrics metrics.Provider
}

func newInflight(log *slog.Logger, m metrics.Provider) *inflight {
	return &inflight{log: log, metrics: m}
}

// do runs fn once per (session, action, key) at a time. Requests without a
// session are never collapsed.
func do[T any](g *inflight, ctx context.Context, action, key string, fn func() T) T {
	sid := state.SessionIDFrom(ctx)
	if sid == "" {
		return fn()
	}

	led := false
	v, _, shared := g.group.Do(sid+"|"+action+"|"+key, func() (interface{}, error) {
		led = true
		return fn(), nil
	})
	if shared && !led {
		g.metrics.IncrementDuplicateActions(action)
		g.log.Debug("Collapsed duplicate action",
			slog.String("action", action),
			slog.String("session", sid),
		)
	}
	return v.(T)
}
