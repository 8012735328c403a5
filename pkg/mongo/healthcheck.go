package mongo

import (
	"context"
)

// Healthcheck returns a health check function suitable for Kubernetes readiness/liveness probes
// or HTTP health endpoints.
//
// The returned function makes sure a client is cached (connecting if necessary) and then
// performs a lightweight Ping. A failed ping marks the cached client stale, so the next
// request reconnects instead of reusing a dead handle.
func Healthcheck(m *Manager) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := m.Ready(ctx); err != nil {
			return err
		}
		return m.Check(ctx)
	}
}
