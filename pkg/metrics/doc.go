// Package metrics exposes Prometheus metrics for the gateway.
//
// A Collector keeps its own registry so tests and multiple gateways in one
// process never collide on the global one. It observes the mongo.Manager
// (attempts, outcomes, durations, cache hits, teardowns and the state code),
// counts HTTP requests through Middleware and unexpected handler errors
// through HandlerError. Handler serves everything at /metrics.
package metrics
