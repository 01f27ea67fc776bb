// Package middleware provides the HTTP middleware chain of the
// quantum-visualizer server: CORS, rate limiting, request logging with
// trace ids, and Prometheus instrumentation.
package middleware
