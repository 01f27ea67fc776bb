// Package metrics owns the Prometheus collectors of the quantum-visualizer
// HTTP server.
//
// Collectors live on a private registry rather than the global default one,
// so tests can create servers repeatedly without duplicate registration
// panics and /metrics exposes only what this service records.
package metrics
