// Package port picks the TCP port the quantum-visualizer server listens on.
//
// The server prefers its configured port. When that port is taken and a
// fallback range is configured, the Scanner probes the range in order and
// the first free port wins. Availability is checked by binding with
// net.Listen, so the answer comes from the OS itself.
package port
