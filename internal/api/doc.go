// Package api exposes the infinite potential well over HTTP.
//
// Routes:
//
//	POST /simulate/test                       square "inputNumber"
//	POST /simulate/infinite-well              spectrum, optionally one wavefunction
//	GET  /simulate/infinite-well/levels       spectrum from query parameters
//	GET  /simulate/infinite-well/psi/{n}      one wavefunction from query parameters
//	POST /simulate/box2d                      2-D box density vertices
//	GET  /simulate/box3d                      3-D box density at one point
//	GET  /healthz                             liveness
//	GET  /metrics                             Prometheus exposition
//
// The handler chain is CORS → rate limit → request logging → router, with
// Prometheus instrumentation attached inside the router so that it can
// label by route template.
//
// Every physical input is validated by the well package. A rejected value
// comes back as 400 with {"error": "..."} naming the parameter; request
// sizes are bounded here (well.MaxQuantumCount, MaxBox2DPoints) so a single
// request cannot allocate without limit.
package api
