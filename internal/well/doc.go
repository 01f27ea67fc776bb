// Package well implements the one-dimensional infinite potential well, the
// textbook "particle in a box" model, for the quantum-visualizer service.
//
// The model is fully determined by three inputs: particle mass (kg), well
// width (m) and the number of energy levels to precompute. Energy levels are
// evaluated once at construction with the closed form
//
//	E(n) = n² π² ħ² / (2 m L²)
//
// while stationary-state wavefunctions are evaluated on demand over a fixed
// 1000-point grid spanning [0, L]:
//
//	ψ(x) = sqrt(2/L) · sin(nπx/L)
//
// Everything in this package is pure computation. A Model holds no resources
// and is never mutated after New returns, so it is safe for concurrent use.
//
// The package also carries the 2-D and 3-D box densities used by the
// front-end visualizations (see box.go).
package well
