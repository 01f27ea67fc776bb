package well

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// Hbar is the reduced Planck constant ħ = h/2π in joule-seconds.
	Hbar = 1.0545718e-34

	// GridPoints is the fixed number of samples in every position grid,
	// independent of how many energy levels are requested.
	GridPoints = 1000

	// MaxQuantumCount bounds how many levels New precomputes, and with it the
	// size of the spectrum a single model holds.
	MaxQuantumCount = 10000
)

// Model is a precomputed infinite potential well.
//
// Energy levels for quantum numbers 1..QuantumCount are computed once in New.
// Wavefunctions are not cached: each ComputePsi call recomputes the full grid.
type Model struct {
	mass           float64
	boundaryLength float64
	quantumCount   int

	// energyLevels[i] is the energy of quantum number i+1, in joules.
	energyLevels []float64

	// positionGrid holds GridPoints evenly spaced samples over
	// [0, boundaryLength], both endpoints included.
	positionGrid []float64
}

// New validates the inputs, lays out the position grid and precomputes the
// energy spectrum.
//
// It returns a *ParameterError (which unwraps to ErrInvalidParameter) when
// mass or boundaryLength is not a finite positive number, when quantumCount
// is outside [1, MaxQuantumCount], or when the inputs are so extreme that an
// energy level or the ψ amplitude overflows float64.
func New(mass, boundaryLength float64, quantumCount int) (*Model, error) {
	if err := checkPositive("mass", mass); err != nil {
		return nil, err
	}
	if err := checkPositive("boundaryLength", boundaryLength); err != nil {
		return nil, err
	}
	if quantumCount < 1 {
		return nil, invalid("quantumCount", quantumCount, "must be >= 1")
	}
	if quantumCount > MaxQuantumCount {
		return nil, invalid("quantumCount", quantumCount, fmt.Sprintf("must be <= %d", MaxQuantumCount))
	}
	// ComputePsi scales by sqrt(2/L).
	if !isFinite(2 / boundaryLength) {
		return nil, invalid("boundaryLength", boundaryLength, "is too small to represent the wavefunction")
	}

	m := &Model{
		mass:           mass,
		boundaryLength: boundaryLength,
		quantumCount:   quantumCount,
		energyLevels:   make([]float64, quantumCount),
		positionGrid:   floats.Span(make([]float64, GridPoints), 0, boundaryLength),
	}
	// Span computes l + i*step; pin the far wall so ψ(L) is evaluated at L.
	m.positionGrid[GridPoints-1] = boundaryLength
	for i := range m.energyLevels {
		m.energyLevels[i] = Energy(mass, boundaryLength, i+1)
	}
	// Energy grows with n, so the last level is the first to overflow.
	if top := m.energyLevels[quantumCount-1]; !isFinite(top) {
		return nil, invalid("boundaryLength", boundaryLength,
			fmt.Sprintf("with mass %g gives a non-finite energy level", mass))
	}
	return m, nil
}

// Energy evaluates E(n) = n²π²ħ² / (2mL²) without any validation.
// Use New when inputs come from outside the process.
func Energy(mass, boundaryLength float64, n int) float64 {
	nf := float64(n)
	return (nf * nf * math.Pi * math.Pi * Hbar * Hbar) / (2 * mass * boundaryLength * boundaryLength)
}

// Mass returns the particle mass in kilograms.
func (m *Model) Mass() float64 { return m.mass }

// BoundaryLength returns the well width in meters.
func (m *Model) BoundaryLength() float64 { return m.boundaryLength }

// QuantumCount returns how many energy levels were precomputed.
func (m *Model) QuantumCount() int { return m.quantumCount }

// EnergyLevels returns the precomputed spectrum in ascending quantum-number
// order. The returned slice is a copy; mutating it does not affect the model.
func (m *Model) EnergyLevels() []float64 {
	return append([]float64(nil), m.energyLevels...)
}

// PositionGrid returns a copy of the GridPoints sample positions.
func (m *Model) PositionGrid() []float64 {
	return append([]float64(nil), m.positionGrid...)
}

// ComputePsi evaluates the normalized stationary-state amplitude
// ψ(x) = sqrt(2/L)·sin(nπx/L) at every grid point. The result is indexed
// like PositionGrid.
//
// n is not bounded by QuantumCount. n < 1 yields ErrInvalidParameter, as
// does an n so large that the wave number nπ/L overflows.
func (m *Model) ComputePsi(n int) ([]float64, error) {
	if n < 1 {
		return nil, invalid("n", n, "must be >= 1")
	}

	amplitude := math.Sqrt(2 / m.boundaryLength)
	k := float64(n) * math.Pi / m.boundaryLength
	if !isFinite(k) {
		return nil, invalid("n", n, "is too large for this boundaryLength")
	}

	psi := make([]float64, len(m.positionGrid))
	for i, x := range m.positionGrid {
		psi[i] = amplitude * math.Sin(k*x)
	}
	return psi, nil
}

// ProbabilityDensity returns |ψ(x)|² over the grid for quantum number n.
func (m *Model) ProbabilityDensity(n int) ([]float64, error) {
	psi, err := m.ComputePsi(n)
	if err != nil {
		return nil, err
	}
	// psi is freshly allocated, square it in place.
	floats.Mul(psi, psi)
	return psi, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkPositive(name string, v float64) error {
	if !isFinite(v) {
		return invalid(name, v, "must be a finite number")
	}
	if v <= 0 {
		return invalid(name, v, "must be > 0")
	}
	return nil
}
