package well

import "math"

const (
	// DefaultBoxLength is the side length used by Box2D when none is given.
	// The visualizations work in reduced units where L = 1.
	DefaultBoxLength = 1.0

	// DefaultBoxPoints is the per-axis resolution used by Box2D when none is given.
	DefaultBoxPoints = 50
)

// Box2D samples the probability density of a particle in a square 2-D box
//
//	ψ(x,y) = (2/L) · sin(nₓπx/L) · sin(n_yπy/L)
//
// over a points×points grid with spacing L/(points-1). The result is a flat
// slice of (x-L/2, y-L/2, |ψ|²) triples, x-major, so the box is centered on
// the origin for rendering.
//
// A zero length or zero points selects DefaultBoxLength / DefaultBoxPoints.
func Box2D(nx, ny int, length float64, points int) ([]float64, error) {
	if length == 0 {
		length = DefaultBoxLength
	}
	if points == 0 {
		points = DefaultBoxPoints
	}
	if nx < 1 {
		return nil, invalid("nx", nx, "must be >= 1")
	}
	if ny < 1 {
		return nil, invalid("ny", ny, "must be >= 1")
	}
	if err := checkPositive("boundaryLength", length); err != nil {
		return nil, err
	}
	if points < 2 {
		return nil, invalid("points", points, "must be >= 2")
	}
	if !isFinite(2 / length) {
		return nil, invalid("boundaryLength", length, "is too small to represent the wavefunction")
	}

	step := length / float64(points-1)
	kx, err := waveNumber("nx", nx, length)
	if err != nil {
		return nil, err
	}
	ky, err := waveNumber("ny", ny, length)
	if err != nil {
		return nil, err
	}
	half := length / 2

	vertices := make([]float64, 0, points*points*3)
	for i := 0; i < points; i++ {
		x := float64(i) * step
		sx := math.Sin(kx * x)
		for j := 0; j < points; j++ {
			y := float64(j) * step
			psi := (2 / length) * sx * math.Sin(ky*y)
			vertices = append(vertices, x-half, y-half, psi*psi)
		}
	}
	return vertices, nil
}

// Box3DDensity returns the unnormalized density (sin·sin·sin)² of a cubic box
// at a single point (x, y, z) in box coordinates [0, L]³. Every coordinate
// must be finite; points outside the box are evaluated by the same formula.
func Box3DDensity(nx, ny, nz int, x, y, z, length float64) (float64, error) {
	for _, q := range []struct {
		name string
		v    int
	}{{"nx", nx}, {"ny", ny}, {"nz", nz}} {
		if q.v < 1 {
			return 0, invalid(q.name, q.v, "must be >= 1")
		}
	}
	if err := checkPositive("boundaryLength", length); err != nil {
		return 0, err
	}

	psi := 1.0
	for _, axis := range []struct {
		quantum, coord string
		n              int
		v              float64
	}{{"nx", "x", nx, x}, {"ny", "y", ny, y}, {"nz", "z", nz, z}} {
		if !isFinite(axis.v) {
			return 0, invalid(axis.coord, axis.v, "must be a finite number")
		}
		k, err := waveNumber(axis.quantum, axis.n, length)
		if err != nil {
			return 0, err
		}
		phase := k * axis.v
		if !isFinite(phase) {
			return 0, invalid(axis.coord, axis.v, "is too far outside the box")
		}
		psi *= math.Sin(phase)
	}
	return psi * psi, nil
}

// waveNumber returns nπ/L, rejecting n when the product overflows.
func waveNumber(name string, n int, length float64) (float64, error) {
	k := float64(n) * math.Pi / length
	if !isFinite(k) {
		return 0, invalid(name, n, "is too large for this boundaryLength")
	}
	return k, nil
}
