package well

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBox2D_Defaults verifies zero length/points select the defaults and
// the output holds one (x, y, density) triple per grid vertex.
func TestBox2D_Defaults(t *testing.T) {
	v, err := Box2D(1, 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, v, DefaultBoxPoints*DefaultBoxPoints*3)

	// First vertex is the (0,0) corner shifted to (-L/2, -L/2) with zero density.
	assert.Equal(t, -0.5, v[0])
	assert.Equal(t, -0.5, v[1])
	assert.Equal(t, 0.0, v[2])

	// Last vertex is the (L, L) corner.
	last := len(v) - 3
	assert.InDelta(t, 0.5, v[last], 1e-12)
	assert.InDelta(t, 0.5, v[last+1], 1e-12)
	assert.InDelta(t, 0, v[last+2], 1e-12)
}

// TestBox2D_CenterDensity checks the ground state peaks at (2/L)² in the
// middle of an odd-resolution grid.
func TestBox2D_CenterDensity(t *testing.T) {
	const points = 5
	v, err := Box2D(1, 1, 2, points)
	require.NoError(t, err)

	// Vertex (2, 2) is the center of a 5x5 grid.
	idx := (2*points + 2) * 3
	assert.InDelta(t, 0, v[idx], 1e-12)
	assert.InDelta(t, 0, v[idx+1], 1e-12)
	assert.InDelta(t, 1.0, v[idx+2], 1e-12)
}

// TestBox2D_Invalid covers rejected quantum numbers, lengths and resolutions.
func TestBox2D_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		nx, ny int
		l      float64
		points int
	}{
		{"zero nx", 0, 1, 1, 10},
		{"zero ny", 1, 0, 1, 10},
		{"negative length", 1, 1, -1, 10},
		{"one point", 1, 1, 1, 1},
		{"negative points", 1, 1, 1, -4},
		{"length too small", 1, 1, 1e-310, 10},
		{"huge nx", math.MaxInt, 1, 1e-300, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Box2D(tt.nx, tt.ny, tt.l, tt.points)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

// TestBox3DDensity verifies the cube density at the center and on a wall.
func TestBox3DDensity(t *testing.T) {
	d, err := Box3DDensity(1, 1, 1, 0.5, 0.5, 0.5, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d, 1e-12)

	d, err = Box3DDensity(2, 3, 1, 0, 0.3, 0.7, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	// (2,1,1) has a node plane at x = L/2.
	d, err = Box3DDensity(2, 1, 1, 0.5, 0.5, 0.5, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0, d, 1e-20)

	_, err = Box3DDensity(1, 0, 1, 0, 0, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = Box3DDensity(1, 1, 1, 0, 0, 0, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

// TestBox3DDensity_NonFiniteInputs verifies every result is a finite number:
// non-finite or overflowing coordinates are rejected by name.
func TestBox3DDensity_NonFiniteInputs(t *testing.T) {
	tests := []struct {
		name    string
		x, y, z float64
		field   string
	}{
		{"NaN x", math.NaN(), 0.5, 0.5, "x"},
		{"infinite y", 0.5, math.Inf(1), 0.5, "y"},
		{"negative infinite z", 0.5, 0.5, math.Inf(-1), "z"},
		{"phase overflows", 0.5, 0.5, math.MaxFloat64, "z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Box3DDensity(1, 1, 1, tt.x, tt.y, tt.z, 1)
			require.ErrorIs(t, err, ErrInvalidParameter)

			var perr *ParameterError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.field, perr.Name)
		})
	}
}
