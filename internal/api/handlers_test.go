package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/quantum-visualizer/internal/config"
	"github.com/shinji-kodama/quantum-visualizer/internal/metrics"
	"github.com/shinji-kodama/quantum-visualizer/internal/model"
	"github.com/shinji-kodama/quantum-visualizer/internal/well"
)

// newTestAPI builds an API with default config and its own metrics registry.
func newTestAPI(t *testing.T) (*API, http.Handler) {
	t.Helper()
	a := New(Options{Metrics: metrics.New()})
	return a, a.Handler()
}

// do sends a request through the full middleware chain.
func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), "body: %s", rec.Body.String())
}

// TestSquare covers the connectivity check endpoint.
func TestSquare(t *testing.T) {
	_, h := newTestAPI(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"integer", `{"inputNumber": 4}`, http.StatusOK, `{"result":16}`},
		{"fraction", `{"inputNumber": -1.5}`, http.StatusOK, `{"result":2.25}`},
		{"missing echoes request", `{"other": 1}`, http.StatusBadRequest, `{"error":{"other":1}}`},
		{"null echoes request", `{"inputNumber": null}`, http.StatusBadRequest, `{"error":{"inputNumber":null}}`},
		{"string echoes request", `{"inputNumber": "4"}`, http.StatusBadRequest, `{"error":{"inputNumber":"4"}}`},
		{"not an object", `[1,2]`, http.StatusBadRequest, `{"error":"request body must be a JSON object"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/simulate/test", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

// TestNonFiniteResults_AreRejected verifies inputs that would yield ±Inf or
// NaN are answered with a 400 naming the parameter, never a 200 without a
// body.
func TestNonFiniteResults_AreRejected(t *testing.T) {
	_, h := newTestAPI(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		field  string
	}{
		{"square overflows", http.MethodPost, "/simulate/test", `{"inputNumber": 1e200}`, "inputNumber"},
		{"square overflows negative", http.MethodPost, "/simulate/test", `{"inputNumber": -1e300}`, "inputNumber"},
		{"box3d NaN coordinate", http.MethodGet, "/simulate/box3d?x=NaN", "", "x"},
		{"box3d infinite coordinate", http.MethodGet, "/simulate/box3d?z=-Inf", "", "z"},
		{"levels energy overflow", http.MethodGet, "/simulate/infinite-well/levels?mass=1e-300&boundaryLength=1e-160", "", "boundaryLength"},
		{"well energy overflow", http.MethodPost, "/simulate/infinite-well", `{"mass": 1e-300, "boundaryLength": 1e-160}`, "boundaryLength"},
		{"psi amplitude overflow", http.MethodGet, "/simulate/infinite-well/psi/1?boundaryLength=1e-310", "", "boundaryLength"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var body map[string]string
			decode(t, rec, &body)
			assert.Contains(t, body["error"], "invalid parameter")
			assert.Contains(t, body["error"], tt.field)
		})
	}
}

// TestQuantumCount_UpperBound verifies oversized spectra are refused before
// anything is allocated, on both spectrum endpoints.
func TestQuantumCount_UpperBound(t *testing.T) {
	_, h := newTestAPI(t)
	over := strconv.Itoa(well.MaxQuantumCount + 1)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"levels just over", http.MethodGet, "/simulate/infinite-well/levels?quantumCount=" + over, ""},
		{"levels huge", http.MethodGet, "/simulate/infinite-well/levels?quantumCount=4611686018427387904", ""},
		{"well just over", http.MethodPost, "/simulate/infinite-well", `{"quantumCount": ` + over + `}`},
		{"well huge", http.MethodPost, "/simulate/infinite-well", `{"quantumCount": 1000000000}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), "quantumCount")
		})
	}

	rec := do(t, h, http.MethodGet, "/simulate/infinite-well/levels?quantumCount="+strconv.Itoa(well.MaxQuantumCount), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

// TestWell_ReferenceScenario runs the electron-in-1nm example end to end.
func TestWell_ReferenceScenario(t *testing.T) {
	_, h := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/simulate/infinite-well",
		`{"mass": 9.10938356e-31, "boundaryLength": 1e-9, "quantumCount": 3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp wellResponse
	decode(t, rec, &resp)
	require.Len(t, resp.Spectrum.EnergyLevels, 3)
	assert.InEpsilon(t, 6.02e-20, resp.Spectrum.EnergyLevels[0], 0.01)
	assert.InEpsilon(t, 9*resp.Spectrum.EnergyLevels[0], resp.Spectrum.EnergyLevels[2], 1e-12)
	assert.Nil(t, resp.Wavefunction)
}

// TestWell_DefaultsAndWavefunction verifies omitted parameters come from the
// configuration and that n selects a wavefunction with optional parts.
func TestWell_DefaultsAndWavefunction(t *testing.T) {
	_, h := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/simulate/infinite-well", `{"n": 2, "density": true, "includeGrid": true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp wellResponse
	decode(t, rec, &resp)

	def := config.Default().Defaults
	assert.Equal(t, def.Mass, resp.Spectrum.Mass)
	assert.Equal(t, def.BoundaryLength, resp.Spectrum.BoundaryLength)
	assert.Len(t, resp.Spectrum.EnergyLevels, def.QuantumCount)

	require.NotNil(t, resp.Wavefunction)
	assert.Equal(t, 2, resp.Wavefunction.N)
	assert.Len(t, resp.Wavefunction.Psi, well.GridPoints)
	assert.Len(t, resp.Wavefunction.Positions, well.GridPoints)
	assert.Len(t, resp.Wavefunction.Density, well.GridPoints)
	assert.Equal(t, 0.0, resp.Wavefunction.Psi[0])
}

// TestWell_InvalidParameters verifies InvalidParameter surfaces as 400 and
// that an explicit zero is not replaced by the default.
func TestWell_InvalidParameters(t *testing.T) {
	a, h := newTestAPI(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"zero length", `{"boundaryLength": 0}`, "boundaryLength"},
		{"negative mass", `{"mass": -1}`, "mass"},
		{"zero count", `{"quantumCount": 0}`, "quantumCount"},
		{"zero n", `{"n": 0}`, "n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/simulate/infinite-well", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			decode(t, rec, &body)
			assert.Contains(t, body["error"], "invalid parameter")
			assert.Contains(t, body["error"], tt.field)
		})
	}

	reg := a.Metrics().Registry()
	count, err := testutil.GatherAndCount(reg, "quantum_visualizer_well_invalid_parameters_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count, "one series per rejected parameter")
}

// TestWell_BadJSON verifies malformed and unknown-field bodies are rejected.
func TestWell_BadJSON(t *testing.T) {
	_, h := newTestAPI(t)

	for _, body := range []string{`{`, `{"charge": 1}`, `{"quantumCount": 2.5}`} {
		rec := do(t, h, http.MethodPost, "/simulate/infinite-well", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

// TestLevels_Query covers the GET spectrum endpoint.
func TestLevels_Query(t *testing.T) {
	_, h := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/simulate/infinite-well/levels?mass=1&boundaryLength=1&quantumCount=4", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var s model.Spectrum
	decode(t, rec, &s)
	require.Len(t, s.EnergyLevels, 4)
	assert.InEpsilon(t, well.Energy(1, 1, 4), s.EnergyLevels[3], 1e-12)

	rec = do(t, h, http.MethodGet, "/simulate/infinite-well/levels?mass=heavy", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not a number")

	rec = do(t, h, http.MethodGet, "/simulate/infinite-well/levels?quantumCount=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestPsi_Path covers the GET wavefunction endpoint, including n values
// beyond the default quantum count and invalid n.
func TestPsi_Path(t *testing.T) {
	_, h := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/simulate/infinite-well/psi/10?boundaryLength=2e-9&density=true", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var wf model.Wavefunction
	decode(t, rec, &wf)
	assert.Equal(t, 10, wf.N)
	assert.Len(t, wf.Psi, well.GridPoints)
	assert.Len(t, wf.Density, well.GridPoints)
	assert.Nil(t, wf.Positions)

	rec = do(t, h, http.MethodGet, "/simulate/infinite-well/psi/0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/simulate/infinite-well/psi/-3", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/simulate/infinite-well/psi/two", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/simulate/infinite-well/psi/1?density=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestBox2D covers the 2-D box endpoint defaults, limits and validation.
func TestBox2D(t *testing.T) {
	_, h := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/simulate/box2d", `{"nx": 1, "ny": 2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp box2DResponse
	decode(t, rec, &resp)
	assert.Equal(t, well.DefaultBoxPoints, resp.Points)
	assert.Len(t, resp.Vertices, 3*well.DefaultBoxPoints*well.DefaultBoxPoints)

	rec = do(t, h, http.MethodPost, "/simulate/box2d", `{"nx": 1, "ny": 1, "points": 401}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "points")

	rec = do(t, h, http.MethodPost, "/simulate/box2d", `{"nx": 0, "ny": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestBox3D covers the point density of the cubic box.
func TestBox3D(t *testing.T) {
	a, h := newTestAPI(t)

	// Ground state peaks at the center of the box.
	rec := do(t, h, http.MethodGet, "/simulate/box3d", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp box3DResponse
	decode(t, rec, &resp)
	assert.InDelta(t, 1.0, resp.Density, 1e-12)
	assert.InDelta(t, 0.5, resp.X, 1e-15)

	// nx = 2 has a node at the center plane.
	rec = do(t, h, http.MethodGet, "/simulate/box3d?nx=2&boundaryLength=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.InDelta(t, 0.0, resp.Density, 1e-12)

	rec = do(t, h, http.MethodGet, "/simulate/box3d?nz=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "nz")

	rec = do(t, h, http.MethodGet, "/simulate/box3d?x=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	count, err := testutil.GatherAndCount(a.Metrics().Registry(), "quantum_visualizer_well_computations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "only the box3d series is recorded")
}

// TestRouting_Errors verifies 404/405 responses carry JSON bodies.
func TestRouting_Errors(t *testing.T) {
	_, h := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/simulate/test", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error":"method not allowed"}`, rec.Body.String())
}

// TestHealthAndMetrics verifies the operational endpoints.
func TestHealthAndMetrics(t *testing.T) {
	_, h := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))

	do(t, h, http.MethodPost, "/simulate/infinite-well", `{"n": 1}`)
	rec = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `quantum_visualizer_well_computations_total{kind="levels"} 1`)
	assert.Contains(t, body, `quantum_visualizer_well_computations_total{kind="psi"} 1`)
	assert.Contains(t, body, `route="/simulate/infinite-well"`)
}

// TestHandler_CORSAndRateLimit verifies the middleware chain is assembled
// from the server configuration.
func TestHandler_CORSAndRateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}
	cfg.Server.RateLimit = 0.001
	cfg.Server.RateBurst = 1
	h := New(Options{Config: cfg}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
