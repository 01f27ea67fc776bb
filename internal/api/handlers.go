package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/quantum-visualizer/internal/httputil"
	"github.com/shinji-kodama/quantum-visualizer/internal/metrics"
	"github.com/shinji-kodama/quantum-visualizer/internal/middleware"
	"github.com/shinji-kodama/quantum-visualizer/internal/model"
	"github.com/shinji-kodama/quantum-visualizer/internal/well"
)

// wellRequest is the body of POST /simulate/infinite-well. Pointer fields
// distinguish "omitted" (use the configured default) from an explicit zero,
// which must fail validation rather than be silently replaced.
type wellRequest struct {
	Mass           *float64 `json:"mass"`
	BoundaryLength *float64 `json:"boundaryLength"`
	QuantumCount   *int     `json:"quantumCount"`
	N              *int     `json:"n"`
	Density        bool     `json:"density"`
	IncludeGrid    bool     `json:"includeGrid"`
}

type wellResponse struct {
	Spectrum     model.Spectrum      `json:"spectrum"`
	Wavefunction *model.Wavefunction `json:"wavefunction,omitempty"`
}

type box2DRequest struct {
	NX             int     `json:"nx"`
	NY             int     `json:"ny"`
	BoundaryLength float64 `json:"boundaryLength"`
	Points         int     `json:"points"`
}

type box2DResponse struct {
	NX       int       `json:"nx"`
	NY       int       `json:"ny"`
	Points   int       `json:"points"`
	Vertices []float64 `json:"vertices"`
}

type box3DResponse struct {
	NX      int     `json:"nx"`
	NY      int     `json:"ny"`
	NZ      int     `json:"nz"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Density float64 `json:"density"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSquare is the front-end connectivity check. A missing or non-numeric
// inputNumber echoes the request object back under "error".
func (a *API) handleSquare(w http.ResponseWriter, r *http.Request) {
	var data map[string]interface{}
	if err := decodeLoose(r, &data); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err)
		return
	}

	x, ok := data["inputNumber"].(float64)
	if !ok {
		a.respond(w, r, http.StatusBadRequest, map[string]interface{}{"error": data})
		return
	}
	result := x * x
	if math.IsInf(result, 0) {
		a.writeModelError(w, r, &well.ParameterError{
			Name:   "inputNumber",
			Value:  x,
			Reason: "is too large to square",
		})
		return
	}
	a.logger.WithField("input_number", x).Debug("squaring input")
	a.metrics.RecordComputation(metrics.KindSquare)
	a.respond(w, r, http.StatusOK, map[string]float64{"result": result})
}

func (a *API) handleWell(w http.ResponseWriter, r *http.Request) {
	var req wellRequest
	if err := httputil.DecodeJSON(r.Body, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err)
		return
	}

	mass := a.defaults.Mass
	if req.Mass != nil {
		mass = *req.Mass
	}
	length := a.defaults.BoundaryLength
	if req.BoundaryLength != nil {
		length = *req.BoundaryLength
	}
	count := a.defaults.QuantumCount
	if req.QuantumCount != nil {
		count = *req.QuantumCount
	}

	m, err := well.New(mass, length, count)
	if err != nil {
		a.writeModelError(w, r, err)
		return
	}
	a.metrics.RecordComputation(metrics.KindLevels)

	resp := wellResponse{Spectrum: model.NewSpectrum(m)}
	if req.N != nil {
		wf, err := model.NewWavefunction(m, *req.N, model.WavefunctionOptions{
			IncludeGrid:    req.IncludeGrid,
			IncludeDensity: req.Density,
		})
		if err != nil {
			a.writeModelError(w, r, err)
			return
		}
		a.recordWavefunction(req.Density)
		resp.Wavefunction = wf
	}
	a.respond(w, r, http.StatusOK, resp)
}

func (a *API) handleLevels(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	mass := q.floatParam("mass", a.defaults.Mass)
	length := q.floatParam("boundaryLength", a.defaults.BoundaryLength)
	count := q.intParam("quantumCount", a.defaults.QuantumCount)
	if q.err != nil {
		httputil.WriteError(w, http.StatusBadRequest, q.err)
		return
	}

	m, err := well.New(mass, length, count)
	if err != nil {
		a.writeModelError(w, r, err)
		return
	}
	a.metrics.RecordComputation(metrics.KindLevels)
	a.respond(w, r, http.StatusOK, model.NewSpectrum(m))
}

func (a *API) handlePsi(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(mux.Vars(r)["n"])
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid quantum number: %w", err))
		return
	}

	q := newQuery(r)
	mass := q.floatParam("mass", a.defaults.Mass)
	length := q.floatParam("boundaryLength", a.defaults.BoundaryLength)
	density := q.boolParam("density")
	grid := q.boolParam("includeGrid")
	if q.err != nil {
		httputil.WriteError(w, http.StatusBadRequest, q.err)
		return
	}

	// The wavefunction does not depend on how many levels are precomputed.
	m, err := well.New(mass, length, 1)
	if err != nil {
		a.writeModelError(w, r, err)
		return
	}
	wf, err := model.NewWavefunction(m, n, model.WavefunctionOptions{IncludeGrid: grid, IncludeDensity: density})
	if err != nil {
		a.writeModelError(w, r, err)
		return
	}
	a.recordWavefunction(density)
	a.respond(w, r, http.StatusOK, wf)
}

func (a *API) handleBox2D(w http.ResponseWriter, r *http.Request) {
	var req box2DRequest
	if err := httputil.DecodeJSON(r.Body, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err)
		return
	}
	if req.Points > MaxBox2DPoints {
		a.writeModelError(w, r, &well.ParameterError{
			Name:   "points",
			Value:  req.Points,
			Reason: fmt.Sprintf("must be <= %d", MaxBox2DPoints),
		})
		return
	}

	vertices, err := well.Box2D(req.NX, req.NY, req.BoundaryLength, req.Points)
	if err != nil {
		a.writeModelError(w, r, err)
		return
	}
	a.metrics.RecordComputation(metrics.KindBox2D)

	points := req.Points
	if points == 0 {
		points = well.DefaultBoxPoints
	}
	a.respond(w, r, http.StatusOK, box2DResponse{
		NX:       req.NX,
		NY:       req.NY,
		Points:   points,
		Vertices: vertices,
	})
}

// handleBox3D evaluates the cubic box density at one point given in box
// coordinates: ?nx=&ny=&nz=&x=&y=&z=&boundaryLength=.
func (a *API) handleBox3D(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	nx := q.intParam("nx", 1)
	ny := q.intParam("ny", 1)
	nz := q.intParam("nz", 1)
	length := q.floatParam("boundaryLength", well.DefaultBoxLength)
	x := q.floatParam("x", length/2)
	y := q.floatParam("y", length/2)
	z := q.floatParam("z", length/2)
	if q.err != nil {
		httputil.WriteError(w, http.StatusBadRequest, q.err)
		return
	}

	density, err := well.Box3DDensity(nx, ny, nz, x, y, z, length)
	if err != nil {
		a.writeModelError(w, r, err)
		return
	}
	a.metrics.RecordComputation(metrics.KindBox3D)
	a.respond(w, r, http.StatusOK, box3DResponse{
		NX: nx, NY: ny, NZ: nz,
		X: x, Y: y, Z: z,
		Density: density,
	})
}

func (a *API) recordWavefunction(density bool) {
	a.metrics.RecordComputation(metrics.KindPsi)
	if density {
		a.metrics.RecordComputation(metrics.KindDensity)
	}
}

// respond writes v as JSON. An encoding failure has already been answered
// with a 500 by httputil; it is logged here with the request's trace id.
func (a *API) respond(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	if err := httputil.WriteJSON(w, status, v); err != nil {
		a.logger.WithFields(logrus.Fields{
			"trace_id": middleware.TraceID(r.Context()),
			"path":     r.URL.Path,
		}).WithError(err).Error("response encoding failed")
	}
}

// writeModelError maps well validation failures to 400 and anything else
// to 500.
func (a *API) writeModelError(w http.ResponseWriter, r *http.Request, err error) {
	entry := a.logger.WithFields(logrus.Fields{
		"trace_id": middleware.TraceID(r.Context()),
		"path":     r.URL.Path,
	})

	if errors.Is(err, well.ErrInvalidParameter) {
		var perr *well.ParameterError
		name := ""
		if errors.As(err, &perr) {
			name = perr.Name
		}
		a.metrics.RecordRejection(name)
		entry.WithError(err).Warn("invalid parameter")
		httputil.WriteError(w, http.StatusBadRequest, err)
		return
	}

	entry.WithError(err).Error("computation failed")
	httputil.WriteErrorMessage(w, http.StatusInternalServerError, "internal error")
}

// decodeLoose decodes any JSON object, unlike httputil.DecodeJSON which
// rejects unknown fields.
func decodeLoose(r *http.Request, dst *map[string]interface{}) error {
	var raw interface{}
	if err := httputil.DecodeJSON(r.Body, &raw); err != nil {
		return err
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return errors.New("request body must be a JSON object")
	}
	*dst = obj
	return nil
}
