// Package model defines the shared types for the quantum-visualizer.
//
// Spectrum and Wavefunction are what both the HTTP API and the CLI emit,
// so JSON field names here are the public wire format.
package model

import (
	"fmt"

	"github.com/shinji-kodama/quantum-visualizer/internal/well"
)

// JoulesPerElectronVolt converts energies for human-readable output.
// 1 eV = 1.602176634e-19 J (exact, SI 2019).
const JoulesPerElectronVolt = 1.602176634e-19

// Spectrum is the serialized energy spectrum of an infinite well.
type Spectrum struct {
	// Mass is the particle mass in kilograms.
	Mass float64 `json:"mass" yaml:"mass"`

	// BoundaryLength is the well width in meters.
	BoundaryLength float64 `json:"boundaryLength" yaml:"boundaryLength"`

	// QuantumCount is the number of levels in EnergyLevels.
	QuantumCount int `json:"quantumCount" yaml:"quantumCount"`

	// EnergyLevels[i] is the energy of quantum number i+1, in joules.
	EnergyLevels []float64 `json:"energyLevels" yaml:"energyLevels"`
}

// NewSpectrum captures the spectrum of a constructed model.
func NewSpectrum(m *well.Model) Spectrum {
	return Spectrum{
		Mass:           m.Mass(),
		BoundaryLength: m.BoundaryLength(),
		QuantumCount:   m.QuantumCount(),
		EnergyLevels:   m.EnergyLevels(),
	}
}

// Level is a single row of a spectrum table.
type Level struct {
	N             int     `json:"n" yaml:"n"`
	Joules        float64 `json:"joules" yaml:"joules"`
	ElectronVolts float64 `json:"electronVolts" yaml:"electronVolts"`
}

// Levels expands the spectrum into numbered rows with eV conversions.
func (s Spectrum) Levels() []Level {
	out := make([]Level, len(s.EnergyLevels))
	for i, e := range s.EnergyLevels {
		out[i] = Level{N: i + 1, Joules: e, ElectronVolts: e / JoulesPerElectronVolt}
	}
	return out
}

// Wavefunction is the serialized amplitude (and optionally density) of one
// stationary state sampled over the model's position grid.
type Wavefunction struct {
	// N is the quantum number.
	N int `json:"n" yaml:"n"`

	// Positions is the sample grid in meters. Omitted when the caller
	// did not ask for it, since it is fully determined by the well width.
	Positions []float64 `json:"positions,omitempty" yaml:"positions,omitempty"`

	// Psi is the amplitude ψ(x) at each position.
	Psi []float64 `json:"psi" yaml:"psi"`

	// Density is |ψ(x)|², present only on request.
	Density []float64 `json:"density,omitempty" yaml:"density,omitempty"`
}

// WavefunctionOptions selects the optional parts of NewWavefunction.
type WavefunctionOptions struct {
	IncludeGrid    bool
	IncludeDensity bool
}

// NewWavefunction evaluates ψ_n on m and packages it for output.
// It returns well.ErrInvalidParameter for n < 1.
func NewWavefunction(m *well.Model, n int, opts WavefunctionOptions) (*Wavefunction, error) {
	psi, err := m.ComputePsi(n)
	if err != nil {
		return nil, err
	}
	wf := &Wavefunction{N: n, Psi: psi}
	if opts.IncludeGrid {
		wf.Positions = m.PositionGrid()
	}
	if opts.IncludeDensity {
		density, err := m.ProbabilityDensity(n)
		if err != nil {
			return nil, err
		}
		wf.Density = density
	}
	return wf, nil
}

// ExitCode defines the process exit codes of the qv binary.
// Scripts can rely on these to distinguish user input errors from
// environment problems.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidParameter indicates a physical parameter was rejected
	// (non-positive mass or width, quantum number below 1).
	ExitInvalidParameter ExitCode = 2

	// ExitConfigError indicates the configuration file could not be
	// read, parsed or validated.
	ExitConfigError ExitCode = 3

	// ExitExportError indicates an output file could not be written.
	ExitExportError ExitCode = 4

	// ExitServerError indicates the HTTP server failed to bind or
	// terminated abnormally.
	ExitServerError ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
