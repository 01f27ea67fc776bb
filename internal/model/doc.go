// Package model defines the data transfer types and error values shared by
// the quantum-visualizer CLI and HTTP API.
//
// This package contains plain data structures with no dependencies on the
// transport layers. Spectrum and Wavefunction are the serialized shapes of a
// well.Model's outputs; ExitCode and CLIError carry process exit codes from
// commands back to main.
package model
