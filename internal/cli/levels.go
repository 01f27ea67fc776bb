// Package cli: levels.go implements the "qv levels" command.
//
// The levels command builds a well from --mass, --length and --count and
// prints its energy spectrum, either as a fixed-width table or as JSON.
// Flags that are not given fall back to the "defaults" section of the
// configuration.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/shinji-kodama/quantum-visualizer/internal/config"
	"github.com/shinji-kodama/quantum-visualizer/internal/model"
	"github.com/shinji-kodama/quantum-visualizer/internal/well"
)

// wellFlags holds the physical parameters shared by levels, psi and export.
type wellFlags struct {
	mass   float64 // --mass: particle mass in kg
	length float64 // --length: well width in m
	count  int     // --count: number of precomputed levels
}

// register binds the well flags. withCount is false for commands that only
// evaluate one wavefunction.
func (f *wellFlags) register(fs *pflag.FlagSet, withCount bool) {
	d := config.Default().Defaults
	fs.Float64Var(&f.mass, "mass", d.Mass, "Particle mass [kg] (default from config)")
	fs.Float64Var(&f.length, "length", d.BoundaryLength, "Well width L [m] (default from config)")
	if withCount {
		fs.IntVar(&f.count, "count", d.QuantumCount, "Number of energy levels (default from config)")
	}
}

// resolve fills unset flags from the configured defaults.
func (f *wellFlags) resolve(fs *pflag.FlagSet, d config.WellDefaults) {
	if !fs.Changed("mass") {
		f.mass = d.Mass
	}
	if !fs.Changed("length") {
		f.length = d.BoundaryLength
	}
	if !fs.Changed("count") {
		f.count = d.QuantumCount
	}
}

// build constructs the well, reporting bad parameters as ExitInvalidParameter.
func (f *wellFlags) build() (*well.Model, error) {
	m, err := well.New(f.mass, f.length, f.count)
	if err != nil {
		return nil, wellError(err)
	}
	VerboseLog("Well: mass=%g kg, L=%g m, levels=%d", f.mass, f.length, f.count)
	return m, nil
}

// NewLevelsCommand creates the "levels" cobra command.
func NewLevelsCommand() *cobra.Command {
	flags := &wellFlags{}

	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Print the energy levels of an infinite potential well",
		Long: `Print the energy levels E_n = n²π²ħ²/(2mL²) for n = 1..count.

Examples:
  qv levels
  qv levels --mass 1.67262192e-27 --length 1e-14 --count 5
  qv levels --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags.resolve(cmd.Flags(), cfg.Defaults)
			return runLevels(cmd.OutOrStdout(), flags)
		},
	}

	flags.register(cmd.Flags(), true)
	return cmd
}

func runLevels(w io.Writer, flags *wellFlags) error {
	m, err := flags.build()
	if err != nil {
		return err
	}
	spectrum := model.NewSpectrum(m)

	if IsJSONOutput() {
		type levelsJSON struct {
			model.Spectrum
			Levels []model.Level `json:"levels"`
		}
		return writeJSON(w, levelsJSON{Spectrum: spectrum, Levels: spectrum.Levels()})
	}
	printLevelsText(w, spectrum)
	return nil
}

// printLevelsText writes the spectrum as a fixed-width table:
//
//	mass = 9.109e-31 kg, L = 1e-09 m
//	N     ENERGY [J]        ENERGY [eV]
//	1     6.024667e-20      0.376031
func printLevelsText(w io.Writer, s model.Spectrum) {
	fmt.Fprintf(w, "mass = %g kg, L = %g m\n", s.Mass, s.BoundaryLength)
	fmt.Fprintf(w, "%-5s %-17s %s\n", "N", "ENERGY [J]", "ENERGY [eV]")
	for _, lvl := range s.Levels() {
		fmt.Fprintf(w, "%-5d %-17s %s\n", lvl.N, FormatJoules(lvl.Joules), FormatElectronVolts(lvl.ElectronVolts))
	}
}

// FormatJoules renders an energy in scientific notation with seven
// significant digits.
func FormatJoules(j float64) string {
	return fmt.Sprintf("%.6e", j)
}

// FormatElectronVolts renders an energy in eV, switching to scientific
// notation outside [1e-3, 1e6).
func FormatElectronVolts(ev float64) string {
	abs := ev
	if abs < 0 {
		abs = -abs
	}
	if abs != 0 && (abs < 1e-3 || abs >= 1e6) {
		return fmt.Sprintf("%.6e", ev)
	}
	return fmt.Sprintf("%.6f", ev)
}
