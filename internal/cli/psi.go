// Package cli: psi.go implements the "qv psi" command.
//
// The psi command evaluates the stationary wavefunction ψ_n on the 1000-point
// position grid and prints (x, ψ) pairs, optionally with |ψ|². --limit thins
// the text output to at most that many evenly spaced rows.
package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/quantum-visualizer/internal/model"
)

type psiFlags struct {
	wellFlags
	density bool // --density: add a |ψ|² column
	limit   int  // --limit: maximum rows printed, 0 for all
}

// NewPsiCommand creates the "psi" cobra command.
func NewPsiCommand() *cobra.Command {
	flags := &psiFlags{}

	cmd := &cobra.Command{
		Use:   "psi <n>",
		Short: "Print the wavefunction ψ_n over the position grid",
		Long: `Print ψ_n(x) = sqrt(2/L)·sin(nπx/L) sampled at 1000 evenly spaced points
from 0 to L inclusive.

Examples:
  qv psi 1
  qv psi 3 --density --limit 20
  qv psi 2 --length 2e-9 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return model.WrapCLIError(model.ExitInvalidParameter,
					fmt.Sprintf("quantum number %q is not an integer", args[0]), nil)
			}
			if flags.limit < 0 {
				return model.NewCLIError(model.ExitInvalidParameter, "--limit must not be negative")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags.resolve(cmd.Flags(), cfg.Defaults)
			// ψ_n does not depend on the precomputed levels.
			flags.count = 1
			return runPsi(cmd.OutOrStdout(), n, flags)
		},
	}

	flags.register(cmd.Flags(), false)
	cmd.Flags().BoolVar(&flags.density, "density", false, "Include the probability density |ψ|²")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "Print at most this many evenly spaced rows (0: all)")
	return cmd
}

func runPsi(w io.Writer, n int, flags *psiFlags) error {
	m, err := flags.build()
	if err != nil {
		return err
	}
	wf, err := model.NewWavefunction(m, n, model.WavefunctionOptions{
		IncludeGrid:    true,
		IncludeDensity: flags.density,
	})
	if err != nil {
		return wellError(err)
	}

	if IsJSONOutput() {
		return writeJSON(w, wf)
	}

	if flags.density {
		fmt.Fprintf(w, "%-15s %-15s %s\n", "x [m]", "psi", "|psi|^2")
	} else {
		fmt.Fprintf(w, "%-15s %s\n", "x [m]", "psi")
	}
	for _, i := range SampleIndices(len(wf.Psi), flags.limit) {
		if flags.density {
			fmt.Fprintf(w, "%-15.6e %-15.6e %.6e\n", wf.Positions[i], wf.Psi[i], wf.Density[i])
		} else {
			fmt.Fprintf(w, "%-15.6e %.6e\n", wf.Positions[i], wf.Psi[i])
		}
	}
	return nil
}

// SampleIndices picks at most limit indices out of [0, total), evenly spaced
// and always including both ends. limit <= 0 or limit >= total selects all.
//
//	SampleIndices(1000, 3) → [0 500 999]
func SampleIndices(total, limit int) []int {
	if total <= 0 {
		return nil
	}
	if limit <= 0 || limit >= total {
		idx := make([]int, total)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	if limit == 1 {
		return []int{0}
	}
	idx := make([]int, limit)
	for k := range idx {
		// Round to nearest so the last index lands on total-1.
		idx[k] = (k*(total-1) + (limit-1)/2) / (limit - 1)
	}
	return idx
}
