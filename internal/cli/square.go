// Package cli: square.go implements the "qv square" command, the command
// line twin of POST /simulate/test.
package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/quantum-visualizer/internal/model"
)

// NewSquareCommand creates the "square" cobra command.
func NewSquareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "square <number>",
		Short: "Print the square of a number",
		Long: `Print x². Useful as a smoke test next to POST /simulate/test.

Examples:
  qv square 3
  qv square -- -1.5
  qv square 2 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
				return model.NewCLIError(model.ExitInvalidParameter,
					fmt.Sprintf("%q is not a finite number", args[0]))
			}
			result := x * x
			if math.IsInf(result, 0) {
				return model.NewCLIError(model.ExitInvalidParameter,
					fmt.Sprintf("%q is too large to square", args[0]))
			}
			if IsJSONOutput() {
				return writeJSON(cmd.OutOrStdout(), map[string]float64{"result": result})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(result, 'g', -1, 64))
			return err
		},
	}
}
