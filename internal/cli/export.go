// Package cli: export.go implements the "qv export" command.
//
// The export command writes the spectrum and, for each --n, the sampled
// wavefunction to a file. The format follows the extension of --out:
// .xlsx for an Excel workbook, .yaml/.yml or .tsv for plain text.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/quantum-visualizer/internal/export"
	"github.com/shinji-kodama/quantum-visualizer/internal/model"
)

type exportFlags struct {
	wellFlags
	out string // --out: destination file
	ns  []int  // --n: quantum numbers whose wavefunctions are included
}

// NewExportCommand creates the "export" cobra command.
func NewExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export energy levels and wavefunctions to a file",
		Long: `Export the spectrum of a well, plus the wavefunctions for the quantum
numbers given with --n, to an .xlsx, .yaml or .tsv file.

A TSV file holds the wavefunction table when --n is given and the
spectrum table otherwise.

Examples:
  qv export --out well.xlsx --n 1,2,3
  qv export --out spectrum.yaml --count 10
  qv export --out psi.tsv --n 1 --length 2e-9`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags.resolve(cmd.Flags(), cfg.Defaults)
			return runExport(cmd.OutOrStdout(), flags)
		},
	}

	flags.register(cmd.Flags(), true)
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Output file (.xlsx, .yaml, .yml, .tsv)")
	cmd.Flags().IntSliceVar(&flags.ns, "n", nil, "Quantum numbers to include, e.g. 1,2,3")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runExport(w io.Writer, flags *exportFlags) error {
	format, err := export.FormatFromPath(flags.out)
	if err != nil {
		return model.WrapCLIError(model.ExitExportError, "cannot export", err)
	}

	m, err := flags.build()
	if err != nil {
		return err
	}
	doc, err := export.Build(m, flags.ns)
	if err != nil {
		return wellError(err)
	}
	VerboseLog("Writing %s with %d levels and %d wavefunctions", format, len(doc.Spectrum.EnergyLevels), len(doc.Wavefunctions))

	if err := export.WriteFile(flags.out, doc); err != nil {
		return model.WrapCLIError(model.ExitExportError, fmt.Sprintf("failed to write %s", flags.out), err)
	}

	if IsJSONOutput() {
		return writeJSON(w, map[string]interface{}{
			"path":          flags.out,
			"format":        format,
			"levels":        len(doc.Spectrum.EnergyLevels),
			"wavefunctions": flags.ns,
		})
	}
	fmt.Fprintf(w, "Exported %d levels and %d wavefunctions to %s\n",
		len(doc.Spectrum.EnergyLevels), len(doc.Wavefunctions), flags.out)
	return nil
}
