package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/quantum-visualizer/internal/model"
	"github.com/shinji-kodama/quantum-visualizer/internal/well"
)

// Sheet names of the generated workbook.
const (
	SpectrumSheet      = "Spectrum"
	WavefunctionsSheet = "Wavefunctions"
)

// Format is an output file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatYAML Format = "yaml"
	FormatTSV  Format = "tsv"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return FormatXLSX, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".tsv":
		return FormatTSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use .xlsx, .yaml, .yml or .tsv)", ext)
	}
}

// Document is everything an export contains: the spectrum plus the
// wavefunctions for the requested quantum numbers, sampled on one grid.
type Document struct {
	Spectrum      model.Spectrum       `yaml:"spectrum"`
	Positions     []float64            `yaml:"positions,omitempty"`
	Wavefunctions []model.Wavefunction `yaml:"wavefunctions,omitempty"`
}

// Build evaluates ψ_n for every n in ns. ns may be empty for a
// spectrum-only document.
func Build(m *well.Model, ns []int) (*Document, error) {
	doc := &Document{Spectrum: model.NewSpectrum(m)}
	if len(ns) == 0 {
		return doc, nil
	}
	doc.Positions = m.PositionGrid()
	for _, n := range ns {
		wf, err := model.NewWavefunction(m, n, model.WavefunctionOptions{})
		if err != nil {
			return nil, err
		}
		doc.Wavefunctions = append(doc.Wavefunctions, *wf)
	}
	return doc, nil
}

// WriteFile writes doc to path in the format implied by its extension.
func WriteFile(path string, doc *Document) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if format == FormatXLSX {
		return WriteXLSX(path, doc)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if format == FormatYAML {
		err = WriteYAML(f, doc)
	} else {
		err = WriteTSV(f, doc)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

// WriteXLSX saves doc as a workbook with a Spectrum sheet (n, J, eV) and,
// when wavefunctions are present, a Wavefunctions sheet with one x column
// followed by one ψ_n column per quantum number.
func WriteXLSX(path string, doc *Document) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SpectrumSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(SpectrumSheet, "A1", &[]interface{}{"n", "Energy [J]", "Energy [eV]"}); err != nil {
		return err
	}
	for i, lvl := range doc.Spectrum.Levels() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SpectrumSheet, cell, &[]interface{}{lvl.N, lvl.Joules, lvl.ElectronVolts}); err != nil {
			return err
		}
	}

	if len(doc.Wavefunctions) > 0 {
		if _, err := f.NewSheet(WavefunctionsSheet); err != nil {
			return err
		}
		if err := f.SetSheetRow(WavefunctionsSheet, "A1", xlsxHeader(doc)); err != nil {
			return err
		}
		for i := range doc.Positions {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			row := make([]interface{}, 0, len(doc.Wavefunctions)+1)
			row = append(row, doc.Positions[i])
			for _, wf := range doc.Wavefunctions {
				row = append(row, wf.Psi[i])
			}
			if err := f.SetSheetRow(WavefunctionsSheet, cell, &row); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// WriteYAML encodes doc as a single YAML document.
func WriteYAML(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

// WriteTSV writes the wavefunction table (x then ψ_n columns). For a
// spectrum-only document it writes the n / J / eV table instead.
func WriteTSV(w io.Writer, doc *Document) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if len(doc.Wavefunctions) == 0 {
		if err := cw.Write([]string{"n", "energy_J", "energy_eV"}); err != nil {
			return err
		}
		for _, lvl := range doc.Spectrum.Levels() {
			if err := cw.Write([]string{strconv.Itoa(lvl.N), formatFloat(lvl.Joules), formatFloat(lvl.ElectronVolts)}); err != nil {
				return err
			}
		}
	} else {
		header := []string{"x"}
		for _, wf := range doc.Wavefunctions {
			header = append(header, fmt.Sprintf("psi_%d", wf.N))
		}
		if err := cw.Write(header); err != nil {
			return err
		}
		for i, x := range doc.Positions {
			row := make([]string, 0, len(doc.Wavefunctions)+1)
			row = append(row, formatFloat(x))
			for _, wf := range doc.Wavefunctions {
				row = append(row, formatFloat(wf.Psi[i]))
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func xlsxHeader(doc *Document) *[]interface{} {
	header := []interface{}{"x [m]"}
	for _, wf := range doc.Wavefunctions {
		header = append(header, fmt.Sprintf("psi_%d", wf.N))
	}
	return &header
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
