// Package export writes a well's spectrum and wavefunctions to files for
// offline plotting: Excel workbooks (github.com/xuri/excelize/v2), YAML
// documents (gopkg.in/yaml.v3) and tab-separated text.
package export
