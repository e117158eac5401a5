package tracker

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// TSVFile is the name of the file the TSV output writes to
const TSVFile = "progress.tsv"

// tsvOutput writes rows as tab-separated values, with a header row
// giving the column names
type tsvOutput struct {
	file          *os.File
	w             *csv.Writer
	headerWritten bool
}

// newTSVOutput creates dir and a TSV output writing to dir/TSVFile. If
// runConfig is non-nil, it is also saved to dir.
func newTSVOutput(dir string, runConfig interface{}) (Output, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("newTSVOutput: %w", err)
	}

	if runConfig != nil {
		if err := saveConfig(dir, runConfig); err != nil {
			return nil, fmt.Errorf("newTSVOutput: %w", err)
		}
	}

	file, err := os.Create(filepath.Join(dir, TSVFile))
	if err != nil {
		return nil, fmt.Errorf("newTSVOutput: %w", err)
	}

	w := csv.NewWriter(file)
	w.Comma = '\t'
	return &tsvOutput{file: file, w: w}, nil
}

// Write writes a row, preceded by the header on the first call. Columns
// that were not logged are written as empty fields.
func (t *tsvOutput) Write(step int, columns []string,
	values map[string]float64) error {
	if !t.headerWritten {
		if err := t.w.Write(append([]string{"step"}, columns...)); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		t.headerWritten = true
	}

	record := make([]string, 0, len(columns)+1)
	record = append(record, strconv.Itoa(step))
	for _, c := range columns {
		v, ok := values[c]
		if !ok {
			record = append(record, "")
			continue
		}
		record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
	}

	if err := t.w.Write(record); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	t.w.Flush()
	return t.w.Error()
}

func (t *tsvOutput) Close() error {
	t.w.Flush()
	if err := t.w.Error(); err != nil {
		t.file.Close()
		return err
	}
	return t.file.Close()
}

// TableOutput writes each row as a human-readable key/value table
type TableOutput struct {
	w io.Writer
}

// NewTableOutput returns a TableOutput writing to w
func NewTableOutput(w io.Writer) *TableOutput {
	return &TableOutput{w}
}

// Write writes the row as a table. Columns that were not logged are
// left out.
func (t *TableOutput) Write(step int, columns []string,
	values map[string]float64) error {
	width := len("step")
	for _, c := range columns {
		if len(c) > width {
			width = len(c)
		}
	}

	var b strings.Builder
	line := strings.Repeat("-", width+21)
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "| %*s | %14d |\n", width, "step", step)
	for _, c := range columns {
		v, ok := values[c]
		if !ok || math.IsNaN(v) {
			continue
		}
		fmt.Fprintf(&b, "| %*s | %14.4g |\n", width, c, v)
	}
	fmt.Fprintln(&b, line)

	_, err := io.WriteString(t.w, b.String())
	return err
}

// Close does nothing, the underlying writer is owned by the caller
func (t *TableOutput) Close() error {
	return nil
}
