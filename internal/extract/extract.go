// Package extract reads a delimited catalog export into the in-memory table
// structure consumed by the transformer. The reader is deliberately tolerant:
// ragged rows are padded or truncated to the header width, quoting is lax,
// and no schema validation happens at this stage; cells are whatever strings
// the file yields.
package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"gamecatalog/internal/csvutil"
	"gamecatalog/internal/table"
)

// Extractor reads one CSV file into a table.Table.
type Extractor struct {
	path   string
	logger *zap.Logger
}

// New returns an Extractor for the file at path.
func New(path string, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{path: path, logger: logger}
}

// Extract reads the whole file. The header row defines the column names; they
// are normalized to snake_case (BOM stripped, accents removed) before the
// table is built. Any read failure is returned to the caller, which decides
// whether to abort the run.
func (e *Extractor) Extract() (*table.Table, error) {
	f, err := os.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("extract: open %s: %w", e.path, err)
	}
	defer f.Close()

	t, err := e.read(f)
	if err != nil {
		return nil, err
	}
	e.logger.Info("extracted records",
		zap.String("path", e.path),
		zap.Int("rows", t.Len()),
		zap.Int("columns", len(t.Columns())))
	return t, nil
}

func (e *Extractor) read(f io.Reader) (*table.Table, error) {
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are normalized against the header
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("extract: %s: empty file", e.path)
	}
	if err != nil {
		return nil, fmt.Errorf("extract: read header: %w", err)
	}

	t, err := table.New(csvutil.NormalizeHeader(header))
	if err != nil {
		return nil, fmt.Errorf("extract: %s: %w", e.path, err)
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("extract: read row: %w", err)
		}
		t.AppendRow(rec)
	}
}
