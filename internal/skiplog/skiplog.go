// Package skiplog writes rows the loader could not map into a side CSV so a
// run can finish while leaving an audit trail of what was dropped and why.
package skiplog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// SkipLog accumulates per-reason counts while streaming skipped rows to disk.
type SkipLog struct {
	reasons map[string]int
	w       *csv.Writer
	f       *os.File
}

// New creates path (and any missing parent directories) and writes the
// header row immediately. Call Close to flush.
func New(path string) (*SkipLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("skiplog: create dir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("skiplog: open %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"reason", "line_number", "url", "name"}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("skiplog: write header: %w", err)
	}
	return &SkipLog{reasons: make(map[string]int), w: w, f: f}, nil
}

// Add records one skipped row. lineNum is 1-based and counts the header, so
// it matches what an editor shows when the source CSV is opened.
func (s *SkipLog) Add(reason string, lineNum int, url, name string) {
	s.reasons[reason]++
	_ = s.w.Write([]string{reason, strconv.Itoa(lineNum), url, name})
}

// Counts returns a copy of the per-reason totals.
func (s *SkipLog) Counts() map[string]int {
	out := make(map[string]int, len(s.reasons))
	for k, v := range s.reasons {
		out[k] = v
	}
	return out
}

// Total returns the number of rows recorded so far.
func (s *SkipLog) Total() int {
	n := 0
	for _, v := range s.reasons {
		n += v
	}
	return n
}

// Close flushes buffered rows and closes the file.
func (s *SkipLog) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		_ = s.f.Close()
		return fmt.Errorf("skiplog: flush: %w", err)
	}
	return s.f.Close()
}
