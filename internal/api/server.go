// Package api exposes a read-only HTTP query surface over a cleaned catalog
// table. The table is loaded once at startup and never mutated, so handlers
// can share it without locking.
//
// Routes:
//
//	GET /                → service info
//	GET /summary         → per-column statistics over the whole table
//	GET /filter?column=X&value=Y → rows whose column contains value
//	GET /stats/{column}  → numeric aggregate for one column
package api

import (
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"gamecatalog/internal/table"
)

// Config controls server startup.
type Config struct {
	Addr string
}

// Server serves query endpoints over an immutable table snapshot.
type Server struct {
	cfg    Config
	mux    *http.ServeMux
	data   *table.Table
	logger *zap.Logger
}

// New constructs a Server with routes registered.
func New(cfg Config, data *table.Table, logger *zap.Logger) *Server {
	s := &Server{cfg: cfg, mux: http.NewServeMux(), data: data, logger: logger}
	s.routes()
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// Handler returns the route handler, mainly for tests and for embedding into
// an http.Server with shutdown control.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		s.mux.ServeHTTP(w, r)
	})
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /summary", s.handleSummary)
	s.mux.HandleFunc("GET /filter", s.handleFilter)
	s.mux.HandleFunc("GET /stats/{column}", s.handleStats)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":   "gamecatalog query api",
		"rows":      s.rowCount(),
		"endpoints": []string{"/summary", "/filter?column=X&value=Y", "/stats/{column}"},
	})
}

// columnSummary is one /summary entry. Numeric and text columns fill
// different subsets of the optional fields.
type columnSummary struct {
	Column   string   `json:"column"`
	Count    int      `json:"count"` // non-empty cells
	Distinct int      `json:"distinct"`
	Numeric  bool     `json:"numeric"`
	Mean     *float64 `json:"mean,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Top      string   `json:"top,omitempty"` // most frequent non-empty value
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.rowCount() == 0 {
		http.Error(w, "no data loaded", http.StatusNotFound)
		return
	}

	var cols []columnSummary
	for _, name := range s.data.Columns() {
		cols = append(cols, s.summarizeColumn(name))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rows":    s.data.Len(),
		"columns": cols,
	})
}

func (s *Server) summarizeColumn(name string) columnSummary {
	cs := columnSummary{Column: name}
	freq := make(map[string]int)
	nums, allNumeric := []float64{}, true

	for i := 0; i < s.data.Len(); i++ {
		v, _ := s.data.Cell(i, name)
		if v == "" {
			continue
		}
		cs.Count++
		freq[v]++
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			nums = append(nums, f)
		} else {
			allNumeric = false
		}
	}
	cs.Distinct = len(freq)

	if allNumeric && len(nums) > 0 {
		cs.Numeric = true
		mean, min, max := aggregate(nums)
		cs.Mean, cs.Min, cs.Max = &mean, &min, &max
		return cs
	}

	best, bestN := "", 0
	for v, n := range freq {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	cs.Top = best
	return cs
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	column := strings.TrimSpace(q.Get("column"))
	value := q.Get("value")

	if column == "" {
		http.Error(w, "missing column parameter", http.StatusBadRequest)
		return
	}
	if s.rowCount() == 0 {
		http.Error(w, "no data loaded", http.StatusNotFound)
		return
	}
	if !s.data.HasColumn(column) {
		http.Error(w, "unknown column: "+column, http.StatusBadRequest)
		return
	}

	limit := 50
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		limit = n
	}

	needle := strings.ToLower(value)
	matched := 0
	var rows []map[string]string
	for i := 0; i < s.data.Len(); i++ {
		cell, _ := s.data.Cell(i, column)
		if !strings.Contains(strings.ToLower(cell), needle) {
			continue
		}
		matched++
		if len(rows) < limit {
			rows = append(rows, s.rowMap(i))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"column":  column,
		"value":   value,
		"matched": matched,
		"rows":    rows,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	column := r.PathValue("column")
	if s.rowCount() == 0 {
		http.Error(w, "no data loaded", http.StatusNotFound)
		return
	}
	if !s.data.HasColumn(column) {
		http.Error(w, "unknown column: "+column, http.StatusBadRequest)
		return
	}

	var nums []float64
	for i := 0; i < s.data.Len(); i++ {
		v, _ := s.data.Cell(i, column)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, "column is not numeric: "+column, http.StatusBadRequest)
			return
		}
		nums = append(nums, f)
	}
	if len(nums) == 0 {
		http.Error(w, "column has no values: "+column, http.StatusBadRequest)
		return
	}

	mean, min, max := aggregate(nums)
	sum := mean * float64(len(nums))
	writeJSON(w, http.StatusOK, map[string]any{
		"column": column,
		"count":  len(nums),
		"sum":    round2(sum),
		"mean":   round2(mean),
		"min":    min,
		"max":    max,
	})
}

func (s *Server) rowCount() int {
	if s.data == nil {
		return 0
	}
	return s.data.Len()
}

func (s *Server) rowMap(i int) map[string]string {
	m := make(map[string]string, len(s.data.Columns()))
	for _, c := range s.data.Columns() {
		v, _ := s.data.Cell(i, c)
		m[c] = v
	}
	return m
}

func aggregate(nums []float64) (mean, min, max float64) {
	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)
	min, max = sorted[0], sorted[len(sorted)-1]
	sum := 0.0
	for _, f := range nums {
		sum += f
	}
	return sum / float64(len(nums)), min, max
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
