package ingest

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// maxStatColumns bounds per-column statistics computation.
	maxStatColumns = 10
	// sampleRowLimit bounds how many raw rows are carried in the bundle.
	sampleRowLimit = 5
	// rawSampleChars bounds the raw input excerpt kept for diagnostics.
	rawSampleChars = 1000
)

// ColumnStats holds per-column aggregates computed after dropping missing
// values; Missing is counted against the un-dropped column.
type ColumnStats struct {
	Sum     float64 `json:"sum"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Std     float64 `json:"std"`
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Zeros   int     `json:"zeros"`
}

// DateRange describes the span of the first detected date column.
type DateRange struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	SpanDays int       `json:"span_days"`
}

// DataQuality summarizes missing and duplicate data in the parsed table.
type DataQuality struct {
	MissingPct   float64 `json:"missing_pct"`
	DuplicatePct float64 `json:"duplicate_pct"`
}

// MetricsBundle is the structured statistical summary produced from raw
// input. A bundle is always usable: parse failures are recorded in
// ParseError and the remaining fields hold whatever was computed before the
// failure.
type MetricsBundle struct {
	RowCount          int                    `json:"row_count"`
	ColumnCount       int                    `json:"column_count"`
	Columns           []string               `json:"columns,omitempty"`
	NumericColumns    []string               `json:"numeric_columns,omitempty"`
	ColumnStats       map[string]ColumnStats `json:"per_column_stats,omitempty"`
	DateColumns       []string               `json:"date_columns,omitempty"`
	DateRange         *DateRange             `json:"date_range,omitempty"`
	Quality           DataQuality            `json:"data_quality"`
	SampleRows        []map[string]string    `json:"sample_rows,omitempty"`
	FrameworkAnalysis map[string]any         `json:"framework_analysis,omitempty"`
	RawSample         string                 `json:"raw_sample,omitempty"`
	ParseError        string                 `json:"parse_error,omitempty"`
}

// ExtractMetrics parses raw content according to its resolved type and
// computes the metrics bundle. It never returns an error: unusable input
// yields a bundle with ParseError set and zeroed statistics, and the table
// may be nil.
func ExtractMetrics(content string, contentType ContentType) (*Table, MetricsBundle) {
	bundle := MetricsBundle{RawSample: truncate(content, rawSampleChars)}

	var table *Table
	var err error
	switch contentType {
	case ContentTabular:
		table, err = ParseTabular(content)
	case ContentStructured:
		table, err = ParseStructured(content)
	default:
		// Unstructured text carries no table; the bundle stays minimal.
		return nil, bundle
	}
	if err != nil {
		bundle.ParseError = err.Error()
		return nil, bundle
	}

	bundle.RowCount = table.RowCount()
	bundle.ColumnCount = len(table.Columns)
	bundle.Columns = append([]string(nil), table.Columns...)
	bundle.NumericColumns = numericColumns(table)

	bundle.ColumnStats = map[string]ColumnStats{}
	for i, col := range bundle.NumericColumns {
		if i >= maxStatColumns {
			break
		}
		bundle.ColumnStats[col] = computeStats(table, col)
	}

	bundle.DateColumns = detectDateColumns(table)
	if len(bundle.DateColumns) > 0 {
		bundle.DateRange = dateRangeFor(table, bundle.DateColumns[0])
	}

	bundle.Quality = computeQuality(table)
	bundle.SampleRows = sampleRows(table, sampleRowLimit)
	return table, bundle
}

// missingCell reports whether a cell should be treated as absent.
func missingCell(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "null", "nan", "n/a", "na", "none":
		return true
	}
	return false
}

func parseNumber(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// numericColumns returns columns whose every non-missing cell parses as a
// number, with at least one parseable value, in table column order.
func numericColumns(t *Table) []string {
	var out []string
	for idx, col := range t.Columns {
		numeric := false
		ok := true
		for _, row := range t.Rows {
			if idx >= len(row) || missingCell(row[idx]) {
				continue
			}
			if _, parsed := parseNumber(row[idx]); !parsed {
				ok = false
				break
			}
			numeric = true
		}
		if ok && numeric {
			out = append(out, col)
		}
	}
	return out
}

// NumericValues extracts the parseable numbers of a column, dropping missing
// and unparseable cells.
func NumericValues(t *Table, column string) []float64 {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil
	}
	var vals []float64
	for _, row := range t.Rows {
		if idx >= len(row) || missingCell(row[idx]) {
			continue
		}
		if f, ok := parseNumber(row[idx]); ok {
			vals = append(vals, f)
		}
	}
	return vals
}

func computeStats(t *Table, column string) ColumnStats {
	idx := t.ColumnIndex(column)
	stats := ColumnStats{}
	vals := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx >= len(row) || missingCell(row[idx]) {
			stats.Missing++
			continue
		}
		f, ok := parseNumber(row[idx])
		if !ok {
			stats.Missing++
			continue
		}
		vals = append(vals, f)
		if f == 0 {
			stats.Zeros++
		}
	}
	stats.Count = len(vals)
	if len(vals) == 0 {
		return stats
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	if n := len(sorted); n%2 == 1 {
		stats.Median = sorted[n/2]
	} else {
		stats.Median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	for _, v := range vals {
		stats.Sum += v
	}
	stats.Mean = stats.Sum / float64(len(vals))

	if len(vals) > 1 {
		var ss float64
		for _, v := range vals {
			d := v - stats.Mean
			ss += d * d
		}
		stats.Std = math.Sqrt(ss / float64(len(vals)-1))
	}
	return stats
}

var dateNameKeywords = []string{"date", "time", "year", "month", "day"}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2006",
	"January 2006",
	"Jan",
	"January",
	"2006",
}

// ParseDate attempts a lenient timestamp parse; unparseable input yields
// ok=false, never an error.
func ParseDate(v string) (time.Time, bool) {
	s := strings.TrimSpace(v)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// detectDateColumns retains a column as a date column when its name contains
// a date-ish keyword and at least one cell parses as a timestamp.
func detectDateColumns(t *Table) []string {
	var out []string
	for idx, col := range t.Columns {
		lower := strings.ToLower(col)
		named := false
		for _, kw := range dateNameKeywords {
			if strings.Contains(lower, kw) {
				named = true
				break
			}
		}
		if !named {
			continue
		}
		for _, row := range t.Rows {
			if idx >= len(row) {
				continue
			}
			if _, ok := ParseDate(row[idx]); ok {
				out = append(out, col)
				break
			}
		}
	}
	return out
}

func dateRangeFor(t *Table, column string) *DateRange {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil
	}
	first := true
	var min, max time.Time
	count := 0
	for _, row := range t.Rows {
		if idx >= len(row) {
			continue
		}
		ts, ok := ParseDate(row[idx])
		if !ok {
			continue
		}
		count++
		if first {
			min, max = ts, ts
			first = false
			continue
		}
		if ts.Before(min) {
			min = ts
		}
		if ts.After(max) {
			max = ts
		}
	}
	if count == 0 {
		return nil
	}
	span := 0
	if count > 1 {
		span = int(max.Sub(min).Hours() / 24)
	}
	return &DateRange{Start: min, End: max, SpanDays: span}
}

func computeQuality(t *Table) DataQuality {
	q := DataQuality{}
	totalCells := t.RowCount() * len(t.Columns)
	if totalCells == 0 {
		return q
	}

	missing := 0
	seen := map[string]bool{}
	duplicates := 0
	for _, row := range t.Rows {
		for i := range t.Columns {
			if i >= len(row) || missingCell(row[i]) {
				missing++
			}
		}
		key := strings.Join(row, "\x1f")
		if seen[key] {
			duplicates++
		}
		seen[key] = true
	}

	q.MissingPct = float64(missing) / float64(totalCells) * 100
	if t.RowCount() > 0 {
		q.DuplicatePct = float64(duplicates) / float64(t.RowCount()) * 100
	}
	return q
}

func sampleRows(t *Table, limit int) []map[string]string {
	var out []map[string]string
	for i, row := range t.Rows {
		if i >= limit {
			break
		}
		rec := make(map[string]string, len(t.Columns))
		for j, col := range t.Columns {
			if j < len(row) {
				rec[col] = row[j]
			}
		}
		out = append(out, rec)
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
