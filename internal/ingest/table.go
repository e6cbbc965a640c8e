package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// maxFlattenedListElems bounds how many elements of a nested list are
// expanded into columns when flattening a single JSON record.
const maxFlattenedListElems = 100

// Table is an in-memory tabular representation. All cells are kept as
// strings; numeric interpretation happens during metric extraction.
type Table struct {
	Columns []string
	Rows    [][]string
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of a named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, column name); empty string when absent.
func (t *Table) Cell(row int, column string) string {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}

var tabularDelimiters = []rune{',', '\t', ';', '|'}

// ParseTabular parses delimited text into a Table, trying delimiters in
// priority order (comma, tab, semicolon, pipe). The first delimiter that
// yields a non-degenerate table wins. If no delimiter produces a usable
// header row, the content is re-parsed headerless with positional column
// names.
func ParseTabular(content string) (*Table, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, fmt.Errorf("empty tabular content")
	}

	for _, delim := range tabularDelimiters {
		t, err := parseDelimited(trimmed, delim, true)
		if err == nil && len(t.Columns) >= 2 {
			return t, nil
		}
	}

	// Headerless retry: columns become positional.
	for _, delim := range tabularDelimiters {
		t, err := parseDelimited(trimmed, delim, false)
		if err == nil && len(t.Columns) >= 1 && len(t.Rows) > 0 {
			return t, nil
		}
	}
	return nil, fmt.Errorf("no delimiter produced a usable table")
}

func parseDelimited(content string, delim rune, header bool) (*Table, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no records")
	}

	var columns []string
	var rows [][]string
	if header {
		if len(records) < 1 {
			return nil, fmt.Errorf("missing header row")
		}
		columns = normalizeColumns(records[0])
		rows = records[1:]
	} else {
		width := len(records[0])
		columns = make([]string, width)
		for i := range columns {
			columns[i] = fmt.Sprintf("column_%d", i)
		}
		rows = records
	}

	// Ragged rows are padded or truncated to the header width so later
	// stages can index columns uniformly.
	width := len(columns)
	normalized := make([][]string, 0, len(rows))
	for _, row := range rows {
		fixed := make([]string, width)
		for i := 0; i < width && i < len(row); i++ {
			fixed[i] = strings.TrimSpace(row[i])
		}
		normalized = append(normalized, fixed)
	}
	return &Table{Columns: columns, Rows: normalized}, nil
}

// ParseStructured converts hierarchical JSON into a Table. A list of records
// becomes rows directly; a single record map is flattened with dotted and
// bracketed key paths. Line-delimited JSON is attempted as a last resort.
func ParseStructured(content string) (*Table, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, fmt.Errorf("empty structured content")
	}

	var root any
	if err := json.Unmarshal([]byte(trimmed), &root); err != nil {
		return parseLineDelimitedJSON(trimmed)
	}

	switch v := root.(type) {
	case []any:
		return tableFromRecords(v)
	case map[string]any:
		flat := map[string]string{}
		flattenValue("", v, flat)
		return tableFromFlat(flat), nil
	default:
		return nil, fmt.Errorf("structured content is a scalar %T, not a table", root)
	}
}

func parseLineDelimitedJSON(content string) (*Table, error) {
	var records []any
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line-delimited json: %w", err)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no json records found")
	}
	return tableFromRecords(records)
}

func tableFromRecords(records []any) (*Table, error) {
	var columns []string
	seen := map[string]bool{}
	rows := make([]map[string]string, 0, len(records))

	for _, rec := range records {
		m, ok := rec.(map[string]any)
		if !ok {
			// A list of scalars becomes a single value column.
			m = map[string]any{"value": rec}
		}
		flat := map[string]string{}
		for k, v := range m {
			flattenValue(k, v, flat)
		}
		normalized := make(map[string]string, len(flat))
		for k, v := range flat {
			nk := normalizeColumn(k)
			normalized[nk] = v
			if !seen[nk] {
				seen[nk] = true
				columns = append(columns, nk)
			}
		}
		rows = append(rows, normalized)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("no columns derived from records")
	}
	sort.Strings(columns)

	t := &Table{Columns: columns}
	for _, flat := range rows {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = flat[c]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func tableFromFlat(flat map[string]string) *Table {
	columns := make([]string, 0, len(flat))
	for k := range flat {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = flat[c]
	}
	return &Table{Columns: normalizeColumns(columns), Rows: [][]string{row}}
}

// flattenValue expands nested maps and lists into dotted/bracketed key paths,
// capping list expansion to bound output size.
func flattenValue(prefix string, v any, out map[string]string) {
	switch val := v.(type) {
	case map[string]any:
		for k, nested := range val {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenValue(key, nested, out)
		}
	case []any:
		for i, elem := range val {
			if i >= maxFlattenedListElems {
				break
			}
			flattenValue(fmt.Sprintf("%s[%d]", prefix, i), elem, out)
		}
	case nil:
		out[prefix] = ""
	case float64:
		out[prefix] = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		out[prefix] = strconv.FormatBool(val)
	default:
		out[prefix] = fmt.Sprintf("%v", val)
	}
}

func normalizeColumns(raw []string) []string {
	out := make([]string, len(raw))
	for i, c := range raw {
		out[i] = normalizeColumn(c)
	}
	return out
}

// normalizeColumn trims, replaces spaces with underscores, and lowercases a
// column name.
func normalizeColumn(c string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(c), " ", "_"))
}
