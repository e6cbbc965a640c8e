package ingest

import (
	"testing"
)

func TestParseTabularCSV(t *testing.T) {
	table, err := ParseTabular("Month,Revenue,Cost\nJan,100000,70000\nFeb,120000,80000")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"month", "revenue", "cost"}
	if len(table.Columns) != len(want) {
		t.Fatalf("columns = %v", table.Columns)
	}
	for i, c := range want {
		if table.Columns[i] != c {
			t.Fatalf("column %d = %q, want %q", i, table.Columns[i], c)
		}
	}
	if table.RowCount() != 2 {
		t.Fatalf("rows = %d", table.RowCount())
	}
	if got := table.Cell(1, "revenue"); got != "120000" {
		t.Fatalf("cell(1, revenue) = %q", got)
	}
}

func TestParseTabularDelimiterPriority(t *testing.T) {
	// Semicolon-delimited data must survive the comma attempt.
	table, err := ParseTabular("name;amount\nwidget;10\ngadget;20")
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Columns) != 2 || table.Columns[1] != "amount" {
		t.Fatalf("columns = %v", table.Columns)
	}

	table, err = ParseTabular("name|amount\nwidget|10")
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Columns) != 2 {
		t.Fatalf("pipe columns = %v", table.Columns)
	}
}

func TestParseTabularRaggedRows(t *testing.T) {
	table, err := ParseTabular("a,b,c\n1,2\n1,2,3,4")
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range table.Rows {
		if len(row) != 3 {
			t.Fatalf("row not normalized to header width: %v", row)
		}
	}
	if table.Rows[0][2] != "" {
		t.Fatalf("short row should be padded, got %q", table.Rows[0][2])
	}
}

func TestParseTabularColumnNormalization(t *testing.T) {
	table, err := ParseTabular("Deal Stage,Deal Amount\nwon,100\nlost,50")
	if err != nil {
		t.Fatal(err)
	}
	if table.Columns[0] != "deal_stage" || table.Columns[1] != "deal_amount" {
		t.Fatalf("columns = %v", table.Columns)
	}
}

func TestParseStructuredRecordList(t *testing.T) {
	table, err := ParseStructured(`[{"Region": "West", "Sales": 10}, {"Region": "East", "Sales": 20}]`)
	if err != nil {
		t.Fatal(err)
	}
	if table.RowCount() != 2 {
		t.Fatalf("rows = %d", table.RowCount())
	}
	if table.ColumnIndex("region") < 0 || table.ColumnIndex("sales") < 0 {
		t.Fatalf("columns = %v", table.Columns)
	}
	if got := table.Cell(1, "sales"); got != "20" {
		t.Fatalf("cell = %q", got)
	}
}

func TestParseStructuredSingleMapFlattens(t *testing.T) {
	table, err := ParseStructured(`{"revenue": {"q1": 10, "q2": 20}, "region": "West"}`)
	if err != nil {
		t.Fatal(err)
	}
	if table.RowCount() != 1 {
		t.Fatalf("rows = %d", table.RowCount())
	}
	if table.ColumnIndex("revenue.q1") < 0 {
		t.Fatalf("nested key not flattened: %v", table.Columns)
	}
}

func TestParseStructuredLineDelimited(t *testing.T) {
	table, err := ParseStructured("{\"x\": 1}\n{\"x\": 2}\n{\"x\": 3}")
	if err != nil {
		t.Fatal(err)
	}
	if table.RowCount() != 3 {
		t.Fatalf("rows = %d", table.RowCount())
	}
}

func TestParseStructuredScalarFails(t *testing.T) {
	if _, err := ParseStructured(`42`); err == nil {
		t.Fatal("scalar input should not parse as a table")
	}
}

func TestFlattenValueListCap(t *testing.T) {
	elems := make([]any, maxFlattenedListElems+50)
	for i := range elems {
		elems[i] = float64(i)
	}
	out := map[string]string{}
	flattenValue("xs", elems, out)
	if len(out) != maxFlattenedListElems {
		t.Fatalf("flattened %d elems, want %d", len(out), maxFlattenedListElems)
	}
}
