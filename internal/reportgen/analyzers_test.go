package reportgen

import (
	"math"
	"testing"

	"github.com/mkarlsen/reportsmith/internal/classify"
	"github.com/mkarlsen/reportsmith/internal/ingest"
)

const financialCSV = "Month,Revenue,Cost\nJan,100000,70000\nFeb,120000,80000"

func extractFor(t *testing.T, content string) (*ingest.Table, ingest.MetricsBundle) {
	t.Helper()
	table, bundle := ingest.ExtractMetrics(content, ingest.ContentTabular)
	if table == nil {
		t.Fatalf("parse failed: %s", bundle.ParseError)
	}
	return table, bundle
}

func TestFinancialAnalyzerGrossMargin(t *testing.T) {
	table, bundle := extractFor(t, financialCSV)
	AnalyzeFramework(classify.FrameworkFinancial, table, &bundle)

	gm, ok := bundle.FrameworkAnalysis["gross_margin"].(GrossMargin)
	if !ok {
		t.Fatalf("no gross_margin in %v", bundle.FrameworkAnalysis)
	}
	if gm.Value != 70000 {
		t.Fatalf("gross margin value = %f", gm.Value)
	}
	// 70000 / 220000.
	if math.Abs(gm.Percentage-31.818181) > 0.001 {
		t.Fatalf("gross margin pct = %f", gm.Percentage)
	}

	growth, ok := bundle.FrameworkAnalysis["revenue_growth"].(float64)
	if !ok {
		t.Fatalf("no revenue_growth in %v", bundle.FrameworkAnalysis)
	}
	if math.Abs(growth-20) > 1e-9 {
		t.Fatalf("revenue growth = %f", growth)
	}
}

func TestFinancialAnalyzerWithoutCostColumns(t *testing.T) {
	table, bundle := extractFor(t, "Month,Revenue\nJan,100\nFeb,200")
	AnalyzeFramework(classify.FrameworkFinancial, table, &bundle)
	if _, ok := bundle.FrameworkAnalysis["gross_margin"]; ok {
		t.Fatal("gross_margin should need both revenue and cost columns")
	}
}

func TestSalesAnalyzer(t *testing.T) {
	table, bundle := extractFor(t, "Deal Stage,Amount\nwon,100\nlost,50\nwon,150")
	AnalyzeFramework(classify.FrameworkSales, table, &bundle)

	dist, ok := bundle.FrameworkAnalysis["stage_distribution"].(map[string]int)
	if !ok {
		t.Fatalf("no stage_distribution in %v", bundle.FrameworkAnalysis)
	}
	if dist["won"] != 2 || dist["lost"] != 1 {
		t.Fatalf("distribution = %v", dist)
	}
	if total := bundle.FrameworkAnalysis["total_amount"].(float64); total != 300 {
		t.Fatalf("total amount = %f", total)
	}
	if avg := bundle.FrameworkAnalysis["average_amount"].(float64); avg != 100 {
		t.Fatalf("average amount = %f", avg)
	}
}

func TestSalesAnalyzerStageCap(t *testing.T) {
	content := "stage,amount\n"
	for i := 0; i < 15; i++ {
		content += string(rune('a'+i)) + ",1\n"
	}
	table, bundle := extractFor(t, content)
	AnalyzeFramework(classify.FrameworkSales, table, &bundle)
	dist := bundle.FrameworkAnalysis["stage_distribution"].(map[string]int)
	if len(dist) != maxStageValues {
		t.Fatalf("distinct stages = %d, want %d", len(dist), maxStageValues)
	}
}

func TestOperationalAnalyzerHighVariance(t *testing.T) {
	table, bundle := extractFor(t, "throughput,steady\n1,100\n100,101\n1,100\n100,99")
	AnalyzeFramework(classify.FrameworkOperational, table, &bundle)

	hv, ok := bundle.FrameworkAnalysis["high_variance_metrics"].([]string)
	if !ok {
		t.Fatalf("no high_variance_metrics in %v", bundle.FrameworkAnalysis)
	}
	if len(hv) != 1 || hv[0] != "throughput" {
		t.Fatalf("high variance = %v", hv)
	}
	if _, ok := bundle.FrameworkAnalysis["throughput_stats"]; !ok {
		t.Fatal("per-column stats missing")
	}
}

func TestGeneralAnalyzer(t *testing.T) {
	table, bundle := extractFor(t, "name,score\nalpha,10\nbeta,\ngamma,30")
	AnalyzeFramework(classify.FrameworkGeneral, table, &bundle)

	summary, ok := bundle.FrameworkAnalysis["data_summary"].(map[string]any)
	if !ok {
		t.Fatal("no data_summary")
	}
	if summary["rows"].(int) != 3 {
		t.Fatalf("rows = %v", summary["rows"])
	}
	types := summary["data_types"].(map[string]string)
	if types["score"] != "numeric" || types["name"] != "text" {
		t.Fatalf("types = %v", types)
	}

	missing := bundle.FrameworkAnalysis["missing_values"].(map[string]int)
	if missing["score"] != 1 {
		t.Fatalf("missing = %v", missing)
	}
}

func TestAnalyzersTolerateNilTable(t *testing.T) {
	for _, fw := range []classify.Framework{
		classify.FrameworkFinancial, classify.FrameworkSales,
		classify.FrameworkOperational, classify.FrameworkGeneral,
	} {
		bundle := ingest.MetricsBundle{}
		AnalyzeFramework(fw, nil, &bundle)
		if bundle.FrameworkAnalysis == nil {
			t.Fatalf("%s analyzer returned nil analysis", fw)
		}
	}
}
