package reportgen

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mkarlsen/reportsmith/internal/classify"
	"github.com/mkarlsen/reportsmith/internal/ingest"
)

// Column-name keyword sets used to locate semantically meaningful columns.
var (
	revenueKeywords = []string{"revenue", "sales", "income", "gross"}
	costKeywords    = []string{"cost", "expense", "cogs", "operating"}
	stageKeywords   = []string{"stage", "status", "phase"}
	amountKeywords  = []string{"amount", "value", "size"}
)

const (
	maxStageValues      = 10
	maxOperationalStats = 5
	maxGeneralSummaries = 3
)

// GrossMargin is the first revenue/cost column pair's margin.
type GrossMargin struct {
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// AnalyzeFramework computes framework-specific derived metrics and merges
// them into the bundle's FrameworkAnalysis map. All analyzers tolerate a nil
// or empty table, producing a minimal analysis rather than failing.
func AnalyzeFramework(framework classify.Framework, table *ingest.Table, bundle *ingest.MetricsBundle) {
	var analysis map[string]any
	switch framework {
	case classify.FrameworkFinancial:
		analysis = analyzeFinancial(table, bundle)
	case classify.FrameworkSales:
		analysis = analyzeSales(table, bundle)
	case classify.FrameworkOperational:
		analysis = analyzeOperational(table, bundle)
	default:
		analysis = analyzeGeneral(table, bundle)
	}
	bundle.FrameworkAnalysis = analysis
}

func matchColumns(columns []string, keywords []string) []string {
	var out []string
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				out = append(out, col)
				break
			}
		}
	}
	return out
}

func analyzeFinancial(table *ingest.Table, bundle *ingest.MetricsBundle) map[string]any {
	analysis := map[string]any{}
	if table == nil || table.RowCount() == 0 {
		return analysis
	}

	revenueCols := matchColumns(bundle.NumericColumns, revenueKeywords)
	costCols := matchColumns(bundle.NumericColumns, costKeywords)

	if len(revenueCols) > 0 && len(costCols) > 0 {
		revSum := sum(ingest.NumericValues(table, revenueCols[0]))
		costSum := sum(ingest.NumericValues(table, costCols[0]))
		gm := GrossMargin{Value: revSum - costSum}
		if revSum != 0 {
			gm.Percentage = (revSum - costSum) / revSum * 100
		}
		analysis["gross_margin"] = gm
	}

	if len(bundle.DateColumns) > 0 && len(revenueCols) > 0 {
		if growth, ok := trendOverDates(table, bundle.DateColumns[0], revenueCols[0]); ok {
			analysis["revenue_growth"] = growth
		}
	}
	return analysis
}

// trendOverDates computes the percentage change of a value column between
// the earliest and latest row by date order.
func trendOverDates(table *ingest.Table, dateCol, valueCol string) (float64, bool) {
	dateIdx := table.ColumnIndex(dateCol)
	revIdx := table.ColumnIndex(valueCol)
	if dateIdx < 0 || revIdx < 0 {
		return 0, false
	}

	type point struct {
		when  int64
		value float64
	}
	var points []point
	for _, row := range table.Rows {
		if dateIdx >= len(row) || revIdx >= len(row) {
			continue
		}
		ts, ok := ingest.ParseDate(row[dateIdx])
		if !ok {
			continue
		}
		v, ok := parseCellNumber(row[revIdx])
		if !ok {
			continue
		}
		points = append(points, point{when: ts.Unix(), value: v})
	}
	if len(points) < 2 {
		return 0, false
	}
	sort.Slice(points, func(i, j int) bool { return points[i].when < points[j].when })
	first := points[0].value
	last := points[len(points)-1].value
	if first == 0 {
		return 0, false
	}
	return (last - first) / first * 100, true
}

func analyzeSales(table *ingest.Table, bundle *ingest.MetricsBundle) map[string]any {
	analysis := map[string]any{}
	if table == nil || table.RowCount() == 0 {
		return analysis
	}

	if stageCols := matchColumns(table.Columns, stageKeywords); len(stageCols) > 0 {
		analysis["stage_distribution"] = stageDistribution(table, stageCols[0])
	}

	amountCols := matchColumns(bundle.NumericColumns, amountKeywords)
	if len(amountCols) == 0 {
		amountCols = bundle.NumericColumns
	}
	if len(amountCols) > 0 {
		vals := ingest.NumericValues(table, amountCols[0])
		if len(vals) > 0 {
			total := sum(vals)
			analysis["amount_column"] = amountCols[0]
			analysis["total_amount"] = total
			analysis["average_amount"] = total / float64(len(vals))
		}
	}
	return analysis
}

// stageDistribution tabulates record counts per distinct stage value, capped
// at maxStageValues distinct stages in first-seen order.
func stageDistribution(table *ingest.Table, stageCol string) map[string]int {
	idx := table.ColumnIndex(stageCol)
	dist := map[string]int{}
	var order []string
	for _, row := range table.Rows {
		if idx >= len(row) {
			continue
		}
		stage := strings.TrimSpace(row[idx])
		if stage == "" {
			continue
		}
		if _, seen := dist[stage]; !seen {
			if len(order) >= maxStageValues {
				continue
			}
			order = append(order, stage)
		}
		dist[stage]++
	}
	return dist
}

func analyzeOperational(table *ingest.Table, bundle *ingest.MetricsBundle) map[string]any {
	analysis := map[string]any{}
	if table == nil || table.RowCount() == 0 {
		return analysis
	}

	for i, col := range bundle.NumericColumns {
		if i >= maxOperationalStats {
			break
		}
		if stats, ok := bundle.ColumnStats[col]; ok {
			analysis[col+"_stats"] = stats
		}
	}

	// High-variance columns flag potential bottlenecks: dispersion beyond
	// half the mean.
	var highVariance []string
	for _, col := range bundle.NumericColumns {
		stats, ok := bundle.ColumnStats[col]
		if !ok {
			continue
		}
		if stats.Std > stats.Mean*0.5 {
			highVariance = append(highVariance, col)
		}
	}
	if len(highVariance) > 0 {
		if len(highVariance) > maxOperationalStats {
			highVariance = highVariance[:maxOperationalStats]
		}
		analysis["high_variance_metrics"] = highVariance
	}
	return analysis
}

func analyzeGeneral(table *ingest.Table, bundle *ingest.MetricsBundle) map[string]any {
	summary := map[string]any{
		"rows":    bundle.RowCount,
		"columns": bundle.Columns,
	}
	analysis := map[string]any{"data_summary": summary}
	if table == nil || table.RowCount() == 0 {
		return analysis
	}

	types := map[string]string{}
	numericSet := map[string]bool{}
	for _, col := range bundle.NumericColumns {
		numericSet[col] = true
	}
	dateSet := map[string]bool{}
	for _, col := range bundle.DateColumns {
		dateSet[col] = true
	}
	for _, col := range table.Columns {
		switch {
		case numericSet[col]:
			types[col] = "numeric"
		case dateSet[col]:
			types[col] = "date"
		default:
			types[col] = "text"
		}
	}
	summary["data_types"] = types

	if len(bundle.NumericColumns) > 0 {
		numSummary := map[string]map[string]float64{}
		for i, col := range bundle.NumericColumns {
			if i >= maxGeneralSummaries {
				break
			}
			if stats, ok := bundle.ColumnStats[col]; ok {
				numSummary[col] = map[string]float64{"mean": stats.Mean, "total": stats.Sum}
			}
		}
		analysis["numeric_summary"] = numSummary
	}

	missing := map[string]int{}
	for col, stats := range bundle.ColumnStats {
		if stats.Missing > 0 {
			missing[col] = stats.Missing
		}
	}
	analysis["missing_values"] = missing
	return analysis
}

func sum(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}

func parseCellNumber(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
