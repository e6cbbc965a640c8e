package reportgen

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkarlsen/reportsmith/internal/classify"
)

type sectionGenerator func(req Request) string

var sectionGenerators = map[string]sectionGenerator{
	"Executive Summary":     executiveSummarySection,
	"Revenue Analysis":      revenueAnalysisSection,
	"Cost Structure":        costStructureSection,
	"Profitability Metrics": profitabilitySection,
	"Recommendations":       recommendationsSection,
	"Data Overview":         dataOverviewSection,
	"Key Insights":          keyInsightsSection,
	"Trend Analysis":        trendAnalysisSection,
	"Risk Assessment":       riskAssessmentSection,
}

// GenerateSection fills one named framework section from computed metrics.
// Sections without a dedicated generator fall back to a generic placeholder
// that names what data would unlock the analysis.
func GenerateSection(section string, req Request) string {
	if gen, ok := sectionGenerators[section]; ok {
		return gen(req)
	}
	return defaultSection(section, req)
}

func executiveSummarySection(req Request) string {
	var sb strings.Builder

	if strings.Contains(strings.ToLower(req.UserRole), "executive") {
		fmt.Fprintf(&sb, "**Executive Summary for %s**\n", req.UserRole)
		fmt.Fprintf(&sb, "This high-level analysis provides strategic insights based on %d data points.\n", req.Metrics.RowCount)
	} else {
		fmt.Fprintf(&sb, "This %s analysis report provides insights based on %d data points.\n", req.Framework, req.Metrics.RowCount)
	}

	for i, col := range req.Metrics.NumericColumns {
		if i >= 2 {
			break
		}
		if stats, ok := req.Metrics.ColumnStats[col]; ok {
			fmt.Fprintf(&sb, "- Total %s: %.2f\n", col, stats.Sum)
			fmt.Fprintf(&sb, "- Average %s: %.2f\n", col, stats.Mean)
		}
	}

	fmt.Fprintf(&sb, "\n**Primary Focus:** %s\n", titleWord(string(req.Focus)))
	sb.WriteString("**Key Finding:** Analysis reveals patterns and opportunities for optimization.")
	return sb.String()
}

func revenueAnalysisSection(req Request) string {
	revenueCols := matchColumns(req.Metrics.NumericColumns, []string{"revenue", "sales", "income"})
	if len(revenueCols) == 0 {
		return "*No revenue-specific columns identified in the data.*\n" +
			"*Consider adding columns with names containing 'revenue', 'sales', or 'income' for detailed revenue analysis.*"
	}

	var sb strings.Builder
	for i, col := range revenueCols {
		if i >= 2 {
			break
		}
		stats := req.Metrics.ColumnStats[col]
		fmt.Fprintf(&sb, "**%s Analysis:**\n", col)
		fmt.Fprintf(&sb, "- Total: %.2f\n", stats.Sum)
		fmt.Fprintf(&sb, "- Average: %.2f\n", stats.Mean)
		fmt.Fprintf(&sb, "- Range: %.2f to %.2f\n", stats.Min, stats.Max)
		if stats.Std > 0 && stats.Mean != 0 {
			cv := stats.Std / stats.Mean * 100
			fmt.Fprintf(&sb, "- Variability: %.1f%% coefficient of variation\n", cv)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func costStructureSection(req Request) string {
	costCols := matchColumns(req.Metrics.NumericColumns, []string{"cost", "expense", "cogs", "expenditure"})
	if len(costCols) == 0 {
		return "*No cost-specific columns identified.*\n" +
			"*For cost analysis, include columns with 'cost', 'expense', or similar terms.*"
	}

	var sb strings.Builder
	sb.WriteString("**Cost Structure Breakdown:**\n")
	for i, col := range costCols {
		if i >= 3 {
			break
		}
		stats := req.Metrics.ColumnStats[col]
		fmt.Fprintf(&sb, "- **%s:** %.2f total, %.2f average\n", col, stats.Sum, stats.Mean)
	}
	if len(costCols) > 1 {
		var total float64
		for _, col := range costCols {
			total += req.Metrics.ColumnStats[col].Sum
		}
		fmt.Fprintf(&sb, "\n**Total Identified Costs:** %.2f", total)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func profitabilitySection(req Request) string {
	revenueCols := matchColumns(req.Metrics.NumericColumns, []string{"revenue", "sales", "income"})
	costCols := matchColumns(req.Metrics.NumericColumns, []string{"cost", "expense", "cogs"})
	if len(revenueCols) == 0 || len(costCols) == 0 {
		return "*Insufficient data for detailed profitability analysis.*\n" +
			"*Required: Both revenue and cost columns in numeric format.*"
	}

	revenue := req.Metrics.ColumnStats[revenueCols[0]].Sum
	cost := req.Metrics.ColumnStats[costCols[0]].Sum
	if revenue <= 0 {
		return "*Insufficient data for detailed profitability analysis.*\n" +
			"*Required: Both revenue and cost columns in numeric format.*"
	}

	grossProfit := revenue - cost
	grossMargin := grossProfit / revenue * 100

	var sb strings.Builder
	sb.WriteString("**Profitability Analysis:**\n")
	fmt.Fprintf(&sb, "- Gross Profit: %.2f\n", grossProfit)
	fmt.Fprintf(&sb, "- Gross Margin: %.1f%%\n", grossMargin)
	fmt.Fprintf(&sb, "- Revenue: %.2f\n", revenue)
	fmt.Fprintf(&sb, "- Costs: %.2f\n", cost)

	switch {
	case grossMargin > 30:
		fmt.Fprintf(&sb, "\n**Assessment:** Healthy profitability margin (%.1f%%)", grossMargin)
	case grossMargin > 10:
		fmt.Fprintf(&sb, "\n**Assessment:** Moderate profitability (%.1f%%) - room for improvement", grossMargin)
	default:
		fmt.Fprintf(&sb, "\n**Assessment:** Low profitability (%.1f%%) - requires attention", grossMargin)
	}
	return sb.String()
}

func recommendationsSection(req Request) string {
	recs := Recommendations(req.Framework, req.Focus, req.UserRole)
	var sb strings.Builder
	for i, rec := range recs {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, rec)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func dataOverviewSection(req Request) string {
	var sb strings.Builder
	sb.WriteString("**Dataset Overview:**\n")
	fmt.Fprintf(&sb, "- Total Rows: %d\n", req.Metrics.RowCount)
	fmt.Fprintf(&sb, "- Total Columns: %d\n", req.Metrics.ColumnCount)
	fmt.Fprintf(&sb, "- Numeric Columns: %d\n", len(req.Metrics.NumericColumns))

	sb.WriteString("\n**Data Quality:**\n")
	fmt.Fprintf(&sb, "- Missing Values: %.1f%%\n", req.Metrics.Quality.MissingPct)
	fmt.Fprintf(&sb, "- Duplicate Rows: %.1f%%\n", req.Metrics.Quality.DuplicatePct)

	if dr := req.Metrics.DateRange; dr != nil {
		sb.WriteString("\n**Time Coverage:**\n")
		fmt.Fprintf(&sb, "- From: %s\n", dr.Start.Format("2006-01-02"))
		fmt.Fprintf(&sb, "- To: %s\n", dr.End.Format("2006-01-02"))
		fmt.Fprintf(&sb, "- Duration: %d days\n", dr.SpanDays)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func keyInsightsSection(req Request) string {
	var sb strings.Builder
	sb.WriteString("**Key Insights from Data Analysis:**\n")

	for i, col := range req.Metrics.NumericColumns {
		if i >= 3 {
			break
		}
		stats, ok := req.Metrics.ColumnStats[col]
		if !ok || stats.Std <= 0 || stats.Mean == 0 {
			continue
		}
		cv := stats.Std / stats.Mean * 100
		if cv > 50 {
			fmt.Fprintf(&sb, "- **High variability in %s:** %.1f%% coefficient of variation suggests inconsistent performance\n", col, cv)
		} else if cv < 10 {
			fmt.Fprintf(&sb, "- **Stable performance in %s:** Low variability (%.1f%%) indicates consistent results\n", col, cv)
		}
	}

	if req.Metrics.Quality.MissingPct > 20 {
		fmt.Fprintf(&sb, "- **Data quality concern:** %.1f%% missing values may affect analysis reliability\n", req.Metrics.Quality.MissingPct)
	}

	switch req.Framework {
	case classify.FrameworkFinancial:
		sb.WriteString("- Financial analysis framework applied to identify revenue and cost patterns\n")
	case classify.FrameworkSales:
		sb.WriteString("- Sales framework used to analyze performance and conversion metrics\n")
	case classify.FrameworkOperational:
		sb.WriteString("- Operational framework applied to assess efficiency and productivity\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func trendAnalysisSection(req Request) string {
	var sb strings.Builder
	sb.WriteString("**Trend Analysis:**\n")

	dr := req.Metrics.DateRange
	if dr == nil || len(req.Metrics.NumericColumns) == 0 {
		sb.WriteString("*Trend analysis requires date-based data with time series.*\n")
		sb.WriteString("*Ensure your data includes a date column for time-based analysis.*")
		return sb.String()
	}

	fmt.Fprintf(&sb, "- Data covers period from %s to %s\n", dr.Start.Format("2006-01-02"), dr.End.Format("2006-01-02"))

	if req.Table != nil && len(req.Metrics.DateColumns) > 0 {
		numCol := req.Metrics.NumericColumns[0]
		if pct, ok := trendOverDates(req.Table, req.Metrics.DateColumns[0], numCol); ok {
			direction := "increasing"
			if pct < 0 {
				direction = "decreasing"
			}
			fmt.Fprintf(&sb, "- **%s trend:** %s by %.1f%% over the period\n", numCol, direction, absFloat(pct))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func riskAssessmentSection(req Request) string {
	var sb strings.Builder
	sb.WriteString("**Risk Assessment:**\n")

	if req.Metrics.Quality.MissingPct > 10 {
		fmt.Fprintf(&sb, "- **Data Quality Risk:** %.1f%% missing data may lead to inaccurate conclusions\n", req.Metrics.Quality.MissingPct)
	}

	for i, col := range req.Metrics.NumericColumns {
		if i >= 2 {
			break
		}
		stats, ok := req.Metrics.ColumnStats[col]
		if !ok || stats.Mean == 0 || stats.Std <= 0 {
			continue
		}
		if stats.Std > stats.Mean*0.5 {
			fmt.Fprintf(&sb, "- **Volatility Risk:** High variability in %s (std/mean = %.2f) indicates instability\n", col, stats.Std/stats.Mean)
		}
	}

	switch req.Framework {
	case classify.FrameworkFinancial:
		sb.WriteString("- **Financial Risk:** Revenue concentration or high fixed costs could impact stability\n")
	case classify.FrameworkSales:
		sb.WriteString("- **Sales Risk:** Pipeline gaps or low conversion rates may affect future revenue\n")
	case classify.FrameworkOperational:
		sb.WriteString("- **Operational Risk:** Bottlenecks or quality issues could impact customer satisfaction\n")
	}

	if strings.Contains(strings.ToLower(req.UserRole), "executive") {
		sb.WriteString("- **Strategic Risk:** Market shifts or competitive pressures not captured in current data\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func defaultSection(section string, req Request) string {
	roleSuffix := ""
	if req.UserRole != "" {
		roleSuffix = " for " + req.UserRole
	}
	return fmt.Sprintf("Analysis of this section would provide insights into the %s aspects of the business%s. "+
		"Based on the data, key metrics and patterns can be identified to support decision-making. "+
		"For more detailed analysis, ensure data includes relevant columns for %s analysis.",
		req.Framework, roleSuffix, req.Framework)
}

// Recommendations returns the prioritized action list for a framework,
// adjusted for the report focus and the reader's role.
func Recommendations(framework classify.Framework, focus classify.Focus, userRole string) []string {
	var recs []string
	switch framework {
	case classify.FrameworkFinancial:
		recs = []string{
			"Review cost structure for optimization opportunities",
			"Analyze revenue streams for diversification potential",
			"Monitor cash flow and working capital requirements",
			"Conduct regular profitability analysis by product/service",
			"Implement financial controls for expense management",
		}
	case classify.FrameworkSales:
		recs = []string{
			"Focus on improving conversion rates in key pipeline stages",
			"Analyze win/loss reasons to improve sales effectiveness",
			"Segment customers for targeted sales strategies",
			"Regularly update sales forecasts based on pipeline health",
			"Provide additional training for underperforming segments",
		}
	case classify.FrameworkOperational:
		recs = []string{
			"Identify and address production bottlenecks",
			"Implement quality control measures based on defect analysis",
			"Optimize inventory levels to reduce carrying costs",
			"Analyze capacity utilization for efficiency improvements",
			"Standardize processes to reduce variability",
		}
	default:
		recs = []string{
			"Collect additional data for more comprehensive analysis",
			"Establish regular reporting cadence for key metrics",
			"Validate data quality before making major decisions",
			"Cross-reference findings with operational knowledge",
			"Set up automated data collection where possible",
		}
	}

	switch focus {
	case classify.FocusProfit:
		recs = append([]string{"Prioritize profitability improvement initiatives"}, recs...)
	case classify.FocusGrowth:
		recs = append([]string{"Focus on growth-oriented investments and strategies"}, recs...)
	case classify.FocusLoss:
		recs = append([]string{"Immediate cost containment and risk mitigation"}, recs...)
	}

	lower := strings.ToLower(userRole)
	switch {
	case strings.Contains(lower, "executive"):
		filtered := recs[:0:0]
		for _, rec := range recs {
			if !strings.Contains(strings.ToLower(rec), "detailed") {
				filtered = append(filtered, rec)
			}
		}
		recs = append([]string{"Establish key performance indicators aligned with strategic goals"}, filtered...)
	case strings.Contains(lower, "analyst"):
		recs = append(recs,
			"Conduct deeper statistical analysis on identified patterns",
			"Build automated dashboards for ongoing monitoring")
	}
	return recs
}

// NextSteps returns the follow-up actions list, ordered by the reader's role.
func NextSteps(userRole string, framework classify.Framework) []string {
	steps := []string{
		"Review key metrics and validate against business expectations",
		"Implement priority recommendations within the next 30 days",
		"Schedule follow-up analysis in 30 days to track progress",
		"Consider collecting additional data for deeper insights",
	}

	lower := strings.ToLower(userRole)
	switch {
	case strings.Contains(lower, "executive"):
		steps = append([]string{
			"Present findings to leadership team for strategic alignment",
			"Allocate resources based on priority recommendations",
		}, steps...)
	case strings.Contains(lower, "manager"):
		steps = append([]string{
			"Communicate insights to team members for implementation",
			"Set specific goals based on analysis findings",
		}, steps...)
	case strings.Contains(lower, "analyst"):
		steps = append([]string{"Document analysis methodology and assumptions"}, steps...)
		steps = append(steps, "Explore additional analytical techniques for deeper insights")
	}

	switch framework {
	case classify.FrameworkFinancial:
		steps = append(steps, "Schedule financial review meeting with accounting team")
	case classify.FrameworkSales:
		steps = append(steps, "Align sales team on identified opportunities and challenges")
	}
	return steps
}

// BuildTemplateReport renders the deterministic fallback report. It depends
// only on computed metrics and always succeeds.
func BuildTemplateReport(req Request, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Business Intelligence Report\n")
	fmt.Fprintf(&sb, "**Generated for:** %s\n", req.UserName)
	if req.UserRole != "" {
		fmt.Fprintf(&sb, "**User Role:** %s\n", req.UserRole)
	}
	fmt.Fprintf(&sb, "**Date:** %s\n", now.Format("2006-01-02"))
	fmt.Fprintf(&sb, "**Industry:** %s\n", req.BusinessCategory)
	fmt.Fprintf(&sb, "**Framework:** %s Analysis\n", titleWord(string(req.Framework)))
	fmt.Fprintf(&sb, "**Focus:** %s\n", titleWord(string(req.Focus)))
	fmt.Fprintf(&sb, "**Data Points:** %d\n", req.Metrics.RowCount)
	fmt.Fprintf(&sb, "**Confidence:** %.1f%%\n", req.Schema.Confidence*100)

	sb.WriteString("\n## Key Metrics Summary\n\n")
	if len(req.Metrics.ColumnStats) > 0 {
		for i, col := range req.Metrics.NumericColumns {
			if i >= 5 {
				break
			}
			if stats, ok := req.Metrics.ColumnStats[col]; ok {
				fmt.Fprintf(&sb, "- **%s:** Sum = %.2f, Avg = %.2f\n", col, stats.Sum, stats.Mean)
			}
		}
	} else {
		sb.WriteString("*No numeric metrics available for calculation*\n")
	}

	if profile := ProfileFor(req.BusinessCategory); profile != nil {
		sb.WriteString("\n## Industry Context\n\n")
		fmt.Fprintf(&sb, "- Suggested KPIs: %s\n", strings.Join(profile.KPIs, ", "))
		for _, s := range profile.GrowthSuggestions {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
	}

	if warning := DataQualityWarning(req.Metrics.RowCount); warning != "" {
		fmt.Fprintf(&sb, "\n> %s\n", warning)
	}

	for _, section := range req.Framework.Sections() {
		fmt.Fprintf(&sb, "\n## %s\n\n", section)
		sb.WriteString(GenerateSection(section, req))
		sb.WriteString("\n")
	}

	sb.WriteString("\n## Actionable Recommendations\n\n")
	for i, rec := range Recommendations(req.Framework, req.Focus, req.UserRole) {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, rec)
	}

	sb.WriteString("\n## Data Quality Notes\n\n")
	fmt.Fprintf(&sb, "- Missing data: %.1f%%\n", req.Metrics.Quality.MissingPct)
	fmt.Fprintf(&sb, "- Duplicate rows: %.1f%%\n", req.Metrics.Quality.DuplicatePct)

	sb.WriteString("\n## Next Steps & Further Analysis\n\n")
	for i, step := range NextSteps(req.UserRole, req.Framework) {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
	}

	sb.WriteString("\n---\n")
	fmt.Fprintf(&sb, "*Report generated automatically on %s*\n", now.Format("2006-01-02 at 15:04:05"))
	sb.WriteString("*Method: Template-based analysis with calculated metrics*\n")
	if req.UserRole != "" {
		fmt.Fprintf(&sb, "*Tailored for: %s*\n", req.UserRole)
	}
	return sb.String()
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
