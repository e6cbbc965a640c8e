package reportgen

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mkarlsen/reportsmith/internal/classify"
)

const baseSystemPrompt = `You are an expert Business Intelligence Analyst with 15+ years of experience.
Your task is to generate executive-level business reports that are:
1. Data-driven with specific insights
2. Actionable with clear recommendations
3. Professional in tone and structure
4. Concise but comprehensive
5. Based SOLELY on the data provided - do not make up numbers or facts

Always format your response with clear Markdown headers (## for sections, ### for subsections).
Include specific numbers, percentages, and calculations when possible.
Avoid generic statements - be specific to the data provided.
If certain analyses aren't possible with the given data, state this clearly.

Structure your report with clear sections and include a metadata section at the end:
**Report Metadata**
- Generated: [current date]
- Framework: [analysis type]
- Data Points: [number]
- Confidence: [high/medium/low]

Do not include any apologies or disclaimers about being an AI. Present as a human expert.`

var frameworkExpertise = map[classify.Framework]string{
	classify.FrameworkFinancial: `FINANCIAL ANALYSIS EXPERTISE:
- Analyze P&L, balance sheets, cash flow statements
- Calculate and interpret: Gross Margin, Operating Margin, Net Margin, ROE, ROA, Current Ratio
- Identify cost drivers and revenue trends
- Assess financial health and liquidity risks
- Provide specific recommendations for cost optimization or revenue growth
- Highlight anomalies and outliers in financial data

Structure your report with:
## Executive Summary (3-4 key findings)
## Revenue Analysis (breakdown by segment if available)
## Cost Structure Analysis
## Profitability Metrics (with calculations)
## Cash Flow Assessment
## Risk Factors & Mitigation
## Strategic Recommendations (prioritized)

Always include calculated ratios and comparisons.`,
	classify.FrameworkSales: `SALES ANALYSIS EXPERTISE:
- Analyze sales pipelines, conversion funnels, and performance metrics
- Calculate: Conversion rates, Average Deal Size, Sales Cycle Length, Win/Loss ratios
- Identify top-performing segments and underperforming areas
- Assess pipeline health and forecast accuracy
- Recommend specific actions to improve sales performance
- Analyze seasonality and trends

Structure your report with:
## Executive Summary (pipeline health & key metrics)
## Pipeline Analysis (by stage, source, or region)
## Conversion Metrics & Funnel Analysis
## Performance by Segment (product, region, rep)
## Trends & Forecasting
## Action Items (immediate 30-day, short-term 90-day, long-term)

Include specific numbers: "Conversion rate improved 15% from Q1" not "Conversion rate improved".
Use tables to present key metrics when appropriate.`,
	classify.FrameworkOperational: `OPERATIONS ANALYSIS EXPERTISE:
- Analyze production efficiency, capacity utilization, and quality metrics
- Calculate: Throughput, Cycle Time, OEE (Overall Equipment Effectiveness), Quality Rate
- Identify bottlenecks and constraints using data
- Assess inventory levels and supply chain efficiency
- Recommend lean improvements and optimization strategies

Structure your report with:
## Operations Overview
## Efficiency Metrics & Benchmarks
## Quality Indicators & Defect Analysis
## Capacity Utilization Analysis
## Bottleneck Analysis
## Optimization Recommendations with Estimated Impact

Focus on measurable improvements with ROI estimates.
Use bullet points for actionable recommendations.`,
	classify.FrameworkGeneral: `GENERAL BUSINESS ANALYSIS:
- Provide comprehensive analysis of provided business data
- Identify key patterns, trends, and anomalies
- Calculate relevant KPIs based on data type
- Deliver actionable recommendations
- Highlight data quality issues if present

Structure your report with:
## Executive Summary (key insights)
## Data Overview
## Key Insights (with supporting data)
## Trend Analysis
## Recommendations (prioritized)

Create clear action items with owners and timelines when possible.`,
}

var focusInstructions = map[classify.Focus]string{
	classify.FocusProfit: "FOCUS: Prioritize profitability analysis, cost optimization, margin improvement, and efficiency gains.",
	classify.FocusGrowth: "FOCUS: Emphasize growth opportunities, market expansion, scaling strategies, and revenue enhancement.",
	classify.FocusLoss:   "FOCUS: Concentrate on risk mitigation, cost reduction, problem-solving, and recovery strategies.",
	classify.FocusFull:   "FOCUS: Provide balanced comprehensive analysis across all business dimensions.",
}

// BuildSystemPrompt assembles the base analyst persona with framework
// expertise, focus instruction, and role tailoring.
func BuildSystemPrompt(framework classify.Framework, focus classify.Focus, userRole string) string {
	expertise, ok := frameworkExpertise[framework]
	if !ok {
		expertise = frameworkExpertise[classify.FrameworkGeneral]
	}
	instruction, ok := focusInstructions[focus]
	if !ok {
		instruction = focusInstructions[classify.FocusFull]
	}

	var sb strings.Builder
	sb.WriteString(baseSystemPrompt)
	sb.WriteString("\n\n")
	sb.WriteString(expertise)
	sb.WriteString("\n\n")
	sb.WriteString(instruction)
	sb.WriteString(roleContext(userRole))
	return sb.String()
}

func roleContext(userRole string) string {
	lower := strings.ToLower(userRole)
	switch {
	case strings.Contains(lower, "executive") || strings.Contains(lower, "ceo") || strings.Contains(lower, "director"):
		return "\n\nIMPORTANT: This report is for senior executives. Focus on strategic insights, high-level trends, and bottom-line impact. Keep it concise with clear executive summaries and actionable recommendations."
	case strings.Contains(lower, "manager"):
		return "\n\nIMPORTANT: This report is for managers. Include operational details, team performance metrics, and specific action plans for implementation."
	case strings.Contains(lower, "analyst"):
		return "\n\nIMPORTANT: This report is for analysts. Include detailed methodology, data quality assessment, statistical significance, and recommendations for further analysis."
	}
	return ""
}

// BuildUserPrompt embeds the computed metrics and a bounded slice of the raw
// input into the generation request.
func BuildUserPrompt(req Request, now time.Time) string {
	var sb strings.Builder

	role := req.UserRole
	if role == "" {
		role = "General Business User"
	}

	fmt.Fprintf(&sb, "Generate a professional business report for %s.\n\n", req.UserName)
	sb.WriteString("BUSINESS CONTEXT:\n")
	fmt.Fprintf(&sb, "- Client/User: %s\n", req.UserName)
	fmt.Fprintf(&sb, "- User Role: %s\n", role)
	fmt.Fprintf(&sb, "- Industry/Sector: %s\n", req.BusinessCategory)
	fmt.Fprintf(&sb, "- Analysis Type: %s Analysis\n", strings.ToUpper(string(req.Framework)))
	fmt.Fprintf(&sb, "- Report Focus: %s\n", strings.ToUpper(string(req.Focus)))
	fmt.Fprintf(&sb, "- Generated: %s\n", now.Format("2006-01-02 15:04:05"))

	sb.WriteString("\nDATA SUMMARY:\n")
	fmt.Fprintf(&sb, "- Total Rows: %d\n", req.Metrics.RowCount)
	fmt.Fprintf(&sb, "- Total Columns: %d\n", req.Metrics.ColumnCount)
	fmt.Fprintf(&sb, "- Numeric Columns: %s\n", clip(strings.Join(req.Metrics.NumericColumns, ", "), 200))
	fmt.Fprintf(&sb, "- Data Confidence: %.1f%%\n", req.Schema.Confidence*100)

	if len(req.Metrics.ColumnStats) > 0 {
		sb.WriteString("\nCALCULATED METRICS:\n")
		for i, col := range req.Metrics.NumericColumns {
			if i >= 5 {
				break
			}
			stats, ok := req.Metrics.ColumnStats[col]
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, "- %s: Mean=%.2f, Sum=%.2f\n", col, stats.Mean, stats.Sum)
		}
	}

	if len(req.Metrics.FrameworkAnalysis) > 0 {
		sb.WriteString("\nFRAMEWORK INSIGHTS:\n")
		for i, key := range sortedKeys(req.Metrics.FrameworkAnalysis) {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&sb, "- %s: %v\n", key, req.Metrics.FrameworkAnalysis[key])
		}
	}

	fmt.Fprintf(&sb, "\nDATA QUALITY ASSESSMENT:\n- Missing: %.1f%%\n- Duplicates: %.1f%%\n",
		req.Metrics.Quality.MissingPct, req.Metrics.Quality.DuplicatePct)

	sb.WriteString("\nRAW DATA (truncated if long):\n")
	sb.WriteString(req.Content[:minInt(len(req.Content), maxPromptDataChars)])
	if len(req.Content) > maxPromptDataChars {
		fmt.Fprintf(&sb, "\n\n[Note: %d characters truncated for brevity]", len(req.Content)-maxPromptDataChars)
	}

	if len(req.Metrics.SampleRows) > 0 {
		sb.WriteString("\n\nSAMPLE DATA (first rows):\n")
		for _, row := range req.Metrics.SampleRows {
			var cells []string
			for _, col := range req.Metrics.Columns {
				cells = append(cells, fmt.Sprintf("%s=%s", col, row[col]))
			}
			sb.WriteString(strings.Join(cells, " | "))
			sb.WriteString("\n")
		}
	}

	sb.WriteString(`
INSTRUCTIONS:
1. Base ALL analysis on the data provided above
2. Reference specific numbers and metrics from the data
3. If certain analyses can't be done due to data limitations, suggest what additional data would be needed
4. Provide actionable recommendations with clear next steps
5. Include a "Key Takeaways" section at the beginning
6. Format professionally with Markdown
7. Tailor the depth and technicality to the user's role
8. End with a metadata section as instructed in system prompt

Remember: Quality over quantity. Better to have fewer but more accurate insights than many generic ones.`)

	return sb.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
