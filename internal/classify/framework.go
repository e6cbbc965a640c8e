package classify

import "strings"

// Framework is the analytical lens applied to a report: it fixes the
// required report sections, the KPIs called out, and the default focus.
type Framework string

const (
	FrameworkFinancial   Framework = "financial"
	FrameworkSales       Framework = "sales"
	FrameworkOperational Framework = "operational"
	FrameworkGeneral     Framework = "general"
)

// Focus is the analytical emphasis of a report.
type Focus string

const (
	FocusProfit Focus = "profit"
	FocusGrowth Focus = "growth"
	FocusLoss   Focus = "loss"
	FocusFull   Focus = "full"
	FocusAuto   Focus = "auto"
)

type frameworkTemplate struct {
	sections     []string
	kpis         []string
	defaultFocus Focus
}

var frameworkTemplates = map[Framework]frameworkTemplate{
	FrameworkFinancial: {
		sections: []string{
			"Executive Summary",
			"Revenue Analysis",
			"Cost Structure",
			"Profitability Metrics",
			"Cash Flow Assessment",
			"Risk Factors",
			"Recommendations",
		},
		kpis:         []string{"Revenue", "Gross Margin", "Operating Margin", "Net Profit", "ROI", "Cash Conversion Cycle"},
		defaultFocus: FocusProfit,
	},
	FrameworkSales: {
		sections: []string{
			"Executive Summary",
			"Pipeline Analysis",
			"Conversion Metrics",
			"Performance by Segment",
			"Trends & Forecasting",
			"Action Items",
		},
		kpis:         []string{"Total Sales", "Conversion Rate", "Average Deal Size", "Sales Cycle Length", "Win Rate", "Pipeline Value"},
		defaultFocus: FocusGrowth,
	},
	FrameworkOperational: {
		sections: []string{
			"Operations Overview",
			"Efficiency Metrics",
			"Quality Indicators",
			"Capacity Utilization",
			"Bottleneck Analysis",
			"Optimization Recommendations",
		},
		kpis:         []string{"Throughput", "Cycle Time", "Quality Rate", "Capacity Utilization", "Cost Per Unit", "On-Time Delivery"},
		defaultFocus: FocusFull,
	},
	FrameworkGeneral: {
		sections: []string{
			"Executive Summary",
			"Data Overview",
			"Key Insights",
			"Trend Analysis",
			"Recommendations",
		},
		kpis:         []string{"Data Points", "Analysis Depth", "Action Items"},
		defaultFocus: FocusFull,
	},
}

// Sections returns the ordered report sections required by the framework.
func (f Framework) Sections() []string {
	t, ok := frameworkTemplates[f]
	if !ok {
		t = frameworkTemplates[FrameworkGeneral]
	}
	return append([]string(nil), t.sections...)
}

// KPIs returns the indicator names the framework reports on.
func (f Framework) KPIs() []string {
	t, ok := frameworkTemplates[f]
	if !ok {
		t = frameworkTemplates[FrameworkGeneral]
	}
	return append([]string(nil), t.kpis...)
}

// DefaultFocus returns the focus applied when the caller asks for auto.
func (f Framework) DefaultFocus() Focus {
	t, ok := frameworkTemplates[f]
	if !ok {
		return FocusFull
	}
	return t.defaultFocus
}

// ResolveFocus maps auto (or an unknown value) to the framework default.
func ResolveFocus(requested Focus, f Framework) Focus {
	switch requested {
	case FocusProfit, FocusGrowth, FocusLoss, FocusFull:
		return requested
	default:
		return f.DefaultFocus()
	}
}

var categoryOverrides = []struct {
	terms     []string
	framework Framework
}{
	{[]string{"retail", "e-commerce", "ecommerce", "store", "shop"}, FrameworkSales},
	{[]string{"manufacturing", "factory", "production", "plant"}, FrameworkOperational},
	{[]string{"bank", "finance", "investment", "accounting"}, FrameworkFinancial},
}

// SelectFramework reconciles the classifier output with the user-declared
// business category. A confident (non-general) textual classification always
// wins; only a general result can be corrected by category keywords.
func SelectFramework(schema Schema, businessCategory string) Framework {
	if schema.Domain != DomainGeneral {
		return Framework(schema.Domain)
	}

	lower := strings.ToLower(businessCategory)
	for _, ov := range categoryOverrides {
		for _, term := range ov.terms {
			if strings.Contains(lower, term) {
				return ov.framework
			}
		}
	}
	return FrameworkGeneral
}
