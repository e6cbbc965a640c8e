package reportgen

import "strings"

// BusinessProfile carries industry-specific KPI and growth guidance folded
// into template reports.
type BusinessProfile struct {
	Name              string
	KPIs              []string
	GrowthSuggestions []string
}

var businessProfiles = map[string]BusinessProfile{
	"retail": {
		Name: "Retail",
		KPIs: []string{"Revenue", "Profit Margin", "Inventory Turnover"},
		GrowthSuggestions: []string{
			"Introduce seasonal offers",
			"Optimize inventory using demand trends",
			"Increase digital payment incentives",
		},
	},
	"real estate": {
		Name: "Real Estate",
		KPIs: []string{"Bookings", "Vacancy Rate", "ROI"},
		GrowthSuggestions: []string{
			"Improve digital lead conversion",
			"Optimize pricing by locality",
			"Focus on high-demand zones",
		},
	},
	"manufacturing": {
		Name: "Manufacturing",
		KPIs: []string{"Production Cost", "Downtime", "Yield"},
		GrowthSuggestions: []string{
			"Reduce machine idle time",
			"Optimize raw material sourcing",
			"Improve quality control",
		},
	},
}

var generalProfile = BusinessProfile{
	Name: "General Business",
	KPIs: []string{"Revenue", "Expenses", "Profit"},
	GrowthSuggestions: []string{
		"Track monthly revenue consistently",
		"Adopt digital billing",
		"Improve customer retention",
	},
}

// ProfileFor looks up the industry profile for a business category. Unknown
// categories resolve to the general profile; an empty category yields nil so
// callers can skip the industry block entirely.
func ProfileFor(businessCategory string) *BusinessProfile {
	if businessCategory == "" {
		return nil
	}
	if p, ok := businessProfiles[strings.ToLower(strings.TrimSpace(businessCategory))]; ok {
		return &p
	}
	p := generalProfile
	return &p
}

// DataQualityWarning flags datasets too small to support conclusive
// insights.
func DataQualityWarning(rowCount int) string {
	if rowCount > 0 && rowCount < 5 {
		return "Limited data available. Insights may not be conclusive."
	}
	return ""
}
