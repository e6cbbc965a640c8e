package classify

import "testing"

func TestSelectFrameworkFromDomain(t *testing.T) {
	schema := Schema{Domain: DomainSales}
	if got := SelectFramework(schema, "manufacturing"); got != FrameworkSales {
		t.Fatalf("classified domain should win over category, got %s", got)
	}
}

func TestSelectFrameworkCategoryOverrides(t *testing.T) {
	cases := []struct {
		category string
		want     Framework
	}{
		{"Online Retail Shop", FrameworkSales},
		{"E-Commerce", FrameworkSales},
		{"Steel Manufacturing Plant", FrameworkOperational},
		{"Community Bank", FrameworkFinancial},
		{"Investment Advisory", FrameworkFinancial},
		{"Consulting", FrameworkGeneral},
		{"", FrameworkGeneral},
	}
	for _, tc := range cases {
		schema := Schema{Domain: DomainGeneral}
		if got := SelectFramework(schema, tc.category); got != tc.want {
			t.Fatalf("SelectFramework(general, %q) = %s, want %s", tc.category, got, tc.want)
		}
	}
}

func TestFrameworkSections(t *testing.T) {
	sections := FrameworkFinancial.Sections()
	if len(sections) != 7 {
		t.Fatalf("financial sections = %d", len(sections))
	}
	if sections[0] != "Executive Summary" || sections[len(sections)-1] != "Recommendations" {
		t.Fatalf("sections = %v", sections)
	}

	// Mutating the returned slice must not affect the template.
	sections[0] = "changed"
	if FrameworkFinancial.Sections()[0] != "Executive Summary" {
		t.Fatal("Sections returned shared backing array")
	}
}

func TestUnknownFrameworkFallsBackToGeneral(t *testing.T) {
	bogus := Framework("bogus")
	if got := bogus.Sections(); len(got) != len(FrameworkGeneral.Sections()) {
		t.Fatalf("sections = %v", got)
	}
	if bogus.DefaultFocus() != FocusFull {
		t.Fatalf("default focus = %s", bogus.DefaultFocus())
	}
}

func TestResolveFocus(t *testing.T) {
	if got := ResolveFocus(FocusAuto, FrameworkFinancial); got != FocusProfit {
		t.Fatalf("auto financial focus = %s", got)
	}
	if got := ResolveFocus(FocusAuto, FrameworkSales); got != FocusGrowth {
		t.Fatalf("auto sales focus = %s", got)
	}
	if got := ResolveFocus(FocusLoss, FrameworkSales); got != FocusLoss {
		t.Fatalf("explicit focus overridden: %s", got)
	}
	if got := ResolveFocus(Focus("junk"), FrameworkOperational); got != FocusFull {
		t.Fatalf("junk focus = %s", got)
	}
}
