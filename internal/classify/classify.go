package classify

import "strings"

// Domain is the detected business domain of a data input.
type Domain string

const (
	DomainFinancial   Domain = "financial"
	DomainSales       Domain = "sales"
	DomainOperational Domain = "operational"
	DomainGeneral     Domain = "general"
)

// confidenceEpsilon avoids division by zero when normalizing scores.
const confidenceEpsilon = 0.001

// Schema is the classification result for one input. Built once per request
// and never mutated afterward.
type Schema struct {
	Domain           Domain         `json:"domain"`
	Confidence       float64        `json:"confidence"`
	IndicatorCounts  map[Domain]int `json:"indicator_counts"`
	BusinessCategory string         `json:"business_category"`
	ContentLength    int            `json:"content_length"`
}

// KeywordConfig holds the indicator terms for each scored domain. It is
// immutable configuration: built once at process start and passed into the
// classifier.
type KeywordConfig struct {
	Financial   []string
	Sales       []string
	Operational []string
}

// DefaultKeywords returns the built-in indicator sets. Matching is by
// substring, so incidental hits (e.g. "process" inside unrelated prose)
// do count toward a domain; that is an accepted heuristic tradeoff.
func DefaultKeywords() KeywordConfig {
	return KeywordConfig{
		Financial: []string{
			"revenue", "profit", "cost", "margin", "expense", "budget",
			"cash flow", "balance sheet", "p&l", "income", "$", "dollar",
			"financial", "earning", "expenditure",
		},
		Sales: []string{
			"lead", "deal", "customer", "pipeline", "conversion", "sales",
			"opportunity", "forecast", "quota", "win rate", "client",
			"prospect", "account",
		},
		Operational: []string{
			"production", "inventory", "supply chain", "manufacturing",
			"logistics", "efficiency", "throughput", "quality",
			"operation", "process", "capacity", "output",
		},
	}
}

// Classifier scores raw text against the configured keyword sets.
type Classifier struct {
	keywords KeywordConfig
}

func NewClassifier(keywords KeywordConfig) *Classifier {
	return &Classifier{keywords: keywords}
}

// Classify produces the Schema for raw content. The score per domain is the
// number of that domain's terms present in the case-folded content. The
// primary domain is the arg-max score, ties resolved in enumeration order
// (financial, sales, operational); a zero score across all domains resolves
// to general with confidence 0.
func (c *Classifier) Classify(content, businessCategory string) Schema {
	schema := Schema{
		Domain:           DomainGeneral,
		IndicatorCounts:  map[Domain]int{DomainFinancial: 0, DomainSales: 0, DomainOperational: 0},
		BusinessCategory: businessCategory,
		ContentLength:    len(content),
	}
	if strings.TrimSpace(content) == "" {
		return schema
	}

	lower := strings.ToLower(content)
	schema.IndicatorCounts[DomainFinancial] = countPresent(lower, c.keywords.Financial)
	schema.IndicatorCounts[DomainSales] = countPresent(lower, c.keywords.Sales)
	schema.IndicatorCounts[DomainOperational] = countPresent(lower, c.keywords.Operational)

	best := DomainGeneral
	bestScore := 0
	total := 0
	for _, d := range []Domain{DomainFinancial, DomainSales, DomainOperational} {
		score := schema.IndicatorCounts[d]
		total += score
		if score > bestScore {
			best = d
			bestScore = score
		}
	}
	if bestScore > 0 {
		schema.Domain = best
		schema.Confidence = float64(bestScore) / (float64(total) + confidenceEpsilon)
	}
	return schema
}

func countPresent(content string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(content, term) {
			n++
		}
	}
	return n
}
