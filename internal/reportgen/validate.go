package reportgen

import "strings"

// boilerplatePhrases are AI refusal/hedging markers. Two or more of them in
// one report indicate the model punted instead of analyzing.
var boilerplatePhrases = []string{
	"as an ai language model",
	"i cannot provide",
	"i don't have access",
	"based on the limited information",
	"without more data",
}

// Validate checks structural quality of a generated report: minimum length,
// minimum word count, markdown section headers, and an absence of stacked
// boilerplate. A report that fails here is discarded and the next tier runs.
func Validate(report string) bool {
	trimmed := strings.TrimSpace(report)
	if len(trimmed) < 100 {
		return false
	}
	if !strings.Contains(report, "##") {
		return false
	}
	if len(strings.Fields(report)) <= 50 {
		return false
	}

	lower := strings.ToLower(report)
	boilerplate := 0
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(lower, phrase) {
			boilerplate++
		}
	}
	return boilerplate < 2
}
