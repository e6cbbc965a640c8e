package reportgen

import (
	"fmt"
	"strings"
	"time"
)

const errorExcerptChars = 500

// BuildErrorReport produces the diagnostic markdown returned when report
// generation cannot proceed at all. It is the terminal fallback and carries
// enough context for the user to correct their input.
func BuildErrorReport(errMsg, dataSample, trace string, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("# ⚠ Report Generation Error\n")
	fmt.Fprintf(&sb, "**Time:** %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "**Error:** %s\n", errMsg)

	if trace != "" {
		sb.WriteString("\n**Technical Details:**\n")
		fmt.Fprintf(&sb, "```\n%s\n```\n", clip(trace, errorExcerptChars))
	}

	sb.WriteString("\n**Data Sample (first 500 chars):**\n")
	fmt.Fprintf(&sb, "```\n%s\n```\n", clip(dataSample, errorExcerptChars))

	sb.WriteString("\n## Recommended Actions:\n")
	sb.WriteString("1. Check your data format (CSV, JSON, or structured text)\n")
	sb.WriteString("2. Verify data contains numeric columns for analysis\n")
	sb.WriteString("3. Ensure internet connectivity if using AI features\n")
	sb.WriteString("4. Try reducing data size if it's very large\n")
	sb.WriteString("5. Contact support with the error details above\n")
	return sb.String()
}
