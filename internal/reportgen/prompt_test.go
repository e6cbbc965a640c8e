package reportgen

import (
	"strings"
	"testing"
	"time"

	"github.com/mkarlsen/reportsmith/internal/classify"
)

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt(classify.FrameworkFinancial, classify.FocusProfit, "CEO")
	if !strings.Contains(prompt, "FINANCIAL ANALYSIS EXPERTISE") {
		t.Fatal("missing framework expertise")
	}
	if !strings.Contains(prompt, "Prioritize profitability analysis") {
		t.Fatal("missing focus instruction")
	}
	if !strings.Contains(prompt, "for senior executives") {
		t.Fatal("missing role tailoring")
	}

	prompt = BuildSystemPrompt(classify.Framework("bogus"), classify.Focus("bogus"), "")
	if !strings.Contains(prompt, "GENERAL BUSINESS ANALYSIS") {
		t.Fatal("unknown framework should fall back to general")
	}
	if !strings.Contains(prompt, "balanced comprehensive analysis") {
		t.Fatal("unknown focus should fall back to full")
	}
}

func TestBuildUserPromptTruncatesLargeContent(t *testing.T) {
	req := financialRequest(t)
	req.Content = strings.Repeat("x", maxPromptDataChars+500)

	prompt := BuildUserPrompt(req, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))
	if !strings.Contains(prompt, "500 characters truncated for brevity") {
		t.Fatal("truncation note missing")
	}
	if !strings.Contains(prompt, "CALCULATED METRICS:") {
		t.Fatal("metrics block missing")
	}
	if !strings.Contains(prompt, "FRAMEWORK INSIGHTS:") {
		t.Fatal("framework insights missing")
	}
	if !strings.Contains(prompt, "Generate a professional business report for Dana.") {
		t.Fatal("user attribution missing")
	}
}

func TestBuildErrorReport(t *testing.T) {
	report := BuildErrorReport("bad input", strings.Repeat("d", 800), strings.Repeat("t", 800),
		time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))

	if !strings.Contains(report, "# ⚠ Report Generation Error") {
		t.Fatal("header missing")
	}
	if !strings.Contains(report, "**Error:** bad input") {
		t.Fatal("error message missing")
	}
	// Data sample and trace are excerpted.
	if strings.Count(report, "d") > errorExcerptChars+50 {
		t.Fatal("data sample not truncated")
	}
	if !strings.Contains(report, "## Recommended Actions:") {
		t.Fatal("remediation list missing")
	}
}
