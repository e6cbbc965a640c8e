package reportgen

import (
	"context"
	"strings"
	"testing"

	"github.com/mkarlsen/reportsmith/internal/classify"
)

func TestPipelineEmptyInputYieldsErrorReport(t *testing.T) {
	p := NewPipeline(nil)
	report := p.Run(context.Background(), Input{Content: "   \n  "})

	if report.Tier != TierError {
		t.Fatalf("tier = %s", report.Tier)
	}
	if !strings.Contains(report.Markdown, "Report Generation Error") {
		t.Fatalf("markdown = %s", report.Markdown)
	}
	if !strings.Contains(report.Markdown, "Recommended Actions") {
		t.Fatal("error report missing remediation list")
	}
}

func TestPipelineFinancialCSVTemplatePath(t *testing.T) {
	p := NewPipeline(nil)
	report := p.Run(context.Background(), Input{
		Content:          financialCSV,
		ContentType:      "csv",
		UserName:         "Dana",
		BusinessCategory: "finance",
		Focus:            classify.FocusAuto,
	})

	if report.Tier != TierTemplate {
		t.Fatalf("tier = %s", report.Tier)
	}
	if report.Framework != classify.FrameworkFinancial {
		t.Fatalf("framework = %s", report.Framework)
	}
	// Financial default focus resolves from auto.
	if report.Focus != classify.FocusProfit {
		t.Fatalf("focus = %s", report.Focus)
	}
	if report.Schema.Domain != classify.DomainFinancial {
		t.Fatalf("domain = %s", report.Schema.Domain)
	}
	if !strings.Contains(report.Markdown, "220000.00") {
		t.Fatal("revenue sum missing from report")
	}
	if report.GeneratedAt.IsZero() {
		t.Fatal("timestamp not set")
	}
}

func TestPipelineAIFailureStillProducesReport(t *testing.T) {
	caller := &mockCaller{errs: []error{contextErr(), contextErr()}}
	p := NewPipeline(caller)
	report := p.Run(context.Background(), Input{
		Content:  financialCSV,
		UserName: "Dana",
	})
	if report.Tier != TierTemplate {
		t.Fatalf("tier = %s", report.Tier)
	}
	if strings.TrimSpace(report.Markdown) == "" {
		t.Fatal("empty markdown")
	}
}

func TestPipelineDeterministicForSameInput(t *testing.T) {
	p := NewPipeline(nil)
	in := Input{Content: financialCSV, UserName: "Dana", BusinessCategory: "retail"}

	first := p.Run(context.Background(), in)
	for i := 0; i < 3; i++ {
		next := p.Run(context.Background(), in)
		if next.Framework != first.Framework || next.Focus != first.Focus {
			t.Fatalf("analysis not stable: %s/%s vs %s/%s",
				first.Framework, first.Focus, next.Framework, next.Focus)
		}
		if next.Schema.Confidence != first.Schema.Confidence {
			t.Fatalf("confidence drifted: %f vs %f", first.Schema.Confidence, next.Schema.Confidence)
		}
	}
}

func TestPipelineUnstructuredProse(t *testing.T) {
	p := NewPipeline(nil)
	report := p.Run(context.Background(), Input{
		Content:  "Our pipeline added forty new leads this quarter and conversion doubled for enterprise deals.",
		UserName: "Sam",
	})
	if report.Tier != TierTemplate {
		t.Fatalf("tier = %s", report.Tier)
	}
	if report.Framework != classify.FrameworkSales {
		t.Fatalf("framework = %s", report.Framework)
	}
	// No table, so template sections explain what data is missing rather
	// than failing.
	if !strings.Contains(report.Markdown, "## Executive Summary") {
		t.Fatal("sections missing for prose input")
	}
}

func contextErr() error {
	return context.DeadlineExceeded
}
