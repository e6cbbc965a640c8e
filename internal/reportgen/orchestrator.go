package reportgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("reportsmith/reportgen")

// Orchestrator runs the tiered generation ladder. The AI tier is tried
// first; a validation failure demotes to the hybrid tier, which merges AI
// prose into the framework's template structure; a hybrid validation
// failure, or any transport failure, lands on the deterministic template
// tier, which cannot fail.
type Orchestrator struct {
	caller LLMCaller
	now    func() time.Time
}

func NewOrchestrator(caller LLMCaller) *Orchestrator {
	return &Orchestrator{caller: caller, now: time.Now}
}

// Generate produces the report markdown and the tier that produced it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (string, Tier) {
	ctx, span := tracer.Start(ctx, "reportgen.generate",
		trace.WithAttributes(
			attribute.String("framework", string(req.Framework)),
			attribute.String("focus", string(req.Focus)),
		))
	defer span.End()

	log := zerolog.Ctx(ctx)

	if o.caller == nil {
		log.Info().Msg("no llm caller configured, using template generation")
		span.SetAttributes(attribute.String("tier", string(TierTemplate)))
		return BuildTemplateReport(req, o.now()), TierTemplate
	}

	aiReport, err := o.generateAI(ctx, req)
	if err != nil {
		log.Warn().Err(err).
			Stringer("failure_class", classifyTransportError(err)).
			Msg("ai generation failed, using template fallback")
		span.SetAttributes(attribute.String("tier", string(TierTemplate)))
		return BuildTemplateReport(req, o.now()), TierTemplate
	}

	if Validate(aiReport) {
		log.Info().Str("framework", string(req.Framework)).Msg("ai report generated")
		span.SetAttributes(attribute.String("tier", string(TierAI)))
		return aiReport, TierAI
	}

	log.Warn().Msg("ai report validation failed, using hybrid mode")
	hybrid := o.buildHybridReport(aiReport, req)
	if Validate(hybrid) {
		span.SetAttributes(attribute.String("tier", string(TierHybrid)))
		return hybrid, TierHybrid
	}

	log.Warn().Msg("hybrid report validation failed, using template fallback")
	span.SetAttributes(attribute.String("tier", string(TierTemplate)))
	return BuildTemplateReport(req, o.now()), TierTemplate
}

// generateAI calls the model once at the size-selected tier, retrying once
// on the fast tier before giving up.
func (o *Orchestrator) generateAI(ctx context.Context, req Request) (string, error) {
	ctx, span := tracer.Start(ctx, "reportgen.ai_call")
	defer span.End()

	tier := selectModelTier(len(req.Content), req.Metrics.RowCount)
	span.SetAttributes(attribute.String("model_tier", string(tier)))

	system := BuildSystemPrompt(req.Framework, req.Focus, req.UserRole)
	prompt := BuildUserPrompt(req, o.now())

	raw, err := o.caller.GenerateText(ctx, tier, system, prompt)
	if err != nil && tier != ModelFast {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("primary model failed, retrying on fast tier")
		raw, err = o.caller.GenerateText(ctx, ModelFast, system, prompt)
	}
	if err != nil {
		return "", err
	}

	report := stripCodeFences(raw)
	if strings.TrimSpace(report) == "" {
		return "", fmt.Errorf("empty model response")
	}
	return report, nil
}

// buildHybridReport keeps the framework's template structure but fills each
// section with AI prose where a match exists, falling back to template
// content per section.
func (o *Orchestrator) buildHybridReport(aiReport string, req Request) string {
	sections := extractSections(aiReport)
	now := o.now()

	var sb strings.Builder
	sb.WriteString("# Business Intelligence Report\n")
	fmt.Fprintf(&sb, "**Generated for:** %s\n", req.UserName)
	if req.UserRole != "" {
		fmt.Fprintf(&sb, "**User Role:** %s\n", req.UserRole)
	}
	fmt.Fprintf(&sb, "**Date:** %s\n", now.Format("2006-01-02"))
	fmt.Fprintf(&sb, "**Framework:** %s Analysis\n", titleWord(string(req.Framework)))
	fmt.Fprintf(&sb, "**Focus:** %s\n", titleWord(string(req.Focus)))

	if len(req.Metrics.ColumnStats) > 0 {
		sb.WriteString("\n## Key Metrics at a Glance\n\n")
		for i, col := range req.Metrics.NumericColumns {
			if i >= 3 {
				break
			}
			if stats, ok := req.Metrics.ColumnStats[col]; ok {
				fmt.Fprintf(&sb, "- **%s:** Total = %.2f, Average = %.2f\n", col, stats.Sum, stats.Mean)
			}
		}
	}

	for _, section := range req.Framework.Sections() {
		fmt.Fprintf(&sb, "\n## %s\n\n", section)
		if content := findSection(section, sections, aiReport); content != "" {
			sb.WriteString(content)
		} else {
			sb.WriteString(GenerateSection(section, req))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n## Data Summary & Methodology\n\n")
	sb.WriteString("- Analysis performed using hybrid AI-Template approach\n")
	fmt.Fprintf(&sb, "- Data points analyzed: %d\n", req.Metrics.RowCount)
	fmt.Fprintf(&sb, "- Confidence score: %.1f%%\n", req.Schema.Confidence*100)
	fmt.Fprintf(&sb, "- Report generated: %s\n", now.Format("2006-01-02 15:04:05"))
	return sb.String()
}

// aiSections holds a report's level-2 sections with their original order,
// so matching is deterministic.
type aiSections struct {
	order  []string
	byName map[string]string
}

// extractSections splits a markdown report into its level-2 sections.
func extractSections(report string) aiSections {
	sections := aiSections{byName: map[string]string{}}
	var current string
	var content []string

	flush := func() {
		if current != "" && len(content) > 0 {
			if _, seen := sections.byName[current]; !seen {
				sections.order = append(sections.order, current)
			}
			sections.byName[current] = strings.TrimSpace(strings.Join(content, "\n"))
		}
	}

	for _, line := range strings.Split(report, "\n") {
		if strings.HasPrefix(line, "## ") && !strings.HasPrefix(line, "###") {
			flush()
			current = strings.TrimSpace(line[3:])
			content = nil
			continue
		}
		if current != "" {
			content = append(content, line)
		}
	}
	flush()
	return sections
}

// matchStopWords are too common in section names to signal a match on their
// own.
var matchStopWords = map[string]bool{
	"analysis": true, "overview": true, "assessment": true,
	"the": true, "of": true, "and": true, "&": true,
}

// findSection locates AI prose for a template section by exact header
// match, then substring match either way, then a shared meaningful keyword
// in the header.
func findSection(name string, sections aiSections, fullReport string) string {
	if content, ok := sections.byName[name]; ok {
		return content
	}

	lower := strings.ToLower(name)
	for _, header := range sections.order {
		headerLower := strings.ToLower(header)
		if strings.Contains(headerLower, lower) || strings.Contains(lower, headerLower) {
			return sections.byName[header]
		}
	}

	var keywords []string
	for _, word := range strings.Fields(lower) {
		if !matchStopWords[word] {
			keywords = append(keywords, word)
		}
	}
	if len(keywords) == 0 {
		return ""
	}

	inSection := false
	var content []string
	for _, line := range strings.Split(fullReport, "\n") {
		if strings.HasPrefix(line, "## ") {
			lineLower := strings.ToLower(line)
			matched := false
			for _, kw := range keywords {
				if strings.Contains(lineLower, kw) {
					matched = true
					break
				}
			}
			if matched {
				inSection = true
				continue
			}
			if inSection {
				break
			}
			continue
		}
		if inSection {
			content = append(content, line)
		}
	}
	return strings.TrimSpace(strings.Join(content, "\n"))
}
