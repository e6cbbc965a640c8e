package reportgen

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkarlsen/reportsmith/internal/classify"
	"github.com/mkarlsen/reportsmith/internal/ingest"
)

// Pipeline is the full report synthesis flow: content type resolution,
// domain classification, metrics extraction, framework analysis, and tiered
// generation. Run never returns an error; every failure mode degrades to a
// diagnostic report.
type Pipeline struct {
	classifier   *classify.Classifier
	orchestrator *Orchestrator
	now          func() time.Time
}

func NewPipeline(caller LLMCaller) *Pipeline {
	return &Pipeline{
		classifier:   classify.NewClassifier(classify.DefaultKeywords()),
		orchestrator: NewOrchestrator(caller),
		now:          time.Now,
	}
}

// Run synthesizes one report. Empty input and internal panics both yield an
// error-tier report rather than a failure.
func (p *Pipeline) Run(ctx context.Context, in Input) (report GeneratedReport) {
	ctx, span := tracer.Start(ctx, "reportgen.pipeline")
	defer span.End()

	log := zerolog.Ctx(ctx)
	start := p.now()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("report pipeline panicked")
			report = p.errorReport(fmt.Sprintf("internal error: %v", r), in.Content, string(debug.Stack()))
		}
	}()

	if strings.TrimSpace(in.Content) == "" {
		log.Warn().Msg("empty input content")
		return p.errorReport("no data provided", in.Content, "")
	}

	contentType := ingest.ResolveDeclared(in.ContentType, in.Content)
	schema := p.classifier.Classify(in.Content, in.BusinessCategory)
	table, bundle := ingest.ExtractMetrics(in.Content, contentType)

	framework := classify.SelectFramework(schema, in.BusinessCategory)
	focus := classify.ResolveFocus(in.Focus, framework)
	AnalyzeFramework(framework, table, &bundle)

	log.Info().
		Str("content_type", string(contentType)).
		Str("domain", string(schema.Domain)).
		Float64("confidence", schema.Confidence).
		Str("framework", string(framework)).
		Str("focus", string(focus)).
		Int("rows", bundle.RowCount).
		Msg("input analyzed")

	req := Request{
		Content:          in.Content,
		Schema:           schema,
		Metrics:          &bundle,
		Table:            table,
		Framework:        framework,
		Focus:            focus,
		UserName:         in.UserName,
		UserRole:         in.UserRole,
		BusinessCategory: in.BusinessCategory,
	}

	markdown, tier := p.orchestrator.Generate(ctx, req)

	log.Info().
		Str("tier", string(tier)).
		Dur("elapsed", p.now().Sub(start)).
		Int("report_chars", len(markdown)).
		Msg("report generated")

	return GeneratedReport{
		Markdown:    markdown,
		Tier:        tier,
		Framework:   framework,
		Focus:       focus,
		Schema:      schema,
		GeneratedAt: p.now(),
	}
}

func (p *Pipeline) errorReport(msg, content, trace string) GeneratedReport {
	now := p.now()
	return GeneratedReport{
		Markdown:    BuildErrorReport(msg, content, trace, now),
		Tier:        TierError,
		GeneratedAt: now,
	}
}
