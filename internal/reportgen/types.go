package reportgen

import (
	"time"

	"github.com/mkarlsen/reportsmith/internal/classify"
	"github.com/mkarlsen/reportsmith/internal/ingest"
)

// Tier identifies which generation strategy produced a report.
type Tier string

const (
	TierAI       Tier = "ai"
	TierHybrid   Tier = "hybrid"
	TierTemplate Tier = "template"
	TierError    Tier = "error"
)

// maxPromptDataChars bounds how much raw input is embedded in the LLM
// prompt.
const maxPromptDataChars = 6000

// Input is the report request as received from a front end. Content size is
// the front end's responsibility to cap.
type Input struct {
	Content          string         `json:"content"`
	ContentType      string         `json:"content_type"`
	UserName         string         `json:"user_name"`
	UserRole         string         `json:"user_role,omitempty"`
	BusinessCategory string         `json:"business_category"`
	Focus            classify.Focus `json:"focus"`
}

// Request is the assembled, read-only state handed to the generation tiers.
type Request struct {
	Content          string
	Schema           classify.Schema
	Metrics          *ingest.MetricsBundle
	Table            *ingest.Table
	Framework        classify.Framework
	Focus            classify.Focus
	UserName         string
	UserRole         string
	BusinessCategory string
}

// GeneratedReport is the pipeline output: markdown text tagged with the tier
// that produced it. The core does not persist it; storage is a collaborator
// concern.
type GeneratedReport struct {
	Markdown    string             `json:"markdown"`
	Tier        Tier               `json:"tier"`
	Framework   classify.Framework `json:"framework"`
	Focus       classify.Focus     `json:"focus"`
	Schema      classify.Schema    `json:"schema"`
	GeneratedAt time.Time          `json:"generated_at"`
}
