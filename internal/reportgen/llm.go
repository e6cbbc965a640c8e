package reportgen

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ModelTier selects the capability/cost point for a generation call. Large
// inputs are routed to cheaper models since their prompts are dominated by
// data rather than reasoning.
type ModelTier string

const (
	ModelHighQuality ModelTier = "high_quality"
	ModelBalanced    ModelTier = "balanced"
	ModelFast        ModelTier = "fast"
)

// selectModelTier picks a tier from input size. Thresholds come from observed
// latency on large tabular prompts.
func selectModelTier(contentLen, rowCount int) ModelTier {
	switch {
	case contentLen > 10000 || rowCount > 1000:
		return ModelFast
	case contentLen > 5000 || rowCount > 500:
		return ModelBalanced
	default:
		return ModelHighQuality
	}
}

func tierModel(tier ModelTier) anthropic.Model {
	switch tier {
	case ModelFast:
		return anthropic.ModelClaude3_5HaikuLatest
	case ModelBalanced:
		return anthropic.ModelClaude3_7SonnetLatest
	default:
		return anthropic.ModelClaudeSonnet4_20250514
	}
}

// LLMCaller produces free-form markdown text for a system/user prompt pair.
type LLMCaller interface {
	GenerateText(ctx context.Context, tier ModelTier, system, prompt string) (string, error)
}

type AnthropicCaller struct {
	messages AnthropicMessager
}

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

func NewAnthropicCallerFromEnv() (*AnthropicCaller, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	return &AnthropicCaller{messages: newAnthropicClient(apiKey)}, nil
}

func NewAnthropicCaller(apiKey string) (*AnthropicCaller, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("empty API key")
	}
	return &AnthropicCaller{messages: newAnthropicClient(apiKey)}, nil
}

func (a *AnthropicCaller) GenerateText(ctx context.Context, tier ModelTier, system, prompt string) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       tierModel(tier),
		MaxTokens:   4000,
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(0.2),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

type llmFailureClass int

const (
	failureTimeout llmFailureClass = iota
	failureRateLimit
	failureServer
	failureClient
)

func (c llmFailureClass) String() string {
	switch c {
	case failureTimeout:
		return "timeout"
	case failureRateLimit:
		return "rate_limit"
	case failureClient:
		return "client"
	default:
		return "server"
	}
}

func classifyTransportError(err error) llmFailureClass {
	msg := strings.ToLower(err.Error())
	if errors.Is(err, context.DeadlineExceeded) {
		return failureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return failureTimeout
	}
	switch {
	case strings.Contains(msg, "429"):
		return failureRateLimit
	case strings.Contains(msg, " 4") || strings.Contains(msg, "status code: 4"):
		return failureClient
	default:
		return failureServer
	}
}

// stripCodeFences removes a surrounding ``` block that models sometimes wrap
// markdown output in.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimPrefix(s, "markdown")
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
