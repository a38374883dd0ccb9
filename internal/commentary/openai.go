package commentary

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pingpong-ladder/internal/metrics"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// completionClient is the part of the OpenAI chat completions service we use.
type completionClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

var _ Generator = &OpenAI{}

// OpenAI generates commentary with a chat completion model.
type OpenAI struct {
	api     completionClient
	model   string
	timeout time.Duration
	metrics metrics.Metrics
}

// New returns an OpenAI backed generator when an API key is configured and a
// Static one otherwise.
func New(cfg Config, metrics metrics.Metrics) Generator {
	if cfg.APIKey == "" {
		log.Warn("No OpenAI API key configured, commentary disabled")
		return Static{Text: FallbackDisabled}
	}
	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return NewWithAPI(&client.Chat.Completions, cfg.Model, metrics)
}

// NewWithAPI creates a generator on top of a specific completions client.
func NewWithAPI(api completionClient, model string, metrics metrics.Metrics) *OpenAI {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAI{
		api:     api,
		model:   model,
		timeout: 15 * time.Second,
		metrics: metrics,
	}
}

func (o *OpenAI) Generate(ctx context.Context, facts Facts) string {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.api.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(facts.Prompt()),
		},
	})
	if err != nil {
		o.metrics.IncCommentaryFailed()
		log.Error("Commentary generation failed", "error", err, "model", o.model)
		return FallbackFailed
	}
	if len(resp.Choices) == 0 {
		log.Warn("Commentary response had no choices", "model", o.model)
		return FallbackEmpty
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return FallbackEmpty
	}
	o.metrics.IncCommentaryGenerated()
	log.Debug("Generated commentary", "model", o.model, "length", len(text))
	return text
}
