package provider

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// DeepseekConfig configures NewDeepseek.
type DeepseekConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Deepseek calls an OpenAI-compatible chat completions API.
type Deepseek struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewDeepseek builds a Deepseek provider. The SDK's automatic retries are
// disabled; a failed call is reported once.
func NewDeepseek(cfg DeepseekConfig) *Deepseek {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.deepseek.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "deepseek-chat"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Deepseek{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0),
		),
		model:   model,
		timeout: timeout,
	}
}

// Name implements Provider.
func (d *Deepseek) Name() string { return "deepseek" }

// Ask implements Provider.
func (d *Deepseek) Ask(ctx context.Context, prompt string, _ Options) Result {
	ctx, span := otel.Tracer("provider/deepseek").Start(ctx, "Deepseek.Ask")
	defer span.End()
	span.SetAttributes(attribute.String("ai.model", d.model))

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(d.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		span.RecordError(err)
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return statusError(d.Name(), apiErr.StatusCode, apiErr.Error())
		}
		return transportError(d.Name(), err)
	}
	return Result{Text: Extract([]byte(resp.RawJSON()))}
}
