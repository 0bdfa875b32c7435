package provider

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

// GeminiConfig configures NewGemini. BaseURL is optional and overrides the
// public endpoint.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Gemini calls the Gemini API through the genai SDK.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini builds a Gemini provider.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gemini{client: client, model: model, timeout: timeout}, nil
}

// Name implements Provider.
func (g *Gemini) Name() string { return "gemini" }

// Ask implements Provider.
func (g *Gemini) Ask(ctx context.Context, prompt string, _ Options) Result {
	ctx, span := otel.Tracer("provider/gemini").Start(ctx, "Gemini.Ask")
	defer span.End()
	span.SetAttributes(attribute.String("ai.model", g.model))

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		span.RecordError(err)
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return statusError(g.Name(), apiErr.Code, apiErr.Message)
		}
		return transportError(g.Name(), err)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return Result{Text: resp.Text()}
	}
	return Result{Text: Extract(raw)}
}
