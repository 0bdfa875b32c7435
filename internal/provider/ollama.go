package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Ollama talks to a local model runner over its /api/generate endpoint.
type Ollama struct {
	baseURL string
	model   string
	timeout time.Duration
	client  *http.Client
}

// NewOllama returns an Ollama provider for baseURL (e.g.
// "http://localhost:11434").
func NewOllama(baseURL, model string, timeout time.Duration) *Ollama {
	if model == "" {
		model = "llama3"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		timeout: timeout,
		client:  &http.Client{},
	}
}

// Name implements Provider.
func (o *Ollama) Name() string { return "ollama" }

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// Ask implements Provider.
func (o *Ollama) Ask(ctx context.Context, prompt string, _ Options) Result {
	ctx, span := otel.Tracer("provider/ollama").Start(ctx, "Ollama.Ask")
	defer span.End()
	span.SetAttributes(attribute.String("ai.model", o.model))

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	body, err := json.Marshal(ollamaRequest{Model: o.model, Prompt: prompt})
	if err != nil {
		return transportError(o.Name(), err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return transportError(o.Name(), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return transportError(o.Name(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		span.RecordError(err)
		return transportError(o.Name(), fmt.Errorf("read body: %w", err))
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(o.Name(), resp.StatusCode, string(raw))
	}
	return Result{Text: Extract(raw)}
}
