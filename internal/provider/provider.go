// Package provider is the AI gateway: one interface over a local model runner
// (Ollama) and hosted generative APIs (Gemini, Deepseek).
//
// Ask never fails. Missing credentials produce a labeled mock answer, a
// non-success backend status produces a labeled error, and transport
// failures (timeouts included) produce a generic labeled error. The caller
// inspects Result.Degraded to tell real answers from placeholders.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/academix/academic-api/internal/config"
)

// DefaultTimeout bounds one backend call when none is configured.
const DefaultTimeout = 30 * time.Second

// Options carries request hints that some backends use.
type Options struct {
	Lang    string
	Context string
}

// Result is the outcome of one Ask.
type Result struct {
	// Text is the answer, or a labeled placeholder when Degraded.
	Text string
	// Degraded is true when Text is not a real model answer.
	Degraded bool
	// Reason is internal detail for logs. It is never shown to clients.
	Reason string
}

// Answer returns the user-visible text.
func (r Result) Answer() string { return r.Text }

// Provider answers a prompt.
type Provider interface {
	Name() string
	Ask(ctx context.Context, prompt string, opts Options) Result
}

// New builds the provider selected by cfg.Provider. Backends without
// credentials resolve to a Mock labeled with the backend name.
func New(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	switch strings.ToLower(cfg.Provider) {
	case "", "ollama":
		if strings.TrimSpace(cfg.OllamaURL) == "" {
			return NewMock("ollama"), nil
		}
		return NewOllama(cfg.OllamaURL, cfg.OllamaModel, timeout), nil
	case "gemini":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return NewMock("gemini"), nil
		}
		return NewGemini(ctx, GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: timeout,
		})
	case "deepseek":
		if strings.TrimSpace(cfg.DeepseekAPIKey) == "" {
			return NewMock("deepseek"), nil
		}
		return NewDeepseek(DeepseekConfig{
			APIKey:  cfg.DeepseekAPIKey,
			BaseURL: cfg.DeepseekBaseURL,
			Model:   cfg.DeepseekModel,
			Timeout: timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// statusError is the labeled answer for a non-success backend status.
func statusError(name string, status int, detail string) Result {
	return Result{
		Text:     fmt.Sprintf("[%s] The AI provider returned an error (status %d). Please try again later.", name, status),
		Degraded: true,
		Reason:   fmt.Sprintf("status %d: %s", status, Truncate(detail, 200)),
	}
}

// transportError is the generic labeled answer for timeouts and connection
// failures.
func transportError(name string, err error) Result {
	return Result{
		Text:     fmt.Sprintf("[%s] The AI provider is unavailable right now. Please try again later.", name),
		Degraded: true,
		Reason:   err.Error(),
	}
}
