package provider

import "context"

// Mock answers without calling any backend. It stands in for a provider
// whose credentials are not configured.
type Mock struct {
	label string
}

// NewMock returns a Mock labeled with the backend it replaces.
func NewMock(label string) *Mock { return &Mock{label: label} }

// Name implements Provider.
func (m *Mock) Name() string { return "mock:" + m.label }

// Ask implements Provider.
func (m *Mock) Ask(_ context.Context, _ string, opts Options) Result {
	text := "[mock " + m.label + "] No AI provider is configured; this is a placeholder answer."
	if opts.Lang == "es" {
		text = "[mock " + m.label + "] No hay un proveedor de IA configurado; esta es una respuesta simulada."
	}
	return Result{Text: text, Degraded: true, Reason: m.label + " not configured"}
}
