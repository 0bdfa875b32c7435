package prompt

import (
	"strings"
	"testing"
)

func TestBuild_Deterministic(t *testing.T) {
	a := Build("What is Big-O?", "en", DefaultContext)
	b := Build("What is Big-O?", "en", DefaultContext)
	if a != b {
		t.Fatalf("Build must be deterministic:\n%q\n%q", a, b)
	}
}

func TestBuild_Shape(t *testing.T) {
	cases := []struct {
		lang string
		want string
	}{
		{"es", "español"},
		{"en", "inglés"},
		{"fr", "inglés"},
		{"", "inglés"},
	}
	for _, tc := range cases {
		t.Run(tc.lang, func(t *testing.T) {
			p := Build("¿Qué es una pila?", tc.lang, DefaultContext)
			if !strings.Contains(p, tc.want) {
				t.Fatalf("prompt for lang %q should name %q: %q", tc.lang, tc.want, p)
			}
			if !strings.Contains(p, "Contexto: "+DefaultContext) {
				t.Fatalf("context tag not embedded: %q", p)
			}
			if !strings.HasSuffix(p, "Pregunta: ¿Qué es una pila?") {
				t.Fatalf("prompt must end with the raw question: %q", p)
			}
		})
	}
}

func TestBuild_InputsChangeOutput(t *testing.T) {
	base := Build("q", "en", DefaultContext)
	if base == Build("q", "es", DefaultContext) {
		t.Fatalf("language must affect the prompt")
	}
	if base == Build("q ", "en", DefaultContext) {
		t.Fatalf("question is embedded raw, trailing space must be kept")
	}
	if base == Build("q", "en", "other") {
		t.Fatalf("context must affect the prompt")
	}
}
