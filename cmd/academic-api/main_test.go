package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/academix/academic-api/internal/cache"
	"github.com/academix/academic-api/internal/config"
	"github.com/academix/academic-api/internal/prompt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCacheKey_MatchesChatPrompt(t *testing.T) {
	out, err := run(t, "cache", "key", "¿Qué", "es", "un", "grafo?", "--lang", "en")
	if err != nil {
		t.Fatalf("cache key: %v", err)
	}
	want := cache.Key(prompt.Build("¿Qué es un grafo?", "en", prompt.DefaultContext))
	if strings.TrimSpace(out) != want {
		t.Fatalf("key = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestCacheKey_EmptyContextFallsBack(t *testing.T) {
	a, err := run(t, "cache", "key", "q", "--context", "")
	if err != nil {
		t.Fatalf("cache key: %v", err)
	}
	b, _ := run(t, "cache", "key", "q")
	if a != b {
		t.Fatalf("empty --context should use the default: %q vs %q", a, b)
	}
}

func TestCacheKey_RejectsLang(t *testing.T) {
	if _, err := run(t, "cache", "key", "q", "--lang", "fr"); err == nil || !strings.Contains(err.Error(), "--lang") {
		t.Fatalf("expected --lang error, got %v", err)
	}
	if _, err := run(t, "cache", "key"); err == nil {
		t.Fatalf("expected args error")
	}
}

func TestSessionsPrune_EmptyDB(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "file:prune_cmd?mode=memory&cache=shared")
	t.Setenv("LOG_LEVEL", "error")
	out, err := run(t, "sessions", "prune")
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if !strings.Contains(out, "Deleted 0 expired session(s).") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, "--version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, version) {
		t.Fatalf("version output %q", out)
	}
}

func TestBuildRuntime_SweepClearsMemoryCache(t *testing.T) {
	t.Setenv("DB_PATH", "file:runtime_sweep?mode=memory&cache=shared")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	rt, err := buildRuntime(context.Background(), cfg)
	if err != nil {
		t.Fatalf("buildRuntime: %v", err)
	}
	defer rt.Close()

	mem, ok := rt.deps.Cache.(*cache.MemoryStore)
	if !ok {
		t.Fatalf("default cache should be in memory, got %T", rt.deps.Cache)
	}
	if rt.sweep == nil {
		t.Fatalf("in-memory backends need a sweep hook")
	}
	_ = mem.Set(context.Background(), "q", "a", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	rt.sweep()
	if mem.Len() != 0 {
		t.Fatalf("expired entry survived sweep, Len=%d", mem.Len())
	}
}
