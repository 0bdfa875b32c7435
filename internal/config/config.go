// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes settings for the HTTP
// server, logging, persistence, the chat pipeline (admission, cache, AI
// providers), the question publish gate, identity, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DBConfig selects the persistence driver.
type DBConfig struct {
	Driver string // sqlite|postgres
	Path   string // SQLite file path
	URL    string // Postgres DSN
}

// RedisConfig addresses the shared key-value store used by the answer cache
// and, optionally, by the admission controller.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ChatConfig tunes the chat admission and answer-caching pipeline.
type ChatConfig struct {
	RateLimit    int           // requests per window per client key
	RateWindow   time.Duration // sliding window length
	RateBackend  string        // memory|redis
	CacheTTL     time.Duration // answer cache TTL
	CacheBackend string        // memory|redis
	SessionTTL   time.Duration // session log lifetime (fixed at 1h)

	// SessionPruneInterval runs the expired-session sweeper in the server
	// process; the same tick sweeps in-memory cache and admission state.
	// Zero disables it.
	SessionPruneInterval time.Duration
}

// QuestionConfig tunes the generated-question publish gate.
type QuestionConfig struct {
	MinConfidence float64 // MIN_PUBLISH_CONFIDENCE in [0,1]
	MaxChars      int     // truncation applied after normalization
}

// AIConfig selects and configures the AI provider gateway.
type AIConfig struct {
	Provider string        // ollama|gemini|deepseek
	Timeout  time.Duration // upper bound for one provider call

	OllamaURL   string
	OllamaModel string

	GeminiAPIKey string
	GeminiModel  string

	DeepseekAPIKey  string
	DeepseekBaseURL string
	DeepseekModel   string
}

// AuthConfig controls the upstream identity check.
type AuthConfig struct {
	JWTSecret string // HS256 secret; empty disables token parsing
	Required  bool   // reject anonymous requests with 401
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 60s (provider calls can be slow)
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for the chat API

	DB        DBConfig
	Redis     RedisConfig
	Chat      ChatConfig
	Questions QuestionConfig
	AI        AIConfig
	Auth      AuthConfig

	// Edge rate limiting (token bucket) for the question routes
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "3000"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		DB: DBConfig{
			Driver: strings.ToLower(getenv("DB_DRIVER", "sqlite")),
			Path:   getenv("DB_PATH", "academic.db"),
			URL:    getenv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", ""),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getint("REDIS_DB", 0),
		},
		Chat: ChatConfig{
			RateLimit:            getint("CHAT_RATE_LIMIT", 10),
			RateWindow:           getdur("CHAT_RATE_WINDOW", 60*time.Second),
			RateBackend:          strings.ToLower(getenv("CHAT_RATE_BACKEND", "memory")),
			CacheTTL:             getseconds("CACHE_TTL", 86400*time.Second),
			CacheBackend:         strings.ToLower(getenv("CACHE_BACKEND", "memory")),
			SessionTTL:           time.Hour,
			SessionPruneInterval: getdur("SESSION_PRUNE_INTERVAL", 10*time.Minute),
		},
		Questions: QuestionConfig{
			MinConfidence: getfloat("MIN_PUBLISH_CONFIDENCE", 0.6),
			MaxChars:      getint("QUESTION_MAX_CHARS", 1500),
		},
		AI: AIConfig{
			Provider:        strings.ToLower(getenv("AI_PROVIDER", "ollama")),
			Timeout:         getdur("AI_TIMEOUT", 30*time.Second),
			OllamaURL:       getenv("OLLAMA_URL", ""),
			OllamaModel:     getenv("OLLAMA_MODEL", "llama3"),
			GeminiAPIKey:    getenv("GEMINI_API_KEY", ""),
			GeminiModel:     getenv("GEMINI_MODEL", "gemini-2.5-flash"),
			DeepseekAPIKey:  getenv("DEEPSEEK_API_KEY", ""),
			DeepseekBaseURL: getenv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
			DeepseekModel:   getenv("DEEPSEEK_MODEL", "deepseek-chat"),
		},
		Auth: AuthConfig{
			JWTSecret: getenv("JWT_SECRET", ""),
			Required:  getbool("AUTH_REQUIRED", false),
		},

		// Edge rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 20),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "academic-api"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DB.Driver {
	case "sqlite":
		if strings.TrimSpace(cfg.DB.Path) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(cfg.DB.URL) == "" {
			return cfg, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if cfg.Chat.RateLimit < 1 {
		return cfg, errors.New("CHAT_RATE_LIMIT must be >= 1")
	}
	if cfg.Chat.RateWindow <= 0 {
		return cfg, errors.New("CHAT_RATE_WINDOW must be > 0")
	}
	if cfg.Chat.CacheTTL <= 0 {
		return cfg, errors.New("CACHE_TTL must be > 0")
	}
	if cfg.Chat.SessionPruneInterval < 0 {
		return cfg, errors.New("SESSION_PRUNE_INTERVAL must be >= 0")
	}
	for name, backend := range map[string]string{
		"CHAT_RATE_BACKEND": cfg.Chat.RateBackend,
		"CACHE_BACKEND":     cfg.Chat.CacheBackend,
	} {
		switch backend {
		case "memory":
		case "redis":
			if strings.TrimSpace(cfg.Redis.Addr) == "" {
				return cfg, errors.New(name + "=redis requires REDIS_ADDR")
			}
		default:
			return cfg, errors.New(name + " must be one of: memory, redis")
		}
	}
	if cfg.Questions.MinConfidence < 0 || cfg.Questions.MinConfidence > 1 {
		return cfg, errors.New("MIN_PUBLISH_CONFIDENCE must be between 0 and 1")
	}
	if cfg.Questions.MaxChars < 1 {
		return cfg, errors.New("QUESTION_MAX_CHARS must be >= 1")
	}
	switch cfg.AI.Provider {
	case "ollama", "gemini", "deepseek":
	default:
		return cfg, errors.New("AI_PROVIDER must be one of: ollama, gemini, deepseek")
	}
	if cfg.AI.Timeout <= 0 {
		return cfg, errors.New("AI_TIMEOUT must be > 0")
	}
	if cfg.Auth.Required && strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return cfg, errors.New("AUTH_REQUIRED=true requires JWT_SECRET")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// getseconds accepts either a bare integer number of seconds ("86400") or a
// Go duration string ("24h").
func getseconds(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
