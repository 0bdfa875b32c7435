// Package services – ChatService
//
// This file implements the chat orchestrator. One Ask runs strictly in
// order: admission, prompt build, cache lookup, provider call, cache write,
// session log write. A cache hit returns immediately without calling the
// provider or writing a session.
//
// Only an admission rejection is surfaced with a specific error
// (ErrRateLimited). Every later failure collapses into ErrInternalAI with the
// cause logged.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/academix/academic-api/internal/cache"
	"github.com/academix/academic-api/internal/domain"
	"github.com/academix/academic-api/internal/observability"
	"github.com/academix/academic-api/internal/prompt"
	"github.com/academix/academic-api/internal/provider"
	"github.com/academix/academic-api/internal/ratelimit"
	"github.com/academix/academic-api/internal/repo"
)

// DefaultSessionTTL is the lifetime of a chat session log record.
const DefaultSessionTTL = time.Hour

// sessionKeyAttempts bounds retries when two writes for one client land on
// the same millisecond.
const sessionKeyAttempts = 3

// SessionRepo defines the persistence contract required by ChatService.
type SessionRepo interface {
	// CreateSession inserts s and returns repo.ErrDuplicate when its key is taken.
	CreateSession(ctx context.Context, db *gorm.DB, s *domain.ChatSession) error
}

// ChatRequest is one chat question.
type ChatRequest struct {
	Question string
	Lang     string // es|en
	Context  string // academic_general
}

// ChatAnswer is the orchestrator's reply.
type ChatAnswer struct {
	Answer string
	Cached bool
}

// ChatService answers chat questions through the admission, cache and
// provider pipeline.
type ChatService struct {
	DB        *gorm.DB
	Repo      SessionRepo
	Admission ratelimit.Admission
	Cache     cache.Store
	Provider  provider.Provider

	// CacheTTL is the answer cache lifetime (0 means cache.DefaultTTL).
	CacheTTL time.Duration
	// SessionTTL is the session log lifetime (0 means DefaultSessionTTL).
	SessionTTL time.Duration

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (s *ChatService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Validate checks a request before it reaches admission.
func (r ChatRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return ErrEmptyQuestion
	}
	if r.Lang != "es" && r.Lang != "en" {
		return ErrUnsupportedLang
	}
	if r.Context != prompt.DefaultContext {
		return ErrUnsupportedContext
	}
	return nil
}

// Ask runs the chat pipeline for clientKey.
func (s *ChatService) Ask(ctx context.Context, req ChatRequest, clientKey string) (*ChatAnswer, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Ask",
		trace.WithAttributes(
			attribute.String("client.key", clientKey),
			attribute.String("chat.lang", req.Lang),
		),
	)
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	logger := log.Ctx(ctx).With().Str("client_key", clientKey).Logger()

	// 1. Admission
	ok, err := s.Admission.Allow(ctx, clientKey)
	if err != nil {
		logger.Error().Err(err).Msg("admission check failed")
		return nil, ErrInternalAI
	}
	if !ok {
		observability.AdmissionRejects.Inc()
		span.SetAttributes(attribute.Bool("chat.rate_limited", true))
		return nil, ErrRateLimited
	}

	// 2. Prompt
	p := prompt.Build(req.Question, req.Lang, req.Context)

	// 3. Cache lookup. A failing cache is treated as a miss.
	if answer, hit, err := s.Cache.Get(ctx, p); err != nil {
		observability.CacheLookups.WithLabelValues("error").Inc()
		logger.Warn().Err(err).Msg("cache get failed")
	} else if hit {
		observability.CacheLookups.WithLabelValues("hit").Inc()
		span.SetAttributes(attribute.Bool("chat.cache_hit", true))
		return &ChatAnswer{Answer: answer, Cached: true}, nil
	} else {
		observability.CacheLookups.WithLabelValues("miss").Inc()
	}

	// 4. Provider
	if s.Provider == nil {
		logger.Error().Msg("no AI provider configured")
		return nil, ErrInternalAI
	}
	res := s.Provider.Ask(ctx, p, provider.Options{Lang: req.Lang, Context: req.Context})
	if res.Degraded {
		observability.ProviderAnswers.WithLabelValues(s.Provider.Name(), "degraded").Inc()
		logger.Warn().Str("provider", s.Provider.Name()).Str("reason", res.Reason).Msg("degraded provider answer")
	} else {
		observability.ProviderAnswers.WithLabelValues(s.Provider.Name(), "ok").Inc()
	}

	// 5. Cache write. Placeholders are not cached so a recovered provider
	// is used on the next request.
	if !res.Degraded {
		if err := s.Cache.Set(ctx, p, res.Text, s.CacheTTL); err != nil {
			logger.Error().Err(err).Msg("cache set failed")
			return nil, ErrInternalAI
		}
	}

	// 6. Session log
	if err := s.logSession(ctx, clientKey, p, res); err != nil {
		logger.Error().Err(err).Msg("session write failed")
		return nil, ErrInternalAI
	}

	return &ChatAnswer{Answer: res.Answer()}, nil
}

func (s *ChatService) logSession(ctx context.Context, clientKey, p string, res provider.Result) error {
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now := s.now()
	millis := now.UnixMilli()

	var err error
	for i := 0; i < sessionKeyAttempts; i++ {
		rec := &domain.ChatSession{
			SessionKey: SessionKey(clientKey, millis+int64(i)),
			ClientKey:  clientKey,
			Prompt:     p,
			Answer:     res.Text,
			Degraded:   res.Degraded,
			CreatedAt:  now,
			ExpiresAt:  now.Add(ttl),
		}
		if err = s.Repo.CreateSession(ctx, s.DB, rec); !errors.Is(err, repo.ErrDuplicate) {
			return err
		}
	}
	return fmt.Errorf("session key collision after %d attempts: %w", sessionKeyAttempts, err)
}

// SessionKey formats the session log key "<clientKey>-<unixMillis>".
func SessionKey(clientKey string, unixMillis int64) string {
	return clientKey + "-" + strconv.FormatInt(unixMillis, 10)
}
