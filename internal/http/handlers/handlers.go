// Package handlers – wiring
//
// Handlers depends on narrow service interfaces so tests can substitute
// fakes. The idempotency store is optional; without it publish never
// replays.
package handlers

import (
	"context"
	"time"

	"github.com/academix/academic-api/internal/domain"
	"github.com/academix/academic-api/internal/services"
)

// ChatService answers chat questions.
type ChatService interface {
	// Ask runs admission, cache and provider for clientKey.
	Ask(ctx context.Context, req services.ChatRequest, clientKey string) (*services.ChatAnswer, error)
}

// QuestionService manages the question bank.
type QuestionService interface {
	// Publish runs the dedup and confidence gate for one candidate.
	Publish(ctx context.Context, in services.PublishInput) (services.PublishResult, error)
	// ListPage returns a page of stored questions and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Question, int64, error)
	// Promote moves a stored question to published.
	Promote(ctx context.Context, id string) (*domain.Question, error)
}

// IdempotencyStore records publish outcomes per (user, scope, key).
type IdempotencyStore interface {
	// Get returns a live record, or an error when none exists.
	Get(ctx context.Context, userID, scope, key string, now time.Time) (*domain.Idempotency, error)
	// Save stores an outcome for ttl.
	Save(ctx context.Context, userID, scope, key, result, questionID string, status int, ttl time.Duration) error
}

// ScopePublish namespaces idempotency keys used on POST /exams-chat/publish.
const ScopePublish = "publish"

// DefaultIdempotencyTTL is used when Handlers.IdemTTL is zero.
const DefaultIdempotencyTTL = 24 * time.Hour

// Handlers groups the HTTP handlers and their dependencies.
type Handlers struct {
	chatSvc     ChatService
	questionSvc QuestionService
	idem        IdempotencyStore

	// IdemTTL bounds how long a publish result can be replayed.
	IdemTTL time.Duration
	// Now is the clock for idempotency lookups; nil means time.Now.
	Now func() time.Time
}

// New constructs Handlers. idem may be nil.
func New(chatSvc ChatService, questionSvc QuestionService, idem IdempotencyStore) *Handlers {
	registerValidators()
	return &Handlers{
		chatSvc:     chatSvc,
		questionSvc: questionSvc,
		idem:        idem,
		IdemTTL:     DefaultIdempotencyTTL,
	}
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}
