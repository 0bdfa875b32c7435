// Package services – QuestionService
//
// This file implements the generated-question publish gate. A candidate is
// normalized, truncated and compared against the normalized text of every
// stored question; a match is a duplicate and nothing is written. Otherwise
// the question is persisted and the confidence score decides the outcome:
// below the threshold it is reported invalid, but the record is still saved.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/academix/academic-api/internal/domain"
	"github.com/academix/academic-api/internal/observability"
	"github.com/academix/academic-api/internal/repo"
	"github.com/academix/academic-api/internal/textnorm"
)

// Publish outcomes.
const (
	ResultCreated   = "created"
	ResultDuplicate = "duplicate"
	ResultInvalid   = "invalid"
)

// DefaultMinConfidence is the publish threshold when none is configured.
const DefaultMinConfidence = 0.6

// PublishInput is one candidate question. A nil Text means the field was
// missing; a nil Confidence means 1.
type PublishInput struct {
	Text       *string
	Type       string
	Options    []string
	Source     string
	Confidence *float64
}

// PublishResult is the gate outcome. QuestionID is empty for duplicates.
type PublishResult struct {
	Result     string
	QuestionID string
}

// QuestionService owns the question corpus.
type QuestionService struct {
	DB *gorm.DB

	// MinConfidence is the created/invalid threshold.
	MinConfidence float64
	// MaxChars caps normalized text (0 means textnorm.MaxChars).
	MaxChars int
}

// NewQuestionService constructs a QuestionService with the default gate.
func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{
		DB:            db,
		MinConfidence: DefaultMinConfidence,
		MaxChars:      textnorm.MaxChars,
	}
}

// Publish runs the gate for in.
func (s *QuestionService) Publish(ctx context.Context, in PublishInput) (PublishResult, error) {
	tr := otel.Tracer("services/QuestionService")
	ctx, span := tr.Start(ctx, "Publish")
	defer span.End()

	if in.Text == nil {
		return PublishResult{}, fmt.Errorf("%w: text is required", ErrInvalidQuestion)
	}
	text := textnorm.Normalize(*in.Text)
	if text == "" {
		return PublishResult{}, fmt.Errorf("%w: text is empty", ErrInvalidQuestion)
	}
	maxChars := s.MaxChars
	if maxChars <= 0 {
		maxChars = textnorm.MaxChars
	}
	text = textnorm.Truncate(text, maxChars)

	confidence := 1.0
	if in.Confidence != nil {
		confidence = *in.Confidence
	}

	var out PublishResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := repo.ListQuestionTexts(ctx, tx)
		if err != nil {
			return err
		}
		key := textnorm.Fold(text)
		for _, e := range existing {
			// Stored texts were normalized on the way in.
			if textnorm.Fold(textnorm.Truncate(e, maxChars)) == key {
				out = PublishResult{Result: ResultDuplicate}
				return nil
			}
		}

		q, err := domain.NewQuestion(domain.QuestionParams{
			Text:       text,
			Type:       domain.QuestionType(strings.TrimSpace(in.Type)),
			Options:    in.Options,
			Source:     strings.TrimSpace(in.Source),
			Confidence: confidence,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidQuestion, err)
		}
		if err := repo.CreateQuestion(ctx, tx, &q); err != nil {
			return err
		}

		out = PublishResult{Result: ResultCreated, QuestionID: q.ID}
		if confidence < s.MinConfidence {
			out.Result = ResultInvalid
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidQuestion) {
			log.Ctx(ctx).Error().Err(err).Msg("publish question failed")
		}
		return PublishResult{}, err
	}

	observability.PublishOutcomes.WithLabelValues(out.Result).Inc()
	span.SetAttributes(
		attribute.String("question.result", out.Result),
		attribute.String("question.id", out.QuestionID),
	)
	return out, nil
}

// ListPage returns a page of stored questions, newest first, and the total.
func (s *QuestionService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Question, int64, error) {
	tr := otel.Tracer("services/QuestionService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountQuestions(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Question{}, 0, nil
	}
	items, err := repo.ListQuestionsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// Promote moves a stored question to published. It fails with
// ErrCannotPublish when the question's options do not fit its type.
func (s *QuestionService) Promote(ctx context.Context, id string) (*domain.Question, error) {
	tr := otel.Tracer("services/QuestionService")
	ctx, span := tr.Start(ctx, "Promote",
		trace.WithAttributes(attribute.String("question.id", id)),
	)
	defer span.End()

	q, err := repo.GetQuestion(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}

	pub, err := q.WithStatus(domain.QuestionPublished)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCannotPublish, err)
	}
	if err := repo.ReplaceQuestion(ctx, s.DB, &pub); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &pub, nil
}
