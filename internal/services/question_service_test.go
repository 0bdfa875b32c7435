package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/academix/academic-api/internal/domain"
	"github.com/academix/academic-api/internal/repo"
)

func TestPublish_CreatedThenDuplicateOnMarkup(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	ctx := context.Background()

	first, err := svc.Publish(ctx, PublishInput{Text: strPtr("Hello")})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if first.Result != ResultCreated || first.QuestionID == "" {
		t.Fatalf("expected created with id, got %+v", first)
	}

	for _, variant := range []string{"<p>Hello</p>", "  hello  ", "HELLO", "<b>Hel</b>lo"} {
		res, err := svc.Publish(ctx, PublishInput{Text: strPtr(variant)})
		if err != nil {
			t.Fatalf("Publish(%q): %v", variant, err)
		}
		if variant == "<b>Hel</b>lo" {
			// tag replaced by a space: "Hel lo" is a different question
			if res.Result != ResultCreated {
				t.Fatalf("expected %q to be created, got %+v", variant, res)
			}
			continue
		}
		if res.Result != ResultDuplicate || res.QuestionID != "" {
			t.Fatalf("expected duplicate for %q, got %+v", variant, res)
		}
	}

	total, _ := repo.CountQuestions(ctx, db)
	if total != 2 {
		t.Fatalf("duplicates must not be written; total=%d", total)
	}
}

func TestPublish_LowConfidencePersistsInvalid(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	svc.MinConfidence = 0.8
	ctx := context.Background()

	res, err := svc.Publish(ctx, PublishInput{Text: strPtr("What is a B-tree?"), Confidence: f64Ptr(0.5)})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if res.Result != ResultInvalid || res.QuestionID == "" {
		t.Fatalf("expected invalid with id, got %+v", res)
	}

	q, err := repo.GetQuestion(ctx, db, res.QuestionID)
	if err != nil {
		t.Fatalf("invalid question must be persisted: %v", err)
	}
	if q.Status != domain.QuestionGenerated || q.Confidence != 0.5 {
		t.Fatalf("unexpected stored question: %+v", q)
	}

	items, total, err := svc.ListPage(ctx, 1, 10)
	if err != nil || total != 1 || len(items) != 1 || items[0].ID != res.QuestionID {
		t.Fatalf("ListPage: items=%+v total=%d err=%v", items, total, err)
	}
}

func TestPublish_DefaultsAndThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	ctx := context.Background()

	res, err := svc.Publish(ctx, PublishInput{Text: strPtr("Quick sort worst case?")})
	if err != nil || res.Result != ResultCreated {
		t.Fatalf("missing confidence should default to 1: %+v %v", res, err)
	}
	q, _ := repo.GetQuestion(ctx, db, res.QuestionID)
	if q.Confidence != 1 || q.Type != domain.QuestionMultipleChoice || q.Source != "ai" {
		t.Fatalf("defaults not applied: %+v", q)
	}

	res, err = svc.Publish(ctx, PublishInput{Text: strPtr("At threshold?"), Confidence: f64Ptr(DefaultMinConfidence)})
	if err != nil || res.Result != ResultCreated {
		t.Fatalf("confidence equal to the threshold is created: %+v %v", res, err)
	}
}

func TestPublish_ValidationErrors(t *testing.T) {
	svc := NewQuestionService(newTestDB(t))
	ctx := context.Background()

	cases := []struct {
		name string
		in   PublishInput
	}{
		{"missing text", PublishInput{}},
		{"blank text", PublishInput{Text: strPtr("   ")}},
		{"markup only", PublishInput{Text: strPtr("<p> </p>")}},
		{"bad type", PublishInput{Text: strPtr("x"), Type: "essay"}},
		{"confidence out of range", PublishInput{Text: strPtr("y"), Confidence: f64Ptr(1.5)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Publish(ctx, tc.in); !errors.Is(err, ErrInvalidQuestion) {
				t.Fatalf("expected ErrInvalidQuestion, got %v", err)
			}
		})
	}
}

func TestPublish_TruncatesAndNormalizesStoredText(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	ctx := context.Background()

	long := "<p>" + strings.Repeat("á", 2000) + "</p>"
	res, err := svc.Publish(ctx, PublishInput{Text: &long})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	q, _ := repo.GetQuestion(ctx, db, res.QuestionID)
	if n := utf8.RuneCountInString(q.Text); n != 1500 {
		t.Fatalf("stored text should be truncated to 1500 runes, got %d", n)
	}

	// Same prefix, different tail beyond the cut: still a duplicate.
	longer := strings.Repeat("á", 1600)
	if res, _ := svc.Publish(ctx, PublishInput{Text: &longer}); res.Result != ResultDuplicate {
		t.Fatalf("expected duplicate after truncation, got %+v", res)
	}
}

func TestPublish_EscapedInequalitiesKeepText(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	ctx := context.Background()

	first, err := svc.Publish(ctx, PublishInput{Text: strPtr("Si x &lt; 5 y x &gt; 3, ¿cuánto vale x?")})
	if err != nil || first.Result != ResultCreated {
		t.Fatalf("first publish: %+v err=%v", first, err)
	}
	q, err := repo.GetQuestion(ctx, db, first.QuestionID)
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if q.Text != "Si x < 5 y x > 3, ¿cuánto vale x?" {
		t.Fatalf("stored text = %q", q.Text)
	}

	other, err := svc.Publish(ctx, PublishInput{Text: strPtr("Si x &lt; 9 y x &gt; 3, ¿cuánto vale x?")})
	if err != nil || other.Result != ResultCreated {
		t.Fatalf("a different bound must be created, got %+v err=%v", other, err)
	}

	again, err := svc.Publish(ctx, PublishInput{Text: strPtr("<p>Si x &lt; 5 y x &gt; 3, ¿cuánto vale x?</p>")})
	if err != nil || again.Result != ResultDuplicate {
		t.Fatalf("same question must be a duplicate, got %+v err=%v", again, err)
	}
}

func TestPromote(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	ctx := context.Background()

	tf, err := svc.Publish(ctx, PublishInput{Text: strPtr("Go has generics."), Type: "true_false", Options: []string{"Verdadero", "Falso"}})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	q, err := svc.Promote(ctx, tf.QuestionID)
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if q.Status != domain.QuestionPublished {
		t.Fatalf("expected published, got %s", q.Status)
	}
	stored, _ := repo.GetQuestion(ctx, db, tf.QuestionID)
	if stored.Status != domain.QuestionPublished {
		t.Fatalf("promotion not persisted: %+v", stored)
	}

	mc, _ := svc.Publish(ctx, PublishInput{Text: strPtr("Pick a sort"), Options: []string{"a", "b", "c"}})
	if _, err := svc.Promote(ctx, mc.QuestionID); !errors.Is(err, ErrCannotPublish) {
		t.Fatalf("three options for multiple_choice must not publish, got %v", err)
	}

	if _, err := svc.Promote(ctx, "missing"); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestListPage_EmptyAndDefaults(t *testing.T) {
	svc := NewQuestionService(newTestDB(t))
	items, total, err := svc.ListPage(context.Background(), 0, 0)
	if err != nil || total != 0 || items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil page, got items=%v total=%d err=%v", items, total, err)
	}
}
