package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestTableNames(t *testing.T) {
	if (Question{}).TableName() != "questions" {
		t.Fatalf("Question.TableName() = %q", (Question{}).TableName())
	}
	if (ChatSession{}).TableName() != "chat_sessions" {
		t.Fatalf("ChatSession.TableName() = %q", (ChatSession{}).TableName())
	}
	if (Idempotency{}).TableName() != "idempotency" {
		t.Fatalf("Idempotency.TableName() = %q", (Idempotency{}).TableName())
	}
}

func TestNewQuestion_Defaults(t *testing.T) {
	q, err := NewQuestion(QuestionParams{Text: "What is recursion?", Confidence: 0.9})
	if err != nil {
		t.Fatalf("NewQuestion: %v", err)
	}
	if q.ID == "" || q.Type != QuestionMultipleChoice || q.Status != QuestionGenerated || q.Source != "ai" {
		t.Fatalf("defaults not applied: %+v", q)
	}
	if q.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt should be set")
	}
	if q.Options != nil {
		t.Fatalf("expected nil options, got %v", q.Options)
	}
}

func TestNewQuestion_PublishedOptionCounts(t *testing.T) {
	four := []string{"a", "b", "c", "d"}
	cases := []struct {
		name    string
		typ     QuestionType
		options []string
		wantErr bool
	}{
		{"mc three options", QuestionMultipleChoice, four[:3], true},
		{"mc no options", QuestionMultipleChoice, nil, true},
		{"mc four options", QuestionMultipleChoice, four, false},
		{"mc five options", QuestionMultipleChoice, append(four, "e"), true},
		{"tf one option", QuestionTrueFalse, []string{"true"}, true},
		{"tf two options", QuestionTrueFalse, []string{"true", "false"}, false},
		{"tf four options", QuestionTrueFalse, four, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewQuestion(QuestionParams{
				Text:       "Pick one",
				Type:       tc.typ,
				Options:    tc.options,
				Confidence: 1,
				Status:     QuestionPublished,
			})
			if tc.wantErr && !errors.Is(err, ErrQuestionOptionsCount) {
				t.Fatalf("expected ErrQuestionOptionsCount, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewQuestion_OptionsNotCheckedUnlessPublished(t *testing.T) {
	if _, err := NewQuestion(QuestionParams{Text: "x", Options: []string{"only"}, Confidence: 0.5}); err != nil {
		t.Fatalf("generated question with any option count should be valid: %v", err)
	}
}

func TestNewQuestion_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		p    QuestionParams
		want error
	}{
		{"empty text", QuestionParams{Text: "   "}, ErrQuestionTextEmpty},
		{"too long", QuestionParams{Text: strings.Repeat("a", MaxQuestionRunes+1)}, ErrQuestionTextTooLong},
		{"bad type", QuestionParams{Text: "x", Type: "essay"}, ErrQuestionType},
		{"bad status", QuestionParams{Text: "x", Status: "archived"}, ErrQuestionStatus},
		{"confidence high", QuestionParams{Text: "x", Confidence: 1.1}, ErrQuestionConfidence},
		{"confidence low", QuestionParams{Text: "x", Confidence: -0.1}, ErrQuestionConfidence},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewQuestion(tc.p); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestNewQuestion_CopiesOptions(t *testing.T) {
	opts := []string{"a", "b"}
	q, err := NewQuestion(QuestionParams{Text: "x", Type: QuestionTrueFalse, Options: opts, Confidence: 1})
	if err != nil {
		t.Fatalf("NewQuestion: %v", err)
	}
	opts[0] = "mutated"
	if q.Options[0] != "a" {
		t.Fatalf("question options alias caller slice")
	}
}

func TestQuestion_WithStatus(t *testing.T) {
	q, err := NewQuestion(QuestionParams{Text: "x", Type: QuestionTrueFalse, Confidence: 1})
	if err != nil {
		t.Fatalf("NewQuestion: %v", err)
	}
	if _, err := q.WithStatus(QuestionPublished); !errors.Is(err, ErrQuestionOptionsCount) {
		t.Fatalf("promoting without options should fail, got %v", err)
	}

	q2, err := NewQuestion(QuestionParams{Text: "x", Type: QuestionTrueFalse, Options: []string{"V", "F"}, Confidence: 1})
	if err != nil {
		t.Fatalf("NewQuestion: %v", err)
	}
	pub, err := q2.WithStatus(QuestionPublished)
	if err != nil {
		t.Fatalf("WithStatus: %v", err)
	}
	if pub.Status != QuestionPublished || pub.ID != q2.ID || q2.Status != QuestionGenerated {
		t.Fatalf("WithStatus must return a new value and leave original untouched: orig=%+v new=%+v", q2, pub)
	}
}

func TestChatSession_Expired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := ChatSession{ExpiresAt: now}
	if !s.Expired(now) {
		t.Fatalf("session should be expired exactly at ExpiresAt")
	}
	if s.Expired(now.Add(-time.Second)) {
		t.Fatalf("session should not be expired before ExpiresAt")
	}
}

func TestMigrations_AndOptionsRoundTrip(t *testing.T) {
	db := newDomainDB(t)
	if err := db.AutoMigrate(&Question{}, &ChatSession{}, &Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()
	for _, tbl := range []any{&Question{}, &ChatSession{}, &Idempotency{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T", tbl)
		}
	}
	if !m.HasIndex(&ChatSession{}, "idx_sessions_expiry") {
		t.Fatalf("expected idx_sessions_expiry")
	}
	if !m.HasIndex(&Idempotency{}, "ux_idem_user_scope_key") {
		t.Fatalf("expected ux_idem_user_scope_key")
	}

	q, err := NewQuestion(QuestionParams{
		Text:       "2+2?",
		Type:       QuestionMultipleChoice,
		Options:    []string{"1", "2", "3", "4"},
		Confidence: 0.7,
		Status:     QuestionPublished,
	})
	if err != nil {
		t.Fatalf("NewQuestion: %v", err)
	}
	if err := db.Create(&q).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	var got Question
	if err := db.First(&got, "id = ?", q.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Options) != 4 || got.Options[3] != "4" || got.Status != QuestionPublished {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
