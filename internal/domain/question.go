package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuestionType enumerates the supported exam question shapes.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
)

// OptionCount returns the number of options a published question of this type
// must carry, or 0 for unknown types.
func (t QuestionType) OptionCount() int {
	switch t {
	case QuestionMultipleChoice:
		return 4
	case QuestionTrueFalse:
		return 2
	default:
		return 0
	}
}

// QuestionStatus is the lifecycle state of a stored question.
type QuestionStatus string

const (
	QuestionGenerated QuestionStatus = "generated"
	QuestionInvalid   QuestionStatus = "invalid"
	QuestionPublished QuestionStatus = "published"
)

// MaxQuestionRunes caps stored question text.
const MaxQuestionRunes = 2000

// Construction errors returned by NewQuestion.
var (
	ErrQuestionTextEmpty    = errors.New("question text is empty")
	ErrQuestionTextTooLong  = errors.New("question text too long")
	ErrQuestionType         = errors.New("unknown question type")
	ErrQuestionStatus       = errors.New("unknown question status")
	ErrQuestionConfidence   = errors.New("confidence must be between 0 and 1")
	ErrQuestionOptionsCount = errors.New("published question has wrong option count")
)

// Question is a generated exam question. Values are built through
// NewQuestion and treated as immutable afterwards; a state change produces a
// new value via WithStatus.
type Question struct {
	ID         string                      `json:"id"         gorm:"type:char(36);primaryKey"`
	Text       string                      `json:"text"       gorm:"type:text;not null"`
	Type       QuestionType                `json:"type"       gorm:"type:varchar(32);not null"`
	Options    datatypes.JSONSlice[string] `json:"options,omitempty"`
	Source     string                      `json:"source"     gorm:"type:varchar(64);not null;default:'ai'"`
	Confidence float64                     `json:"confidence" gorm:"not null;check:confidence >= 0 AND confidence <= 1"`
	Status     QuestionStatus              `json:"status"     gorm:"type:varchar(16);not null;index"`
	CreatedAt  time.Time                   `json:"created_at" gorm:"index"`
}

// TableName returns the database table name for Question.
func (Question) TableName() string { return "questions" }

// QuestionParams carries the inputs accepted by NewQuestion. Zero values pick
// defaults: multiple_choice, generated, source "ai".
type QuestionParams struct {
	ID         string
	Text       string
	Type       QuestionType
	Options    []string
	Source     string
	Confidence float64
	Status     QuestionStatus
	CreatedAt  time.Time
}

// NewQuestion validates p and returns the constructed Question. A published
// question must carry exactly Type.OptionCount() options.
func NewQuestion(p QuestionParams) (Question, error) {
	if strings.TrimSpace(p.Text) == "" {
		return Question{}, ErrQuestionTextEmpty
	}
	if utf8.RuneCountInString(p.Text) > MaxQuestionRunes {
		return Question{}, ErrQuestionTextTooLong
	}
	if p.Type == "" {
		p.Type = QuestionMultipleChoice
	}
	if p.Type.OptionCount() == 0 {
		return Question{}, fmt.Errorf("%w: %q", ErrQuestionType, p.Type)
	}
	if p.Status == "" {
		p.Status = QuestionGenerated
	}
	switch p.Status {
	case QuestionGenerated, QuestionInvalid, QuestionPublished:
	default:
		return Question{}, fmt.Errorf("%w: %q", ErrQuestionStatus, p.Status)
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return Question{}, ErrQuestionConfidence
	}
	if p.Status == QuestionPublished && len(p.Options) != p.Type.OptionCount() {
		return Question{}, fmt.Errorf("%w: %s needs %d, got %d",
			ErrQuestionOptionsCount, p.Type, p.Type.OptionCount(), len(p.Options))
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Source == "" {
		p.Source = "ai"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	var opts datatypes.JSONSlice[string]
	if len(p.Options) > 0 {
		opts = append(datatypes.JSONSlice[string]{}, p.Options...)
	}
	return Question{
		ID:         p.ID,
		Text:       p.Text,
		Type:       p.Type,
		Options:    opts,
		Source:     p.Source,
		Confidence: p.Confidence,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt,
	}, nil
}

// WithStatus returns a copy of q in the given status, re-running the
// construction checks (so promoting to published enforces option counts).
func (q Question) WithStatus(s QuestionStatus) (Question, error) {
	return NewQuestion(QuestionParams{
		ID:         q.ID,
		Text:       q.Text,
		Type:       q.Type,
		Options:    q.Options,
		Source:     q.Source,
		Confidence: q.Confidence,
		Status:     s,
		CreatedAt:  q.CreatedAt,
	})
}
