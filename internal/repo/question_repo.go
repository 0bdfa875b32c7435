// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the generated
// question corpus.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/academix/academic-api/internal/domain"
)

// CreateQuestion inserts q as constructed by domain.NewQuestion.
func CreateQuestion(ctx context.Context, db *gorm.DB, q *domain.Question) error {
	return db.WithContext(ctx).Create(q).Error
}

// ReplaceQuestion overwrites the stored row for q.ID with q. Questions are
// immutable values, so a state change is a full replacement rather than a
// column patch.
func ReplaceQuestion(ctx context.Context, db *gorm.DB, q *domain.Question) error {
	res := db.WithContext(ctx).
		Model(&domain.Question{}).
		Where("id = ?", q.ID).
		Select("*").
		Updates(q)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetQuestion fetches one question by ID or returns ErrNotFound.
func GetQuestion(ctx context.Context, db *gorm.DB, id string) (*domain.Question, error) {
	var q domain.Question
	if err := db.WithContext(ctx).Where("id = ?", id).First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// ListQuestionTexts returns the raw text of every stored question. The
// publish gate normalizes these before comparing.
func ListQuestionTexts(ctx context.Context, db *gorm.DB) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.Question{}).
		Pluck("text", &out).Error
	return out, err
}

// CountQuestions returns the total number of stored questions.
func CountQuestions(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Question{}).Count(&total).Error
	return total, err
}

// ListQuestionsPage returns a page of questions, newest first.
func ListQuestionsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Question, error) {
	var out []domain.Question
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
