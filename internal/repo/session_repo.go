// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the append-only chat session log.
//
// Sessions are written once per answered chat request and never updated.
// Expired rows are removed in bulk by PruneExpiredSessions, which runs
// outside the request hot path.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/academix/academic-api/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that a row with the same unique key already exists.
var ErrDuplicate = errors.New("duplicate")

// CreateSession inserts s. It returns ErrDuplicate when the session key is
// already taken so callers can derive a fresh one.
func CreateSession(ctx context.Context, db *gorm.DB, s *domain.ChatSession) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetSession fetches a session by key or returns ErrNotFound.
func GetSession(ctx context.Context, db *gorm.DB, key string) (*domain.ChatSession, error) {
	var s domain.ChatSession
	if err := db.WithContext(ctx).Where("session_key = ?", key).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// CountSessions returns the number of non-expired sessions recorded for
// clientKey at now.
func CountSessions(ctx context.Context, db *gorm.DB, clientKey string, now time.Time) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.ChatSession{}).
		Where("client_key = ? AND expires_at > ?", clientKey, now).
		Count(&n).Error
	return n, err
}

// PruneExpiredSessions deletes every session whose expires_at is <= now and
// returns how many rows were removed.
func PruneExpiredSessions(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&domain.ChatSession{})
	return res.RowsAffected, res.Error
}
