// Package domain defines the persistence models for the academic chat
// pipeline and the generated-question corpus. These types are mapped with
// GORM and form the core data layer of the application.
package domain

import "time"

// ChatSession is the durable log record of one answered chat exchange.
// Records are append-only: they are created once per provider-answered
// request, never updated, and become eligible for bulk deletion once
// ExpiresAt has passed.
//
// Fields:
//   - SessionKey: "<clientKey>-<unixMillis>", unique per write.
//   - ClientKey: caller identity used for admission (e.g. "ip:203.0.113.7").
//   - Prompt / Answer: the exact prompt sent to the provider and its reply.
//   - Degraded: true when the provider could not produce a real answer and
//     the stored text is a labeled fallback.
//   - ExpiresAt: independent of the answer cache TTL.
type ChatSession struct {
	SessionKey string    `json:"session_key" gorm:"type:varchar(191);primaryKey"`
	ClientKey  string    `json:"client_key"  gorm:"type:varchar(128);not null;index:idx_sessions_client"`
	Prompt     string    `json:"prompt"      gorm:"type:text;not null"`
	Answer     string    `json:"answer"      gorm:"type:text;not null"`
	Degraded   bool      `json:"degraded"    gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"  gorm:"not null;index:idx_sessions_expiry"`
}

// TableName returns the database table name for ChatSession.
func (ChatSession) TableName() string { return "chat_sessions" }

// Expired reports whether the record may be pruned at now.
func (s ChatSession) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }
