// Package services – SessionService
//
// Maintenance operations over the chat session log. Pruning runs outside the
// request path, either from the CLI or the server's background sweeper.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"

	"github.com/academix/academic-api/internal/observability"
	"github.com/academix/academic-api/internal/repo"
)

// SessionService prunes expired chat sessions.
type SessionService struct {
	DB *gorm.DB
}

// PruneExpired deletes sessions whose expiry is at or before now and returns
// the number removed.
func (s *SessionService) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, span := otel.Tracer("services/SessionService").Start(ctx, "PruneExpired")
	defer span.End()

	n, err := repo.PruneExpiredSessions(ctx, s.DB, now)
	if err != nil {
		return 0, err
	}
	observability.SessionsPruned.Add(float64(n))
	if n > 0 {
		log.Ctx(ctx).Info().Int64("deleted", n).Msg("pruned expired chat sessions")
	}
	return n, nil
}

// RunPruner calls PruneExpired every interval until ctx is done. onTick, when
// set, runs after each sweep.
func (s *SessionService) RunPruner(ctx context.Context, interval time.Duration, onTick func()) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if _, err := s.PruneExpired(ctx, now.UTC()); err != nil {
				log.Ctx(ctx).Error().Err(err).Msg("session prune failed")
			}
			if onTick != nil {
				onTick()
			}
		}
	}
}
