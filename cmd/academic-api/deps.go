package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/academix/academic-api/internal/cache"
	"github.com/academix/academic-api/internal/config"
	httpapi "github.com/academix/academic-api/internal/http"
	"github.com/academix/academic-api/internal/provider"
	"github.com/academix/academic-api/internal/ratelimit"
	"github.com/academix/academic-api/internal/repo"
)

// runtime bundles what serve builds from configuration.
type runtime struct {
	deps  httpapi.Deps
	redis *redis.Client
	// sweep drops expired in-memory cache entries and idle admission
	// windows; nil when both backends are Redis.
	sweep func()
}

func (rt *runtime) Close() {
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	if rt.deps.DB != nil {
		if sqlDB, err := rt.deps.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func openDB(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.Open(cfg.DB, cfg.OTEL.Enabled)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// buildRuntime wires the database, answer cache, admission window and AI
// provider selected by cfg.
func buildRuntime(ctx context.Context, cfg config.Config) (*runtime, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	rt := &runtime{deps: httpapi.Deps{DB: db}}

	if cfg.Chat.CacheBackend == "redis" || cfg.Chat.RateBackend == "redis" {
		rt.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rt.redis.Ping(ctx).Err(); err != nil {
			rt.Close()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
	}

	var sweeps []func()
	if cfg.Chat.CacheBackend == "redis" {
		rt.deps.Cache = cache.NewRedisStore(rt.redis)
	} else {
		m := cache.NewMemoryStore()
		rt.deps.Cache = m
		sweeps = append(sweeps, func() { m.Sweep() })
	}

	if cfg.Chat.RateBackend == "redis" {
		rt.deps.Admission = ratelimit.NewRedisWindow(rt.redis, cfg.Chat.RateLimit, cfg.Chat.RateWindow)
	} else {
		w := ratelimit.NewSlidingWindow(cfg.Chat.RateLimit, cfg.Chat.RateWindow)
		rt.deps.Admission = w
		sweeps = append(sweeps, func() { w.Sweep() })
	}
	if len(sweeps) > 0 {
		rt.sweep = func() {
			for _, fn := range sweeps {
				fn()
			}
		}
	}

	p, err := provider.New(ctx, cfg.AI)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("ai provider: %w", err)
	}
	rt.deps.Provider = p

	log.Info().
		Str("db", cfg.DB.Driver).
		Str("cache", cfg.Chat.CacheBackend).
		Str("admission", cfg.Chat.RateBackend).
		Str("provider", p.Name()).
		Msg("runtime ready")
	return rt, nil
}
