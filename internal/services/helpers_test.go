package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/academix/academic-api/internal/domain"
	"github.com/academix/academic-api/internal/provider"
	"github.com/academix/academic-api/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// dbSessions forwards to the repo free functions.
type dbSessions struct{}

func (dbSessions) CreateSession(ctx context.Context, db *gorm.DB, s *domain.ChatSession) error {
	return repo.CreateSession(ctx, db, s)
}

type fakeProvider struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	result  provider.Result
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Ask(_ context.Context, p string, _ provider.Options) provider.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, p)
	return f.result
}

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func strPtr(s string) *string { return &s }
func f64Ptr(f float64) *float64 { return &f }
