package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/academix/academic-api/internal/domain"
	"github.com/academix/academic-api/internal/repo"
	"github.com/academix/academic-api/internal/services"
)

type fakeChat struct {
	ans     *services.ChatAnswer
	err     error
	lastKey string
	lastReq services.ChatRequest
	calls   int
}

func (f *fakeChat) Ask(_ context.Context, req services.ChatRequest, clientKey string) (*services.ChatAnswer, error) {
	f.calls++
	f.lastReq, f.lastKey = req, clientKey
	return f.ans, f.err
}

type fakeQuestions struct {
	publish   services.PublishResult
	publishIn services.PublishInput
	err       error
	items     []domain.Question
	total     int64
	promoted  *domain.Question
	calls     int
}

func (f *fakeQuestions) Publish(_ context.Context, in services.PublishInput) (services.PublishResult, error) {
	f.calls++
	f.publishIn = in
	return f.publish, f.err
}

func (f *fakeQuestions) ListPage(context.Context, int, int) ([]domain.Question, int64, error) {
	return f.items, f.total, f.err
}

func (f *fakeQuestions) Promote(context.Context, string) (*domain.Question, error) {
	return f.promoted, f.err
}

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

func doJSON(r http.Handler, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}
