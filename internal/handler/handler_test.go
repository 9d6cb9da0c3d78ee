package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skypeek/skypeek/internal/middleware"
	"github.com/skypeek/skypeek/internal/model"
	"github.com/skypeek/skypeek/internal/repository"
	"github.com/skypeek/skypeek/internal/weather"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUserStore hands every session the same user.
type fakeUserStore struct {
	user *model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{user: &model.User{
		ID:        "user-1",
		SessionID: "session-1",
		CreatedAt: time.Now().UTC(),
	}}
}

func (f *fakeUserStore) GetOrCreateUser(ctx context.Context, sessionID string) (*model.User, error) {
	return f.user, nil
}

// withSession wraps a handler in the session middleware over a fake
// user store, matching how the router mounts session-scoped endpoints.
func withSession(h http.HandlerFunc) http.Handler {
	return middleware.Session(middleware.SessionConfig{
		Logger: discardLogger(),
		Users:  newFakeUserStore(),
	})(h)
}

type fakeGeocoder struct {
	loc weather.Location
	err error
}

func (f *fakeGeocoder) Geocode(ctx context.Context, city string) (weather.Location, error) {
	return f.loc, f.err
}

type fakeFetcher struct {
	conditions weather.CurrentConditions
	err        error
}

func (f *fakeFetcher) Current(ctx context.Context, lat, lon float64) (weather.CurrentConditions, error) {
	return f.conditions, f.err
}

type fakeHistoryStore struct {
	entries []*model.SearchHistoryEntry
}

func (f *fakeHistoryStore) InsertSearch(ctx context.Context, entry *model.SearchHistoryEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistoryStore) RecentSearches(ctx context.Context, userID string, limit int) ([]*model.SearchHistoryEntry, error) {
	out := make([]*model.SearchHistoryEntry, 0, limit)
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

func (f *fakeHistoryStore) LastSearch(ctx context.Context, userID string) (*model.SearchHistoryEntry, error) {
	if len(f.entries) == 0 {
		return nil, repository.ErrNoHistory
	}
	return f.entries[len(f.entries)-1], nil
}

// doJSON performs a request against h and decodes the JSON body into out.
func doJSON(t *testing.T, h http.Handler, method, target string, out any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

func TestHello(t *testing.T) {
	h := New()

	var body map[string]string
	rec := doJSON(t, http.HandlerFunc(h.Hello), http.MethodGet, "/", &body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %s", body["status"])
	}
	if body["message"] == "" {
		t.Error("expected non-empty message")
	}
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	var body map[string]string
	rec := doJSON(t, http.HandlerFunc(h.Health), http.MethodGet, "/api/health", &body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["status"] != "ok" || body["service"] != "skypeek" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestHealthz(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	var body HealthResponse
	rec := doJSON(t, http.HandlerFunc(h.Healthz), http.MethodGet, "/healthz", &body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body.Status != "ok" {
		t.Errorf("expected status ok, got %s", body.Status)
	}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadyz_UnhealthyDependency(t *testing.T) {
	healthy := pingFunc(func(ctx context.Context) error { return nil })
	broken := pingFunc(func(ctx context.Context) error { return context.DeadlineExceeded })

	h := NewHealthHandler(healthy, broken)

	var body HealthResponse
	rec := doJSON(t, http.HandlerFunc(h.Readyz), http.MethodGet, "/readyz", &body)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if body.Checks["postgres"] != "ok" {
		t.Errorf("expected postgres ok, got %s", body.Checks["postgres"])
	}
	if body.Checks["redis"] == "ok" {
		t.Error("expected redis check to fail")
	}
}
