package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amaumene/reeldle/internal/api/handlers"
	"github.com/amaumene/reeldle/internal/config"
	"github.com/amaumene/reeldle/internal/controllers"
	"github.com/amaumene/reeldle/internal/engine"
	"github.com/amaumene/reeldle/internal/metrics"
	"github.com/amaumene/reeldle/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type stubProvider struct {
	records []*models.ItemRecord
}

func (p *stubProvider) Search(ctx context.Context, query string) ([]models.Candidate, error) {
	var out []models.Candidate
	for _, r := range p.records {
		if strings.Contains(strings.ToLower(r.Title), strings.ToLower(query)) {
			out = append(out, models.Candidate{ID: r.ID, Title: r.Title})
		}
	}
	return out, nil
}

func (p *stubProvider) GetDetails(ctx context.Context, id int) (*models.ItemRecord, error) {
	for _, r := range p.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, models.ErrNotFound
}

func (p *stubProvider) ResolveTitle(ctx context.Context, title string) (*models.ItemRecord, error) {
	for _, r := range p.records {
		if r.Title == title {
			return r, nil
		}
	}
	return nil, models.ErrNotFound
}

type testServer struct {
	*httptest.Server
	ctrl *controllers.GameController
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	provider := &stubProvider{records: []*models.ItemRecord{
		{ID: 1, Title: "Alien", Tagline: "In space no one can hear you scream."},
		{ID: 2, Title: "Aliens"},
		{ID: 3, Title: "Heat"},
	}}
	titles := []string{"Alien", "Aliens", "Heat"}

	pool, err := engine.NewPool(titles, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Failed to create pool: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	registry := prometheus.NewRegistry()
	store := models.NewMemoryStore()
	ctrl := controllers.NewGameController(store, store, provider, pool, time.UTC, metrics.New(registry), logger)
	ctrl.SetClock(func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) })
	if err := ctrl.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	s := NewServer(&config.Config{ServerPort: "0"}, ctrl, provider, registry, logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, ctrl: ctrl}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func (ts *testServer) targetID(t *testing.T) int {
	t.Helper()
	session, err := ts.ctrl.Session(models.ModeDaily)
	if err != nil {
		t.Fatalf("Failed to get daily session: %v", err)
	}
	return session.Target.ID
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	decode(t, resp, &body)
	if body["status"] != "healthy" || body["date"] != "2024-01-01" {
		t.Errorf("Unexpected health body: %v", body)
	}
}

func TestDailySessionHidesTarget(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/daily", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var view handlers.SessionView
	decode(t, resp, &view)
	if view.Status != models.StatusInProgress {
		t.Errorf("Expected in progress, got %s", view.Status)
	}
	if view.Target != nil {
		t.Error("Target must not be exposed while the session is in progress")
	}

	if resp := ts.do(t, http.MethodGet, "/api/unknown", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown mode, got %d", resp.StatusCode)
	}
}

func TestGuessFlow(t *testing.T) {
	ts := newTestServer(t)
	targetID := ts.targetID(t)
	wrongID := 1
	if targetID == 1 {
		wrongID = 2
	}

	resp := ts.do(t, http.MethodPost, "/api/daily/guess", map[string]int{"id": wrongID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var wrong struct {
		Result  models.GuessResult   `json:"result"`
		Session handlers.SessionView `json:"session"`
	}
	decode(t, resp, &wrong)
	if wrong.Result.Correct || len(wrong.Session.Guesses) != 1 {
		t.Errorf("Unexpected wrong guess response: %+v", wrong)
	}

	if resp := ts.do(t, http.MethodPost, "/api/daily/guess", map[string]int{"id": wrongID}); resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate guess, got %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodPost, "/api/daily/guess", map[string]int{"id": 404}); resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown record, got %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodPost, "/api/daily/guess", map[string]string{"id": "abc"}); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid payload, got %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodGet, "/api/practice", nil); resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403 for locked practice, got %d", resp.StatusCode)
	}

	resp = ts.do(t, http.MethodPost, "/api/daily/guess", map[string]int{"id": targetID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var right struct {
		Result  models.GuessResult   `json:"result"`
		Session handlers.SessionView `json:"session"`
	}
	decode(t, resp, &right)
	if !right.Result.Correct || right.Session.Status != models.StatusWon {
		t.Errorf("Expected winning guess, got %+v", right.Result)
	}
	if right.Session.Target == nil || right.Session.Target.ID != targetID {
		t.Error("Expected target to be revealed after winning")
	}

	if resp := ts.do(t, http.MethodPost, "/api/daily/giveup", nil); resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409 for give up after win, got %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodGet, "/api/practice", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("Expected practice to be unlocked, got %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodPost, "/api/practice/new", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("Expected new practice round, got %d", resp.StatusCode)
	}

	resp = ts.do(t, http.MethodGet, "/api/stats", nil)
	var stats controllers.Stats
	decode(t, resp, &stats)
	if stats.Played != 1 || stats.Won != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestHint(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/api/daily/hint", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	decode(t, resp, &body)
	if body["hint"] == "" {
		t.Error("Expected a hint")
	}

	var view handlers.SessionView
	decode(t, ts.do(t, http.MethodGet, "/api/daily", nil), &view)
	if !view.HintUsed || view.Hint != body["hint"] {
		t.Errorf("Expected hint to be part of the session view, got %+v", view)
	}
}

func TestSearch(t *testing.T) {
	ts := newTestServer(t)

	var candidates []models.Candidate
	decode(t, ts.do(t, http.MethodGet, "/api/search?q=alien", nil), &candidates)
	if len(candidates) != 2 {
		t.Errorf("Expected 2 candidates, got %d", len(candidates))
	}

	var empty []models.Candidate
	decode(t, ts.do(t, http.MethodGet, "/api/search?q=", nil), &empty)
	if len(empty) != 0 {
		t.Errorf("Expected no candidates for empty query, got %d", len(empty))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/api/daily/giveup", nil)

	resp := ts.do(t, http.MethodGet, "/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "reeldle_sessions_completed_total") {
		t.Error("Expected completion counter in metrics output")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.ErrProviderUnavailable, http.StatusServiceUnavailable},
		{models.ErrNotFound, http.StatusNotFound},
		{models.ErrInvalidRecord, http.StatusUnprocessableEntity},
		{models.ErrTerminalSession, http.StatusConflict},
		{models.ErrPracticeLocked, http.StatusForbidden},
		{models.ErrStaleSession, http.StatusConflict},
		{models.ErrNoSession, http.StatusServiceUnavailable},
		{io.EOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := handlers.StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
