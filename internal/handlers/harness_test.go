package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/devfolio/portfolio-backend/internal/feedback"
	"github.com/devfolio/portfolio-backend/internal/handlers"
	"github.com/devfolio/portfolio-backend/internal/routes"
	"github.com/devfolio/portfolio-backend/internal/services"
	"github.com/devfolio/portfolio-backend/internal/store"
)

// denyQuota rejects everything, for rate-limit response tests.
type denyQuota struct{}

func (denyQuota) Allow(ctx context.Context, kind, fingerprint string) (bool, error) {
	return false, nil
}

type testEnv struct {
	router *chi.Mux
	svc    *feedback.Service
	tokens *services.TokenService
}

func newTestEnv(t *testing.T, quota feedback.Quota) *testEnv {
	t.Helper()

	mem := store.NewMemory()
	svc := feedback.New(mem, quota, nil, nil)
	tokens := services.NewTokenService("test-secret")
	api := handlers.New(svc, mem, tokens, nil, nil, services.NewEventBridge(nil))

	r := chi.NewRouter()
	routes.Setup(r, api)

	return &testEnv{router: r, svc: svc, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, err := e.tokens.IssueAdminToken("admin-1", "owner@example.com")
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}
