package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-service/internal/improvements"
	"resume-service/internal/improver"
	"resume-service/internal/resumes"
	"resume-service/internal/services/health"
	"resume-service/internal/shared/auth"
	"resume-service/internal/shared/config"
	"resume-service/internal/shared/server/middleware"
)

type countingFetcher struct {
	calls atomic.Int64
}

func (f *countingFetcher) FetchPublicKey(context.Context) (string, error) {
	f.calls.Add(1)
	return "", auth.ErrUpstreamUnavailable
}

func newTestRouter(t *testing.T, cfg config.Config, checks map[string]health.Check) (*gin.Engine, *countingFetcher) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	verifier, err := auth.NewVerifier("RS256")
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	keys := &countingFetcher{}
	resumeRepo := resumes.NewMemoryRepo()
	resumeSvc := resumes.NewService(resumeRepo)
	improveSvc := improvements.NewService(improvements.NewMemoryRepo(resumeRepo), resumeSvc, improver.PlaceholderClient{}, nil)

	if cfg.Env == "" {
		cfg.Env = "test"
	}
	if cfg.AllowedHosts == nil {
		cfg.AllowedHosts = []string{"*"}
	}
	r := NewRouter(RouterDeps{
		Config:             cfg,
		Auth:               middleware.AuthConfig{Keys: keys, Verifier: verifier},
		Health:             health.NewService(checks),
		ResumeHandler:      resumes.NewHandler(resumeSvc),
		ImprovementHandler: improvements.NewHandler(improveSvc),
	})
	return r, keys
}

func get(r *gin.Engine, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestPublicEndpointsSkipAuth(t *testing.T) {
	r, keys := newTestRouter(t, config.Config{}, nil)

	resp := get(r, "/api/v1/resumes/openapi.json", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("openapi: expected 200, got %d", resp.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &doc); err != nil || doc["openapi"] == nil {
		t.Fatalf("openapi: invalid document: %v", err)
	}

	resp = get(r, "/api/v1/health", nil)
	if resp.Code != http.StatusOK || strings.TrimSpace(resp.Body.String()) != `{"ok":true}` {
		t.Fatalf("health: got %d %s", resp.Code, resp.Body.String())
	}

	resp = get(r, "/metrics", nil)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "go_goroutines") {
		t.Fatalf("metrics: got %d", resp.Code)
	}

	if keys.calls.Load() != 0 {
		t.Fatalf("public endpoints must not fetch the key, got %d calls", keys.calls.Load())
	}
}

func TestProtectedEndpoints(t *testing.T) {
	r, keys := newTestRouter(t, config.Config{}, nil)

	resp := get(r, "/api/v1/resumes/", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
	if keys.calls.Load() != 0 {
		t.Fatalf("missing token must not fetch the key")
	}

	resp = get(r, "/api/v1/resumes/1/history_improvements", map[string]string{"Authorization": "Bearer abc"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when the key is unavailable, got %d", resp.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(resp.Body.Bytes(), &body)
	if body["detail"] != "Сервис временно не доступен" {
		t.Fatalf("unexpected detail %q", body["detail"])
	}
}

func TestOptionsWithoutPreflightHeadersRequiresToken(t *testing.T) {
	r, keys := newTestRouter(t, config.Config{CORSAllowOrigin: []string{"http://localhost:5173"}}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/resumes/1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("plain OPTIONS: expected 401, got %d", resp.Code)
	}
	if keys.calls.Load() != 0 {
		t.Fatalf("missing token must not fetch the key")
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/resumes/1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("preflight: expected 204, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("preflight: unexpected Allow-Origin %q", got)
	}
}

func TestHealthReportsFailingDependency(t *testing.T) {
	r, _ := newTestRouter(t, config.Config{}, map[string]health.Check{
		"database": func(context.Context) error { return errors.New("down") },
	})
	resp := get(r, "/api/v1/health", nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestRouterRejectsUntrustedHost(t *testing.T) {
	r, _ := newTestRouter(t, config.Config{AllowedHosts: []string{"api.example.com"}}, nil)
	resp := get(r, "/api/v1/health", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for example.com host, got %d", resp.Code)
	}
}

func TestRateRules(t *testing.T) {
	if rules := rateRules(config.Config{}); rules != nil {
		t.Fatalf("expected no rules when disabled, got %v", rules)
	}
	rules := rateRules(config.Config{RateLimitRPS: 5, RateLimitBurst: 20})
	if rules["DEFAULT"].Burst != 20 || rules[rateGroupImprove].Burst != 4 || rules[rateGroupImprove].Rate != 1 {
		t.Fatalf("unexpected rules %+v", rules)
	}
	if small := rateRules(config.Config{RateLimitRPS: 1, RateLimitBurst: 2}); small[rateGroupImprove].Burst != 1 {
		t.Fatalf("expected improve burst floor of 1, got %+v", small)
	}
}

func TestAddr(t *testing.T) {
	for in, want := range map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"} {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
