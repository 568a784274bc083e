package improvements

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-service/internal/improver"
	"resume-service/internal/resumes"
	"resume-service/internal/shared/auth"
)

const userHeader = "X-Test-User"

func newTestRouter(t *testing.T, imp improver.Client) (*gin.Engine, *resumes.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	resumeRepo := resumes.NewMemoryRepo()
	resumeSvc := resumes.NewService(resumeRepo)
	svc := NewService(NewMemoryRepo(resumeRepo), resumeSvc, imp, nil)

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		if raw := c.GetHeader(userHeader); raw != "" {
			id, _ := strconv.ParseInt(raw, 10, 64)
			c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), auth.Identity{ID: id}))
		}
		c.Next()
	})
	h := NewHandler(svc)
	h.RegisterRoutes(api)
	h.RegisterHistoryRoutes(api)
	return r, resumeSvc
}

func do(r *gin.Engine, method, path string, user int64, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != 0 {
		req.Header.Set(userHeader, strconv.FormatInt(user, 10))
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func detail(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", resp.Body.String(), err)
	}
	return body["detail"]
}

func TestImproveEndpoint(t *testing.T) {
	r, resumeSvc := newTestRouter(t, improver.PlaceholderClient{})
	resume, _ := resumeSvc.Create(context.Background(), 1, "CV", "Go")
	base := "/api/v1/resumes/" + strconv.FormatInt(resume.ID, 10)

	resp := do(r, http.MethodPost, base+"/improve?time_zone=Asia/Tokyo", 1, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var rec RecordResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.ImprovedContent != "Go [Improved]" || rec.ResumeID != resume.ID {
		t.Fatalf("unexpected record %+v", rec)
	}
	if !strings.Contains(resp.Body.String(), "+09:00") {
		t.Fatalf("expected Tokyo offset in %s", resp.Body.String())
	}

	resp = do(r, http.MethodPost, base+"/improve", 1, `{"time_zone":"Europe/Moscow"}`)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "+03:00") {
		t.Fatalf("expected body time zone to apply, got %d %s", resp.Code, resp.Body.String())
	}

	hist := do(r, http.MethodGet, base+"/history_improvements", 1, "")
	if hist.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", hist.Code)
	}
	var list []RecordResponse
	if err := json.Unmarshal(hist.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(list) != 2 || list[0].ID <= list[1].ID {
		t.Fatalf("expected two records newest first, got %+v", list)
	}
	if _, offset := list[0].CreatedAt.Zone(); offset != 0 {
		t.Fatalf("expected UTC default, got offset %d", offset)
	}
}

func TestImproveEndpointErrors(t *testing.T) {
	r, resumeSvc := newTestRouter(t, improver.PlaceholderClient{})
	resume, _ := resumeSvc.Create(context.Background(), 1, "CV", "Go")
	base := "/api/v1/resumes/" + strconv.FormatInt(resume.ID, 10)

	resp := do(r, http.MethodPost, base+"/improve?time_zone=Mars/Olympus", 1, "")
	if resp.Code != http.StatusBadRequest || detail(t, resp) != "Неизвестный часовой пояс" {
		t.Fatalf("expected 400 tz error, got %d %s", resp.Code, resp.Body.String())
	}

	resp = do(r, http.MethodPost, base+"/improve", 2, "")
	if resp.Code != http.StatusNotFound || detail(t, resp) != "Резюме не найдено" {
		t.Fatalf("expected 404 for foreign resume, got %d %s", resp.Code, resp.Body.String())
	}

	resp = do(r, http.MethodPost, base+"/improve", 0, "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", resp.Code)
	}

	resp = do(r, http.MethodGet, "/api/v1/resumes/abc/history_improvements", 1, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-integer id, got %d", resp.Code)
	}

	hist := do(r, http.MethodGet, base+"/history_improvements", 1, "")
	if hist.Code != http.StatusOK || hist.Body.String() != "[]" {
		t.Fatalf("expected no records after failed attempts, got %d %s", hist.Code, hist.Body.String())
	}
}

func TestImproveEndpointProviderFailure(t *testing.T) {
	r, resumeSvc := newTestRouter(t, failingImprover{err: improver.ErrUnavailable})
	resume, _ := resumeSvc.Create(context.Background(), 1, "CV", "Go")

	resp := do(r, http.MethodPost, "/api/v1/resumes/"+strconv.FormatInt(resume.ID, 10)+"/improve", 1, "")
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestRecordResponseTimestampFormat(t *testing.T) {
	loc, _ := ResolveLocation("Europe/Moscow")
	rec := toResponse(Record{ID: 1, ResumeID: 2, ImprovedContent: "x", CreatedAt: InZone(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), loc)})
	payload, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(payload), `"created_at":"2026-01-01T12:00:00+03:00"`) {
		t.Fatalf("unexpected payload %s", payload)
	}
}
