package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestTrustedHosts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		allowed []string
		host    string
		want    int
	}{
		{name: "wildcard", allowed: []string{"*"}, host: "anything.test", want: http.StatusOK},
		{name: "exact with port", allowed: []string{"api.example.com"}, host: "api.example.com:8080", want: http.StatusOK},
		{name: "case insensitive", allowed: []string{"API.example.com"}, host: "api.EXAMPLE.com", want: http.StatusOK},
		{name: "suffix", allowed: []string{"*.example.com"}, host: "eu.example.com", want: http.StatusOK},
		{name: "suffix does not match apex", allowed: []string{"*.example.com"}, host: "example.com", want: http.StatusBadRequest},
		{name: "unknown", allowed: []string{"api.example.com"}, host: "evil.test", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(TrustedHosts(tt.allowed))
			r.GET("/api/v1/health", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			req.Host = tt.host
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)

			if resp.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.Code)
			}
		})
	}
}
