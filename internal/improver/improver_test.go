package improver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPlaceholderAppendsMarker(t *testing.T) {
	got, err := PlaceholderClient{}.Improve(context.Background(), "Go developer")
	if err != nil {
		t.Fatalf("Improve: %v", err)
	}
	if got != "Go developer [Improved]" {
		t.Fatalf("unexpected result %q", got)
	}

	twice, _ := PlaceholderClient{}.Improve(context.Background(), got)
	if twice != "Go developer [Improved] [Improved]" {
		t.Fatalf("expected marker appended again, got %q", twice)
	}
}

func TestHTTPClientImprove(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body improveRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"improved_text":"` + strings.ToUpper(body.Text) + `"}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(context.Background(), HTTPConfig{URL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	got, err := client.Improve(context.Background(), "go")
	if err != nil {
		t.Fatalf("Improve: %v", err)
	}
	if got != "GO" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestHTTPClientFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"bad json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("nope")) }},
		{"missing field", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"text":"x"}`)) }},
		{"slow", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"improved_text":"late"}`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			client, err := NewHTTPClient(context.Background(), HTTPConfig{URL: srv.URL, Timeout: 50 * time.Millisecond})
			if err != nil {
				t.Fatalf("NewHTTPClient: %v", err)
			}
			if _, err := client.Improve(context.Background(), "x"); !errors.Is(err, ErrUnavailable) {
				t.Fatalf("expected ErrUnavailable, got %v", err)
			}
		})
	}
}

func TestHTTPClientUsesClientCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"svc-token","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/improve", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer svc-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"improved_text":"ok"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := NewHTTPClient(context.Background(), HTTPConfig{
		URL:          srv.URL + "/improve",
		Timeout:      time.Second,
		ClientID:     "resume-service",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/token",
	})
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	got, err := client.Improve(context.Background(), "x")
	if err != nil {
		t.Fatalf("Improve: %v", err)
	}
	if got != "ok" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestNewHTTPClientValidates(t *testing.T) {
	if _, err := NewHTTPClient(context.Background(), HTTPConfig{}); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := NewHTTPClient(context.Background(), HTTPConfig{URL: "http://x", ClientID: "id"}); err == nil {
		t.Fatalf("expected error for missing token url")
	}
}
