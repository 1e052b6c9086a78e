package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestRateLimit(t *testing.T) {
	cfg := DefaultMiddlewareConfig()
	cfg.RateLimitRequests = 1
	cfg.RateLimitWindow = time.Minute
	srv := newTestServer(t, cfg)

	first := getJSON(t, srv.URL+"/api/v1/tags", nil)
	if first.StatusCode != http.StatusOK {
		t.Fatalf("first status = %d", first.StatusCode)
	}

	var body Problem
	second := getJSON(t, srv.URL+"/api/v1/tags", &body)
	if second.StatusCode != http.StatusTooManyRequests || body.Title != "Too Many Requests" {
		t.Errorf("second status = %d, problem = %+v", second.StatusCode, body)
	}

	health := getJSON(t, srv.URL+"/api/v1/health", nil)
	if health.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200 without rate limit", health.StatusCode)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := RateLimit(MiddlewareConfig{})(next)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body Problem
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Detail != "Internal Server Error" {
		t.Errorf("detail = %q, panic value leaked", body.Detail)
	}
}

func TestCORS(t *testing.T) {
	cfg := DefaultMiddlewareConfig()
	cfg.AllowedOrigins = []string{"https://dashboard.example"}
	srv := newTestServer(t, cfg)

	tests := []struct {
		origin string
		want   string
	}{
		{origin: "https://dashboard.example", want: "https://dashboard.example"},
		{origin: "https://other.example", want: ""},
	}
	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/health", nil)
		req.Header.Set("Origin", tt.origin)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if got := resp.Header.Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}
