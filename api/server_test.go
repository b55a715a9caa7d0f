package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/seenimoa/thermometer/internal/config"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

func testServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	srv, err := NewServer(cfg, nil, "test")
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

const scenario = `{"goal": 10000000, "label": "Test Fund", "segments": [1000000, 500000]}`

// ════════════════════════════════════════════════════════════════════
// Construction
// ════════════════════════════════════════════════════════════════════

func TestNewServerRejectsInvalidStyle(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Height = 100
	if _, err := NewServer(cfg, nil, "test"); err == nil {
		t.Error("NewServer with a 100px canvas: want error")
	}
}

// ════════════════════════════════════════════════════════════════════
// Health / style
// ════════════════════════════════════════════════════════════════════

func TestHealth(t *testing.T) {
	srv := testServer(t, nil)
	for _, path := range []string{"/health", "/api/v1/health"} {
		rec := do(t, srv, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, rec.Code)
		}
		resp := decodeResponse(t, rec)
		data, _ := resp.Data.(map[string]any)
		if !resp.Success || data["status"] != "ok" || data["version"] != "test" {
			t.Errorf("%s: got %+v", path, resp)
		}
	}
}

func TestIndexPage(t *testing.T) {
	srv := testServer(t, func(c *config.Config) { c.API.Token = "s3cret" })
	rec := do(t, srv, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "/api/v1/render") {
		t.Error("preview page does not call the render endpoint")
	}
}

func TestStyle(t *testing.T) {
	srv := testServer(t, nil)
	rec := do(t, srv, http.MethodGet, "/api/v1/style", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data, _ := resp.Data.(map[string]any)
	if data["bar_y"] != float64(129) || data["bar_height"] != float64(259) || data["width"] != float64(1240) {
		t.Errorf("style geometry: got %v", data)
	}
}

func TestConfigHidesToken(t *testing.T) {
	srv := testServer(t, func(c *config.Config) { c.API.Token = "super-secret-token" })
	rec := do(t, srv, http.MethodGet, "/api/v1/config", "", map[string]string{"Authorization": "Bearer super-secret-token"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "super-secret-token") {
		t.Error("config response leaks the token")
	}
}

// ════════════════════════════════════════════════════════════════════
// Render
// ════════════════════════════════════════════════════════════════════

func TestRenderSVG(t *testing.T) {
	srv := testServer(t, nil)
	rec := do(t, srv, http.MethodPost, "/api/v1/render", scenario, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("first render X-Cache: got %q, want MISS", rec.Header().Get("X-Cache"))
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "<svg") || !strings.Contains(body, "$1,500,000 / $10,000,000 (15%)") {
		t.Errorf("unexpected body: %.200s", body)
	}
}

func TestRenderCachesNormalizedInput(t *testing.T) {
	srv := testServer(t, nil)
	first := do(t, srv, http.MethodPost, "/api/v1/render", `{"segments": [2000000]}`, nil)
	// Clamped to the same normalized document.
	second := do(t, srv, http.MethodPost, "/api/v1/render", `{"segments": [1000000, 0, 0]}`, nil)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("status %d / %d", first.Code, second.Code)
	}
	if second.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second render X-Cache: got %q, want HIT", second.Header().Get("X-Cache"))
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Error("cached body differs from first render")
	}
}

func TestRenderPNG(t *testing.T) {
	srv := testServer(t, nil)
	rec := do(t, srv, http.MethodPost, "/api/v1/render?format=png", scenario, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type: got %q", ct)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1240 || b.Dy() != 480 {
		t.Errorf("size: got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderHJSON(t *testing.T) {
	srv := testServer(t, nil)
	body := "{\n  # comment\n  label: Hand Edited\n  segments: [1000000]\n}"
	rec := do(t, srv, http.MethodPost, "/api/v1/render", body, map[string]string{"Content-Type": "application/hjson"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Hand Edited") {
		t.Error("label from hjson body missing")
	}
}

func TestRenderBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		body    string
		errPart string
	}{
		{"unknown format", "/api/v1/render?format=pdf", scenario, "unknown output format"},
		{"malformed json", "/api/v1/render", `{"segments": [`, "decode json"},
		{"non-numeric segment", "/api/v1/render", `{"segments": [1, "abc"]}`, "segments[1]"},
		{"non-array segments", "/api/v1/render", `{"segments": 42}`, "segments"},
		{"non-numeric goal", "/api/v1/layout", `{"goal": "big"}`, "goal"},
	}
	srv := testServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, tt.path, tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", rec.Code)
			}
			resp := decodeResponse(t, rec)
			if resp.Success || !strings.Contains(resp.Error, tt.errPart) {
				t.Errorf("error: got %q, want it to mention %q", resp.Error, tt.errPart)
			}
		})
	}
}

func TestRenderRateLimited(t *testing.T) {
	srv := testServer(t, func(c *config.Config) {
		c.API.RateLimit = 1
		c.API.RateWindow = 3600
	})
	if rec := do(t, srv, http.MethodPost, "/api/v1/render", scenario, nil); rec.Code != http.StatusOK {
		t.Fatalf("first render: status %d", rec.Code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/render", strings.NewReader(`{"segments": [1]}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second render: got %d, want 429", rec.Code)
	}
}

// ════════════════════════════════════════════════════════════════════
// Layout
// ════════════════════════════════════════════════════════════════════

func TestLayout(t *testing.T) {
	srv := testServer(t, nil)
	rec := do(t, srv, http.MethodPost, "/api/v1/layout", scenario, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data, _ := resp.Data.(map[string]any)
	if data["percent"] != float64(15) || data["total"] != float64(1_500_000) {
		t.Errorf("layout: percent=%v total=%v", data["percent"], data["total"])
	}
	gauges, _ := data["gauges"].([]any)
	if len(gauges) != 10 {
		t.Errorf("gauges: got %d, want 10", len(gauges))
	}
}

// ════════════════════════════════════════════════════════════════════
// Auth
// ════════════════════════════════════════════════════════════════════

func TestBearerToken(t *testing.T) {
	srv := testServer(t, func(c *config.Config) { c.API.Token = "s3cret" })

	tests := []struct {
		name   string
		path   string
		auth   string
		status int
	}{
		{"health is public", "/health", "", http.StatusOK},
		{"missing token", "/api/v1/style", "", http.StatusUnauthorized},
		{"wrong token", "/api/v1/style", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", "/api/v1/style", "Basic s3cret", http.StatusUnauthorized},
		{"valid token", "/api/v1/style", "Bearer s3cret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := map[string]string{}
			if tt.auth != "" {
				h["Authorization"] = tt.auth
			}
			if rec := do(t, srv, http.MethodGet, tt.path, "", h); rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
		})
	}
}
