package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/initializ/modelcatalog/catalog"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(cfg).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func staticRegistry() *Registry {
	return NewRegistry(nil,
		NewStaticProvider("azure", []string{"gpt-4o"}),
		NewStaticProvider("openai", []string{"gpt-4o-mini"}),
	)
}

func get(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHandleModels(t *testing.T) {
	srv := newTestServer(t, Config{Registry: staticRegistry()})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/models", nil)
	resp := get(t, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}

	var env catalog.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Models) != 2 || env.Models[0].ID != "gpt-4o" || env.Models[1].Provider != "openai" {
		t.Fatalf("models = %+v", env.Models)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t, Config{Registry: staticRegistry()})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	resp := get(t, req)
	if got := resp.Header.Get(RequestIDHeader); got != "req-123" {
		t.Errorf("request id = %q, want req-123", got)
	}
}

func TestBasicAuth(t *testing.T) {
	srv := newTestServer(t, Config{
		Registry:     staticRegistry(),
		AuthUsername: "admin",
		AuthPassword: "secret",
	})

	tests := []struct {
		name       string
		user, pass string
		setAuth    bool
		want       int
	}{
		{"no credentials", "", "", false, http.StatusUnauthorized},
		{"wrong password", "admin", "nope", true, http.StatusUnauthorized},
		{"valid", "admin", "secret", true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+"/models", nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			resp := get(t, req)
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if tt.want == http.StatusUnauthorized && resp.Header.Get("WWW-Authenticate") != "Basic" {
				t.Error("missing WWW-Authenticate challenge")
			}
		})
	}

	// Health stays open.
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	if resp := get(t, req); resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}
}

func TestCORSAllowsCredentials(t *testing.T) {
	srv := newTestServer(t, Config{Registry: staticRegistry(), AuthUsername: "u", AuthPassword: "p"})

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/models", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp := get(t, req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q", got)
	}
}

func TestHandleModelsAllProvidersFail(t *testing.T) {
	reg := NewRegistry(nil, &fakeProvider{name: "broken", err: errors.New("down")})
	srv := newTestServer(t, Config{Registry: reg})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/models", nil)
	resp := get(t, req)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
}

func TestHandleModelsUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache, err := NewRedisCache(context.Background(), RedisConfig{Addr: mr.Addr(), TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	p := &fakeProvider{name: "azure", entries: []catalog.Entry{{ID: "first"}}}
	srv := newTestServer(t, Config{Registry: NewRegistry(nil, p), Cache: cache})

	fetch := func() []catalog.Entry {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/models", nil)
		resp := get(t, req)
		var env catalog.Envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return env.Models
	}

	if got := fetch(); len(got) != 1 || got[0].ID != "first" {
		t.Fatalf("first fetch = %+v", got)
	}
	p.entries = []catalog.Entry{{ID: "second"}}
	if got := fetch(); got[0].ID != "first" {
		t.Fatalf("cached fetch = %+v, want first", got)
	}

	if err := cache.Invalidate(context.Background()); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if got := fetch(); got[0].ID != "second" {
		t.Fatalf("fetch after invalidate = %+v, want second", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, Config{Registry: staticRegistry()})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/models", nil)
	get(t, req)

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/metrics", nil)
	resp := get(t, req)
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"modelcatalog_requests_total", "modelcatalog_provider_duration_seconds"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}

func TestCatalogClientAgainstServer(t *testing.T) {
	srv := newTestServer(t, Config{Registry: staticRegistry(), AuthUsername: "u", AuthPassword: "p"})

	client := catalog.NewClient(catalog.WithBasicAuth("u", "p"))
	got, err := client.FetchCatalog(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchCatalog: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}

	_, err = catalog.NewClient().FetchCatalog(context.Background(), srv.URL)
	var te *catalog.TransportError
	if !errors.As(err, &te) || te.Status != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 transport error", err)
	}
}

func TestStartShutsDownOnCancel(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0", Registry: staticRegistry()})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestUnmatchedPathsShareRouteLabel(t *testing.T) {
	srv := newTestServer(t, Config{Registry: staticRegistry()})

	for i := 0; i < 20; i++ {
		req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/junk/%d", srv.URL, i), nil)
		get(t, req)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/metrics", nil)
	body, _ := io.ReadAll(get(t, req).Body)

	series := 0
	for _, line := range strings.Split(string(body), "\n") {
		if strings.HasPrefix(line, "modelcatalog_requests_total{") {
			series++
			if strings.Contains(line, "/junk") {
				t.Errorf("raw path leaked into label: %s", line)
			}
		}
	}
	// The scrape itself is recorded after the response, so only the 404s count.
	if series != 1 {
		t.Fatalf("requests_total series = %d, want 1:\n%s", series, body)
	}
	if !strings.Contains(string(body), `route="other",status="404"`) {
		t.Errorf("missing other/404 series:\n%s", body)
	}
}

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/models":   "/models",
		"/health":   "/health",
		"/metrics":  "/metrics",
		"/":         "other",
		"/models/x": "other",
	}
	for path, want := range tests {
		if got := routeLabel(path); got != want {
			t.Errorf("routeLabel(%q) = %q, want %q", path, got, want)
		}
	}
}
