package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func newCatalogServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchCatalogValidEnvelope(t *testing.T) {
	srv := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/models" {
			t.Errorf("path = %s, want /models", r.URL.Path)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"id":"a","name":"Alpha","provider":"openai"},{"id":"b","name":"Beta"}]}`))
	})

	entries, err := NewClient().FetchCatalog(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchCatalog error: %v", err)
	}
	want := []Entry{
		{ID: "a", Name: "Alpha", Provider: "openai"},
		{ID: "b", Name: "Beta"},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestFetchCatalogTrimsTrailingSlash(t *testing.T) {
	srv := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/models" {
			t.Errorf("path = %s, want /api/models", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	})

	entries, err := NewClient().FetchCatalog(context.Background(), srv.URL+"/api/")
	if err != nil {
		t.Fatalf("FetchCatalog error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty catalog, got %d entries", len(entries))
	}
}

func TestFetchCatalogEmptyBaseUsesOrigin(t *testing.T) {
	srv := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"id":"m1","name":"GPT"}]}`))
	})
	origin, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	entries, err := NewClient(WithOrigin(origin)).FetchCatalog(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchCatalog error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "m1" {
		t.Fatalf("entries = %+v, want one entry m1", entries)
	}
}

func TestFetchCatalogEmptyBaseWithoutOrigin(t *testing.T) {
	_, err := NewClient().FetchCatalog(context.Background(), "")
	if !IsTransport(err) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestFetchCatalogSendsCredentials(t *testing.T) {
	srv := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session")
		if err != nil || c.Value != "abc" {
			http.Error(w, "no session", http.StatusUnauthorized)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "secret" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	})

	client := NewClient(WithBasicAuth("alice", "secret"))
	u, _ := url.Parse(srv.URL)
	client.Jar().SetCookies(u, []*http.Cookie{{Name: "session", Value: "abc"}})

	if _, err := client.FetchCatalog(context.Background(), srv.URL); err != nil {
		t.Fatalf("FetchCatalog error: %v", err)
	}
}

func TestFetchCatalogServerError(t *testing.T) {
	srv := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := NewClient().FetchCatalog(context.Background(), srv.URL)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T (%v)", err, err)
	}
	if te.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", te.Status)
	}
	if err.Error() != "Internal Server Error" {
		t.Errorf("message = %q, want %q", err.Error(), "Internal Server Error")
	}
}

func TestFetchCatalogNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewClient().FetchCatalog(context.Background(), addr)
	if !IsTransport(err) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if err.Error() == "" {
		t.Error("network error should carry a message")
	}
}

func TestFetchCatalogInvalidEnvelopes(t *testing.T) {
	bodies := map[string]string{
		"missing models": `{"data":[]}`,
		"models object":  `{"models":{"id":"a"}}`,
		"models string":  `{"models":"a"}`,
		"models null":    `{"models":null}`,
		"top-level list": `[{"id":"a"}]`,
		"not json":       `<html></html>`,
		"empty body":     ``,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := NewClient().FetchCatalog(context.Background(), srv.URL)
			if !IsFormat(err) {
				t.Fatalf("expected FormatError, got %v", err)
			}
			if err.Error() != "Invalid response format" {
				t.Errorf("message = %q", err.Error())
			}
		})
	}
}

func TestParseEnvelopePermissiveFields(t *testing.T) {
	body := []byte(`{"models":[
		{"id":"m1","name":"GPT","provider":42},
		{"id":7,"name":"Odd","provider":null},
		"bare",
		{"id":"m3","name":"Claude","provider":"anthropic","extra":true}
	]}`)

	entries, err := ParseEnvelope(body)
	if err != nil {
		t.Fatalf("ParseEnvelope error: %v", err)
	}
	want := []Entry{
		{ID: "m1", Name: "GPT"},
		{Name: "Odd"},
		{},
		{ID: "m3", Name: "Claude", Provider: "anthropic"},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestFetchCatalogHonoursContext(t *testing.T) {
	block := make(chan struct{})
	srv := newCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	})
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient().FetchCatalog(ctx, srv.URL)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
