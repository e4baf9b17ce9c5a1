package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc, retries int) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewHTTPClient(Config{
		BlogID:       "b1",
		APIToken:     "secret",
		APIBaseURL:   srv.URL + "/v2/",
		MaxRetries:   retries,
		RetryBackoff: time.Millisecond,
	}, srv.Client())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestHTTPClientRequests(t *testing.T) {
	t.Parallel()

	type seen struct{ path, query, auth, accept string }
	var last atomic.Value
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		last.Store(seen{r.URL.EscapedPath(), r.URL.RawQuery, r.Header.Get("Authorization"), r.Header.Get("Accept")})
		w.Write([]byte(`{"success":true,"data":{"feed":"<rss/>","content_type":"application/rss+xml"}}`))
	}, NoRetries)
	ctx := context.Background()

	tests := []struct {
		name  string
		call  func() (*Payload, error)
		path  string
		query string
	}{
		{"sitemap", func() (*Payload, error) { return c.FetchSitemap(ctx) }, "/v2/blog/b1/rendered/sitemap", ""},
		{"feed", func() (*Payload, error) { return c.FetchFeed(ctx) }, "/v2/blog/b1/rendered/feed", ""},
		{"category feed", func() (*Payload, error) { return c.FetchCategoryFeed(ctx, " shoes") }, "/v2/blog/b1/rendered/feed/category/%20shoes", ""},
		{"author feed", func() (*Payload, error) { return c.FetchAuthorFeed(ctx, "a/b") }, "/v2/blog/b1/rendered/feed/author/a%2Fb", ""},
		{"list", func() (*Payload, error) { return c.FetchList(ctx, 1) }, "/v2/blog/b1/rendered/list", ""},
		{"list page", func() (*Payload, error) { return c.FetchList(ctx, 3) }, "/v2/blog/b1/rendered/list", "page=3"},
		{"category", func() (*Payload, error) { return c.FetchCategory(ctx, "news", 2) }, "/v2/blog/b1/rendered/list/category/news", "page=2"},
		{"author", func() (*Payload, error) { return c.FetchAuthor(ctx, "jane", 1) }, "/v2/blog/b1/rendered/list/author/jane", ""},
		{"post", func() (*Payload, error) { return c.FetchPost(ctx, "hello") }, "/v2/blog/b1/rendered/post/hello", ""},
	}
	for _, tt := range tests {
		p, err := tt.call()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		got := last.Load().(seen)
		if got.path != tt.path || got.query != tt.query {
			t.Errorf("%s: expected %s?%s, got %s?%s", tt.name, tt.path, tt.query, got.path, got.query)
		}
		if got.auth != "Bearer secret" {
			t.Errorf("%s: expected bearer token, got %q", tt.name, got.auth)
		}
		if got.accept != "application/json" {
			t.Errorf("%s: expected json accept header, got %q", tt.name, got.accept)
		}
		if doc, ok := p.Document(); !ok || doc != "<rss/>" {
			t.Errorf("%s: expected feed payload, got %q", tt.name, doc)
		}
	}
}

func TestHTTPClientRetries(t *testing.T) {
	t.Parallel()

	var n int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&n, 1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"success":true,"data":{"sitemap":"<urlset/>"}}`))
	}, 2)

	p, err := c.FetchSitemap(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if doc, _ := p.Document(); doc != "<urlset/>" {
		t.Errorf("expected sitemap, got %q", doc)
	}
	if got := atomic.LoadInt32(&n); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestHTTPClientGivesUp(t *testing.T) {
	t.Parallel()

	var n int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&n, 1)
		http.Error(w, "broken", http.StatusInternalServerError)
	}, 1)

	_, err := c.FetchPost(context.Background(), "x")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
		t.Fatalf("expected status error 500, got %v", err)
	}
	if got := atomic.LoadInt32(&n); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestHTTPClientDefaultRetries(t *testing.T) {
	t.Parallel()

	var n int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&n, 1)
		http.Error(w, "busy", http.StatusBadGateway)
	}, 0)

	if _, err := c.FetchList(context.Background(), 1); err == nil {
		t.Fatal("expected error after retries")
	}
	if got, want := atomic.LoadInt32(&n), int32(DefaultMaxRetries+1); got != want {
		t.Errorf("expected %d attempts, got %d", want, got)
	}
}

func TestHTTPClientNoRetries(t *testing.T) {
	t.Parallel()

	var n int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&n, 1)
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}, NoRetries)

	_, err := c.FetchPost(context.Background(), "x")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status error 503, got %v", err)
	}
	if got := atomic.LoadInt32(&n); got != 1 {
		t.Errorf("expected 1 attempt, got %d", got)
	}
}

func TestHTTPClientNoRetryOnClientErrors(t *testing.T) {
	t.Parallel()

	var n int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&n, 1)
		if r.URL.Path == "/v2/blog/b1/rendered/post/bad" {
			w.Write([]byte(`not json`))
			return
		}
		http.Error(w, "forbidden", http.StatusForbidden)
	}, 3)
	ctx := context.Background()

	if _, err := c.FetchList(ctx, 1); err == nil {
		t.Error("expected error for 403")
	}
	if _, err := c.FetchPost(ctx, "bad"); err == nil {
		t.Error("expected decode error")
	}
	if got := atomic.LoadInt32(&n); got != 2 {
		t.Errorf("expected one attempt per call, got %d", got)
	}
}

func TestHTTPClientMissingFeed(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}, NoRetries)
	ctx := context.Background()

	p, err := c.FetchCategoryFeed(ctx, "nope")
	if err != nil {
		t.Fatalf("expected empty payload, got error %v", err)
	}
	if _, ok := p.Document(); ok {
		t.Error("expected payload without document")
	}
	if _, err := c.FetchPost(ctx, "nope"); err == nil {
		t.Error("expected error for missing post")
	}
}

func TestHTTPClientUnsuccessfulEnvelope(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"unknown blog"}`))
	}, NoRetries)
	_, err := c.FetchFeed(context.Background())
	if err == nil || !strings.Contains(err.Error(), "unknown blog") {
		t.Errorf("expected envelope message in error, got %v", err)
	}
}

func TestHTTPClientContextCancel(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}, 5)
	c.cfg.RetryBackoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := c.FetchFeed(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("expected cancellation to stop the backoff")
	}
}

func TestNewCore(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}, nil); !errors.Is(err, ErrMissingBlogID) {
		t.Errorf("expected ErrMissingBlogID, got %v", err)
	}
	c, err := New(Config{BlogID: "1", BasePath: "/Journal/"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Config.BasePath != "/journal" {
		t.Errorf("expected normalized base path, got %q", c.Config.BasePath)
	}
	if !c.Router.Match("/journal/some-post") {
		t.Error("expected router to use base path")
	}
}
