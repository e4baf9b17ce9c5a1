package dropinblog

import (
	"context"
	"sync"

	"github.com/lemmi/dropinblog/core"
)

func str(s string) *string { return &s }

// fakeClient answers every fetch with the payload stored under the name of
// the call and records the calls it receives.
type fakeClient struct {
	mu       sync.Mutex
	payloads map[string]*core.Payload
	err      error
	calls    []string
}

func (f *fakeClient) fetch(name string) (*core.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.payloads[name]; ok {
		return p, nil
	}
	return &core.Payload{}, nil
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) FetchSitemap(context.Context) (*core.Payload, error) {
	return f.fetch("sitemap")
}
func (f *fakeClient) FetchFeed(context.Context) (*core.Payload, error) {
	return f.fetch("feed")
}
func (f *fakeClient) FetchCategoryFeed(_ context.Context, slug string) (*core.Payload, error) {
	return f.fetch("feed/category/" + slug)
}
func (f *fakeClient) FetchAuthorFeed(_ context.Context, slug string) (*core.Payload, error) {
	return f.fetch("feed/author/" + slug)
}
func (f *fakeClient) FetchList(context.Context, int) (*core.Payload, error) {
	return f.fetch("list")
}
func (f *fakeClient) FetchCategory(_ context.Context, slug string, _ int) (*core.Payload, error) {
	return f.fetch("category/" + slug)
}
func (f *fakeClient) FetchAuthor(_ context.Context, slug string, _ int) (*core.Payload, error) {
	return f.fetch("author/" + slug)
}
func (f *fakeClient) FetchPost(_ context.Context, slug string) (*core.Payload, error) {
	return f.fetch("post/" + slug)
}

func newTestMiddleware(t interface{ Fatal(...interface{}) }, client *fakeClient, opts Options) *Middleware {
	if opts.Core.BasePath == "" {
		opts.Core.BasePath = "/blog"
	}
	opts.Client = client
	if opts.Router == nil {
		opts.Router = core.NewRouter(opts.Core.Defaults().BasePath, client)
	}
	m, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	return m
}
