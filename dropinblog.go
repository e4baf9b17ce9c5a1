// Package dropinblog serves hosted blog content from inside a net/http
// handler chain. It classifies each request path as sitemap, feed, category
// feed, author feed, blog content or none of these, fetches the matching
// payload and writes either the upstream XML or an HTML document. Paths it
// does not own are passed on.
package dropinblog

import (
	"fmt"
	"log"
	"net/http"

	"github.com/lemmi/dropinblog/core"
	bm "github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
)

// ErrorHandler takes over the response for a failed request.
type ErrorHandler func(err error, w http.ResponseWriter, r *http.Request)

// Options configures New. Only Core.BlogID is required, and only when no
// Client is given.
type Options struct {
	// Core configures the upstream client and the base path. Client and
	// Router, when set, replace the ones built from it.
	Core   core.Config
	Client core.Client
	Router core.ContentRouter

	// RenderHTML replaces the built-in document shell.
	RenderHTML      DocumentRenderer
	// OnError gets full control over failed requests. Without it the error
	// is logged and a 500 is sent.
	OnError         ErrorHandler
	// NotFoundHandler wraps the next handler for paths the blog does not
	// own. It may answer itself or pass on to next.
	NotFoundHandler func(next http.Handler) http.Handler
	// Sanitize, when set, is applied to the body html of content pages.
	Sanitize        *bm.Policy

	Logger *log.Logger
	// Debug logs stack traces of failures.
	Debug  bool
}

// Middleware is the configured blog handler. Use Wrap to place it in front
// of the host handler.
type Middleware struct {
	basePath   string
	classifier *Classifier
	client     core.Client
	router     core.ContentRouter
	renderer   DocumentRenderer
	onError    ErrorHandler
	notFound   func(http.Handler) http.Handler
	sanitize   *bm.Policy
	logger     *log.Logger
	debug      bool
}

// New builds the middleware. Everything derived from opts is computed here
// and never modified afterwards.
func New(opts Options) (*Middleware, error) {
	cfg := opts.Core.Defaults()
	client, router := opts.Client, opts.Router
	switch {
	case client == nil:
		c, err := core.New(cfg, nil)
		if err != nil {
			return nil, errors.Wrap(err, "dropinblog core")
		}
		cfg, client = c.Config, c.Client
		if router == nil {
			router = c.Router
		}
	case router == nil:
		router = core.NewRouter(cfg.BasePath, client)
	}

	m := &Middleware{
		basePath:   cfg.BasePath,
		classifier: NewClassifier(cfg.BasePath, router),
		client:     client,
		router:     router,
		renderer:   opts.RenderHTML,
		onError:    opts.OnError,
		notFound:   opts.NotFoundHandler,
		sanitize:   opts.Sanitize,
		logger:     opts.Logger,
		debug:      opts.Debug,
	}
	if m.renderer == nil {
		m.renderer = defaultDocument{}
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	return m, nil
}

// Must is like New but panics on error.
func Must(opts Options) *Middleware {
	m, err := New(opts)
	if err != nil {
		panic(err)
	}
	return m
}

// BasePath returns the normalized base path, "" for the root.
func (m *Middleware) BasePath() string {
	return m.basePath
}

// Classify exposes the route decision for a raw path.
func (m *Middleware) Classify(rawPath string) (Route, error) {
	return m.classifier.Classify(core.NormalizePathname(rawPath))
}

// Wrap returns a handler serving blog paths and passing everything else to
// next.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.serve(w, r, next)
	})
}

// Handler is Wrap with http.NotFoundHandler as next.
func (m *Middleware) Handler() http.Handler {
	return m.Wrap(http.NotFoundHandler())
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func (m *Middleware) fail(w http.ResponseWriter, r *http.Request, err error) {
	if m.onError != nil {
		m.onError(err, w, r)
		return
	}
	if _, ok := err.(stackTracer); ok && m.debug {
		m.logger.Printf("dropinblog: %s: %+v", r.URL.Path, err)
	} else {
		m.logger.Printf("dropinblog: %s: %v", r.URL.Path, err)
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func recovered(v interface{}) error {
	if err, ok := v.(error); ok {
		return errors.Wrap(err, "panic")
	}
	return errors.New(fmt.Sprint("panic: ", v))
}
