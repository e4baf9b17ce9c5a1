package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

// Client fetches rendered resources from the upstream blog API.
type Client interface {
	FetchSitemap(ctx context.Context) (*Payload, error)
	FetchFeed(ctx context.Context) (*Payload, error)
	FetchCategoryFeed(ctx context.Context, slug string) (*Payload, error)
	FetchAuthorFeed(ctx context.Context, slug string) (*Payload, error)
	FetchList(ctx context.Context, page int) (*Payload, error)
	FetchCategory(ctx context.Context, slug string, page int) (*Payload, error)
	FetchAuthor(ctx context.Context, slug string, page int) (*Payload, error)
	FetchPost(ctx context.Context, slug string) (*Payload, error)
}

// StatusError is returned for upstream responses outside the 2xx range.
type StatusError struct {
	Code int
	URL  string
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// maxBody caps how much of an upstream response is read.
const maxBody = 16 << 20

// HTTPClient talks to the hosted API at
// {APIBaseURL}/blog/{BlogID}/rendered/... and unwraps the
// {"success": ..., "data": ...} envelope.
type HTTPClient struct {
	cfg  Config
	http *http.Client
}

// NewHTTPClient returns a client for cfg. A nil hc uses a client with
// cfg.Timeout.
func NewHTTPClient(cfg Config, hc *http.Client) (*HTTPClient, error) {
	cfg = cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPClient{cfg: cfg, http: hc}, nil
}

// Sitemap and feed fetches report an upstream 404 as an empty payload, so
// callers see "not available" instead of an error.

func (c *HTTPClient) FetchSitemap(ctx context.Context) (*Payload, error) {
	return c.getXML(ctx, "sitemap")
}

func (c *HTTPClient) FetchFeed(ctx context.Context) (*Payload, error) {
	return c.getXML(ctx, "feed")
}

func (c *HTTPClient) FetchCategoryFeed(ctx context.Context, slug string) (*Payload, error) {
	return c.getXML(ctx, "feed/category/"+url.PathEscape(slug))
}

func (c *HTTPClient) FetchAuthorFeed(ctx context.Context, slug string) (*Payload, error) {
	return c.getXML(ctx, "feed/author/"+url.PathEscape(slug))
}

func (c *HTTPClient) FetchList(ctx context.Context, page int) (*Payload, error) {
	return c.get(ctx, "list", page)
}

func (c *HTTPClient) FetchCategory(ctx context.Context, slug string, page int) (*Payload, error) {
	return c.get(ctx, "list/category/"+url.PathEscape(slug), page)
}

func (c *HTTPClient) FetchAuthor(ctx context.Context, slug string, page int) (*Payload, error) {
	return c.get(ctx, "list/author/"+url.PathEscape(slug), page)
}

func (c *HTTPClient) FetchPost(ctx context.Context, slug string) (*Payload, error) {
	return c.get(ctx, "post/"+url.PathEscape(slug), 0)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *HTTPClient) endpoint(resource string, page int) string {
	u := c.cfg.APIBaseURL + "/blog/" + url.PathEscape(c.cfg.BlogID) + "/rendered/" + resource
	if page > 1 {
		u += "?" + url.Values{"page": {strconv.Itoa(page)}}.Encode()
	}
	return u
}

func (c *HTTPClient) getXML(ctx context.Context, resource string) (*Payload, error) {
	p, err := c.get(ctx, resource, 0)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return &Payload{}, nil
	}
	return p, err
}

func (c *HTTPClient) get(ctx context.Context, resource string, page int) (*Payload, error) {
	u := c.endpoint(resource, page)
	var p *Payload
	err := backoff.Retry(func() error {
		var err error
		p, err = c.do(ctx, u)
		if err != nil && !retryable(ctx, err) {
			return backoff.Permanent(err)
		}
		return err
	}, c.retryPolicy(ctx))
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", resource)
	}
	return p, nil
}

// retryPolicy backs off exponentially from RetryBackoff and stops after
// MaxRetries retries or when ctx is done.
func (c *HTTPClient) retryPolicy(ctx context.Context) backoff.BackOff {
	if c.cfg.MaxRetries <= 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.RetryBackoff
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.cfg.MaxRetries)), ctx)
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.retryable()
	}
	var de *decodeError
	return !errors.As(err, &de)
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "decode: " + e.err.Error() }

func (c *HTTPClient) do(ctx context.Context, u string) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, URL: u, Body: string(body)}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &decodeError{err}
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "unsuccessful response"
		}
		return nil, &decodeError{errors.New(msg)}
	}
	var p Payload
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, &decodeError{err}
		}
	}
	return &p, nil
}
