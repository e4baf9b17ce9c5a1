package core

import (
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultBasePath     = "/blog"
	DefaultAPIBaseURL   = "https://api.dropinblog.com/v2"
	DefaultTimeout      = 10 * time.Second
	DefaultMaxRetries   = 2
	// NoRetries disables retrying failed upstream requests.
	NoRetries           = -1
	DefaultRetryBackoff = 250 * time.Millisecond
	DefaultUserAgent    = "dropinblog-go"
)

var (
	ErrMissingBlogID   = errors.New("blog id is required")
	ErrInvalidBasePath = errors.New("invalid base path")
)

// Config configures the content core. The zero value is completed by
// Defaults.
type Config struct {
	BasePath     string        `yaml:"base_path"`
	BlogID       string        `yaml:"blog_id"`
	APIToken     string        `yaml:"api_token"`
	APIBaseURL   string        `yaml:"api_base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	// MaxRetries bounds the retries after a failed request. Zero selects
	// DefaultMaxRetries, any negative value disables retries.
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
	UserAgent    string        `yaml:"user_agent"`
}

// Defaults returns a copy of c with empty fields filled in and the base
// path normalized. A base path of "/" becomes the empty string so that
// routes are written as basePath + "/feed".
func (c Config) Defaults() Config {
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	c.BasePath = NormalizePathname(c.BasePath)
	if c.BasePath == "/" {
		c.BasePath = ""
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	switch {
	case c.MaxRetries == 0:
		c.MaxRetries = DefaultMaxRetries
	case c.MaxRetries < 0:
		c.MaxRetries = NoRetries
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = DefaultRetryBackoff
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return c
}

// Validate checks a config that already went through Defaults.
func (c Config) Validate() error {
	if c.BlogID == "" {
		return ErrMissingBlogID
	}
	if strings.ContainsAny(c.BasePath, "?#") {
		return errors.Wrapf(ErrInvalidBasePath, "%q", c.BasePath)
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return errors.Wrapf(err, "api base url %q", c.APIBaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("api base url %q: unsupported scheme %q", c.APIBaseURL, u.Scheme)
	}
	return nil
}
