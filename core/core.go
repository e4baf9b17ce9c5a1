// Package core resolves blog content against the hosted blog API: it owns
// the configuration, path normalization, the content router and the
// upstream client.
package core

import (
	"net/http"
)

// Core bundles what the middleware consumes.
type Core struct {
	Config Config
	Client Client
	Router ContentRouter
}

// New builds a Core from cfg, talking to the API over hc (nil for a default
// client).
func New(cfg Config, hc *http.Client) (*Core, error) {
	cfg = cfg.Defaults()
	client, err := NewHTTPClient(cfg, hc)
	if err != nil {
		return nil, err
	}
	return &Core{
		Config: cfg,
		Client: client,
		Router: NewRouter(cfg.BasePath, client),
	}, nil
}
