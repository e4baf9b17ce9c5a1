package main

import (
	"log"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lemmi/compress"
	"github.com/lemmi/dropinblog"
	"github.com/lemmi/dropinblog/site"
	bm "github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newServeCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the http server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.cfg.Bind, "bind", o.cfg.Bind, "address or path to bind to")
	f.StringVar(&o.cfg.Network, "net", o.cfg.Network, `"tcp", "tcp4", "tcp6", "unix" or "unixpacket"`)
	f.StringVar(&o.cfg.Prefix, "prefix", o.cfg.Prefix, "path to the site root dir")
	f.BoolVar(&o.cfg.Git, "git", false, "prefix is a git repo")
	f.StringVar(&o.cfg.Branch, "branch", o.cfg.Branch, "branch to serve when --git is set")
	f.StringVar(&o.cfg.SiteName, "site-name", "", "appended to page titles")
	f.BoolVar(&o.cfg.Sanitize, "sanitize", false, "sanitize blog html with the UGC policy")
	return cmd
}

func serve(cfg Config) error {
	h, err := newHandler(cfg)
	if err != nil {
		return err
	}

	ln, err := net.Listen(cfg.Network, cfg.Bind)
	if err != nil {
		return errors.Wrapf(err, "listen %s %s", cfg.Network, cfg.Bind)
	}
	defer ln.Close()
	if strings.HasPrefix(cfg.Network, "unix") {
		if err := os.Chmod(cfg.Bind, 0666); err != nil {
			return errors.Wrap(err, "chmod socket")
		}
	}
	log.Println("Starting")
	if cfg.Debug {
		log.Println("prefix: ", cfg.Prefix)
		log.Println("addr: ", cfg.Bind)
		log.Println("network: ", cfg.Network)
		log.Println("git: ", cfg.Git)
		log.Println("blog: ", cfg.Blog.Defaults().BasePath)
	}
	return http.Serve(ln, compress.New(h))
}

// newHandler puts the blog in front of the site's own routes.
func newHandler(cfg Config) (http.Handler, error) {
	if cfg.Debug {
		site.DEBUG = true
	}
	opts := dropinblog.Options{
		Core:  cfg.Blog,
		Debug: cfg.Debug,
	}
	if cfg.Sanitize {
		opts.Sanitize = bm.UGCPolicy()
	}
	blog, err := dropinblog.New(opts)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(blog.Wrap)
	r.Handle("/*", siteHandler{site.Source{Root: cfg.Prefix, Git: cfg.Git, Branch: cfg.Branch}, cfg.SiteName})
	return r, nil
}

// siteHandler opens the source on every request so a git branch is served
// at its current head.
type siteHandler struct {
	src      site.Source
	siteName string
}

func (h siteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fs, etag, err := h.src.Open()
	if err != nil {
		site.HttpError(w, http.StatusInternalServerError, err)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Cache-Control", "max-age=32")
	if assets := site.NewAssets(fs, "/robots.txt", "/favicon.ico"); assets.Owns(r.URL.Path) {
		assets.ServeHTTP(w, r)
		return
	}
	site.NewPageHandler(fs, h.siteName).ServeHTTP(w, r)
}
