package core

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrNoRoute = errors.New("no content route")

// ContentRouter recognizes and resolves blog content paths.
type ContentRouter interface {
	Match(pathname string) bool
	Resolve(ctx context.Context, pathname string) (*Resolution, error)
}

// RouteType tells which client fetch serves a content route.
type RouteType int

const (
	RouteList RouteType = iota
	RouteCategory
	RouteAuthor
	RoutePost
)

func (t RouteType) String() string {
	switch t {
	case RouteList:
		return "list"
	case RouteCategory:
		return "category"
	case RouteAuthor:
		return "author"
	case RoutePost:
		return "post"
	}
	return "RouteType(" + strconv.Itoa(int(t)) + ")"
}

// ContentRoute is a parsed content path. Slug is unescaped.
type ContentRoute struct {
	Type RouteType
	Slug string
	Page int
}

// Resolution is a resolved content route with its payload.
type Resolution struct {
	Route   ContentRoute
	Payload *Payload
}

// Router maps normalized paths below the base path to client fetches:
//
//	{base}                          list
//	{base}/page/{n}                 list, page n
//	{base}/category/{slug}[/page/{n}]
//	{base}/author/{slug}[/page/{n}]
//	{base}/{slug}                   post
type Router struct {
	base   string
	client Client
}

// NewRouter returns a router for paths below basePath, which must be
// normalized ("" for the root).
func NewRouter(basePath string, client Client) *Router {
	return &Router{base: basePath, client: client}
}

func (r *Router) Match(pathname string) bool {
	_, ok := r.Parse(pathname)
	return ok
}

// Parse returns the content route for a normalized path.
func (r *Router) Parse(pathname string) (ContentRoute, bool) {
	rest := pathname
	if r.base != "" {
		if !strings.HasPrefix(pathname, r.base) {
			return ContentRoute{}, false
		}
		rest = pathname[len(r.base):]
	}
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return ContentRoute{Type: RouteList, Page: 1}, pathname == r.base || pathname == r.base+"/"
	}
	if pathname[len(r.base)] != '/' {
		return ContentRoute{}, false
	}

	seg := strings.Split(rest, "/")
	switch {
	case len(seg) == 1:
		slug, ok := unescape(seg[0])
		return ContentRoute{Type: RoutePost, Slug: slug}, ok
	case len(seg) == 2 && seg[0] == "page":
		n, ok := pageNumber(seg[1])
		return ContentRoute{Type: RouteList, Page: n}, ok
	case seg[0] == "category" || seg[0] == "author":
		t := RouteCategory
		if seg[0] == "author" {
			t = RouteAuthor
		}
		slug, ok := unescape(seg[1])
		if !ok {
			return ContentRoute{}, false
		}
		switch {
		case len(seg) == 2:
			return ContentRoute{Type: t, Slug: slug, Page: 1}, true
		case len(seg) == 4 && seg[2] == "page":
			n, ok := pageNumber(seg[3])
			return ContentRoute{Type: t, Slug: slug, Page: n}, ok
		}
	}
	return ContentRoute{}, false
}

func (r *Router) Resolve(ctx context.Context, pathname string) (*Resolution, error) {
	route, ok := r.Parse(pathname)
	if !ok {
		return nil, errors.Wrapf(ErrNoRoute, "%q", pathname)
	}
	var (
		p   *Payload
		err error
	)
	switch route.Type {
	case RouteList:
		p, err = r.client.FetchList(ctx, route.Page)
	case RouteCategory:
		p, err = r.client.FetchCategory(ctx, route.Slug, route.Page)
	case RouteAuthor:
		p, err = r.client.FetchAuthor(ctx, route.Slug, route.Page)
	case RoutePost:
		p, err = r.client.FetchPost(ctx, route.Slug)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s %q", route.Type, pathname)
	}
	if p == nil {
		p = &Payload{}
	}
	return &Resolution{Route: route, Payload: p}, nil
}

func unescape(s string) (string, bool) {
	u, err := url.PathUnescape(s)
	if err != nil || u == "" {
		return "", false
	}
	return u, true
}

func pageNumber(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || strconv.Itoa(n) != s {
		return 0, false
	}
	return n, true
}
