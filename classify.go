package dropinblog

import (
	"net/url"
	"regexp"

	"github.com/lemmi/dropinblog/core"
	"github.com/pkg/errors"
)

// Kind is the classification of a normalized request path.
type Kind int

const (
	KindUnmatched Kind = iota
	KindSitemap
	KindFeed
	KindCategoryFeed
	KindAuthorFeed
	KindContent
)

func (k Kind) String() string {
	switch k {
	case KindUnmatched:
		return "unmatched"
	case KindSitemap:
		return "sitemap"
	case KindFeed:
		return "feed"
	case KindCategoryFeed:
		return "category-feed"
	case KindAuthorFeed:
		return "author-feed"
	case KindContent:
		return "content"
	}
	return "unknown"
}

// Route is the result of classifying a path. Slug is only set for category
// and author feeds and is already unescaped.
type Route struct {
	Kind Kind
	Slug string
}

func (r Route) String() string {
	if r.Slug != "" {
		return r.Kind.String() + "(" + r.Slug + ")"
	}
	return r.Kind.String()
}

// rule reports whether it recognizes path. Rules are tried in order and the
// first match wins.
type rule func(path string) (Route, bool, error)

// Classifier maps normalized paths to routes. It is immutable after
// NewClassifier and safe for concurrent use.
type Classifier struct {
	rules  []rule
	router core.ContentRouter
}

// NewClassifier builds the rule chain for basePath, which must already be
// normalized ("" for the root). Paths no rule recognizes are offered to
// router.
func NewClassifier(basePath string, router core.ContentRouter) *Classifier {
	base := regexp.QuoteMeta(basePath)
	sitemap := core.NormalizePathname(basePath + "/sitemap.xml")
	feed := regexp.MustCompile(`(?i)^` + base + `/feed(?:\.(?:xml|rss))?/?$`)
	categoryFeed := regexp.MustCompile(`(?i)^` + base + `/feed/category/([^/]+?)(?:\.(?:xml|rss))?/?$`)
	authorFeed := regexp.MustCompile(`(?i)^` + base + `/feed/author/([^/]+?)(?:\.(?:xml|rss))?/?$`)

	return &Classifier{
		router: router,
		rules: []rule{
			func(p string) (Route, bool, error) {
				return Route{Kind: KindSitemap}, p == sitemap, nil
			},
			func(p string) (Route, bool, error) {
				return Route{Kind: KindFeed}, feed.MatchString(p), nil
			},
			slugRule(categoryFeed, KindCategoryFeed),
			slugRule(authorFeed, KindAuthorFeed),
		},
	}
}

func slugRule(re *regexp.Regexp, kind Kind) rule {
	return func(p string) (Route, bool, error) {
		m := re.FindStringSubmatch(p)
		if m == nil {
			return Route{}, false, nil
		}
		slug, err := url.PathUnescape(m[1])
		if err != nil {
			return Route{}, false, errors.Wrapf(err, "%s slug %q", kind, m[1])
		}
		return Route{Kind: kind, Slug: slug}, true, nil
	}
}

// Classify returns the route for a normalized path. An error means a
// matching path carried a malformed escape.
func (c *Classifier) Classify(path string) (Route, error) {
	for _, r := range c.rules {
		route, ok, err := r(path)
		if err != nil {
			return Route{}, err
		}
		if ok {
			return route, nil
		}
	}
	if c.router != nil && c.router.Match(path) {
		return Route{Kind: KindContent}, nil
	}
	return Route{Kind: KindUnmatched}, nil
}
