package dropinblog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/lemmi/dropinblog/core"
	"github.com/pkg/errors"
)

const (
	xmlContentType  = "application/xml; charset=utf-8"
	htmlContentType = "text/html; charset=utf-8"
)

// response is assembled completely before anything is written, so a
// failure never leaves a half sent reply.
type response struct {
	status      int
	contentType string
	body        string
}

func (resp *response) write(w http.ResponseWriter) {
	if resp.status == http.StatusNotFound {
		http.Error(w, resp.body, resp.status)
		return
	}
	w.Header().Set("Content-Type", resp.contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.body)))
	w.WriteHeader(resp.status)
	w.Write([]byte(resp.body))
}

func (m *Middleware) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	resp, delegate, err := m.dispatch(r)
	if err != nil {
		m.fail(w, r, err)
		return
	}
	if delegate {
		if m.notFound != nil {
			m.notFound(next).ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
		return
	}
	resp.write(w)
}

// dispatch classifies r and builds the response. delegate is true for paths
// the blog does not own.
func (m *Middleware) dispatch(r *http.Request) (resp *response, delegate bool, err error) {
	defer func() {
		if v := recover(); v != nil {
			resp, delegate, err = nil, false, recovered(v)
		}
	}()

	pathname := RequestPath(r)
	route, err := m.classifier.Classify(pathname)
	if err != nil {
		return nil, false, err
	}

	ctx := r.Context()
	switch route.Kind {
	case KindSitemap:
		resp, err = m.xml(ctx, m.client.FetchSitemap, "Sitemap not available")
	case KindFeed:
		resp, err = m.xml(ctx, m.client.FetchFeed, "Feed not available")
	case KindCategoryFeed:
		resp, err = m.xml(ctx, func(ctx context.Context) (*core.Payload, error) {
			return m.client.FetchCategoryFeed(ctx, route.Slug)
		}, `No feed available for category "`+route.Slug+`"`)
	case KindAuthorFeed:
		resp, err = m.xml(ctx, func(ctx context.Context) (*core.Payload, error) {
			return m.client.FetchAuthorFeed(ctx, route.Slug)
		}, `No feed available for author "`+route.Slug+`"`)
	case KindContent:
		resp, err = m.content(ctx, pathname)
	default:
		return nil, true, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "%s %q", route, pathname)
	}
	return resp, false, nil
}

func (m *Middleware) xml(ctx context.Context, fetch func(context.Context) (*core.Payload, error), notFound string) (*response, error) {
	payload, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	content, ok := payload.Document()
	if !ok {
		return &response{status: http.StatusNotFound, body: notFound}, nil
	}
	ct := xmlContentType
	if payload.ContentType != nil && *payload.ContentType != "" {
		ct = *payload.ContentType
	}
	return &response{status: http.StatusOK, contentType: ct, body: content}, nil
}

func (m *Middleware) content(ctx context.Context, pathname string) (*response, error) {
	res, err := m.router.Resolve(ctx, pathname)
	if err != nil {
		return nil, err
	}
	payload := &core.Payload{}
	if res != nil && res.Payload != nil {
		payload = res.Payload
	}
	content := payload.Body()
	if m.sanitize != nil {
		content = m.sanitize.Sanitize(content)
	}
	html, err := m.renderer.RenderDocument(Document{
		Content:         content,
		HeadDescriptors: core.BuildHeadDescriptors(payload.HeadData, payload.HeadItems),
		Pathname:        pathname,
	})
	if err != nil {
		return nil, errors.Wrap(err, "render document")
	}
	return &response{status: http.StatusOK, contentType: htmlContentType, body: html}, nil
}
