package site

import (
	"bytes"
	"log"
	"net/http"
	"os"
	"path"

	"github.com/lemmi/dropinblog"
	"github.com/pkg/errors"
	"github.com/raymondbutcher/tidyhtml"
)

const pagesDir = "pages"

var DEBUG bool

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func HttpError(w http.ResponseWriter, code int, logErr error) {
	if err, ok := logErr.(stackTracer); ok && DEBUG {
		log.Print(logErr)
		log.Printf("%+v", err.StackTrace())
	} else {
		log.Print(logErr)
	}
	http.Error(w, http.StatusText(code), code)
}

// PageHandler renders pages/<path>/article.md with the title from
// meta.json.
type PageHandler struct {
	fs       http.FileSystem
	siteName string
}

func NewPageHandler(fs http.FileSystem, siteName string) PageHandler {
	return PageHandler{fs: fs, siteName: siteName}
}

func (h PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	dir := path.Join("/", pagesDir, path.Clean("/"+r.URL.Path))

	meta, err := readMeta(h.fs, dir)
	switch {
	case os.IsNotExist(errors.Cause(err)):
		http.NotFound(w, r)
		return
	case err != nil:
		HttpError(w, http.StatusInternalServerError, errors.Wrapf(err, "page %q", r.URL.Path))
		return
	case meta.Hidden:
		http.NotFound(w, r)
		return
	}

	md, err := h.fs.Open(path.Join(dir, "article.md"))
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		HttpError(w, http.StatusInternalServerError, errors.Wrapf(err, "Cannot open markdown file in %q", dir))
		return
	}
	defer md.Close()

	html, err := renderMarkdown(md, meta.Unsafe)
	if err != nil {
		HttpError(w, http.StatusInternalServerError, errors.Wrapf(err, "page %q", r.URL.Path))
		return
	}

	title := meta.Title
	if h.siteName != "" && title != "" {
		title += " - " + h.siteName
	} else if title == "" {
		title = h.siteName
	}
	buf := bytes.NewBufferString(dropinblog.RenderHTMLTemplate(dropinblog.HTMLTemplateOptions{
		Title:    title,
		HeadTags: dropinblog.RenderHeadTags(meta.HeadDescriptors()),
		Content:  "<article>" + string(html) + "</article>",
	}))
	tbuf := bytes.Buffer{}
	if err := tidyhtml.Copy(&tbuf, buf); err != nil {
		HttpError(w, http.StatusInternalServerError, errors.Wrapf(err, "tidyhtml failed: %q", r.URL.Path))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "", meta.Date, bytes.NewReader(tbuf.Bytes()))
}
