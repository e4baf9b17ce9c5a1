package site

import (
	"bytes"
	"io"

	bm "github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	bf "github.com/russross/blackfriday"
)

// imageAltTitleCopy fills a missing image title from the alt text and the
// other way round.
type imageAltTitleCopy struct {
	bf.Renderer
}

func (md imageAltTitleCopy) Image(out *bytes.Buffer, link []byte, title []byte, alt []byte) {
	if title == nil {
		title = alt
	}
	if alt == nil {
		alt = title
	}
	md.Renderer.Image(out, link, title, alt)
}

// renderMarkdown converts the markdown in r to html. Unless unsafe is set
// the result goes through the UGC policy.
func renderMarkdown(r io.Reader, unsafe bool) ([]byte, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "Cannot read markdown")
	}
	html := bf.Markdown(b,
		imageAltTitleCopy{bf.HtmlRenderer(0, "", "")},
		bf.EXTENSION_TABLES|bf.EXTENSION_FENCED_CODE|bf.EXTENSION_AUTOLINK)
	if !unsafe {
		html = bm.UGCPolicy().SanitizeBytes(html)
	}
	return html, nil
}
