package dropinblog

import (
	"strings"

	"github.com/lemmi/dropinblog/core"
)

// Document is what a DocumentRenderer gets for a resolved content page.
type Document struct {
	Content         string
	HeadDescriptors []core.HeadDescriptor
	Pathname        string
}

// DocumentRenderer turns a resolved content page into a full HTML document.
type DocumentRenderer interface {
	RenderDocument(doc Document) (string, error)
}

// RenderFunc adapts a function to DocumentRenderer.
type RenderFunc func(doc Document) string

func (f RenderFunc) RenderDocument(doc Document) (string, error) {
	return f(doc), nil
}

type defaultDocument struct{}

func (defaultDocument) RenderDocument(doc Document) (string, error) {
	return DefaultDocument(doc.Content, RenderHeadTags(doc.HeadDescriptors)), nil
}

// DefaultDocument wraps content in the minimal page shell. content and
// headTags are inserted verbatim.
func DefaultDocument(content, headTags string) string {
	return `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    ` + headTags + `
  </head>
  <body>
    <div id="dropinblog-content">` + content + `</div>
  </body>
</html>`
}

// HTMLTemplateOptions configures RenderHTMLTemplate. An empty Title renders
// as "Blog".
type HTMLTemplateOptions struct {
	Title                 string
	HeadTags              string
	Content               string
	BodyAttributes        core.Attributes
	AdditionalHeadContent string
	AdditionalBodyContent string
}

// RenderHTMLTemplate is a more configurable page shell for hosts that want
// control over title and body without writing a DocumentRenderer.
func RenderHTMLTemplate(o HTMLTemplateOptions) string {
	title := o.Title
	if title == "" {
		title = "Blog"
	}
	bodyAttrs := renderAttributes(o.BodyAttributes)
	if bodyAttrs != "" {
		bodyAttrs = " " + bodyAttrs
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>`)
	b.WriteString(EscapeHTML(title))
	b.WriteString("</title>\n    ")
	b.WriteString(o.HeadTags)
	b.WriteString(o.AdditionalHeadContent)
	b.WriteString("\n  </head>\n  <body")
	b.WriteString(bodyAttrs)
	b.WriteString(">\n    ")
	b.WriteString(o.Content)
	b.WriteString(o.AdditionalBodyContent)
	b.WriteString("\n  </body>\n</html>")
	return b.String()
}
