package dropinblog

import (
	"strings"

	"github.com/lemmi/dropinblog/core"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes the five characters & < > " and '.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// RenderHeadTags renders descriptors as head markup in order. Title content
// and attribute values are escaped, script content is not. Attribute names
// are written as given.
func RenderHeadTags(descriptors []core.HeadDescriptor) string {
	tags := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		tags = append(tags, renderHeadTag(d))
	}
	return strings.Join(tags, "\n    ")
}

func renderHeadTag(d core.HeadDescriptor) string {
	if d.Tag == "title" {
		return "<title>" + EscapeHTML(d.Content) + "</title>"
	}
	attrs := renderAttributes(d.Attributes)
	switch d.Tag {
	case "meta", "link":
		return "<" + d.Tag + " " + attrs + ">"
	case "script":
		return "<script " + attrs + ">" + d.Content + "</script>"
	}
	if d.Content != "" {
		return "<" + d.Tag + " " + attrs + ">" + d.Content + "</" + d.Tag + ">"
	}
	return "<" + d.Tag + " " + attrs + ">"
}

func renderAttributes(attrs core.Attributes) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, a.Name+`="`+EscapeHTML(a.Value)+`"`)
	}
	return strings.Join(parts, " ")
}
