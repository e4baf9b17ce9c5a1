package dropinblog

import (
	"testing"

	"github.com/lemmi/dropinblog/core"
)

func TestEscapeHTML(t *testing.T) {
	t.Parallel()

	got := EscapeHTML(`<a href="x">Tom & Jerry's</a>`)
	want := "&lt;a href=&quot;x&quot;&gt;Tom &amp; Jerry&#39;s&lt;/a&gt;"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got := EscapeHTML("&amp;"); got != "&amp;amp;" {
		t.Errorf("expected already escaped input to be escaped again, got %q", got)
	}
}

func TestRenderHeadTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []core.HeadDescriptor
		want string
	}{
		{
			name: "title is escaped",
			in:   []core.HeadDescriptor{{Tag: "title", Content: "A & B"}},
			want: "<title>A &amp; B</title>",
		},
		{
			name: "meta keeps attribute order",
			in: []core.HeadDescriptor{{Tag: "meta", Attributes: core.Attributes{
				{Name: "property", Value: "og:title"},
				{Name: "content", Value: `"Quoted" <b>`},
			}}},
			want: `<meta property="og:title" content="&quot;Quoted&quot; &lt;b&gt;">`,
		},
		{
			name: "link",
			in: []core.HeadDescriptor{{Tag: "link", Attributes: core.Attributes{
				{Name: "rel", Value: "canonical"},
				{Name: "href", Value: "https://example.com/?a=1&b=2"},
			}}},
			want: `<link rel="canonical" href="https://example.com/?a=1&amp;b=2">`,
		},
		{
			name: "script content is raw",
			in:   []core.HeadDescriptor{{Tag: "script", Content: "alert(1<2)"}},
			want: "<script >alert(1<2)</script>",
		},
		{
			name: "json-ld script",
			in: []core.HeadDescriptor{{
				Tag:        "script",
				Content:    `{"@type":"BlogPosting","name":"A & B"}`,
				Attributes: core.Attributes{{Name: "type", Value: "application/ld+json"}},
			}},
			want: `<script type="application/ld+json">{"@type":"BlogPosting","name":"A & B"}</script>`,
		},
		{
			name: "other tag with content",
			in: []core.HeadDescriptor{{
				Tag:        "style",
				Content:    "a>b{color:red}",
				Attributes: core.Attributes{{Name: "media", Value: "all"}},
			}},
			want: `<style media="all">a>b{color:red}</style>`,
		},
		{
			name: "other tag without content",
			in: []core.HeadDescriptor{{
				Tag:        "base",
				Attributes: core.Attributes{{Name: "href", Value: "/blog/"}},
			}},
			want: `<base href="/blog/">`,
		},
		{
			name: "order is kept and joined",
			in: []core.HeadDescriptor{
				{Tag: "title", Content: "T"},
				{Tag: "meta", Attributes: core.Attributes{{Name: "name", Value: "description"}, {Name: "content", Value: "D"}}},
			},
			want: "<title>T</title>\n    <meta name=\"description\" content=\"D\">",
		},
		{
			name: "empty",
			in:   nil,
			want: "",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RenderHeadTags(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
