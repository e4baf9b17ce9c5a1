package core

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Payload is what the upstream API returns for a rendered resource. Exactly
// one of Sitemap, Feed and BodyHTML is expected to be set.
type Payload struct {
	ContentType *string    `json:"content_type,omitempty"`
	Sitemap     *string    `json:"sitemap,omitempty"`
	Feed        *string    `json:"feed,omitempty"`
	BodyHTML    *string    `json:"body_html,omitempty"`
	HeadData    *HeadData  `json:"head_data,omitempty"`
	HeadItems   []HeadItem `json:"head_items,omitempty"`
}

// Document returns the first non-empty of sitemap, feed and body html.
func (p *Payload) Document() (string, bool) {
	if p == nil {
		return "", false
	}
	for _, s := range []*string{p.Sitemap, p.Feed, p.BodyHTML} {
		if s != nil && *s != "" {
			return *s, true
		}
	}
	return "", false
}

// Body returns the body html or the empty string.
func (p *Payload) Body() string {
	if p == nil || p.BodyHTML == nil {
		return ""
	}
	return *p.BodyHTML
}

// HeadData is the structured page metadata of a rendered resource.
type HeadData struct {
	Title        string          `json:"title,omitempty"`
	Description  string          `json:"description,omitempty"`
	CanonicalURL string          `json:"canonical_url,omitempty"`
	Image        string          `json:"image,omitempty"`
	Type         string          `json:"type,omitempty"`
	SiteName     string          `json:"site_name,omitempty"`
	Author       string          `json:"author,omitempty"`
	PublishedAt  string          `json:"published_at,omitempty"`
	ModifiedAt   string          `json:"modified_at,omitempty"`
	RSSURL       string          `json:"rss_url,omitempty"`
	Stylesheets  []string        `json:"css,omitempty"`
	Scripts      []string        `json:"js,omitempty"`
	Schema       json.RawMessage `json:"schema,omitempty"`
}

// HeadItem is a single raw head element as sent by the API.
type HeadItem struct {
	Tag        string     `json:"tag"`
	Content    string     `json:"content,omitempty"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// HeadDescriptor describes one element of the document head.
type HeadDescriptor struct {
	Tag        string
	Content    string
	Attributes Attributes
}

// Attr is a single attribute name and value.
type Attr struct {
	Name  string
	Value string
}

// Attributes keeps attribute order. JSON objects decode in document order.
type Attributes []Attr

// Get returns the value of the first attribute called name.
func (a Attributes) Get(name string) (string, bool) {
	for _, at := range a {
		if at.Name == name {
			return at.Value, true
		}
	}
	return "", false
}

func (a *Attributes) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*a = nil
		return nil
	}
	om := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(b, om); err != nil {
		return errors.Wrap(err, "attributes: expected object")
	}
	out := make(Attributes, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		dec := json.NewDecoder(bytes.NewReader(pair.Value))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return errors.Wrapf(err, "attribute %q", pair.Key)
		}
		out = append(out, Attr{Name: pair.Key, Value: attrString(v)})
	}
	*a = out
	return nil
}

func (a Attributes) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, string](len(a))
	for _, at := range a {
		om.Set(at.Name, at.Value)
	}
	return json.Marshal(om)
}

func attrString(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
