package core

import "strings"

// BuildHeadDescriptors turns structured head data and raw head items into an
// ordered list of head descriptors. Items derived from data come first and
// raw items follow. A later title, or a later meta with the same name or
// property, replaces the earlier one in place.
func BuildHeadDescriptors(data *HeadData, items []HeadItem) []HeadDescriptor {
	var b headBuilder
	if data != nil {
		b.fromData(data)
	}
	for _, it := range items {
		tag := strings.ToLower(strings.TrimSpace(it.Tag))
		if tag == "" {
			continue
		}
		b.add(HeadDescriptor{Tag: tag, Content: it.Content, Attributes: it.Attributes})
	}
	return b.out
}

type headBuilder struct {
	out  []HeadDescriptor
	seen map[string]int
}

func (b *headBuilder) fromData(d *HeadData) {
	if d.Title != "" {
		b.add(HeadDescriptor{Tag: "title", Content: d.Title})
	}
	b.meta("name", "description", d.Description)
	if d.CanonicalURL != "" {
		b.add(HeadDescriptor{Tag: "link", Attributes: Attributes{{"rel", "canonical"}, {"href", d.CanonicalURL}}})
	}
	b.meta("property", "og:title", d.Title)
	b.meta("property", "og:description", d.Description)
	b.meta("property", "og:url", d.CanonicalURL)
	b.meta("property", "og:image", d.Image)
	b.meta("property", "og:type", d.Type)
	b.meta("property", "og:site_name", d.SiteName)
	b.meta("property", "article:author", d.Author)
	b.meta("property", "article:published_time", d.PublishedAt)
	b.meta("property", "article:modified_time", d.ModifiedAt)
	if d.Image != "" {
		b.meta("name", "twitter:card", "summary_large_image")
	} else if d.Title != "" {
		b.meta("name", "twitter:card", "summary")
	}
	b.meta("name", "twitter:title", d.Title)
	b.meta("name", "twitter:description", d.Description)
	b.meta("name", "twitter:image", d.Image)
	if d.RSSURL != "" {
		b.add(HeadDescriptor{Tag: "link", Attributes: Attributes{
			{"rel", "alternate"}, {"type", "application/rss+xml"}, {"href", d.RSSURL},
		}})
	}
	for _, href := range d.Stylesheets {
		if href != "" {
			b.add(HeadDescriptor{Tag: "link", Attributes: Attributes{{"rel", "stylesheet"}, {"href", href}}})
		}
	}
	for _, src := range d.Scripts {
		if src != "" {
			b.add(HeadDescriptor{Tag: "script", Attributes: Attributes{{"src", src}}})
		}
	}
	if schema := strings.TrimSpace(string(d.Schema)); schema != "" && schema != "null" {
		b.add(HeadDescriptor{Tag: "script", Content: schema, Attributes: Attributes{{"type", "application/ld+json"}}})
	}
}

func (b *headBuilder) meta(attr, key, content string) {
	if content == "" {
		return
	}
	b.add(HeadDescriptor{Tag: "meta", Attributes: Attributes{{attr, key}, {"content", content}}})
}

func (b *headBuilder) add(d HeadDescriptor) {
	if k := dedupKey(d); k != "" {
		if i, ok := b.seen[k]; ok {
			b.out[i] = d
			return
		}
		if b.seen == nil {
			b.seen = make(map[string]int)
		}
		b.seen[k] = len(b.out)
	}
	b.out = append(b.out, d)
}

func dedupKey(d HeadDescriptor) string {
	switch d.Tag {
	case "title":
		return "title"
	case "meta":
		if v, ok := d.Attributes.Get("name"); ok {
			return "meta:name:" + strings.ToLower(v)
		}
		if v, ok := d.Attributes.Get("property"); ok {
			return "meta:property:" + strings.ToLower(v)
		}
		if _, ok := d.Attributes.Get("charset"); ok {
			return "meta:charset"
		}
	case "link":
		if v, ok := d.Attributes.Get("rel"); ok && strings.EqualFold(v, "canonical") {
			return "link:canonical"
		}
	}
	return ""
}
