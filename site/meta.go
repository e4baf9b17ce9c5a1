package site

import (
	"encoding/json"
	"net/http"
	"path"
	"time"

	"github.com/lemmi/dropinblog/core"
	"github.com/pkg/errors"
)

// Meta is the meta.json next to a page's article.md. Date is written as
// "2006-01-02 15:04" or RFC 3339.
type Meta struct {
	Author string
	Date   time.Time
	Title  string
	Desc   string `json:",omitempty"`

	Hidden bool `json:",omitempty"`
	Unsafe bool `json:",omitempty"`
}

var metaDateLayouts = []string{"2006-01-02 15:04", time.RFC3339}

func (m *Meta) UnmarshalJSON(b []byte) error {
	type plain Meta
	aux := struct {
		*plain
		Date string
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	m.Date = time.Time{}
	if aux.Date == "" {
		return nil
	}
	for _, layout := range metaDateLayouts {
		if t, err := time.Parse(layout, aux.Date); err == nil {
			m.Date = t
			return nil
		}
	}
	return errors.Errorf("date %q: want %q or RFC 3339", aux.Date, metaDateLayouts[0])
}

// HeadDescriptors describes the page head the same way blog pages do.
func (m Meta) HeadDescriptors() []core.HeadDescriptor {
	var d []core.HeadDescriptor
	if m.Desc != "" {
		d = append(d, core.HeadDescriptor{Tag: "meta", Attributes: core.Attributes{
			{Name: "name", Value: "description"}, {Name: "content", Value: m.Desc},
		}})
	}
	if m.Author != "" {
		d = append(d, core.HeadDescriptor{Tag: "meta", Attributes: core.Attributes{
			{Name: "name", Value: "author"}, {Name: "content", Value: m.Author},
		}})
	}
	return d
}

func readMeta(fs http.FileSystem, dir string) (Meta, error) {
	var m Meta
	p := path.Join(dir, "meta.json")
	f, err := fs.Open(p)
	if err != nil {
		return m, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return m, errors.Wrapf(err, "Parsing json in %q", p)
	}
	return m, nil
}
