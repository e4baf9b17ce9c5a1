package core

import "strings"

// NormalizePathname returns the canonical form of a request path: a single
// leading slash, no repeated slashes, lower case and no trailing slash
// except for the root. Percent escapes are left as they are.
func NormalizePathname(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	var b strings.Builder
	b.Grow(len(p) + 1)
	b.WriteByte('/')
	slash := true
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if slash {
				continue
			}
			slash = true
		} else {
			slash = false
			if 'A' <= c && c <= 'Z' {
				c += 'a' - 'A'
			}
		}
		b.WriteByte(c)
	}
	out := b.String()
	if len(out) > 1 && slash {
		out = out[:len(out)-1]
	}
	return out
}
