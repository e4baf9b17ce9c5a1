package site

import (
	"net/http"
	"path"
	"strings"
)

// Assets serves the files below static/. Besides /static/... it answers a
// fixed set of root paths, such as /robots.txt, from the same directory.
// Directories are never listed.
type Assets struct {
	fs   http.FileSystem
	root map[string]bool
}

// NewAssets serves static/ of fs. rootFiles are URL paths like
// "/robots.txt" that map to static/robots.txt.
func NewAssets(fs http.FileSystem, rootFiles ...string) *Assets {
	a := &Assets{fs: fs, root: make(map[string]bool, len(rootFiles))}
	for _, f := range rootFiles {
		a.root[path.Clean("/"+f)] = true
	}
	return a
}

// Owns reports whether urlPath belongs to the assets rather than a page.
func (a *Assets) Owns(urlPath string) bool {
	_, ok := a.file(urlPath)
	return ok
}

func (a *Assets) file(urlPath string) (string, bool) {
	p := path.Clean("/" + urlPath)
	switch {
	case strings.HasPrefix(p, "/static/"):
		return p, true
	case a.root[p]:
		return "/static" + p, true
	}
	return "", false
}

func (a *Assets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, ok := a.file(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	f, err := a.fs.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		HttpError(w, http.StatusInternalServerError, err)
		return
	}
	if stat.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, stat.Name(), stat.ModTime(), f)
}
