// Package site serves the host application's own pages: markdown articles
// and static files from a directory or from a git branch. The blog
// middleware sits in front of it and passes on every path it does not own.
package site

import (
	"net/http"
	"path/filepath"
	"strings"

	g "github.com/gogits/git"
	"github.com/lemmi/ghfs"
	"github.com/pkg/errors"
)

// Source is where host content lives.
type Source struct {
	Root   string
	Git    bool
	Branch string
}

// Open returns the current file system of s. For git sources the ETag is
// the commit id of the branch head.
func (s Source) Open() (fs http.FileSystem, etag string, err error) {
	path, err := filepath.Abs(s.Root)
	if err != nil {
		return nil, "", errors.Wrap(err, "filepath.Abs("+s.Root+")")
	}
	if !s.Git {
		return http.Dir(path), "", nil
	}

	repo, err := g.OpenRepository(path)
	if err != nil {
		return nil, "", errors.Wrap(err, "g.OpenRepository("+path+")")
	}
	branch := s.Branch
	if branch == "" {
		branch = "master"
	}
	commit, err := repo.GetCommitOfBranch(branch)
	if err != nil {
		return nil, "", errors.Wrapf(err, "Can not open branch %q", branch)
	}
	return ghfs.FromCommit(commit), strings.Trim(commit.Id.String(), "\""), nil
}
