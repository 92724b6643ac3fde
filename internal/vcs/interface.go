// Package vcs provides read access to source trees stored in git.
package vcs

import (
	"errors"

	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotFile is returned when a tree path names a directory or submodule.
var ErrNotFile = errors.New("not a regular file")

// Repository provides access to git repository operations.
type Repository interface {
	// Head returns a reference to the HEAD commit.
	Head() (Reference, error)
	// TreeAt resolves rev (branch, tag, or hash) and returns its tree.
	TreeAt(rev string) (Tree, error)
	// RepoPath returns the root path of the repository.
	RepoPath() string
}

// Reference represents a git reference (branch, tag, HEAD).
type Reference interface {
	Hash() plumbing.Hash
}

// TreeEntry represents a file or directory in a git tree.
type TreeEntry struct {
	Path  string
	Size  int64
	IsDir bool
}

// Tree represents a git tree object.
type Tree interface {
	// Entries returns all files in the tree (recursively).
	Entries() ([]TreeEntry, error)
	// File returns the content of the file at path.
	File(path string) ([]byte, error)
}

// Opener opens git repositories.
type Opener interface {
	// PlainOpen opens an existing git repository.
	PlainOpen(path string) (Repository, error)
	// PlainOpenWithDetect opens a git repository, detecting .git in parent directories.
	PlainOpenWithDetect(path string) (Repository, error)
}
