// Package source abstracts where Java source bytes come from: the working
// tree on disk or a git revision.
package source

import (
	"os"
	"sort"
	"sync"

	"github.com/panbanda/classmeta/internal/vcs"
	"github.com/panbanda/classmeta/pkg/parser"
)

// ContentSource provides file content from a specific source.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct{}

// NewFilesystem creates a source that reads from the filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// TreeSource reads files from a git tree.
// It is safe for concurrent use by multiple goroutines.
type TreeSource struct {
	tree vcs.Tree
	mu   sync.Mutex
}

// NewTree creates a source that reads from a git tree.
func NewTree(tree vcs.Tree) *TreeSource {
	return &TreeSource{tree: tree}
}

// Read implements ContentSource.
// It is safe for concurrent use.
func (t *TreeSource) Read(path string) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.File(path)
}

// JavaFiles lists the Java sources in the tree, sorted, skipping any larger
// than maxSize bytes when maxSize is positive. keep, when non-nil, filters
// the remaining paths.
func (t *TreeSource) JavaFiles(maxSize int64, keep func(path string) bool) ([]string, error) {
	t.mu.Lock()
	entries, err := t.tree.Entries()
	t.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir || parser.DetectLanguage(e.Path) != parser.LangJava {
			continue
		}
		if maxSize > 0 && e.Size > maxSize {
			continue
		}
		if keep != nil && !keep(e.Path) {
			continue
		}
		files = append(files, e.Path)
	}
	sort.Strings(files)
	return files, nil
}
