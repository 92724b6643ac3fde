// Package testutil holds fixtures shared by tests: on-disk Java source trees
// and throwaway git repositories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// WriteTree creates every file in files (slash-separated path -> content)
// under root.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("MkdirAll(%s) error: %v", full, err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile(%s) error: %v", full, err)
		}
	}
}

// CommitTree initializes a repository at root when none exists, writes files
// and commits them. It returns the repository.
func CommitTree(t *testing.T, root string, files map[string]string) *git.Repository {
	t.Helper()
	repo, err := git.PlainOpen(root)
	if err != nil {
		repo, err = git.PlainInit(root, false)
		if err != nil {
			t.Fatalf("PlainInit(%s) error: %v", root, err)
		}
	}

	WriteTree(t, root, files)

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree error: %v", err)
	}
	for name := range files {
		if _, err := wt.Add(name); err != nil {
			t.Fatalf("Add(%s) error: %v", name, err)
		}
	}
	_, err = wt.Commit("fixture", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit error: %v", err)
	}
	return repo
}
