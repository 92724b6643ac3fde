package vcs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestGitOpener_PlainOpen_NonExistent(t *testing.T) {
	opener := NewGitOpener()
	_, err := opener.PlainOpen("/nonexistent/path")
	if err == nil {
		t.Error("PlainOpen() should return error for non-existent path")
	}
}

func TestGitOpener_PlainOpenWithDetect(t *testing.T) {
	repoPath := initTestRepoWithCommit(t, map[string]string{"A.java": "class A {}\n"})

	subDir := filepath.Join(repoPath, "subdir")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	repo, err := NewGitOpener().PlainOpenWithDetect(subDir)
	if err != nil {
		t.Fatalf("PlainOpenWithDetect() error = %v", err)
	}
	if repo.RepoPath() != repoPath {
		t.Errorf("RepoPath() = %s, want %s", repo.RepoPath(), repoPath)
	}

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	if head.Hash().IsZero() {
		t.Error("Head() returned zero hash")
	}
}

func TestOpenTree_FileAndEntries(t *testing.T) {
	repoPath := initTestRepoWithCommit(t, map[string]string{
		"src/com/acme/Base.java":    "package com.acme;\npublic class Base {}\n",
		"src/com/acme/Derived.java": "package com.acme;\npublic class Derived extends Base {}\n",
		"README.md":                 "docs\n",
	})

	tree, err := OpenTree(repoPath, "HEAD")
	if err != nil {
		t.Fatalf("OpenTree() error = %v", err)
	}

	content, err := tree.File("src/com/acme/Base.java")
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if string(content) != "package com.acme;\npublic class Base {}\n" {
		t.Errorf("File() = %q", content)
	}

	entries, err := tree.Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	files := map[string]int64{}
	dirs := 0
	for _, e := range entries {
		if e.IsDir {
			dirs++
			continue
		}
		files[e.Path] = e.Size
	}
	if len(files) != 3 {
		t.Errorf("Entries() files = %v, want 3", files)
	}
	if files["README.md"] != 5 {
		t.Errorf("README.md size = %d, want 5", files["README.md"])
	}
	if dirs == 0 {
		t.Error("Entries() should report directories")
	}
}

func TestOpenTree_Errors(t *testing.T) {
	repoPath := initTestRepoWithCommit(t, map[string]string{"A.java": "class A {}\n"})

	if _, err := OpenTree(repoPath, "no-such-branch"); err == nil {
		t.Error("OpenTree() should fail for an unknown revision")
	}
	if _, err := OpenTree(t.TempDir(), "HEAD"); err == nil {
		t.Error("OpenTree() should fail outside a repository")
	}

	tree, err := OpenTree(repoPath, "HEAD")
	if err != nil {
		t.Fatal(err)
	}
	_, err = tree.File("Missing.java")
	if !errors.Is(err, object.ErrFileNotFound) {
		t.Errorf("File() error = %v, want ErrFileNotFound", err)
	}
}

func TestOpenTree_OlderRevision(t *testing.T) {
	repoPath := initTestRepoWithCommit(t, map[string]string{"A.java": "class A {}\n"})
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		t.Fatal(err)
	}
	first, err := repo.Head()
	if err != nil {
		t.Fatal(err)
	}

	commitFiles(t, repo, repoPath, map[string]string{"A.java": "class A extends B {}\n"})

	tree, err := OpenTree(repoPath, first.Hash().String())
	if err != nil {
		t.Fatalf("OpenTree() error = %v", err)
	}
	content, err := tree.File("A.java")
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "class A {}\n" {
		t.Errorf("File() at first commit = %q", content)
	}
}

func initTestRepoWithCommit(t *testing.T, files map[string]string) string {
	t.Helper()
	repoPath := t.TempDir()
	// Resolve symlinks so RepoPath comparisons hold on macOS temp dirs.
	repoPath, err := filepath.EvalSymlinks(repoPath)
	if err != nil {
		t.Fatal(err)
	}
	repo, err := git.PlainInit(repoPath, false)
	if err != nil {
		t.Fatalf("Failed to init repo: %v", err)
	}
	commitFiles(t, repo, repoPath, files)
	return repoPath
}

func commitFiles(t *testing.T, repo *git.Repository, repoPath string, files map[string]string) {
	t.Helper()
	w, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		full := filepath.Join(repoPath, name)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := w.Add(name); err != nil {
			t.Fatal(err)
		}
	}
	_, err = w.Commit("commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
}
