package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// commitFile writes name into the repository at dir and commits it,
// returning the commit hash.
func commitFile(t *testing.T, repo *git.Repository, dir, name, contents string) string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := worktree.Add(name); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hash, err := worktree.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Rustlet Tests",
			Email: "rustlet@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestLoadSourceFromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.rs"), []byte("fn main() {}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	manifest, err := LoadManifest(writeManifest(t, dir, "name: app\nentry: main.rs\n"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	src, err := LoadSource(context.Background(), manifest)
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if string(src.Text) != "fn main() {}\n" {
		t.Fatalf("unexpected text %q", src.Text)
	}
}

func TestLoadSourceFromGitRevision(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "repo")
	if err := os.MkdirAll(repoDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	repo, err := git.PlainInit(repoDir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	first := commitFile(t, repo, repoDir, "main.rs", "fn main() -> i32 { 1 }\n")
	commitFile(t, repo, repoDir, "main.rs", "fn main() -> i32 { 2 }\n")

	manifest, err := LoadManifest(writeManifest(t, root, "name: app\nentry: main.rs\ngit:\n  url: repo\n  rev: "+first+"\n"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	src, err := LoadSource(context.Background(), manifest)
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if string(src.Text) != "fn main() -> i32 { 1 }\n" {
		t.Fatalf("expected the pinned revision, got %q", src.Text)
	}
	if !strings.Contains(src.Name, first[:7]) {
		t.Fatalf("source name %q should mention the commit", src.Name)
	}

	head, err := LoadManifest(writeManifest(t, root, "name: app\nentry: main.rs\ngit: repo\n"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	src, err = LoadSource(context.Background(), head)
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if string(src.Text) != "fn main() -> i32 { 2 }\n" {
		t.Fatalf("expected HEAD, got %q", src.Text)
	}
}

func TestLoadSourceMissingGitFile(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	commitFile(t, repo, root, "other.rs", "fn main() {}\n")
	manifest := &Manifest{Name: "app", Entry: "main.rs", Git: &GitSource{URL: root}}
	if _, err := LoadSource(context.Background(), manifest); err == nil {
		t.Fatalf("expected missing file error")
	}
}
