package driver

import (
	"context"
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Source is program text together with the name diagnostics refer to.
type Source struct {
	Name string
	Text []byte
}

// LoadSource reads the manifest's entry file, from disk or from the pinned
// git revision.
func LoadSource(ctx context.Context, m *Manifest) (*Source, error) {
	if m == nil {
		return nil, fmt.Errorf("source: nil manifest")
	}
	if m.Git == nil {
		return ReadSourceFile(m.EntryPath())
	}
	return loadGitSource(ctx, m.Git, m.Entry)
}

// ReadSourceFile reads a program from disk.
func ReadSourceFile(path string) (*Source, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	return &Source{Name: path, Text: text}, nil
}

func isLocalRepository(url string) bool {
	return url != "" && !strings.Contains(url, "://") && !strings.HasPrefix(url, "git@")
}

// loadGitSource opens local repositories in place and clones remote ones
// into memory, then reads path from the resolved commit's tree.
func loadGitSource(ctx context.Context, src *GitSource, path string) (*Source, error) {
	var (
		repo *git.Repository
		err  error
	)
	if isLocalRepository(src.URL) {
		repo, err = git.PlainOpenWithOptions(src.URL, &git.PlainOpenOptions{DetectDotGit: true})
		if err != nil {
			return nil, fmt.Errorf("source: open repository %s: %w", src.URL, err)
		}
	} else {
		repo, err = git.CloneContext(ctx, memory.NewStorage(), nil, &git.CloneOptions{URL: src.URL})
		if err != nil {
			return nil, fmt.Errorf("source: git clone %s: %w", src.URL, err)
		}
	}

	revision, descriptor := src.Revision()
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		return nil, fmt.Errorf("source: resolve revision %s: %w", descriptor, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("source: load commit %s: %w", hash, err)
	}
	file, err := commit.File(strings.TrimPrefix(path, "./"))
	if err != nil {
		return nil, fmt.Errorf("source: %s at %s: %w", path, descriptor, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("source: read %s at %s: %w", path, descriptor, err)
	}
	return &Source{Name: fmt.Sprintf("%s@%s:%s", src.URL, hash.String()[:7], path), Text: []byte(contents)}, nil
}
