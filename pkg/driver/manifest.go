package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"
)

// ManifestFileName is the conventional manifest name looked up by the CLI.
const ManifestFileName = "rustlet.yml"

// Manifest represents the parsed contents of rustlet.yml.
type Manifest struct {
	Path  string
	Name  string
	Entry string
	Git   *GitSource
	Log   LogConfig
}

// GitSource pins the entry file to a revision of a git repository. URL may
// be a local path or a remote URL.
type GitSource struct {
	URL    string
	Rev    string
	Tag    string
	Branch string
}

// LogConfig configures the CLI's logger.
type LogConfig struct {
	Level  string
	Format string
	File   string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses rustlet.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// EntryPath resolves the entry file relative to the manifest's directory.
// For git sources the entry is a path inside the repository and is
// returned unchanged.
func (m *Manifest) EntryPath() string {
	if m.Git != nil || filepath.IsAbs(m.Entry) {
		return m.Entry
	}
	return filepath.Join(filepath.Dir(m.Path), m.Entry)
}

// Revision returns the git revision to load and a human readable
// descriptor of it. A git source without rev, tag or branch uses HEAD.
func (g *GitSource) Revision() (plumbing.Revision, string) {
	if rev := strings.TrimSpace(g.Rev); rev != "" {
		return plumbing.Revision(rev), rev
	}
	if tag := strings.TrimSpace(g.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag
	}
	if branch := strings.TrimSpace(g.Branch); branch != "" {
		return plumbing.Revision("refs/heads/" + branch), branch
	}
	return plumbing.Revision(plumbing.HEAD), "HEAD"
}

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-]*$`)

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	} else if !namePattern.MatchString(m.Name) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("name %q must be an identifier", m.Name))
	}
	if m.Entry == "" {
		errs.Issues = append(errs.Issues, "entry must be provided")
	} else if !strings.HasSuffix(m.Entry, ".rs") {
		errs.Issues = append(errs.Issues, fmt.Sprintf("entry %q must be a .rs file", m.Entry))
	}
	if g := m.Git; g != nil {
		if g.URL == "" {
			errs.Issues = append(errs.Issues, "git.url must be provided")
		}
		pinned := 0
		for _, field := range []string{g.Rev, g.Tag, g.Branch} {
			if field != "" {
				pinned++
			}
		}
		if pinned > 1 {
			errs.Issues = append(errs.Issues, "git accepts only one of rev, tag, or branch")
		}
		if filepath.IsAbs(m.Entry) {
			errs.Issues = append(errs.Issues, "entry must be relative to the repository root for git sources")
		}
	}
	if _, err := ParseLogLevel(m.Log.Level); err != nil {
		errs.Issues = append(errs.Issues, err.Error())
	}
	switch m.Log.Format {
	case "", "text", "json":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("log.format %q must be text or json", m.Log.Format))
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// ParseLogLevel maps a configured level name to a slog level. The empty
// string means info.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level %q must be debug, info, warn, or error", level)
	}
}

type manifestFile struct {
	Name  string   `yaml:"name"`
	Entry string   `yaml:"entry"`
	Git   *gitYAML `yaml:"git"`
	Log   logYAML  `yaml:"log"`
}

type logYAML struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// gitYAML accepts either a bare URL or a mapping.
type gitYAML struct {
	URL    string
	Rev    string
	Tag    string
	Branch string
}

func (g *gitYAML) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*g = gitYAML{URL: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			URL    string `yaml:"url"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*g = gitYAML{
			URL:    strings.TrimSpace(raw.URL),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
		}
		return nil
	case yaml.AliasNode:
		return g.UnmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("manifest: git must be a string or mapping, found %s", value.ShortTag())
	}
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:  path,
		Name:  strings.TrimSpace(mf.Name),
		Entry: strings.TrimSpace(mf.Entry),
		Log: LogConfig{
			Level:  strings.TrimSpace(mf.Log.Level),
			Format: strings.ToLower(strings.TrimSpace(mf.Log.Format)),
			File:   strings.TrimSpace(mf.Log.File),
		},
	}
	if mf.Git != nil {
		result.Git = &GitSource{URL: mf.Git.URL, Rev: mf.Git.Rev, Tag: mf.Git.Tag, Branch: mf.Git.Branch}
		if isLocalRepository(result.Git.URL) && !filepath.IsAbs(result.Git.URL) {
			result.Git.URL = filepath.Join(filepath.Dir(path), result.Git.URL)
		}
	}
	if result.Log.File != "" && !filepath.IsAbs(result.Log.File) {
		result.Log.File = filepath.Join(filepath.Dir(path), result.Log.File)
	}
	return result
}
