package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FixtureKind selects how a fixture's source is parsed.
type FixtureKind string

const (
	FixtureProgram FixtureKind = "program"
	FixtureBlock   FixtureKind = "block"
)

// Fixture is one source text with its expected outcome. Error expectations
// match as substrings of the error message.
type Fixture struct {
	Name   string         `yaml:"name"`
	Kind   FixtureKind    `yaml:"kind"`
	Source string         `yaml:"source"`
	Expect FixtureExpects `yaml:"expect"`

	file string
}

type FixtureExpects struct {
	Value          *string `yaml:"value"`
	Stdout         *string `yaml:"stdout"`
	TypecheckError string  `yaml:"typecheckError"`
	RuntimeError   string  `yaml:"runtimeError"`
}

type fixtureFile struct {
	Cases []Fixture `yaml:"cases"`
}

// FixtureFailure describes a fixture whose outcome did not match.
type FixtureFailure struct {
	File    string
	Name    string
	Problem string
}

func (f FixtureFailure) String() string {
	return fmt.Sprintf("%s: %s: %s", f.File, f.Name, f.Problem)
}

// FixtureReport summarises a fixture run.
type FixtureReport struct {
	Passed   int
	Failures []FixtureFailure
}

func (r *FixtureReport) OK() bool {
	return len(r.Failures) == 0
}

// LoadFixtures decodes every case in a fixture file.
func LoadFixtures(path string) ([]Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var raw fixtureFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("fixtures: parse %s: %w", path, err)
	}
	for i := range raw.Cases {
		fx := &raw.Cases[i]
		fx.file = path
		if fx.Name == "" {
			fx.Name = fmt.Sprintf("case %d", i+1)
		}
		switch fx.Kind {
		case "":
			fx.Kind = FixtureProgram
		case FixtureProgram, FixtureBlock:
		default:
			return nil, fmt.Errorf("fixtures: %s: %s: unknown kind %q", path, fx.Name, fx.Kind)
		}
		if fx.Expect.TypecheckError != "" && fx.Expect.RuntimeError != "" {
			return nil, fmt.Errorf("fixtures: %s: %s: expects both a typecheck and a runtime error", path, fx.Name)
		}
	}
	return raw.Cases, nil
}

// RunFixture runs one fixture and returns a description of the first
// mismatch, or "" when it passed.
func RunFixture(fx Fixture, logger *slog.Logger) string {
	var stdout bytes.Buffer
	p := NewPipeline(WithOutput(&stdout), WithLogger(logger))
	src := &Source{Name: fx.Name, Text: []byte(fx.Source)}

	var (
		result *Result
		err    error
	)
	if fx.Kind == FixtureBlock {
		result, err = p.RunBlock(src)
	} else {
		result, err = p.Run(src)
	}

	expect := fx.Expect
	if err != nil {
		phase, _ := PhaseOf(err)
		switch {
		case expect.TypecheckError != "" && phase == PhaseCheck:
			if !strings.Contains(err.Error(), expect.TypecheckError) {
				return fmt.Sprintf("typecheck error %q does not mention %q", err, expect.TypecheckError)
			}
		case expect.RuntimeError != "" && phase == PhaseRun:
			if !strings.Contains(err.Error(), expect.RuntimeError) {
				return fmt.Sprintf("runtime error %q does not mention %q", err, expect.RuntimeError)
			}
		default:
			return fmt.Sprintf("unexpected %s error: %v", phase, err)
		}
	} else {
		switch {
		case expect.TypecheckError != "":
			return fmt.Sprintf("expected typecheck error %q, program checked", expect.TypecheckError)
		case expect.RuntimeError != "":
			return fmt.Sprintf("expected runtime error %q, program ran", expect.RuntimeError)
		case expect.Value != nil && result.Value.Quoted() != *expect.Value:
			return fmt.Sprintf("value %s, expected %s", result.Value.Quoted(), *expect.Value)
		}
	}
	if expect.Stdout != nil && stdout.String() != *expect.Stdout {
		return fmt.Sprintf("stdout %q, expected %q", stdout.String(), *expect.Stdout)
	}
	return ""
}

// RunFixtureDir runs every *.yml and *.yaml fixture file below dir in
// lexical order.
func RunFixtureDir(dir string, logger *slog.Logger) (*FixtureReport, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yml", ".yaml":
			if filepath.Base(path) != ManifestFileName {
				files = append(files, path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fixtures: walk %s: %w", dir, err)
	}
	sort.Strings(files)

	report := &FixtureReport{}
	for _, file := range files {
		fixtures, err := LoadFixtures(file)
		if err != nil {
			return nil, err
		}
		for _, fx := range fixtures {
			if problem := RunFixture(fx, logger); problem != "" {
				report.Failures = append(report.Failures, FixtureFailure{File: fx.file, Name: fx.Name, Problem: problem})
				continue
			}
			report.Passed++
		}
	}
	return report, nil
}
