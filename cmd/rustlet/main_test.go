package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/driver"
)

// runCLI runs the CLI with captured output streams.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	defer func() {
		stdout, stderr = oldOut, oldErr
	}()
	code := run(args)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func initGitRepo(t *testing.T, dir, name, contents string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	writeFile(t, filepath.Join(dir, name), contents)
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := worktree.Add(name); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Rustlet CLI",
			Email: "rustlet@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, driver.ManifestFileName), "name: test\nentry: main.rs")
	child := filepath.Join(root, "src", "app")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := findManifest(child)
	if err != nil {
		t.Fatalf("findManifest returned error: %v", err)
	}
	if want := filepath.Join(root, driver.ManifestFileName); found != want {
		t.Fatalf("findManifest = %q, want %q", found, want)
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "--version")
	if code != 0 || strings.TrimSpace(out) != cliToolVersion {
		t.Fatalf("version: code %d, output %q", code, out)
	}
}

func TestUsageOnNoArguments(t *testing.T) {
	code, _, errOut := runCLI(t)
	if code != 1 || !strings.Contains(errOut, "Usage:") {
		t.Fatalf("code %d, stderr %q", code, errOut)
	}
}

func TestRunDirectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	writeFile(t, path, `
fn main() -> i32 {
    let a = 3;
    println!("a = {}", a);
    a * 2
}
`)
	code, out, errOut := runCLI(t, path)
	if code != 0 {
		t.Fatalf("run returned %d: %s", code, errOut)
	}
	if out != "a = 3\n6\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRunUnitMainPrintsOnlyProgramOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	writeFile(t, path, `fn main() { print!("hi"); }`)
	code, out, errOut := runCLI(t, "run", path)
	if code != 0 || out != "hi" {
		t.Fatalf("code %d, stdout %q, stderr %q", code, out, errOut)
	}
}

func TestRunFailsOnTypecheckError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	writeFile(t, path, `
fn main() {
    println!("never");
    let a = 1;
    a = 2;
}
`)
	code, out, errOut := runCLI(t, "run", path)
	if code != 1 {
		t.Fatalf("expected failure, got %d", code)
	}
	if out != "" {
		t.Fatalf("program should not run, stdout %q", out)
	}
	if !strings.Contains(errOut, "check error") || !strings.Contains(errOut, "cannot assign twice to 'a'") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestRunManifestDirectoryWithLogFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "main.rs"), `fn main() -> bool { 1 < 2 }`)
	writeFile(t, filepath.Join(dir, driver.ManifestFileName), `
name: app
entry: src/main.rs
log:
  level: debug
  file: logs/run.json
`)
	code, out, errOut := runCLI(t, "run", dir)
	if code != 0 || out != "true\n" {
		t.Fatalf("code %d, stdout %q, stderr %q", code, out, errOut)
	}
	logData, err := os.ReadFile(filepath.Join(dir, "logs", "run.json"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(logData), `"msg":"checked"`) {
		t.Fatalf("log file missing debug records: %s", logData)
	}
	if !strings.Contains(errOut, "level=DEBUG") {
		t.Fatalf("stderr should carry text logs: %q", errOut)
	}
}

func TestRunManifestFromGitRevision(t *testing.T) {
	root := t.TempDir()
	hash := initGitRepo(t, filepath.Join(root, "repo"), "main.rs", `fn main() -> i32 { 41 + 1 }`)
	manifestPath := filepath.Join(root, driver.ManifestFileName)
	writeFile(t, manifestPath, "name: pinned\nentry: main.rs\ngit:\n  url: repo\n  rev: "+hash)

	code, out, errOut := runCLI(t, "run", manifestPath)
	if code != 0 || out != "42\n" {
		t.Fatalf("code %d, stdout %q, stderr %q", code, out, errOut)
	}
}

func TestRunWithoutManifestNearby(t *testing.T) {
	dir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	defer func() {
		if chdirErr := os.Chdir(oldWD); chdirErr != nil {
			t.Fatalf("restore working directory: %v", chdirErr)
		}
	}()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	code, _, errOut := runCLI(t, "run")
	if code != 1 || !strings.Contains(errOut, driver.ManifestFileName) {
		t.Fatalf("code %d, stderr %q", code, errOut)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	writeFile(t, path, `fn main() -> i32 { let r = &5; *r }`)
	code, out, errOut := runCLI(t, "check", path)
	if code != 0 || !strings.Contains(out, "ok (main returns i32)") {
		t.Fatalf("code %d, stdout %q, stderr %q", code, out, errOut)
	}
}

func TestEvalCommand(t *testing.T) {
	code, out, errOut := runCLI(t, "eval", `let s = "hi";`, `&s`)
	if code != 0 || out != "&\"hi\" : &String\n" {
		t.Fatalf("code %d, stdout %q, stderr %q", code, out, errOut)
	}
	code, _, errOut = runCLI(t, "eval", "1 / 0")
	if code != 1 || !strings.Contains(errOut, "run error") || !strings.Contains(errOut, "division by zero") {
		t.Fatalf("code %d, stderr %q", code, errOut)
	}
}

func TestTestCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cases.yml"), `
cases:
  - name: sum
    kind: block
    source: "let mut a = 1; a += 2; a"
    expect:
      value: "3"
  - name: greeting
    source: |
      fn main() { println!("hello"); }
    expect:
      stdout: "hello\n"
`)
	code, out, _ := runCLI(t, "test", dir)
	if code != 0 || !strings.Contains(out, "2 passed, 0 failed") {
		t.Fatalf("code %d, stdout %q", code, out)
	}

	writeFile(t, filepath.Join(dir, "broken.yml"), `
cases:
  - name: wrong
    kind: block
    source: "1"
    expect:
      value: "2"
`)
	code, out, _ = runCLI(t, "test", dir)
	if code != 1 || !strings.Contains(out, "FAIL") || !strings.Contains(out, "2 passed, 1 failed") {
		t.Fatalf("code %d, stdout %q", code, out)
	}
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	t.Setenv(logEnvVar, "chatty")
	if _, _, err := newLogger(driver.LogConfig{}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	code, _, errOut := runCLI(t, "eval", "1")
	if code != 1 || !strings.Contains(errOut, "failed to configure logging") {
		t.Fatalf("code %d, stderr %q", code, errOut)
	}
}
