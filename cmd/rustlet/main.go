package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/ast"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/driver"
)

const cliToolVersion = "rustlet 0.0.0-dev"

// logEnvVar overrides the manifest's log level.
const logEnvVar = "RUSTLET_LOG"

var errManifestNotFound = errors.New(driver.ManifestFileName + " not found")

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "check":
		return runCheck(args[1:])
	case "eval":
		return runEval(args[1:])
	case "test":
		return runTests(args[1:])
	case "repl":
		return runREPL(args[1:])
	default:
		if strings.HasPrefix(args[0], "-") {
			fmt.Fprintf(stderr, "unknown flag %s\n", args[0])
			printUsage()
			return 1
		}
		return runEntry(args)
	}
}

func runEntry(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}
	src, manifest, err := resolveSource(args)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	logger, closeLog, err := newLogger(logConfigOf(manifest))
	if err != nil {
		fmt.Fprintf(stderr, "failed to configure logging: %v\n", err)
		return 1
	}
	defer closeLog()

	result, err := driver.NewPipeline(driver.WithOutput(stdout), driver.WithLogger(logger)).Run(src)
	if err != nil {
		reportError(err)
		return 1
	}
	if !result.Type.Equal(ast.UnitType()) {
		fmt.Fprintln(stdout, result.Display)
	}
	return 0
}

func runCheck(args []string) int {
	if len(args) > 1 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}
	src, manifest, err := resolveSource(args)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	logger, closeLog, err := newLogger(logConfigOf(manifest))
	if err != nil {
		fmt.Fprintf(stderr, "failed to configure logging: %v\n", err)
		return 1
	}
	defer closeLog()

	_, typ, err := driver.NewPipeline(driver.WithLogger(logger)).Check(src)
	if err != nil {
		reportError(err)
		return 1
	}
	fmt.Fprintf(stdout, "%s: ok (main returns %s)\n", src.Name, typ)
	return 0
}

func runEval(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "rustlet eval requires a snippet")
		return 1
	}
	logger, closeLog, err := newLogger(driver.LogConfig{})
	if err != nil {
		fmt.Fprintf(stderr, "failed to configure logging: %v\n", err)
		return 1
	}
	defer closeLog()

	src := &driver.Source{Name: "<eval>", Text: []byte(strings.Join(args, " "))}
	result, err := driver.NewPipeline(driver.WithOutput(stdout), driver.WithLogger(logger)).RunBlock(src)
	if err != nil {
		reportError(err)
		return 1
	}
	fmt.Fprintf(stdout, "%s : %s\n", result.Display, result.Type)
	return 0
}

func runTests(args []string) int {
	dir := "."
	switch len(args) {
	case 0:
	case 1:
		dir = args[0]
	default:
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}
	logger, closeLog, err := newLogger(driver.LogConfig{})
	if err != nil {
		fmt.Fprintf(stderr, "failed to configure logging: %v\n", err)
		return 1
	}
	defer closeLog()

	report, err := driver.RunFixtureDir(dir, logger)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	for _, failure := range report.Failures {
		fmt.Fprintf(stdout, "FAIL %s\n", failure)
	}
	fmt.Fprintf(stdout, "%d passed, %d failed\n", report.Passed, len(report.Failures))
	if !report.OK() {
		return 1
	}
	return 0
}

// resolveSource finds the program named by args. With no argument the
// nearest manifest above the working directory is used; a directory or a
// manifest path selects that manifest; anything else is read as a source
// file, picking up a manifest next to it for logging settings.
func resolveSource(args []string) (*driver.Source, *driver.Manifest, error) {
	if len(args) == 0 {
		manifestPath, err := findManifest(".")
		if err != nil {
			return nil, nil, fmt.Errorf("rustlet requires a source file or a %s: %w", driver.ManifestFileName, err)
		}
		return sourceFromManifest(manifestPath)
	}

	target := args[0]
	info, err := os.Stat(target)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read %s: %w", target, err)
	}
	if info.IsDir() {
		return sourceFromManifest(filepath.Join(target, driver.ManifestFileName))
	}
	if filepath.Base(target) == driver.ManifestFileName {
		return sourceFromManifest(target)
	}

	src, err := driver.ReadSourceFile(target)
	if err != nil {
		return nil, nil, err
	}
	manifestPath, err := findManifest(filepath.Dir(target))
	switch {
	case err == nil:
		manifest, loadErr := driver.LoadManifest(manifestPath)
		if loadErr != nil {
			fmt.Fprintf(stderr, "warning: ignoring manifest %s: %v\n", manifestPath, loadErr)
			return src, nil, nil
		}
		return src, manifest, nil
	case errors.Is(err, errManifestNotFound):
		return src, nil, nil
	default:
		return nil, nil, err
	}
}

func sourceFromManifest(path string) (*driver.Source, *driver.Manifest, error) {
	manifest, err := driver.LoadManifest(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	src, err := driver.LoadSource(context.Background(), manifest)
	if err != nil {
		return nil, nil, err
	}
	return src, manifest, nil
}

func logConfigOf(manifest *driver.Manifest) driver.LogConfig {
	if manifest == nil {
		return driver.LogConfig{}
	}
	return manifest.Log
}

func reportError(err error) {
	if phase, ok := driver.PhaseOf(err); ok {
		fmt.Fprintf(stderr, "%s error: %v\n", phase, err)
		return
	}
	fmt.Fprintf(stderr, "%v\n", err)
}

func findManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, driver.ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", driver.ManifestFileName, origin, errManifestNotFound)
		}
		dir = parent
	}
}

func printUsage() {
	fmt.Fprintln(stderr, "Usage:")
	fmt.Fprintln(stderr, "  rustlet run [file.rs | dir | "+driver.ManifestFileName+"]")
	fmt.Fprintln(stderr, "  rustlet <file.rs>")
	fmt.Fprintln(stderr, "  rustlet check [file.rs | dir | "+driver.ManifestFileName+"]")
	fmt.Fprintln(stderr, "  rustlet eval <statements>")
	fmt.Fprintln(stderr, "  rustlet test [fixture dir]")
	fmt.Fprintln(stderr, "  rustlet repl")
	fmt.Fprintln(stderr, "  rustlet version")
	fmt.Fprintln(stderr, "Environment:")
	fmt.Fprintln(stderr, "  "+logEnvVar+"=debug|info|warn|error")
}
