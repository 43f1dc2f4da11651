package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/driver"
)

func TestNeedsMoreInput(t *testing.T) {
	cases := map[string]bool{
		"let a = 1;":              false,
		"fn f() -> i32 {":         true,
		"while a < 3 {\n a += 1;": true,
		"println!(\"{\", 1":       true,
		"let = ;":                 false,
		":quit":                   false,
		"let s = \"{\";":          false,
	}
	for src, want := range cases {
		if got := needsMoreInput(src); got != want {
			t.Fatalf("needsMoreInput(%q) = %v, want %v", src, got, want)
		}
	}
}

func TestHandleReplCommand(t *testing.T) {
	var out bytes.Buffer
	oldOut := stdout
	stdout = &out
	defer func() { stdout = oldOut }()

	session := driver.NewSession(&out, nil)
	evalInput(session, "let answer = 42;")
	if handleReplCommand(session, ":vars") {
		t.Fatalf(":vars should not exit")
	}
	if !strings.Contains(out.String(), "answer") {
		t.Fatalf("output = %q", out.String())
	}
	if !handleReplCommand(session, ":quit") {
		t.Fatalf(":quit should exit")
	}
}
