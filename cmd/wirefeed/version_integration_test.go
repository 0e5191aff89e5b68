//go:build integration

package main

import (
	"os/exec"
	"strings"
	"testing"
)

// TestBinaryVersion_MatchesGitTag verifies that a binary built with the
// release ldflags reports the git tag.
// Run with: go test -tags=integration ./cmd/wirefeed -v
func TestBinaryVersion_MatchesGitTag(t *testing.T) {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		t.Skipf("Skipping test: git not available or not a git repo: %v", err)
	}
	gitVersion := strings.TrimSpace(string(out))

	bin := t.TempDir() + "/wirefeed"
	build := exec.Command("go", "build", "-ldflags", "-X main.version="+gitVersion, "-o", bin, ".")
	if msg, err := build.CombinedOutput(); err != nil {
		t.Fatalf("build with ldflags failed: %v\n%s", err, msg)
	}

	versionOutput, err := exec.Command(bin, "--version").Output()
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	parts := strings.Fields(strings.TrimSpace(string(versionOutput)))
	if len(parts) < 3 {
		t.Fatalf("unexpected version output format: %s", versionOutput)
	}
	if parts[2] != gitVersion { // "wirefeed version v0.2.0" -> "v0.2.0"
		t.Errorf("Binary version %q does not match git tag %q", parts[2], gitVersion)
	}
}
