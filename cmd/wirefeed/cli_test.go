// Package main tests document the expected behavior of the wirefeed CLI.
//
// These are BLACK BOX tests - they test the CLI by executing the binary
// and checking stdout/stderr output and the files it writes.
//
// External dependencies mocked:
// - The WordPress API and the Scroll page via pkg/contracts.Upstream,
//   wired in through a config file passed with WIREFEED_CONFIG
//
// Test requirements (this file serves as documentation):
// - CLI has root command with version info and serve/generate/config commands
// - "generate" writes the static site and reports what it wrote
// - "generate" exits non-zero when the main feed or the newsletter fails
// - "serve" answers feeds over HTTP and stops on interrupt
// - "config" prints the effective configuration
package main

import (
	"bufio"
	"bytes"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/gauthierbraillon/wirefeed/pkg/contracts"
)

var binaryPath string

// TestMain builds the binary once before running tests.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "wirefeed-test")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(dir, "wirefeed")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = "."
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("failed to build binary: " + err.Error() + "\n" + string(out))
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// writeConfig points the binary at the fake upstream.
func writeConfig(t *testing.T, up *contracts.Upstream, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wirefeed.yaml")
	content := "sources:\n" +
		"  wordpress_url: " + up.WordPressURL() + "\n" +
		"  scroll_url: " + up.ScrollURL() + "\n" + extra
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func command(env map[string]string, args ...string) *exec.Cmd {
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = os.TempDir()
	cmd.Env = append(os.Environ(), "BASE_URL=", "WIREFEED_CONFIG=")
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	return cmd
}

// runCLI executes the CLI binary with given arguments and environment.
func runCLI(t *testing.T, env map[string]string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	cmd := command(env, args...)
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("failed to run command: %v", err)
	}

	return outBuf.String(), errBuf.String(), exitCode
}

// TestRootCommand_Help verifies help output shows available commands.
func TestRootCommand_Help(t *testing.T) {
	stdout, _, _ := runCLI(t, nil, "--help")
	output := strings.ToLower(stdout)

	for _, want := range []string{"wirefeed", "usage", "serve", "generate", "config", "--log-level"} {
		if !strings.Contains(output, want) {
			t.Errorf("help should contain %q, got:\n%s", want, stdout)
		}
	}
}

// TestRootCommand_Version verifies version output.
func TestRootCommand_Version(t *testing.T) {
	stdout, _, _ := runCLI(t, nil, "--version")

	if !strings.HasPrefix(stdout, "wirefeed version ") {
		t.Errorf("version should show wirefeed and version, got:\n%s", stdout)
	}
}

// TestGenerateCommand_Help verifies generate help shows its options.
func TestGenerateCommand_Help(t *testing.T) {
	stdout, _, _ := runCLI(t, nil, "generate", "--help")

	for _, want := range []string{"--out", "--newsletter", "--open"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("generate help should contain %q, got:\n%s", want, stdout)
		}
	}
}

// TestGenerateCommand_WritesSite verifies a full static run.
func TestGenerateCommand_WritesSite(t *testing.T) {
	up := contracts.NewUpstream()
	defer up.Close()
	out := filepath.Join(t.TempDir(), "site")

	stdout, stderr, exitCode := runCLI(t, map[string]string{
		"WIREFEED_CONFIG": writeConfig(t, up, ""),
		"BASE_URL":        "https://feeds.example.com/",
	}, "generate", "--out", out)

	if exitCode != 0 {
		t.Fatalf("generate should succeed, got exit code %d\nstdout:\n%s\nstderr:\n%s", exitCode, stdout, stderr)
	}
	for _, want := range []string{"Wrote feed.xml (2 posts)", "Wrote law.xml (1 post)", "Wrote index.html", "Wrote scroll.xml (2 posts)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output should contain %q, got:\n%s", want, stdout)
		}
	}

	data, err := os.ReadFile(filepath.Join(out, "feed.xml"))
	if err != nil {
		t.Fatalf("feed.xml should exist: %v", err)
	}
	if !bytes.Contains(data, []byte(`<atom:link href="https://feeds.example.com/feed.xml"`)) {
		t.Error("BASE_URL should drive self links")
	}
	for _, name := range []string{"politics.xml", "science.xml", "index.html", "placeholder.png", "scroll.xml"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s should exist: %v", name, err)
		}
	}
}

// TestGenerateCommand_SkipsNewsletter verifies --newsletter=false.
func TestGenerateCommand_SkipsNewsletter(t *testing.T) {
	up := contracts.NewUpstream(contracts.FailNewsletter())
	defer up.Close()
	out := t.TempDir()

	_, stderr, exitCode := runCLI(t, map[string]string{"WIREFEED_CONFIG": writeConfig(t, up, "")},
		"generate", "--out", out, "--newsletter=false")

	if exitCode != 0 {
		t.Fatalf("newsletter should not be fetched, got exit code %d:\n%s", exitCode, stderr)
	}
	if _, err := os.Stat(filepath.Join(out, "scroll.xml")); err == nil {
		t.Error("scroll.xml should not be written")
	}
}

// TestGenerateCommand_NewsletterFailureExitsNonZero verifies the newsletter
// failure policy: Wire files stay, exit status reports the failure.
func TestGenerateCommand_NewsletterFailureExitsNonZero(t *testing.T) {
	up := contracts.NewUpstream(contracts.FailNewsletter())
	defer up.Close()
	out := t.TempDir()

	stdout, stderr, exitCode := runCLI(t, map[string]string{"WIREFEED_CONFIG": writeConfig(t, up, "")},
		"generate", "--out", out)

	if exitCode == 0 {
		t.Error("generate should fail when the newsletter fails")
	}
	if !strings.Contains(stderr, "HTTP 503") {
		t.Errorf("error should mention the upstream status, got:\n%s", stderr)
	}
	if !strings.Contains(stdout, "Wrote feed.xml") {
		t.Errorf("Wire files should still be reported, got:\n%s", stdout)
	}
	if _, err := os.Stat(filepath.Join(out, "feed.xml")); err != nil {
		t.Errorf("feed.xml should exist: %v", err)
	}
}

// TestGenerateCommand_SkippedCategoryIsReported verifies the skip policy.
func TestGenerateCommand_SkippedCategoryIsReported(t *testing.T) {
	up := contracts.NewUpstream(contracts.FailCategory(1))
	defer up.Close()

	stdout, stderr, exitCode := runCLI(t, map[string]string{"WIREFEED_CONFIG": writeConfig(t, up, "")},
		"generate", "--out", t.TempDir())

	if exitCode != 0 {
		t.Fatalf("one failing category should not fail the run:\n%s", stderr)
	}
	if !strings.Contains(stdout, "Skipped politics") {
		t.Errorf("output should report the skipped category, got:\n%s", stdout)
	}
}

// TestGenerateCommand_MainFeedFailure verifies the main feed is fatal.
func TestGenerateCommand_MainFeedFailure(t *testing.T) {
	up := contracts.NewUpstream(contracts.FailPosts())
	defer up.Close()

	_, stderr, exitCode := runCLI(t, map[string]string{"WIREFEED_CONFIG": writeConfig(t, up, "")},
		"generate", "--out", t.TempDir())

	if exitCode == 0 {
		t.Error("generate should fail when the main feed fails")
	}
	if !strings.Contains(stderr, "main feed") {
		t.Errorf("error should name the main feed, got:\n%s", stderr)
	}
}

// TestServeCommand_ServesFeeds starts the server, fetches a feed and stops it.
func TestServeCommand_ServesFeeds(t *testing.T) {
	up := contracts.NewUpstream()
	defer up.Close()

	cmd := command(map[string]string{"WIREFEED_CONFIG": writeConfig(t, up, "")}, "serve", "--addr", "127.0.0.1:0")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.Fatal(err)
	}
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	defer func() { _ = cmd.Process.Kill() }()

	urlCh := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			if u, ok := strings.CutPrefix(scanner.Text(), "Serving on "); ok {
				urlCh <- u
				break
			}
		}
		_, _ = io.Copy(io.Discard, stdout)
	}()

	var base string
	select {
	case base = <-urlCh:
	case <-time.After(10 * time.Second):
		t.Fatal("server did not report its address")
	}

	resp, err := http.Get(base + "/feed/law")
	if err != nil {
		t.Fatalf("GET /feed/law: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("user should get 200, got %d: %s", resp.StatusCode, body)
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("response should be a feed: %v", err)
	}
	if feed.Title != "The Wire - Law & Justice" {
		t.Errorf("title = %q", feed.Title)
	}

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		t.Fatalf("failed to interrupt server: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("server should exit cleanly on interrupt, got %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("server did not stop")
	}
}

// TestConfigCommand_PrintsEffectiveConfig verifies config output.
func TestConfigCommand_PrintsEffectiveConfig(t *testing.T) {
	up := contracts.NewUpstream()
	defer up.Close()

	stdout, _, exitCode := runCLI(t, map[string]string{
		"WIREFEED_CONFIG": writeConfig(t, up, "feed:\n  limit: 12\n"),
		"BASE_URL":        "https://feeds.example.com",
	}, "config")

	if exitCode != 0 {
		t.Fatalf("config should succeed, got exit code %d", exitCode)
	}
	for _, want := range []string{"base_url: https://feeds.example.com", "limit: 12", up.WordPressURL(), "min_category_posts: 10"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config output should contain %q, got:\n%s", want, stdout)
		}
	}
}

// TestConfigCommand_RejectsBadLogLevel verifies flag validation.
func TestConfigCommand_RejectsBadLogLevel(t *testing.T) {
	_, stderr, exitCode := runCLI(t, nil, "config", "--log-level", "loud")

	if exitCode == 0 {
		t.Error("should fail with an unknown log level")
	}
	if !strings.Contains(stderr, "log level") {
		t.Errorf("error should mention the log level, got:\n%s", stderr)
	}
}
