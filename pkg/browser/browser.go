// Package browser opens feed pages in the user's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// start launches the platform opener. Tests replace it.
var start = func(name string, args ...string) error {
	return exec.Command(name, args...).Start() // #nosec G204 -- arguments validated by Open
}

// Open opens the specified URL in the default browser. Only http, https and
// absolute file URLs are accepted, so nothing else reaches the system opener.
func Open(urlString string) error {
	if err := Validate(urlString); err != nil {
		return err
	}

	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd":
		return start("xdg-open", urlString)
	case "darwin":
		return start("open", urlString)
	case "windows":
		return start("rundll32", "url.dll,FileProtocolHandler", urlString)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Validate reports whether urlString may be handed to the system opener.
func Validate(urlString string) error {
	if strings.ContainsAny(urlString, "\x00\r\n") {
		return fmt.Errorf("invalid URL: control character in %q", urlString)
	}

	parsedURL, err := url.Parse(urlString)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	switch parsedURL.Scheme {
	case "http", "https":
		if parsedURL.Host == "" {
			return fmt.Errorf("invalid URL: missing host in %q", urlString)
		}
		return nil
	case "file":
		if parsedURL.Host != "" || !strings.HasPrefix(parsedURL.Path, "/") {
			return fmt.Errorf("invalid URL: file URL must be absolute: %q", urlString)
		}
		return nil
	default:
		return fmt.Errorf("unsupported URL scheme: %s (only http, https and file allowed)", parsedURL.Scheme)
	}
}

// FileURL returns the file:// URL of a local path.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String(), nil
}
