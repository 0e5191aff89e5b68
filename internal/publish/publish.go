// Package publish writes the static site: feed files, the index page and the
// placeholder image.
package publish

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gauthierbraillon/wirefeed/internal/aggregator"
	"github.com/gauthierbraillon/wirefeed/internal/display"
	"github.com/gauthierbraillon/wirefeed/internal/rss"
)

// PlaceholderName is the file name of the fallback image, both on disk and
// as a server route.
const PlaceholderName = "placeholder.png"

// Placeholder is the fallback image shown for posts without one.
//
//go:embed assets/placeholder.png
var Placeholder []byte

// FeedURL joins base and name. An empty base yields the relative name.
func FeedURL(baseURL, name string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return name
	}
	return baseURL + "/" + strings.TrimLeft(name, "/")
}

// Site is an output directory.
type Site struct {
	Dir string
}

// Prepare creates the output directory.
func (s Site) Prepare() error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", s.Dir, err)
	}
	return nil
}

// WriteFeed validates a rendered feed and writes it as name.
func (s Site) WriteFeed(name string, f aggregator.Feed) (display.WrittenFile, error) {
	n, err := rss.Validate(f.XML)
	if err != nil {
		return display.WrittenFile{}, fmt.Errorf("%s failed validation: %w", name, err)
	}
	if err := s.write(name, f.XML); err != nil {
		return display.WrittenFile{}, err
	}
	return display.WrittenFile{Name: name, Items: n}, nil
}

// WriteIndex writes index.html.
func (s Site) WriteIndex(page []byte) (display.WrittenFile, error) {
	if err := s.write("index.html", page); err != nil {
		return display.WrittenFile{}, err
	}
	return display.WrittenFile{Name: "index.html", Items: -1}, nil
}

// CopyPlaceholder writes the embedded placeholder image.
func (s Site) CopyPlaceholder() (display.WrittenFile, error) {
	if err := s.write(PlaceholderName, Placeholder); err != nil {
		return display.WrittenFile{}, err
	}
	return display.WrittenFile{Name: PlaceholderName, Items: -1}, nil
}

// write replaces name through a temporary file so readers never see a
// partial document.
func (s Site) write(name string, data []byte) error {
	path := filepath.Join(s.Dir, name)

	tmp, err := os.CreateTemp(s.Dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
