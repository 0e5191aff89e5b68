// Package sanitize cleans article HTML before it is embedded in a feed.
package sanitize

import "fmt"

// Sanitizer removes noise from article bodies and extracts plain text and
// images from them.
type Sanitizer interface {
	// Clean drops script/noscript/style blocks and lazy-loading attributes.
	Clean(body string) string
	// FirstImage returns the src of the first <img> in body.
	FirstImage(body string) (string, bool)
	// StripTags removes all markup and trims surrounding whitespace.
	StripTags(body string) string
}

// Names accepted by New.
const (
	NameRegexp = "regexp"
	NameDOM    = "dom"
)

// New returns the sanitizer registered under name. An empty name selects the
// regexp implementation.
func New(name string) (Sanitizer, error) {
	switch name {
	case "", NameRegexp:
		return Regexp{}, nil
	case NameDOM:
		return DOM{}, nil
	default:
		return nil, fmt.Errorf("unknown sanitizer %q (want %q or %q)", name, NameRegexp, NameDOM)
	}
}

// droppedAttrs are removed from every element, together with data-*.
var droppedAttrs = map[string]bool{
	"loading":  true,
	"decoding": true,
	"srcset":   true,
	"sizes":    true,
}
