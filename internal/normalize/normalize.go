// Package normalize maps raw upstream records onto rss.Item.
//
// Each source kind has its own mapping; Normalizer dispatches on the record's
// Kind and applies the per-source fallbacks from its source.Profile.
package normalize

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/gauthierbraillon/wirefeed/internal/rss"
	"github.com/gauthierbraillon/wirefeed/internal/sanitize"
	"github.com/gauthierbraillon/wirefeed/internal/scroll"
	"github.com/gauthierbraillon/wirefeed/internal/source"
	"github.com/gauthierbraillon/wirefeed/internal/wordpress"
)

const (
	untitled = "Untitled"

	defaultImageType     = "image/jpeg"
	placeholderImageType = "image/png"
)

// wordpressDateLayouts are tried in order. WordPress "date" carries no
// offset and is local to the site.
var wordpressDateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// Normalizer turns raw posts into feed items for one source.
type Normalizer struct {
	Profile   source.Profile
	Sanitizer sanitize.Sanitizer
}

// New creates a Normalizer. A nil sanitizer selects sanitize.Regexp.
func New(profile source.Profile, s sanitize.Sanitizer) *Normalizer {
	if s == nil {
		s = sanitize.Regexp{}
	}
	if profile.Location == nil {
		profile.Location = time.UTC
	}
	return &Normalizer{Profile: profile, Sanitizer: s}
}

// Normalize maps one raw post.
func (n *Normalizer) Normalize(raw source.RawPost) (rss.Item, error) {
	switch raw.Kind() {
	case source.KindWordPress:
		p, ok := raw.(wordpress.Post)
		if !ok {
			return rss.Item{}, fmt.Errorf("wordpress record has type %T", raw)
		}
		return n.fromWordPress(p)
	case source.KindScroll:
		p, ok := raw.(scroll.Post)
		if !ok {
			return rss.Item{}, fmt.Errorf("scroll record has type %T", raw)
		}
		return n.fromScroll(p), nil
	default:
		return rss.Item{}, fmt.Errorf("unsupported source kind %q", raw.Kind())
	}
}

// NormalizeAll maps posts in order and stops at the first post that cannot
// be mapped.
func NormalizeAll[P source.RawPost](n *Normalizer, posts []P) ([]rss.Item, error) {
	items := make([]rss.Item, 0, len(posts))
	for i, p := range posts {
		item, err := n.Normalize(p)
		if err != nil {
			return nil, fmt.Errorf("post %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// ParseDate parses value with the first matching layout. Values without an
// offset are read in loc; the result is always expressed in loc. It returns
// the zero time when nothing matches.
func ParseDate(value string, loc *time.Location, layouts ...string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.In(loc)
		}
	}
	return time.Time{}
}

func decodeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
