// Package rss holds the canonical feed model and serializes it to RSS 2.0.
package rss

import "time"

// Item is one article ready for serialization. Text fields hold plain,
// unescaped text; escaping happens when the item is rendered.
type Item struct {
	Title       string
	Link        string
	GUID        string
	IsPermaLink bool
	// PublishedAt is already in the source's zone. Zero renders an empty
	// pubDate.
	PublishedAt time.Time
	Author      string
	Summary     string
	// Body is HTML. It is emitted inside CDATA, never escaped. Empty means
	// no content:encoded element.
	Body       string
	Media      *Media
	Categories []string
}

// Media is a featured image.
type Media struct {
	URL  string
	Type string
}

// Channel is one feed: header metadata plus its items in fetch order.
type Channel struct {
	Title       string
	Link        string
	Description string
	SelfURL     string
	// Language defaults to "en".
	Language string
	Items    []Item
}

// HasMedia reports whether any item carries media.
func (c Channel) HasMedia() bool {
	for _, it := range c.Items {
		if it.Media != nil && it.Media.URL != "" {
			return true
		}
	}
	return false
}
