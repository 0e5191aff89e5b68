package rss

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/mmcdole/gofeed"
)

// Validate checks that doc is well-formed XML and parses as an RSS feed. It
// returns the number of items a feed reader would see.
func Validate(doc []byte) (int, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("feed is not well-formed: %w", err)
		}
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(doc))
	if err != nil {
		return 0, fmt.Errorf("feed does not parse: %w", err)
	}
	if feed.FeedType != "rss" {
		return 0, fmt.Errorf("feed type is %q, want rss", feed.FeedType)
	}
	return len(feed.Items), nil
}
