// Package aggregator assembles complete RSS documents from the source clients.
//
// An Assembler fetches raw posts, maps them through a normalize.Normalizer and
// renders the channel. It is sequential; callers that want concurrency run
// several feeds themselves.
package aggregator

import (
	"context"

	"github.com/gauthierbraillon/wirefeed/internal/rss"
	"github.com/gauthierbraillon/wirefeed/internal/scroll"
	"github.com/gauthierbraillon/wirefeed/internal/wordpress"
)

// DefaultLimit is the number of posts per Wire feed.
const DefaultLimit = 30

// PostSource is the subset of the WordPress client the assembler needs.
type PostSource interface {
	FetchPosts(ctx context.Context, limit, categoryID int) ([]wordpress.Post, error)
	FetchCategories(ctx context.Context) ([]wordpress.Category, error)
	ResolveCategory(ctx context.Context, slug string) (wordpress.Category, error)
}

// NewsletterSource is the subset of the Scroll client the assembler needs.
type NewsletterSource interface {
	FetchPosts(ctx context.Context) ([]scroll.Post, error)
}

// Feed is a rendered document together with the channel it came from.
type Feed struct {
	Channel rss.Channel
	XML     []byte
}

// Len returns the number of items in the feed.
func (f Feed) Len() int {
	return len(f.Channel.Items)
}

// CategoryResult is one successfully assembled category feed.
type CategoryResult struct {
	Category wordpress.Category
	Feed     Feed
}

// CategoryFailure records a category whose feed could not be assembled.
type CategoryFailure struct {
	Category wordpress.Category
	Err      error
}
