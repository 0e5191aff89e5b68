package aggregator

import (
	"context"
	"errors"
	"fmt"

	"github.com/gauthierbraillon/wirefeed/internal/logger"
	"github.com/gauthierbraillon/wirefeed/internal/normalize"
	"github.com/gauthierbraillon/wirefeed/internal/rss"
	"github.com/gauthierbraillon/wirefeed/internal/scroll"
	"github.com/gauthierbraillon/wirefeed/internal/wordpress"
)

// Assembler builds feeds for The Wire and the Scroll newsletter.
type Assembler struct {
	Posts      PostSource
	Newsletter NewsletterSource

	// Wire normalizes WordPress posts; its Profile supplies channel metadata.
	Wire *normalize.Normalizer
	// Scroll normalizes newsletter posts.
	Scroll *normalize.Normalizer

	Renderer *rss.Renderer
	Limit    int
}

// New creates an Assembler with the default renderer and limit.
func New(posts PostSource, newsletter NewsletterSource, wire, scrollNorm *normalize.Normalizer) *Assembler {
	return &Assembler{
		Posts:      posts,
		Newsletter: newsletter,
		Wire:       wire,
		Scroll:     scrollNorm,
		Renderer:   rss.NewRenderer(),
		Limit:      DefaultLimit,
	}
}

// MainFeed assembles the sitewide feed.
func (a *Assembler) MainFeed(ctx context.Context, selfURL string) (Feed, error) {
	p := a.Wire.Profile
	return a.wireFeed(ctx, 0, p.Title, p.Description, selfURL)
}

// CategoryFeed assembles the feed for one category. cat.Name is used as is.
func (a *Assembler) CategoryFeed(ctx context.Context, cat wordpress.Category, selfURL string) (Feed, error) {
	title := fmt.Sprintf("%s - %s", a.Wire.Profile.Name, cat.Name)
	desc := fmt.Sprintf("Latest articles from %s in the %s category.", a.Wire.Profile.Name, cat.Name)
	return a.wireFeed(ctx, cat.ID, title, desc, selfURL)
}

// CategoryFeedBySlug resolves slug and assembles its feed. An unknown slug
// yields an error matching source.ErrNotFound.
func (a *Assembler) CategoryFeedBySlug(ctx context.Context, slug, selfURL string) (Feed, error) {
	cat, err := a.Posts.ResolveCategory(ctx, slug)
	if err != nil {
		return Feed{}, err
	}
	cat.Name = cat.DisplayName()
	return a.CategoryFeed(ctx, cat, selfURL)
}

// QualifyingCategories returns the categories holding more than minPosts
// posts, in upstream order, with decoded names.
func (a *Assembler) QualifyingCategories(ctx context.Context, minPosts int) ([]wordpress.Category, error) {
	all, err := a.Posts.FetchCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	var kept []wordpress.Category
	for _, c := range all {
		if c.Count <= minPosts {
			continue
		}
		c.Name = c.DisplayName()
		kept = append(kept, c)
	}
	return kept, nil
}

// CategoryFeeds assembles a feed for each category in order. A category that
// fails is recorded and the rest still run; only context cancellation stops
// the fold early.
func (a *Assembler) CategoryFeeds(ctx context.Context, cats []wordpress.Category, selfURL func(slug string) string) ([]CategoryResult, []CategoryFailure) {
	var (
		results  []CategoryResult
		failures []CategoryFailure
	)

	for i, cat := range cats {
		if err := ctx.Err(); err != nil {
			for _, rest := range cats[i:] {
				failures = append(failures, CategoryFailure{Category: rest, Err: err})
			}
			break
		}

		logger.Debugf("fetching category %s (%s)", cat.Name, cat.Slug)
		feed, err := a.CategoryFeed(ctx, cat, selfURL(cat.Slug))
		if err != nil {
			logger.Warnf("skipping category %s: %v", cat.Slug, err)
			failures = append(failures, CategoryFailure{Category: cat, Err: err})
			continue
		}
		results = append(results, CategoryResult{Category: cat, Feed: feed})
	}

	return results, failures
}

// NewsletterFeed assembles the Scroll newsletter feed.
func (a *Assembler) NewsletterFeed(ctx context.Context, selfURL string) (Feed, error) {
	if a.Newsletter == nil || a.Scroll == nil {
		return Feed{}, errors.New("newsletter source not configured")
	}

	posts, err := a.Newsletter.FetchPosts(ctx)
	if err != nil {
		return Feed{}, fmt.Errorf("failed to fetch newsletter: %w", err)
	}

	items, err := normalize.NormalizeAll[scroll.Post](a.Scroll, posts)
	if err != nil {
		return Feed{}, fmt.Errorf("failed to normalize newsletter: %w", err)
	}

	p := a.Scroll.Profile
	return a.render(rss.Channel{
		Title:       p.Title,
		Link:        p.SiteURL,
		Description: p.Description,
		SelfURL:     selfURL,
		Items:       items,
	}), nil
}

func (a *Assembler) wireFeed(ctx context.Context, categoryID int, title, desc, selfURL string) (Feed, error) {
	limit := a.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	posts, err := a.Posts.FetchPosts(ctx, limit, categoryID)
	if err != nil {
		return Feed{}, fmt.Errorf("failed to fetch posts: %w", err)
	}

	items, err := normalize.NormalizeAll[wordpress.Post](a.Wire, posts)
	if err != nil {
		return Feed{}, fmt.Errorf("failed to normalize posts: %w", err)
	}

	return a.render(rss.Channel{
		Title:       title,
		Link:        a.Wire.Profile.SiteURL,
		Description: desc,
		SelfURL:     selfURL,
		Items:       items,
	}), nil
}

func (a *Assembler) render(ch rss.Channel) Feed {
	r := a.Renderer
	if r == nil {
		r = rss.NewRenderer()
	}
	return Feed{Channel: ch, XML: r.Render(ch)}
}
