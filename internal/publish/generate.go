package publish

import (
	"context"
	"fmt"

	"github.com/gauthierbraillon/wirefeed/internal/aggregator"
	"github.com/gauthierbraillon/wirefeed/internal/display"
	"github.com/gauthierbraillon/wirefeed/internal/logger"
)

// Options control a static run.
type Options struct {
	BaseURL          string
	MinCategoryPosts int
	Newsletter       bool
}

// Report lists what a static run produced.
type Report struct {
	Written []display.WrittenFile
	Skipped []display.SkippedFeed
}

// Generate performs a full static run into site. The main feed, the category
// listing and the newsletter are fatal; a single category that fails is
// skipped. The newsletter runs after the Wire feeds, so they are on disk even
// when it fails; the index is written either way. The returned Report is
// valid on error.
func Generate(ctx context.Context, a *aggregator.Assembler, site Site, opts Options) (Report, error) {
	var rep Report

	if err := site.Prepare(); err != nil {
		return rep, err
	}

	logger.Infof("fetching main feed")
	mainFeed, err := a.MainFeed(ctx, FeedURL(opts.BaseURL, "feed.xml"))
	if err != nil {
		return rep, fmt.Errorf("main feed: %w", err)
	}
	if err := rep.add(site.WriteFeed("feed.xml", mainFeed)); err != nil {
		return rep, err
	}

	logger.Infof("fetching categories")
	cats, err := a.QualifyingCategories(ctx, opts.MinCategoryPosts)
	if err != nil {
		return rep, err
	}
	logger.Infof("found %d categories with more than %d posts", len(cats), opts.MinCategoryPosts)

	results, failures := a.CategoryFeeds(ctx, cats, func(slug string) string {
		return FeedURL(opts.BaseURL, slug+".xml")
	})
	for _, f := range failures {
		rep.Skipped = append(rep.Skipped, display.SkippedFeed{Slug: f.Category.Slug, Reason: f.Err.Error()})
	}

	var entries []display.IndexEntry
	for _, r := range results {
		name := r.Category.Slug + ".xml"
		w, err := site.WriteFeed(name, r.Feed)
		if err != nil {
			logger.Warnf("skipping category %s: %v", r.Category.Slug, err)
			rep.Skipped = append(rep.Skipped, display.SkippedFeed{Slug: r.Category.Slug, Reason: err.Error()})
			continue
		}
		rep.Written = append(rep.Written, w)
		entries = append(entries, display.IndexEntry{Name: r.Category.Name, Slug: r.Category.Slug})
	}

	if err := rep.add(site.CopyPlaceholder()); err != nil {
		return rep, err
	}

	var nlErr error
	if opts.Newsletter {
		nlErr = writeNewsletter(ctx, a, site, opts.BaseURL, &rep)
	}

	// The index links scroll.xml only when it was written.
	page, err := display.StaticIndex(opts.BaseURL, entries, opts.Newsletter && nlErr == nil)
	if err != nil {
		return rep, err
	}
	if err := rep.add(site.WriteIndex(page)); err != nil {
		return rep, err
	}
	return rep, nlErr
}

func writeNewsletter(ctx context.Context, a *aggregator.Assembler, site Site, baseURL string, rep *Report) error {
	logger.Infof("fetching newsletter")
	nl, err := a.NewsletterFeed(ctx, FeedURL(baseURL, "scroll.xml"))
	if err != nil {
		return fmt.Errorf("newsletter: %w", err)
	}
	return rep.add(site.WriteFeed("scroll.xml", nl))
}

func (r *Report) add(w display.WrittenFile, err error) error {
	if err != nil {
		return err
	}
	logger.Debugf("wrote %s", w.Name)
	r.Written = append(r.Written, w)
	return nil
}
