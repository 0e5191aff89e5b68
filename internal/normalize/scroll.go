package normalize

import (
	"strings"
	"time"

	"github.com/gauthierbraillon/wirefeed/internal/rss"
	"github.com/gauthierbraillon/wirefeed/internal/scroll"
)

var scrollDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// fromScroll maps a newsletter post. Newsletter items carry no body and no
// categories, only the summary.
func (n *Normalizer) fromScroll(p scroll.Post) rss.Item {
	link := strings.TrimSpace(p.Permalink)
	if link == "" {
		link = strings.TrimRight(n.Profile.SiteURL, "/") + "/post/" + string(p.ID)
	}

	item := rss.Item{
		Title:       orDefault(strings.TrimSpace(p.Title), untitled),
		Link:        link,
		GUID:        link,
		IsPermaLink: true,
		PublishedAt: ParseDate(p.Published, n.Profile.Location, scrollDateLayouts...),
		Author:      orDefault(strings.TrimSpace(p.Author.Name), n.Profile.DefaultAuthor),
		Summary:     strings.TrimSpace(p.Summary),
	}

	if img := strings.TrimSpace(p.CoverImage()); img != "" {
		item.Media = &rss.Media{URL: img, Type: defaultImageType}
	}

	return item
}
