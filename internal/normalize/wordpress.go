package normalize

import (
	"fmt"
	"html"
	"strings"

	"github.com/gauthierbraillon/wirefeed/internal/rss"
	"github.com/gauthierbraillon/wirefeed/internal/source"
	"github.com/gauthierbraillon/wirefeed/internal/wordpress"
)

const categoryTaxonomy = "category"

func (n *Normalizer) fromWordPress(p wordpress.Post) (rss.Item, error) {
	if p.Link == nil {
		return rss.Item{}, missingKey(p.ID, "link")
	}
	if p.Content == nil {
		return rss.Item{}, missingKey(p.ID, "content")
	}

	item := rss.Item{
		Title:       untitled,
		Link:        *p.Link,
		GUID:        *p.Link,
		PublishedAt: ParseDate(p.Date, n.Profile.Location, wordpressDateLayouts...),
		Author:      n.Profile.DefaultAuthor,
	}

	if p.Title != nil {
		item.Title = orDefault(decodeText(p.Title.Rendered), untitled)
	}
	if p.GUID != nil && strings.TrimSpace(p.GUID.Rendered) != "" {
		item.GUID = strings.TrimSpace(p.GUID.Rendered)
	}
	item.IsPermaLink = item.GUID == item.Link

	if len(p.Embedded.Author) > 0 {
		item.Author = orDefault(decodeText(p.Embedded.Author[0].Name), n.Profile.DefaultAuthor)
	}

	if p.Excerpt != nil {
		item.Summary = n.Sanitizer.StripTags(html.UnescapeString(p.Excerpt.Rendered))
	}

	content := p.Content.Rendered
	body := n.Sanitizer.Clean(content)

	if fm := featuredMedia(p); fm != nil {
		item.Media = &rss.Media{URL: fm.SourceURL, Type: orDefault(fm.MimeType, defaultImageType)}
		body = n.hero(fm) + "\n" + body
	} else if src, ok := n.Sanitizer.FirstImage(content); ok {
		item.Media = &rss.Media{URL: html.UnescapeString(src), Type: defaultImageType}
	} else if n.Profile.PlaceholderURL != "" {
		item.Media = &rss.Media{URL: n.Profile.PlaceholderURL, Type: placeholderImageType}
	}
	item.Body = body

	item.Categories = categories(p)

	return item, nil
}

func missingKey(id int, key string) error {
	return &source.ParseError{What: fmt.Sprintf("post %d", id), Err: fmt.Errorf("missing key %q", key)}
}

// featuredMedia returns the structured featured image, if the post has one
// with a usable URL.
func featuredMedia(p wordpress.Post) *wordpress.Media {
	if len(p.Embedded.FeaturedMedia) == 0 {
		return nil
	}
	fm := p.Embedded.FeaturedMedia[0]
	if strings.TrimSpace(fm.SourceURL) == "" {
		return nil
	}
	return &fm
}

// hero renders the featured image as a figure placed above the article body.
func (n *Normalizer) hero(fm *wordpress.Media) string {
	var b strings.Builder
	b.WriteString(`<figure style="margin:0 0 1em 0;">`)
	b.WriteString(`<img src="` + html.EscapeString(fm.SourceURL) + `" alt="` + html.EscapeString(decodeText(fm.AltText)) + `" style="width:100%;height:auto;"/>`)
	if fm.Caption != nil {
		caption := decodeText(n.Sanitizer.StripTags(fm.Caption.Rendered))
		if caption != "" {
			b.WriteString(`<figcaption style="font-size:0.85em;color:#666;">` + html.EscapeString(caption) + `</figcaption>`)
		}
	}
	b.WriteString(`</figure>`)
	return b.String()
}

// categories walks the embedded term groups in order and keeps category
// names.
func categories(p wordpress.Post) []string {
	var names []string
	for _, group := range p.Embedded.Terms {
		for _, term := range group {
			if term.Taxonomy != categoryTaxonomy {
				continue
			}
			names = append(names, decodeText(term.Name))
		}
	}
	return names
}
