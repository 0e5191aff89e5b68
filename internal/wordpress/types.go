// Package wordpress provides a client for the WordPress REST API (wp/v2) that
// The Wire publishes through.
//
// This package enables wirefeed to:
// - Fetch the latest posts with author, terms and featured media embedded
// - Enumerate categories ordered by post count
// - Resolve a category slug to its id
package wordpress

import (
	"html"

	"github.com/gauthierbraillon/wirefeed/internal/source"
)

// Post is one post as returned by /posts?_embed=…
//
// Rendered objects are pointers so an absent key can be told apart from an
// empty one.
type Post struct {
	ID       int       `json:"id"`
	Date     string    `json:"date"`
	Link     *string   `json:"link"`
	GUID     *Rendered `json:"guid"`
	Title    *Rendered `json:"title"`
	Excerpt  *Rendered `json:"excerpt"`
	Content  *Rendered `json:"content"`
	Embedded Embedded  `json:"_embedded"`
}

// Kind implements source.RawPost.
func (Post) Kind() source.Kind { return source.KindWordPress }

// Rendered wraps the {"rendered": "..."} objects WordPress uses for text.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// Embedded holds the related records inlined by the _embed parameter.
type Embedded struct {
	Author        []Author `json:"author"`
	Terms         [][]Term `json:"wp:term"`
	FeaturedMedia []Media  `json:"wp:featuredmedia"`
}

// Author is an embedded user record.
type Author struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Term is an embedded taxonomy term (category, tag, ...).
type Term struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Taxonomy string `json:"taxonomy"`
}

// Media is an embedded attachment record.
type Media struct {
	SourceURL string    `json:"source_url"`
	MimeType  string    `json:"mime_type"`
	AltText   string    `json:"alt_text"`
	Caption   *Rendered `json:"caption"`
}

// Category is a category record from /categories.
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// DisplayName returns the category name with HTML entities decoded.
func (c Category) DisplayName() string {
	return html.UnescapeString(c.Name)
}
