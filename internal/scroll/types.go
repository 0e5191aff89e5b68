// Package scroll scrapes the Scroll newsletter page, whose posts are only
// available as a client-side state blob embedded in the HTML.
package scroll

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/gauthierbraillon/wirefeed/internal/source"
)

// Post is one entry of siteContent.mixedPosts.content.
type Post struct {
	ID        PostID `json:"id"`
	Title     string `json:"title"`
	Permalink string `json:"permalink"`
	Summary   string `json:"summary"`
	Published string `json:"published"`
	Author    Author `json:"author"`
	Meta      Meta   `json:"meta"`
}

// Kind implements source.RawPost.
func (Post) Kind() source.Kind { return source.KindScroll }

// PostID accepts both numeric and string ids.
type PostID string

func (id *PostID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = PostID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = PostID(n.String())
	return nil
}

// Author is the post author. Anything other than an object decodes as an
// author without a name.
type Author struct {
	Name string `json:"name"`
}

func (a *Author) UnmarshalJSON(data []byte) error {
	var obj struct {
		Name any `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		*a = Author{}
		return nil
	}
	switch v := obj.Name.(type) {
	case string:
		a.Name = v
	case float64:
		a.Name = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		a.Name = ""
	}
	return nil
}

// Meta carries the cover image.
type Meta struct {
	Cover struct {
		Src struct {
			Image string `json:"image"`
		} `json:"src"`
	} `json:"cover"`
}

// CoverImage returns the cover image URL, or "" when there is none.
func (p Post) CoverImage() string {
	return p.Meta.Cover.Src.Image
}
