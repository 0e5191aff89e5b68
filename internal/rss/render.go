package rss

import (
	"strings"
	"time"
)

const (
	nsContent = "http://purl.org/rss/1.0/modules/content/"
	nsDC      = "http://purl.org/dc/elements/1.1/"
	nsAtom    = "http://www.w3.org/2005/Atom"
	nsMedia   = "http://search.yahoo.com/mrss/"

	// DateLayout is RFC 822 with a four digit year and a numeric offset.
	DateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

	defaultLanguage = "en"
)

// Renderer serializes channels to RSS 2.0.
type Renderer struct {
	// Now supplies lastBuildDate. Defaults to time.Now.
	Now func() time.Time
}

// NewRenderer creates a renderer that stamps documents with the current time.
func NewRenderer() *Renderer {
	return &Renderer{Now: time.Now}
}

// FormatDate formats t as an RFC 822 date in t's own zone. The zero time
// formats as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Render returns the complete RSS document for ch.
func (r *Renderer) Render(ch Channel) []byte {
	now := time.Now
	if r != nil && r.Now != nil {
		now = r.Now
	}

	lang := ch.Language
	if lang == "" {
		lang = defaultLanguage
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0"` + "\n")
	b.WriteString(`  xmlns:content="` + nsContent + `"` + "\n")
	b.WriteString(`  xmlns:dc="` + nsDC + `"` + "\n")
	b.WriteString(`  xmlns:atom="` + nsAtom + `"`)
	if ch.HasMedia() {
		b.WriteString("\n" + `  xmlns:media="` + nsMedia + `"`)
	}
	b.WriteString(">\n")
	b.WriteString("  <channel>\n")
	b.WriteString("    <title>" + text(ch.Title) + "</title>\n")
	b.WriteString("    <link>" + text(ch.Link) + "</link>\n")
	b.WriteString("    <description>" + text(ch.Description) + "</description>\n")
	b.WriteString("    <language>" + text(lang) + "</language>\n")
	b.WriteString("    <lastBuildDate>" + FormatDate(now().UTC()) + "</lastBuildDate>\n")
	b.WriteString(`    <atom:link href="` + text(ch.SelfURL) + `" rel="self" type="application/rss+xml"/>` + "\n")

	items := make([]string, 0, len(ch.Items))
	for _, it := range ch.Items {
		items = append(items, RenderItem(it))
	}
	if len(items) > 0 {
		b.WriteString(strings.Join(items, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return []byte(b.String())
}

// RenderItem serializes one item block. It depends only on the item.
func RenderItem(it Item) string {
	permalink := "false"
	if it.IsPermaLink {
		permalink = "true"
	}

	var b strings.Builder
	b.WriteString("    <item>\n")
	b.WriteString("      <title>" + text(it.Title) + "</title>\n")
	b.WriteString("      <link>" + text(it.Link) + "</link>\n")
	b.WriteString(`      <guid isPermaLink="` + permalink + `">` + text(it.GUID) + "</guid>\n")
	b.WriteString("      <pubDate>" + FormatDate(it.PublishedAt) + "</pubDate>\n")
	b.WriteString("      <dc:creator>" + text(it.Author) + "</dc:creator>\n")
	b.WriteString("      <description>" + text(it.Summary) + "</description>\n")
	if it.Body != "" {
		b.WriteString("      <content:encoded>" + CDATA(StripInvalid(it.Body)) + "</content:encoded>\n")
	}
	if it.Media != nil && it.Media.URL != "" {
		u, typ := text(it.Media.URL), text(it.Media.Type)
		b.WriteString(`      <media:content url="` + u + `" medium="image" type="` + typ + `"/>` + "\n")
		b.WriteString(`      <media:thumbnail url="` + u + `"/>` + "\n")
		b.WriteString(`      <enclosure url="` + u + `" type="` + typ + `" length="0"/>` + "\n")
	}
	for _, cat := range it.Categories {
		b.WriteString("      <category>" + text(cat) + "</category>\n")
	}
	b.WriteString("    </item>")
	return b.String()
}
