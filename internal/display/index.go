// Package display renders the human-facing pages and terminal summaries.
package display

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"
)

// IndexEntry is one category listed on the static index page.
type IndexEntry struct {
	Name string
	Slug string
}

const pageStyle = `
    body { font-family: system-ui, sans-serif; max-width: 600px; margin: 2rem auto; padding: 0 1rem; }
    a { color: #b71c1c; }
    code { background: #f5f5f5; padding: 2px 6px; border-radius: 3px; }`

var staticIndexTmpl = template.Must(template.New("static").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>The Wire RSS Feed</title>
  <style>{{.Style}}
  </style>
</head>
<body>
  <h1>The Wire RSS Feed</h1>
  <p>Main feed: <a href="feed.xml"><code>{{.Base}}/feed.xml</code></a></p>
{{- if .Newsletter}}
  <p>Scroll newsletter: <a href="scroll.xml"><code>{{.Base}}/scroll.xml</code></a></p>
{{- end}}
  <h2>Category Feeds</h2>
  <ul>
{{- range .Entries}}
    <li><a href="{{.Slug}}.xml">{{.Name}}</a></li>
{{- end}}
  </ul>
  <p>Add any of these URLs to your RSS reader.</p>
</body>
</html>
`))

var serverIndexTmpl = template.Must(template.New("server").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>The Wire RSS Feed</title>
  <style>{{.Style}}
  </style>
</head>
<body>
  <h1>The Wire RSS Feed</h1>
  <p><a href="{{.Base}}/feed">RSS Feed</a></p>
  <p>Add <code>{{.Base}}/feed</code> to your RSS reader.</p>
  <p>Category feeds live at <code>{{.Base}}/feed/{category}</code>, for example <a href="{{.Base}}/feed/politics"><code>/feed/politics</code></a>.</p>
  <p>Scroll newsletter: <a href="{{.Base}}/scroll"><code>{{.Base}}/scroll</code></a></p>
</body>
</html>
`))

// StaticIndex renders index.html for the generated site. Entries are listed by
// display name; links are relative to the page.
func StaticIndex(baseURL string, entries []IndexEntry, newsletter bool) ([]byte, error) {
	sorted := make([]IndexEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var buf bytes.Buffer
	err := staticIndexTmpl.Execute(&buf, struct {
		Style      template.CSS
		Base       string
		Newsletter bool
		Entries    []IndexEntry
	}{pageStyle, strings.TrimRight(baseURL, "/"), newsletter, sorted})
	if err != nil {
		return nil, fmt.Errorf("failed to render index: %w", err)
	}
	return buf.Bytes(), nil
}

// ServerIndex renders the landing page of the on-demand server.
func ServerIndex(baseURL string) []byte {
	var buf bytes.Buffer
	// The template has no failure modes for this input.
	_ = serverIndexTmpl.Execute(&buf, struct {
		Style template.CSS
		Base  string
	}{pageStyle, strings.TrimRight(baseURL, "/")})
	return buf.Bytes()
}
