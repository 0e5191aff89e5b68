package sanitize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DOM is a Sanitizer that works on a parsed document tree. Its output is
// re-serialized by the HTML parser, so void elements come back as "<br/>" and
// text entities are normalized.
type DOM struct{}

const blockSelector = "script, noscript, style"

func parse(body string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

// Clean implements Sanitizer.
func (d DOM) Clean(body string) string {
	doc, err := parse(body)
	if err != nil {
		return Regexp{}.Clean(body)
	}

	doc.Find(blockSelector).Remove()
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			kept := n.Attr[:0]
			for _, a := range n.Attr {
				if isDroppedAttr(a.Key) {
					continue
				}
				kept = append(kept, a)
			}
			n.Attr = kept
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return Regexp{}.Clean(body)
	}
	return strings.TrimSpace(newlinesRe.ReplaceAllString(out, "\n\n"))
}

// FirstImage implements Sanitizer.
func (d DOM) FirstImage(body string) (string, bool) {
	doc, err := parse(body)
	if err != nil {
		return Regexp{}.FirstImage(body)
	}
	src, ok := doc.Find("img[src]").First().Attr("src")
	if !ok || src == "" {
		return "", false
	}
	return src, true
}

// textEscaper re-encodes the characters the parser decoded so StripTags
// returns text in the same form as Regexp.StripTags.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// StripTags implements Sanitizer. Entities are left encoded; callers decode
// once.
func (d DOM) StripTags(body string) string {
	doc, err := parse(body)
	if err != nil {
		return Regexp{}.StripTags(body)
	}
	doc.Find(blockSelector).Remove()
	return strings.TrimSpace(textEscaper.Replace(doc.Text()))
}

func isDroppedAttr(key string) bool {
	key = strings.ToLower(key)
	return strings.HasPrefix(key, "data-") || droppedAttrs[key]
}
