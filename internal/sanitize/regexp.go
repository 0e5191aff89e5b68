package sanitize

import (
	"regexp"
	"strings"
)

var (
	blockOpenRe = regexp.MustCompile(`(?i)<(script|noscript|style)\b[^>]*>`)
	openTagRe   = regexp.MustCompile(`<[a-zA-Z][^>]*>`)
	attrRe      = regexp.MustCompile(`(?i)\s+(?:data-[\w.:-]+(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'>]+))?|(?:loading|decoding|srcset|sizes)\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'>]+))`)
	newlinesRe  = regexp.MustCompile(`(?:\r?\n){3,}`)
	imgSrcRe    = regexp.MustCompile(`(?is)<img\b[^>]*?\ssrc\s*=\s*["']([^"']+)["']`)
	tagRe       = regexp.MustCompile(`<[^>]+>`)

	blockCloseRe = map[string]*regexp.Regexp{
		"script":   regexp.MustCompile(`(?i)</script\s*>`),
		"noscript": regexp.MustCompile(`(?i)</noscript\s*>`),
		"style":    regexp.MustCompile(`(?i)</style\s*>`),
	}
)

// Regexp is a pattern based Sanitizer. It does not parse HTML: nested or
// malformed markup (for example a "<script>" inside an attribute value, or an
// unterminated tag) can survive Clean and StripTags. The upstream content is
// CMS generated, which keeps this acceptable.
type Regexp struct{}

// Clean implements Sanitizer.
func (Regexp) Clean(body string) string {
	body = stripBlocks(body)
	// Attributes are only stripped inside start tags so article text such as
	// "data-driven" is left alone.
	body = openTagRe.ReplaceAllStringFunc(body, func(tag string) string {
		return attrRe.ReplaceAllString(tag, "")
	})
	body = newlinesRe.ReplaceAllString(body, "\n\n")
	return strings.TrimSpace(body)
}

// stripBlocks removes script, noscript and style elements with their
// contents. The closing tag must match the opening one, which RE2 cannot
// express with a backreference, so the closer is looked up per element.
func stripBlocks(body string) string {
	var b strings.Builder
	for {
		loc := blockOpenRe.FindStringSubmatchIndex(body)
		if loc == nil {
			b.WriteString(body)
			return b.String()
		}
		closer := blockCloseRe[strings.ToLower(body[loc[2]:loc[3]])]
		end := closer.FindStringIndex(body[loc[1]:])
		if end == nil {
			// Unterminated: keep the tag and look for later blocks.
			b.WriteString(body[:loc[1]])
			body = body[loc[1]:]
			continue
		}
		b.WriteString(body[:loc[0]])
		body = body[loc[1]+end[1]:]
	}
}

// FirstImage implements Sanitizer.
func (Regexp) FirstImage(body string) (string, bool) {
	m := imgSrcRe.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// StripTags implements Sanitizer.
func (Regexp) StripTags(body string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(body, ""))
}
