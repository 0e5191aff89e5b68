package rss

import (
	"strings"
	"unicode/utf8"
)

// xmlEscaper replaces in a single pass, so "&" is handled before any entity
// it introduces can be seen again.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeText escapes s for use as XML element content or as a quoted
// attribute value.
func EscapeText(s string) string {
	return xmlEscaper.Replace(s)
}

// CDATA wraps s in a CDATA section. A "]]>" inside s would end the section
// early, so it is split across two sections.
func CDATA(s string) string {
	return "<![CDATA[" + strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>") + "]]>"
}

// StripInvalid drops characters that XML 1.0 does not allow anywhere in a
// document, not even escaped.
func StripInvalid(s string) string {
	if strings.IndexFunc(s, func(r rune) bool { return !isXMLChar(r) }) < 0 && utf8.ValidString(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		// size 1 with RuneError is an invalid byte; a literal U+FFFD is kept.
		if (r != utf8.RuneError || size > 1) && isXMLChar(r) {
			b.WriteRune(r)
		}
		s = s[size:]
	}
	return b.String()
}

func isXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// text prepares a field for element or attribute content.
func text(s string) string {
	return EscapeText(StripInvalid(s))
}
