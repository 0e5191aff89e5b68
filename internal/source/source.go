// Package source defines what the upstream clients have in common: the kind of
// record they return, the per-source profile used to render it, and the error
// kinds callers branch on.
package source

import "time"

// Kind identifies which upstream shape a raw record came from.
type Kind string

const (
	KindWordPress Kind = "wordpress"
	KindScroll    Kind = "scroll"
)

// RawPost is one undecoded upstream record.
type RawPost interface {
	Kind() Kind
}

// Profile holds the per-source constants used by the normalizer and the
// assembler: fallback names, channel metadata and the timezone dates are
// rendered in.
type Profile struct {
	Kind          Kind
	Name          string
	SiteURL       string
	Title         string
	Description   string
	DefaultAuthor string
	UserAgent     string
	Location      *time.Location

	// PlaceholderURL is used as item media when a post has no image at all.
	// Empty disables the fallback.
	PlaceholderURL string
}

// IST is the fixed +0530 zone The Wire publishes in.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// WireProfile returns the profile for The Wire.
func WireProfile() Profile {
	return Profile{
		Kind:          KindWordPress,
		Name:          "The Wire",
		SiteURL:       "https://thewire.in",
		Title:         "The Wire",
		Description:   "The Wire - Independent journalism from India covering politics, economy, science, law, society, culture, and more.",
		DefaultAuthor: "The Wire",
		UserAgent:     "TheWireRSS/1.0",
		Location:      IST,
	}
}

// ScrollProfile returns the profile for the Scroll newsletter.
func ScrollProfile() Profile {
	return Profile{
		Kind:          KindScroll,
		Name:          "Scroll",
		SiteURL:       "https://scroll-newsletter.stck.me/",
		Title:         "Scroll Newsletter",
		Description:   "Daily news briefing from Scroll.in",
		DefaultAuthor: "Scroll",
		UserAgent:     "ScrollRSS/1.0",
		Location:      time.UTC,
	}
}

// WithPlaceholder returns a copy of p whose placeholder image lives at url.
func (p Profile) WithPlaceholder(url string) Profile {
	p.PlaceholderURL = url
	return p
}
