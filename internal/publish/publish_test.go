// Package publish tests document the static generator's behavior.
//
// Test requirements (this file serves as documentation):
// - A run writes feed.xml, one file per qualifying category, index.html,
//   placeholder.png and scroll.xml
// - A failing category is skipped and left out of the index
// - A failing main feed aborts before anything else is written
// - A failing newsletter fails the run after the Wire files are written
// - Self links and the placeholder URL follow the base URL
package publish

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gauthierbraillon/wirefeed/internal/aggregator"
	"github.com/gauthierbraillon/wirefeed/internal/normalize"
	"github.com/gauthierbraillon/wirefeed/internal/scroll"
	"github.com/gauthierbraillon/wirefeed/internal/source"
	"github.com/gauthierbraillon/wirefeed/internal/wordpress"
	"github.com/gauthierbraillon/wirefeed/pkg/contracts"
)

func newAssembler(up *contracts.Upstream, baseURL string) *aggregator.Assembler {
	wire := source.WireProfile().WithPlaceholder(FeedURL(baseURL, PlaceholderName))
	return aggregator.New(
		wordpress.NewClient(wordpress.WithBaseURL(up.WordPressURL())),
		scroll.NewClient(scroll.WithBaseURL(up.ScrollURL())),
		normalize.New(wire, nil),
		normalize.New(source.ScrollProfile(), nil),
	)
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("%s should exist: %v", name, err)
	}
	return string(data)
}

func TestFeedURL(t *testing.T) {
	cases := []struct{ base, name, want string }{
		{"", "feed.xml", "feed.xml"},
		{"https://feeds.example.com", "law.xml", "https://feeds.example.com/law.xml"},
		{"https://feeds.example.com/", "/scroll.xml", "https://feeds.example.com/scroll.xml"},
	}
	for _, tc := range cases {
		if got := FeedURL(tc.base, tc.name); got != tc.want {
			t.Errorf("FeedURL(%q, %q) = %q, want %q", tc.base, tc.name, got, tc.want)
		}
	}
}

func TestAC500_Generate_WritesTheWholeSite(t *testing.T) {
	up := contracts.NewUpstream()
	defer up.Close()
	dir := filepath.Join(t.TempDir(), "public")

	rep, err := Generate(context.Background(), newAssembler(up, "https://feeds.example.com"), Site{Dir: dir}, Options{
		BaseURL:          "https://feeds.example.com",
		MinCategoryPosts: 10,
		Newsletter:       true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := []string{"feed.xml", "politics.xml", "law.xml", "science.xml", "placeholder.png", "scroll.xml", "index.html"}
	if len(rep.Written) != len(want) {
		t.Fatalf("user should get %d files, got %+v", len(want), rep.Written)
	}
	for i, name := range want {
		if rep.Written[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i+1, name, rep.Written[i].Name)
		}
		readFile(t, dir, name)
	}
	if rep.Written[0].Items != 2 {
		t.Errorf("main feed should report 2 items, got %d", rep.Written[0].Items)
	}
	for _, skipped := range []string{"archive.xml", "uncategorized.xml"} {
		if _, err := os.Stat(filepath.Join(dir, skipped)); err == nil {
			t.Errorf("%s should not be written for a small category", skipped)
		}
	}

	feed := readFile(t, dir, "feed.xml")
	for _, s := range []string{
		`<atom:link href="https://feeds.example.com/feed.xml"`,
		`<media:content url="https://feeds.example.com/placeholder.png" medium="image" type="image/png"/>`,
		`<media:content url="https://cdn.thewire.in/hero.jpg" medium="image" type="image/jpeg"/>`,
		"<category>Law &amp; Justice</category>",
	} {
		if !strings.Contains(feed, s) {
			t.Errorf("feed.xml should contain %q", s)
		}
	}

	law := readFile(t, dir, "law.xml")
	if !strings.Contains(law, "<title>The Wire - Law &amp; Justice</title>") {
		t.Error("law.xml should carry the category title")
	}

	index := readFile(t, dir, "index.html")
	if !strings.Contains(index, `href="law.xml">Law &amp; Justice</a>`) || !strings.Contains(index, `href="scroll.xml"`) {
		t.Errorf("index should link categories and newsletter:\n%s", index)
	}

	png, _ := os.ReadFile(filepath.Join(dir, "placeholder.png"))
	if !bytes.Equal(png, Placeholder) || !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("placeholder should be the embedded PNG")
	}
}

func TestAC501_Generate_SkipsFailingCategory(t *testing.T) {
	up := contracts.NewUpstream(contracts.FailCategory(2))
	defer up.Close()
	dir := t.TempDir()

	rep, err := Generate(context.Background(), newAssembler(up, ""), Site{Dir: dir}, Options{MinCategoryPosts: 10})
	if err != nil {
		t.Fatalf("one bad category should not fail the run: %v", err)
	}

	if len(rep.Skipped) != 1 || rep.Skipped[0].Slug != "law" || !strings.Contains(rep.Skipped[0].Reason, "HTTP 500") {
		t.Fatalf("law should be skipped, got %+v", rep.Skipped)
	}
	if _, err := os.Stat(filepath.Join(dir, "law.xml")); err == nil {
		t.Error("law.xml should not be written")
	}
	readFile(t, dir, "politics.xml")
	readFile(t, dir, "science.xml")

	index := readFile(t, dir, "index.html")
	if strings.Contains(index, "law.xml") {
		t.Error("index should not link a skipped category")
	}
	if strings.Contains(index, "scroll.xml") {
		t.Error("index should not link the newsletter when it is disabled")
	}

	feed := readFile(t, dir, "feed.xml")
	if !strings.Contains(feed, `<atom:link href="feed.xml"`) || !strings.Contains(feed, `url="placeholder.png"`) {
		t.Error("without a base URL links should be relative")
	}
}

func TestAC502_Generate_MainFeedFailureIsFatal(t *testing.T) {
	up := contracts.NewUpstream(contracts.FailPosts())
	defer up.Close()
	dir := t.TempDir()

	rep, err := Generate(context.Background(), newAssembler(up, ""), Site{Dir: dir}, Options{MinCategoryPosts: 10, Newsletter: true})
	if !source.IsFetchError(err) {
		t.Fatalf("main feed failure should be a fetch error, got %v", err)
	}
	if len(rep.Written) != 0 {
		t.Errorf("nothing should be written, got %+v", rep.Written)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("output directory should stay empty, got %d entries", len(entries))
	}
}

func TestAC503_Generate_NewsletterFailureAfterWireFiles(t *testing.T) {
	up := contracts.NewUpstream(contracts.FailNewsletter())
	defer up.Close()
	dir := t.TempDir()

	rep, err := Generate(context.Background(), newAssembler(up, ""), Site{Dir: dir}, Options{MinCategoryPosts: 10, Newsletter: true})
	if !source.IsFetchError(err) {
		t.Fatalf("newsletter failure should fail the run, got %v", err)
	}
	for _, name := range []string{"feed.xml", "politics.xml", "index.html", "placeholder.png"} {
		readFile(t, dir, name)
	}
	if _, err := os.Stat(filepath.Join(dir, "scroll.xml")); err == nil {
		t.Error("scroll.xml should not be written")
	}
	if index := readFile(t, dir, "index.html"); strings.Contains(index, "scroll.xml") {
		t.Errorf("index should not link a newsletter feed that was not written:\n%s", index)
	}
	if len(rep.Written) != 6 {
		t.Errorf("report should list the Wire files, got %+v", rep.Written)
	}
}

func TestSite_WriteFeedRejectsInvalidXML(t *testing.T) {
	dir := t.TempDir()
	_, err := Site{Dir: dir}.WriteFeed("bad.xml", aggregator.Feed{XML: []byte("<rss><channel>")})
	if err == nil {
		t.Fatal("invalid documents should not be written")
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("no file should be left behind, got %d entries", len(entries))
	}
}
