package contracts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
)

const (
	wordpressPrefix = "/wp-json/wp/v2"
	scrollPath      = "/scroll/"
)

// Upstream fakes both upstream services on one test server.
type Upstream struct {
	Server *httptest.Server

	failPosts      bool
	failNewsletter bool
	failCategories map[int]bool

	requests atomic.Int64
}

// Option configures an Upstream.
type Option func(*Upstream)

// FailPosts makes the unfiltered posts listing answer 502.
func FailPosts() Option {
	return func(u *Upstream) { u.failPosts = true }
}

// FailCategory makes the posts listing for category id answer 500.
func FailCategory(id int) Option {
	return func(u *Upstream) { u.failCategories[id] = true }
}

// FailNewsletter makes the newsletter page answer 503.
func FailNewsletter() Option {
	return func(u *Upstream) { u.failNewsletter = true }
}

// NewUpstream starts the fake services. Close it when done.
func NewUpstream(opts ...Option) *Upstream {
	u := &Upstream{failCategories: map[int]bool{}}
	for _, opt := range opts {
		opt(u)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+wordpressPrefix+"/posts", u.handlePosts)
	mux.HandleFunc("GET "+wordpressPrefix+"/categories", u.handleCategories)
	mux.HandleFunc("GET "+scrollPath, u.handleScroll)

	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.requests.Add(1)
		mux.ServeHTTP(w, r)
	}))
	return u
}

// WordPressURL is the API base to pass to wordpress.WithBaseURL.
func (u *Upstream) WordPressURL() string { return u.Server.URL + wordpressPrefix }

// ScrollURL is the page to pass to scroll.WithBaseURL.
func (u *Upstream) ScrollURL() string { return u.Server.URL + scrollPath }

// Requests returns how many requests the server has answered.
func (u *Upstream) Requests() int64 { return u.requests.Load() }

// Close shuts the server down.
func (u *Upstream) Close() { u.Server.Close() }

func (u *Upstream) handlePosts(w http.ResponseWriter, r *http.Request) {
	cat := r.URL.Query().Get("categories")
	if cat == "" {
		if u.failPosts {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		writeJSON(w, WordPressPosts)
		return
	}

	id, err := strconv.Atoi(cat)
	if err != nil {
		http.Error(w, "invalid category", http.StatusBadRequest)
		return
	}
	if u.failCategories[id] {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, WordPressCategoryPosts)
}

func (u *Upstream) handleCategories(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		writeJSON(w, WordPressCategories)
		return
	}

	var all []map[string]any
	if err := json.Unmarshal([]byte(WordPressCategories), &all); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	matched := []map[string]any{}
	for _, c := range all {
		if c["slug"] == slug {
			matched = append(matched, c)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(matched)
}

func (u *Upstream) handleScroll(w http.ResponseWriter, r *http.Request) {
	if u.failNewsletter {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(ScrollPage))
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}
