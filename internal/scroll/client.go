package scroll

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gauthierbraillon/wirefeed/internal/source"
)

const (
	defaultBaseURL   = "https://scroll-newsletter.stck.me/"
	defaultUserAgent = "ScrollRSS/1.0"
)

// ErrStateNotFound is returned when the page has no embedded state script.
var ErrStateNotFound = errors.New("state block not found")

// stateMarker matches the global assignment the page hydrates from.
var stateMarker = regexp.MustCompile(`window\.__INITIAL_PINIA_STATE__\s*=\s*`)

// postsPath is where the post list lives inside the state blob.
var postsPath = []string{"siteContent", "mixedPosts", "content"}

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the newsletter page URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithUserAgent sets the client identifier sent with the request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout bounds the page fetch. Zero disables the per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// Client fetches the newsletter page and extracts its posts.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	userAgent  string
	timeout    time.Duration
}

// NewClient creates a new Scroll newsletter client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPosts downloads the newsletter page and returns the posts found in its
// embedded state, in page order.
func (c *Client) FetchPosts(ctx context.Context) ([]Post, error) {
	page, err := c.fetchPage(ctx)
	if err != nil {
		return nil, err
	}

	state, err := ExtractState(page)
	if err != nil {
		return nil, err
	}

	return ParsePosts(state)
}

func (c *Client) fetchPage(ctx context.Context) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &source.FetchError{URL: c.baseURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &source.FetchError{URL: c.baseURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &source.FetchError{URL: c.baseURL, Err: fmt.Errorf("failed to read page: %w", err)}
	}
	return body, nil
}

// ExtractState finds the script that assigns the client state and returns
// the assigned JSON value. Anything after the value in the same script is
// ignored.
func ExtractState(page []byte) (json.RawMessage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, &source.ParseError{What: "newsletter page", Err: err}
	}

	var script string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if stateMarker.MatchString(text) {
			script = text
			return false
		}
		return true
	})
	if script == "" {
		return nil, &source.ParseError{What: "newsletter page", Err: ErrStateNotFound}
	}

	loc := stateMarker.FindStringIndex(script)
	dec := json.NewDecoder(strings.NewReader(script[loc[1]:]))
	var state json.RawMessage
	if err := dec.Decode(&state); err != nil {
		return nil, &source.ParseError{What: "newsletter state", Err: err}
	}
	return state, nil
}

// ParsePosts walks siteContent.mixedPosts.content in the state blob.
func ParsePosts(state json.RawMessage) ([]Post, error) {
	node := state
	for _, key := range postsPath {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(node, &obj); err != nil {
			return nil, &source.ParseError{What: "newsletter state", Err: fmt.Errorf("%s: %w", key, err)}
		}
		next, ok := obj[key]
		if !ok {
			return nil, &source.ParseError{What: "newsletter state", Err: fmt.Errorf("missing key %q", strings.Join(postsPath, "."))}
		}
		node = next
	}

	posts := []Post{}
	if err := json.Unmarshal(node, &posts); err != nil {
		return nil, &source.ParseError{What: "newsletter posts", Err: err}
	}
	return posts, nil
}
