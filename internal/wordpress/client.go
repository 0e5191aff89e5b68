package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gauthierbraillon/wirefeed/internal/source"
)

const (
	defaultBaseURL   = "https://cms.thewire.in/wp-json/wp/v2"
	defaultUserAgent = "TheWireRSS/1.0"

	// categoriesPageSize is the largest page the API allows.
	categoriesPageSize = 100
)

// DefaultEmbed inlines author, terms and featured media into every post.
var DefaultEmbed = []string{"author", "wp:term", "wp:featuredmedia"}

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

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithUserAgent sets the client identifier sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout bounds every request. Zero disables the per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithEmbed replaces the list of related records requested through _embed.
func WithEmbed(embed ...string) ClientOption {
	return func(c *Client) {
		c.embed = embed
	}
}

// Client is a WordPress REST API client.
type Client struct {
	baseURL    string
	userAgent  string
	embed      []string
	timeout    time.Duration
	httpClient HTTPClient
}

// NewClient creates a new WordPress API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		embed:      DefaultEmbed,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchPosts retrieves the latest posts, newest first. A categoryID of zero
// means all categories.
func (c *Client) FetchPosts(ctx context.Context, limit, categoryID int) ([]Post, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(limit))
	if len(c.embed) > 0 {
		params.Set("_embed", strings.Join(c.embed, ","))
	}
	params.Set("orderby", "date")
	params.Set("order", "desc")
	if categoryID > 0 {
		params.Set("categories", strconv.Itoa(categoryID))
	}

	body, err := c.doRequest(ctx, "/posts", params)
	if err != nil {
		return nil, err
	}

	posts := []Post{}
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, &source.ParseError{What: "posts response", Err: err}
	}

	return posts, nil
}

// FetchCategories retrieves one page of categories ordered by post count.
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(categoriesPageSize))
	params.Set("orderby", "count")
	params.Set("order", "desc")

	return c.fetchCategories(ctx, params)
}

// ResolveCategory looks a category up by slug. It returns source.ErrNotFound
// when no category has that slug.
func (c *Client) ResolveCategory(ctx context.Context, slug string) (Category, error) {
	params := url.Values{}
	params.Set("slug", slug)

	cats, err := c.fetchCategories(ctx, params)
	if err != nil {
		return Category{}, err
	}
	if len(cats) == 0 {
		return Category{}, fmt.Errorf("category %q: %w", slug, source.ErrNotFound)
	}

	return cats[0], nil
}

// ResolveCategoryID returns the id of the category with the given slug.
func (c *Client) ResolveCategoryID(ctx context.Context, slug string) (int, error) {
	cat, err := c.ResolveCategory(ctx, slug)
	if err != nil {
		return 0, err
	}
	return cat.ID, nil
}

func (c *Client) fetchCategories(ctx context.Context, params url.Values) ([]Category, error) {
	body, err := c.doRequest(ctx, "/categories", params)
	if err != nil {
		return nil, err
	}

	cats := []Category{}
	if err := json.Unmarshal(body, &cats); err != nil {
		return nil, &source.ParseError{What: "categories response", Err: err}
	}

	return cats, nil
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &source.FetchError{URL: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &source.FetchError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &source.FetchError{URL: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	return body, nil
}
