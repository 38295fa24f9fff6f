package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"smartshop/internal/kvstore"
	"smartshop/internal/models"
	apperrors "smartshop/pkg/errors"

	"go.uber.org/zap"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 8

const cacheKeyPrefix = "catalog:"

// Mode tells which kind of result set the client currently holds.
type Mode int

const (
	// Browsing is the unfiltered, incrementally paged listing.
	Browsing Mode = iota
	// Searching holds the result of a title search.
	Searching
	// Filtered holds the result of a price/category filter.
	Filtered
)

func (m Mode) String() string {
	switch m {
	case Browsing:
		return "browsing"
	case Searching:
		return "searching"
	case Filtered:
		return "filtered"
	default:
		return "unknown"
	}
}

// PaginationState is the paging bookkeeping of the browsing listing.
type PaginationState struct {
	Offset        int  `json:"offset"` // start of the next page
	Limit         int  `json:"limit"`
	IsLoadingMore bool `json:"is_loading_more"`
}

// Range is a half-open range [Start, End) of positions in the held result set.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of positions in the range.
func (r Range) Len() int { return r.End - r.Start }

// Empty reports whether the range holds no positions.
func (r Range) Empty() bool { return r.Len() <= 0 }

// Indexes lists every position in the range.
func (r Range) Indexes() []int {
	if r.Empty() {
		return nil
	}
	out := make([]int, 0, r.Len())
	for i := r.Start; i < r.End; i++ {
		out = append(out, i)
	}
	return out
}

// Client fetches pages of the remote catalog and holds the current result set.
//
// Every fetch blocks until the response is decoded; callers that must not
// block run it in a goroutine. State updates are serialized by one mutex, but
// the network round trip happens outside it, so overlapping FetchInitialProducts
// and Filter* calls complete in arrival order and the last response wins.
// FetchAdditionalProducts is the only call that guards against itself.
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
	cache      kvstore.Store
	cacheTTL   time.Duration
	logger     *zap.Logger

	mu       sync.Mutex
	products []models.Product
	page     PaginationState
	mode     Mode
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithCache stores successful response bodies keyed by request URL.
func WithCache(store kvstore.Store, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

// NewClient creates a client for the catalog listing endpoint.
func NewClient(endpoint string, limit int, logger *zap.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid catalog URL %q: scheme and host are required", endpoint)
	}
	u.RawQuery = ""
	u.Fragment = ""

	if limit <= 0 {
		limit = DefaultPageSize
	}

	c := &Client{
		endpoint:   u,
		httpClient: &http.Client{},
		logger:     logger,
		products:   []models.Product{},
		page:       PaginationState{Limit: limit},
		mode:       Browsing,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchInitialProducts loads the first page and replaces the held result set.
// On failure the held set becomes empty and the error is returned.
func (c *Client) FetchInitialProducts(ctx context.Context) ([]models.Product, error) {
	c.mu.Lock()
	c.page.Offset = 0
	c.mode = Browsing
	limit := c.page.Limit
	c.mu.Unlock()

	products, err := c.fetch(ctx, buildURL(c.endpoint, pageQuery(0, limit)))

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Error("Error loading products", zap.Error(err))
		c.products = []models.Product{}
		return []models.Product{}, err
	}
	c.products = products
	c.page.Offset = limit
	return c.snapshot(), nil
}

// FetchAdditionalProducts appends the next page to the browsing listing and
// returns the positions of the appended products.
//
// A call made while a page is already loading returns an empty range at once
// and issues no request. Outside Browsing mode it returns ErrPagingUnavailable.
func (c *Client) FetchAdditionalProducts(ctx context.Context) (Range, error) {
	c.mu.Lock()
	if c.mode != Browsing {
		mode := c.mode
		c.mu.Unlock()
		return Range{}, apperrors.NewPagingUnavailable(mode.String())
	}
	if c.page.IsLoadingMore {
		c.mu.Unlock()
		c.logger.Debug("Page load already in flight, dropping request")
		return Range{}, nil
	}
	c.page.IsLoadingMore = true
	offset, limit := c.page.Offset, c.page.Limit
	c.mu.Unlock()

	products, err := c.fetch(ctx, buildURL(c.endpoint, pageQuery(offset, limit)))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.page.IsLoadingMore = false

	if err != nil {
		c.logger.Error("Error loading additional products",
			zap.Int("offset", offset),
			zap.Error(err),
		)
		return Range{}, err
	}
	// A search or filter replaced the listing while the page was in flight.
	if c.mode != Browsing {
		c.logger.Debug("Discarding page loaded for a listing that is no longer shown",
			zap.Int("offset", offset),
			zap.String("mode", c.mode.String()),
		)
		return Range{}, apperrors.NewPagingUnavailable(c.mode.String())
	}

	start := len(c.products)
	c.products = append(c.products, products...)
	c.page.Offset += c.page.Limit

	c.logger.Debug("Loaded additional products",
		zap.Int("offset", offset),
		zap.Int("count", len(products)),
		zap.Int("next_offset", c.page.Offset),
	)
	return Range{Start: start, End: len(c.products)}, nil
}

// FilterByTitle searches by title and replaces the held result set. An empty
// title sends no parameter at all. Pagination offset is left untouched.
func (c *Client) FilterByTitle(ctx context.Context, title string) ([]models.Product, error) {
	return c.replace(ctx, Searching, titleQuery(title))
}

// FilterByParameters applies price/category filters and replaces the held
// result set. Pagination offset is left untouched.
func (c *Client) FilterByParameters(ctx context.Context, params models.FilterParameters) ([]models.Product, error) {
	return c.replace(ctx, Filtered, filterQuery(params))
}

func (c *Client) replace(ctx context.Context, mode Mode, items queryItems) ([]models.Product, error) {
	c.mu.Lock()
	c.mode = mode
	c.mu.Unlock()

	products, err := c.fetch(ctx, buildURL(c.endpoint, items))

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Error("Error filtering products",
			zap.String("mode", mode.String()),
			zap.Error(err),
		)
		c.products = []models.Product{}
		return []models.Product{}, err
	}
	c.products = products
	return c.snapshot(), nil
}

// Products returns a copy of the held result set.
func (c *Client) Products() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Mode returns the kind of result set currently held.
func (c *Client) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Pagination returns a copy of the paging state.
func (c *Client) Pagination() PaginationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Categories lists the distinct categories of the held products, unique by
// name, in first-seen order.
func (c *Client) Categories() []models.Category {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]struct{})
	categories := make([]models.Category, 0)
	for _, p := range c.products {
		if _, ok := seen[p.Category.Name]; ok {
			continue
		}
		seen[p.Category.Name] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

// InvalidateCache drops every cached catalog response.
func (c *Client) InvalidateCache(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.DeleteByPattern(ctx, cacheKeyPrefix+"*")
}

func (c *Client) snapshot() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// fetch performs one GET and decodes the product array. It never retries.
func (c *Client) fetch(ctx context.Context, rawURL string) ([]models.Product, error) {
	if products, ok := c.fromCache(ctx, rawURL); ok {
		return products, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.NewInvalidRequest("invalid catalog request", err.Error())
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Network error", zap.String("url", rawURL), zap.Error(err))
		return nil, apperrors.NewTransportError(err)
	}
	if resp == nil {
		c.logger.Error("Invalid response received", zap.String("url", rawURL))
		return nil, apperrors.NewBadResponse(fmt.Sprintf("URL: %s", rawURL))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Network error reading body", zap.String("url", rawURL), zap.Error(err))
		return nil, apperrors.NewTransportError(err)
	}

	if statusErr := apperrors.FromStatus(resp.StatusCode, rawURL); statusErr != nil {
		c.logger.Error("Catalog request failed",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
			zap.String("error_code", statusErr.Code),
		)
		return nil, statusErr
	}

	products, err := decodeProducts(body)
	if err != nil {
		c.logger.Error("Decoding error", zap.String("url", rawURL), zap.Error(err))
		return nil, apperrors.NewDecodeError(err)
	}

	c.toCache(ctx, rawURL, body)
	return products, nil
}

func (c *Client) fromCache(ctx context.Context, rawURL string) ([]models.Product, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, err := c.cache.Get(ctx, cacheKeyPrefix+rawURL)
	if err != nil {
		return nil, false
	}
	products, err := decodeProducts(body)
	if err != nil {
		c.logger.Warn("Dropping undecodable cached response", zap.String("url", rawURL), zap.Error(err))
		_ = c.cache.Delete(ctx, cacheKeyPrefix+rawURL)
		return nil, false
	}
	c.logger.Debug("Cache hit", zap.String("url", rawURL))
	return products, true
}

func (c *Client) toCache(ctx context.Context, rawURL string, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKeyPrefix+rawURL, body, c.cacheTTL); err != nil {
		c.logger.Warn("Failed to cache catalog response", zap.String("url", rawURL), zap.Error(err))
	}
}
