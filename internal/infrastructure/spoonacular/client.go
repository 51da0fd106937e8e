package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/calorietrack/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	// DefaultPageSize is the number of results requested per search page.
	DefaultPageSize = 100

	// detailAmount/detailUnit normalize every detail fetch to a 100 g
	// reference serving so nutrition values are comparable.
	detailAmount = "100"
	detailUnit   = "gram"
)

// Client handles communication with the Spoonacular food API.
type Client struct {
	httpClient   *http.Client
	apiKey       string
	baseURL      string
	imageBaseURL string
	pageSize     int
	rateLimiter  *rate.Limiter
	debug        bool
}

// NewClient creates a new Spoonacular API client.
func NewClient(apiKey, baseURL string) *Client {
	// The free tier allows roughly 1 request/second sustained; allow a
	// small burst so a search page plus first detail fetch don't queue.
	limiter := rate.NewLimiter(rate.Limit(1), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:       apiKey,
		baseURL:      baseURL,
		imageBaseURL: "https://img.spoonacular.com",
		pageSize:     DefaultPageSize,
		rateLimiter:  limiter,
	}
}

// SetDebug enables verbose request/response logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SetPageSize overrides the default search page size.
func (c *Client) SetPageSize(size int) {
	if size > 0 {
		c.pageSize = size
	}
}

// SetImageBaseURL overrides the image CDN base used when building item
// image URLs.
func (c *Client) SetImageBaseURL(base string) {
	if base != "" {
		c.imageBaseURL = base
	}
}

// PageSize returns the configured search page size.
func (c *Client) PageSize() int {
	return c.pageSize
}

// SearchPage fetches a single page of ingredient search results at the
// given offset. Results are returned in the order the API lists them.
func (c *Client) SearchPage(ctx context.Context, query string, offset int) (*domain.IngredientSearchResponse, error) {
	endpoint := fmt.Sprintf("%s/food/ingredients/search", c.baseURL)
	params := url.Values{}
	params.Add("query", query)
	params.Add("number", strconv.Itoa(c.pageSize))
	params.Add("offset", strconv.Itoa(offset))
	params.Add("metaInformation", "true")
	params.Add("apiKey", c.apiKey)

	if c.debug {
		log.Printf("[SPOONACULAR] SearchPage query=%q offset=%d", query, offset)
	}

	body, err := c.get(ctx, fmt.Sprintf("%s?%s", endpoint, params.Encode()))
	if err != nil {
		return nil, err
	}

	var page domain.IngredientSearchResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	if c.debug {
		log.Printf("[SPOONACULAR] SearchPage query=%q offset=%d -> %d results", query, offset, len(page.Results))
	}
	return &page, nil
}

// FetchDetail fetches nutrition detail for one ingredient, normalized to
// a 100 g serving, mapped to the domain model. A 429 response surfaces as
// a StatusError carrying the Retry-After header when the server supplied
// one; retrying is the caller's concern.
func (c *Client) FetchDetail(ctx context.Context, id int) (*domain.EnrichedFoodItem, error) {
	endpoint := fmt.Sprintf("%s/food/ingredients/%d/information", c.baseURL, id)
	params := url.Values{}
	params.Add("amount", detailAmount)
	params.Add("unit", detailUnit)
	params.Add("apiKey", c.apiKey)

	body, err := c.get(ctx, fmt.Sprintf("%s?%s", endpoint, params.Encode()))
	if err != nil {
		return nil, err
	}

	var detail domain.IngredientDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	item := c.MapDetail(&detail)
	return &item, nil
}

// get executes a rate-limited GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "CalorieTrack/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &domain.StatusError{Code: resp.StatusCode, Body: string(body)}
		if resp.StatusCode == http.StatusTooManyRequests {
			se.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		}
		if c.debug {
			log.Printf("[SPOONACULAR] GET %s -> %d", req.URL.Path, resp.StatusCode)
		}
		return nil, se
	}

	return body, nil
}

// parseRetryAfter handles the integer-seconds form of the Retry-After
// header. HTTP-date values are not used by the upstream API and map to 0.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
