// Package http provides the HTTP implementation of the vendor catalog
// client and the chunk downloader.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/partdex"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the vendor's component search API root.
const DefaultBaseURL = "https://jlcpcb.com/api/overseas-pcb-order/v1/shoppingCart/smtGood"

// DefaultTransferTimeout bounds every request; large chunk transfers need
// the headroom.
const DefaultTransferTimeout = 300 * time.Second

// tokenTTL is how long a session token stays valid. The vendor issues
// tokens good for about three minutes.
const tokenTTL = 180 * time.Second

// emptyResultCodes are API status codes that signify "no data for this
// query". They are deterministic for the given query parameters, so
// retrying them is pointless; they are treated as a valid empty page.
var emptyResultCodes = map[int]bool{563: true, 564: true, 404: true, 429: true}

// Ensure Client implements partdex.CatalogClient at compile time.
var _ partdex.CatalogClient = (*Client)(nil)

// Client retrieves component records from the vendor API.
type Client struct {
	// BaseURL overrides the API root. Defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient is the underlying HTTP client. Defaults to a client with
	// DefaultTransferTimeout.
	HTTPClient *http.Client

	// Limiter, when set, throttles page fetches. Sharing one limiter
	// across sessions gives the process-wide throttle the vendor expects
	// (at most one request per 3 seconds).
	Limiter *rate.Limiter

	// PageRetry is the backoff applied to each page fetch.
	// Defaults to partdex.PageRetryPolicy.
	PageRetry partdex.RetryPolicy

	// PageSize is the number of records requested per page. Defaults to
	// partdex.PageSize, the maximum the API allows.
	PageSize int

	mu         sync.Mutex
	token      string
	tokenValid time.Time
}

// NewLimiter returns the process-wide page fetch throttle: one request per
// three seconds, no bursting.
func NewLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(3*time.Second), 1)
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: DefaultTransferTimeout}
}

func (c *Client) pageRetry() partdex.RetryPolicy {
	if c.PageRetry.MaxAttempts > 0 {
		return c.PageRetry
	}
	return partdex.PageRetryPolicy()
}

func (c *Client) pageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return partdex.PageSize
}

// getToken returns a session token, fetching a new one with backoff when
// the cached token has expired.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenValid) {
		return c.token, nil
	}

	err := c.pageRetry().Do(ctx, func(ctx context.Context) error {
		return c.fetchToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return c.token, nil
}

// fetchToken performs one token request. Callers must hold c.mu.
func (c *Client) fetchToken(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+"/getXSRFToken", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return partdex.Errorf(partdex.ETRANSIENT, "token fetch failed: %v", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "XSRF-TOKEN" {
			c.token = cookie.Value
			c.tokenValid = time.Now().Add(tokenTTL)
			return nil
		}
	}
	return partdex.Errorf(partdex.ETRANSIENT, "token fetch returned no XSRF-TOKEN cookie")
}

// listRequest is the component-search endpoint payload.
type listRequest struct {
	SearchType     int      `json:"searchType"`
	PresaleTypes   []string `json:"presaleTypes"`
	FirstSortName  string   `json:"firstSortName,omitempty"`
	SecondSortName string   `json:"secondSortName,omitempty"`
	CurrentPage    int      `json:"currentPage,omitempty"`
	PageSize       int      `json:"pageSize,omitempty"`
}

// listResponse is the component-search endpoint envelope.
type listResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		SortAndCountVoList []struct {
			SortName      string `json:"sortName"`
			ChildSortList []struct {
				SortName       string `json:"sortName"`
				ComponentCount int    `json:"componentCount"`
			} `json:"childSortList"`
		} `json:"sortAndCountVoList"`
		ComponentPageInfo struct {
			List []json.RawMessage `json:"list"`
		} `json:"componentPageInfo"`
	} `json:"data"`
}

// componentList posts one search request. A nil response with nil error
// means the API reported a deterministic empty result.
func (c *Client) componentList(ctx context.Context, token string, request listRequest) (*listResponse, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL()+"/selectSmtComponentList", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-XSRF-TOKEN", token)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, partdex.Errorf(partdex.ETRANSIENT, "component list fetch failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, partdex.Errorf(partdex.ETRANSIENT, "component list fetch returned HTTP %d", resp.StatusCode)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, partdex.Errorf(partdex.ETRANSIENT, "malformed component list response: %v", err)
	}
	if emptyResultCodes[body.Code] {
		return nil, nil
	}
	if body.Code != 200 {
		return nil, partdex.Errorf(partdex.ETRANSIENT, "component list returned %d: %s", body.Code, body.Message)
	}
	return &body, nil
}

// FetchCategories returns the vendor's category listing with in-stock part
// counts. Transient failures surface as ETRANSIENT for the caller to retry
// with partdex.CategoryRetryPolicy.
func (c *Client) FetchCategories(ctx context.Context, inStockOnly bool) ([]partdex.Category, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := c.componentList(ctx, token, listRequest{
		SearchType:   1,
		PresaleTypes: presaleTypes(inStockOnly),
	})
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	var categories []partdex.Category
	for _, primary := range body.Data.SortAndCountVoList {
		for _, secondary := range primary.ChildSortList {
			categories = append(categories, partdex.Category{
				Primary:   primary.SortName,
				Secondary: secondary.SortName,
				Count:     secondary.ComponentCount,
			})
		}
	}
	return categories, nil
}

// FetchComponents pages through every in-stock component of the category in
// strictly increasing page order, invoking fn with each page. The session
// token is fetched once up front; each page fetch is individually retried
// and, when a limiter is configured, throttled.
func (c *Client) FetchComponents(ctx context.Context, cat partdex.Category, fn func(batch []*partdex.Component) error) error {
	token, err := c.getToken(ctx)
	if err != nil {
		return err
	}

	session := &categoryFetch{
		client:   c,
		category: cat,
		token:    token,
		page:     1,
	}

	for {
		batch, err := session.nextPage(ctx)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		if err := fn(batch); err != nil {
			return err
		}
	}
}

// categoryFetch holds the paging state for one category: the current page
// cursor and the session token. The API is stateful per page cursor, so
// pages must be requested in increasing order.
type categoryFetch struct {
	client   *Client
	category partdex.Category
	token    string
	page     int
}

// nextPage fetches the next page of the category, advancing the cursor
// only on success.
func (s *categoryFetch) nextPage(ctx context.Context) ([]*partdex.Component, error) {
	if s.client.Limiter != nil {
		if err := s.client.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	request := listRequest{
		SearchType:     2,
		PresaleTypes:   presaleTypes(true),
		FirstSortName:  s.category.Primary,
		SecondSortName: s.category.Secondary,
		CurrentPage:    s.page,
		PageSize:       s.client.pageSize(),
	}

	var batch []*partdex.Component
	err := s.client.pageRetry().Do(ctx, func(ctx context.Context) error {
		body, err := s.client.componentList(ctx, s.token, request)
		if err != nil {
			return err
		}
		batch = nil
		if body == nil {
			return nil
		}
		now := time.Now().Unix()
		for _, raw := range body.Data.ComponentPageInfo.List {
			comp, err := componentFromRecord(raw, now)
			if err != nil {
				return fmt.Errorf("page %d: %w", s.page, err)
			}
			batch = append(batch, comp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(batch) > 0 {
		s.page++
	}
	return batch, nil
}

func presaleTypes(inStockOnly bool) []string {
	if inStockOnly {
		return []string{"stock"}
	}
	return []string{}
}
