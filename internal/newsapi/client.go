package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pders01/brief/internal/config"
	"github.com/pders01/brief/internal/debuglog"
)

const searchPath = "/v2/everything"

// Client performs single-attempt searches against the news API. It never
// retries; every failure is returned to the caller as one of
// TransportError, RequestFailedError or DecodingError.
type Client struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	userAgent string
	pageSize  int
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		client: &http.Client{
			Timeout: cfg.API.HTTPTimeout,
		},
		baseURL:   strings.TrimRight(cfg.API.BaseURL, "/"),
		apiKey:    cfg.API.APIKey,
		userAgent: cfg.API.UserAgent,
		pageSize:  cfg.API.PageSize,
	}
}

// SearchURL builds the request URL for one page of results.
func (c *Client) SearchURL(query string, page, pageSize int) string {
	if pageSize <= 0 {
		pageSize = c.pageSize
	}
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("apiKey", c.apiKey)

	return c.baseURL + searchPath + "?" + params.Encode()
}

// FetchArticles returns one page of articles matching query. A pageSize of
// zero or less selects the configured page size.
func (c *Client) FetchArticles(ctx context.Context, query string, page, pageSize int) ([]Article, error) {
	log := debuglog.WithFields(map[string]interface{}{"query": query, "page": page})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL(query, page, pageSize), nil)
	if err != nil {
		// Only an unparseable base URL gets here; no request left the process.
		return nil, &TransportError{Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warnf("transport failure: %v", err)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warnf("unexpected status %d", resp.StatusCode)
		return nil, &RequestFailedError{StatusCode: resp.StatusCode}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Warnf("decode failure: %v", err)
		return nil, &DecodingError{Err: err}
	}

	if body.Articles == nil {
		log.Warnf("response without articles (status %q)", body.Status)
		return nil, &DecodingError{Err: errors.New("response has no articles field")}
	}

	log.Debugf("fetched %d articles (total %d)", len(*body.Articles), body.TotalResults)
	return *body.Articles, nil
}
