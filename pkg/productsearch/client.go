package productsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
)

const (
	defaultBaseURL             = "https://openapi.naver.com/v1/search"
	defaultTimeout             = 5 * time.Second
	shopPath                   = "shop.json"
	sortBySimilarity           = "sim"
	maxDisplay                 = 100
	responseBodyReadLimit int64 = 1024
)

var (
	errCredentialsRequired = errors.New("naver client id and secret are required")
	markupRe               = regexp.MustCompile(`</?[^>]+(>|$)`)
)

// Client wraps the Naver shopping search API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the search API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout bounds every search call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 && c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds the search client from the application credentials.
func NewClient(clientID, clientSecret string, opts ...Option) (*Client, error) {
	id := strings.TrimSpace(clientID)
	secret := strings.TrimSpace(clientSecret)
	if id == "" || secret == "" {
		return nil, errCredentialsRequired
	}

	client := &Client{
		clientID:     id,
		clientSecret: secret,
		baseURL:      defaultBaseURL,
		httpClient:   &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return client, nil
}

// Listing is one shopping result with markup already stripped from the title.
type Listing struct {
	Title    string              `json:"title"`
	Link     string              `json:"link"`
	Image    string              `json:"image"`
	LowPrice decimal.NullDecimal `json:"lprice"`
	MallName string              `json:"mallName"`
	Category string              `json:"category"`
	Brand    string              `json:"brand"`
	Maker    string              `json:"maker"`
}

// Search runs a similarity-sorted shopping query returning at most limit listings.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Listing, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product search client not configured")
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}
	if limit <= 0 || limit > maxDisplay {
		limit = maxDisplay
	}

	params := url.Values{}
	params.Set("query", trimmed)
	params.Set("display", strconv.Itoa(limit))
	params.Set("sort", sortBySimilarity)
	endpoint := fmt.Sprintf("%s/%s?%s", strings.TrimRight(c.baseURL, "/"), shopPath, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build search request")
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute search request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "search request failed")
	}

	var apiResp struct {
		Items []struct {
			Title     string `json:"title"`
			Link      string `json:"link"`
			Image     string `json:"image"`
			LowPrice  string `json:"lprice"`
			MallName  string `json:"mallName"`
			Category1 string `json:"category1"`
			Brand     string `json:"brand"`
			Maker     string `json:"maker"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode search response")
	}

	listings := make([]Listing, 0, len(apiResp.Items))
	for _, item := range apiResp.Items {
		listing := Listing{
			Title:    StripMarkup(item.Title),
			Link:     item.Link,
			Image:    item.Image,
			MallName: item.MallName,
			Category: item.Category1,
			Brand:    item.Brand,
			Maker:    item.Maker,
		}
		if price, err := decimal.NewFromString(strings.TrimSpace(item.LowPrice)); err == nil {
			listing.LowPrice = decimal.NewNullDecimal(price)
		}
		listings = append(listings, listing)
	}
	if len(listings) > limit {
		listings = listings[:limit]
	}
	return listings, nil
}

// StripMarkup removes the highlight tags the API wraps around matched terms.
func StripMarkup(value string) string {
	return strings.TrimSpace(markupRe.ReplaceAllString(value, ""))
}
