// Package client is a Go client for the inventory items HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const maxResponseBytes = 4 << 20

// Item is an inventory item as returned by the API
type Item struct {
	ID        string          `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  *string         `json:"category"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Supplier  *string         `json:"supplier"`
	Status    string          `json:"status"`
	Note      *string         `json:"note"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ItemInput is the body of create and update requests
type ItemInput struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  *string         `json:"category"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Supplier  *string         `json:"supplier"`
	Status    string          `json:"status"`
	Note      *string         `json:"note"`
}

// ListParams selects a page of items. Zero values are omitted and the
// server applies its defaults.
type ListParams struct {
	Search   string
	Status   string
	Page     int
	PageSize int
	Sort     string
	Order    string
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("search", p.Search)
	set("status", p.Status)
	set("sort", p.Sort)
	set("order", p.Order)
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	return v
}

// ListMeta describes the returned page
type ListMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// ItemList is one page of items
type ItemList struct {
	Data []Item   `json:"data"`
	Meta ListMeta `json:"meta"`
}

// APIError is a non-2xx reply. Errors holds per-field messages for
// validation failures and SKU conflicts.
type APIError struct {
	Status  int
	Message string
	Errors  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d: %s %v", e.Status, e.Message, e.Errors)
}

// Client calls the inventory API rooted at a base URL such as
// http://localhost:8080/api.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the API at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListItems fetches one page of items
func (c *Client) ListItems(ctx context.Context, params ListParams) (*ItemList, error) {
	path := "/items"
	if q := params.values().Encode(); q != "" {
		path += "?" + q
	}

	var list ItemList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetItem fetches a single item
func (c *Client) GetItem(ctx context.Context, id string) (*Item, error) {
	var item Item
	if err := c.do(ctx, http.MethodGet, "/items/"+url.PathEscape(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem stores a new item
func (c *Client) CreateItem(ctx context.Context, in ItemInput) (*Item, error) {
	var item Item
	if err := c.do(ctx, http.MethodPost, "/items", in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem replaces every mutable field of an item
func (c *Client) UpdateItem(ctx context.Context, id string, in ItemInput) (*Item, error) {
	var item Item
	if err := c.do(ctx, http.MethodPut, "/items/"+url.PathEscape(id), in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes an item
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/items/"+url.PathEscape(id), nil, nil)
}

// ValidateField checks the form without saving it and returns the error
// message for field, or "" when the field is valid. The other form values
// take part in the check.
func (c *Client) ValidateField(ctx context.Context, field string, form map[string]any) (string, error) {
	var res struct {
		Valid  bool              `json:"valid"`
		Errors map[string]string `json:"errors"`
	}
	path := "/items/validate?" + url.Values{"field": {field}}.Encode()
	if err := c.do(ctx, http.MethodPost, path, form, &res); err != nil {
		return "", err
	}
	return res.Errors[field], nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e struct {
			Message string            `json:"message"`
			Errors  map[string]string `json:"errors"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Message != "" {
			apiErr.Message = e.Message
			apiErr.Errors = e.Errors
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
