package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/legisdash/legisdash/config"
	"github.com/legisdash/legisdash/internal/core/listquery"
	"github.com/legisdash/legisdash/internal/core/validation"
	"github.com/legisdash/legisdash/internal/logger"
	"github.com/legisdash/legisdash/internal/metrics"
)

// TotalCountHeader carries the unpaginated row count when the API sends one.
const TotalCountHeader = "X-Total-Count"

// Client talks to the read-only legislative API. It never retries.
type Client struct {
	baseURL   string
	http      *http.Client
	validator *validation.Validator
	log       *logger.Logger
	metrics   *metrics.Metrics
}

func NewClient(cfg *config.UpstreamConfig, log *logger.Logger, m *metrics.Metrics) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		http:      &http.Client{Timeout: cfg.Timeout},
		validator: validation.NewValidator(),
		log:       log.Component("upstream"),
		metrics:   m,
	}
}

// RawPage is an undecoded list response.
type RawPage struct {
	Rows       json.RawMessage
	Total      int
	TotalKnown bool
}

type wrappedList struct {
	Data  json.RawMessage `json:"data"`
	Items json.RawMessage `json:"items"`
	Total *int            `json:"total"`
}

// List fetches one page of a list endpoint. The body is either a JSON array
// or an object wrapping it under "data" or "items" with an optional "total".
func (c *Client) List(ctx context.Context, resource string, params url.Values) (RawPage, error) {
	u := c.baseURL + "/" + resource
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	resp, body, err := c.get(ctx, resource, u)
	if err != nil {
		return RawPage{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return RawPage{}, &NetworkError{Method: http.MethodGet, URL: u, StatusCode: resp.StatusCode}
	}

	page := RawPage{}
	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		page.Rows = trimmed
	case len(trimmed) > 0 && trimmed[0] == '{':
		var w wrappedList
		if err := json.Unmarshal(trimmed, &w); err != nil {
			return RawPage{}, &DecodeError{URL: u, Err: err}
		}
		page.Rows = w.Data
		if page.Rows == nil {
			page.Rows = w.Items
		}
		if page.Rows == nil {
			return RawPage{}, &DecodeError{URL: u, Err: errors.New("missing data array")}
		}
		if w.Total != nil {
			page.Total, page.TotalKnown = *w.Total, true
		}
	default:
		return RawPage{}, &DecodeError{URL: u, Err: errors.New("expected a JSON array or object")}
	}

	if h := resp.Header.Get(TotalCountHeader); h != "" {
		n, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil || n < 0 {
			return RawPage{}, &DecodeError{URL: u, Err: fmt.Errorf("invalid %s header %q", TotalCountHeader, h)}
		}
		page.Total, page.TotalKnown = n, true
	}

	if page.TotalKnown && page.Total < 0 {
		return RawPage{}, &DecodeError{URL: u, Err: errors.New("negative total")}
	}
	return page, nil
}

// Get fetches a single object at resource/id[/sub...]. A 404 becomes NotFoundError.
func (c *Client) Get(ctx context.Context, resource, id string, sub ...string) (json.RawMessage, error) {
	parts := append([]string{c.baseURL, resource, url.PathEscape(id)}, sub...)
	u := strings.Join(parts, "/")

	resp, body, err := c.get(ctx, resource, u)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Resource: resource, ID: id}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Method: http.MethodGet, URL: u, StatusCode: resp.StatusCode}
	}

	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return nil, &DecodeError{URL: u, Err: errors.New("invalid JSON body")}
	}
	return trimmed, nil
}

// Path fetches a JSON document at an arbitrary path under the base URL, e.g.
// a ranking endpoint.
func (c *Client) Path(ctx context.Context, resource string, path string, params url.Values) (json.RawMessage, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	resp, body, err := c.get(ctx, resource, u)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Method: http.MethodGet, URL: u, StatusCode: resp.StatusCode}
	}
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return nil, &DecodeError{URL: u, Err: errors.New("invalid JSON body")}
	}
	return trimmed, nil
}

func (c *Client) get(ctx context.Context, resource, u string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, &NetworkError{Method: http.MethodGet, URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.record(resource, u, 0, start, err)
		return nil, nil, &NetworkError{Method: http.MethodGet, URL: u, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(resource, u, resp.StatusCode, start, err)
		return nil, nil, &NetworkError{Method: http.MethodGet, URL: u, Err: err}
	}
	c.record(resource, u, resp.StatusCode, start, nil)
	return resp, body, nil
}

func (c *Client) record(resource, u string, status int, start time.Time, err error) {
	elapsed := time.Since(start)
	c.log.LogUpstreamRequest(http.MethodGet, u, status, elapsed, err)
	if c.metrics != nil {
		label := strconv.Itoa(status)
		if err != nil {
			label = "error"
		}
		c.metrics.RecordUpstreamRequest(resource, label, elapsed)
	}
}

// ValidateRows checks a raw rows array against an item schema.
func (c *Client) ValidateRows(u string, rows json.RawMessage, itemSchema map[string]interface{}) error {
	if err := c.validator.ValidateRows(rows, itemSchema); err != nil {
		return &DecodeError{URL: u, Err: err}
	}
	return nil
}

// ListOf fetches a list page and decodes it into T after schema validation.
func ListOf[T any](ctx context.Context, c *Client, resource string, params url.Values, itemSchema map[string]interface{}) (listquery.ResultSet[T], error) {
	page, err := c.List(ctx, resource, params)
	if err != nil {
		return listquery.ResultSet[T]{}, err
	}
	if err := c.ValidateRows(resource, page.Rows, itemSchema); err != nil {
		return listquery.ResultSet[T]{}, err
	}

	var rows []T
	if err := json.Unmarshal(page.Rows, &rows); err != nil {
		return listquery.ResultSet[T]{}, &DecodeError{URL: resource, Err: err}
	}
	if rows == nil {
		rows = []T{}
	}
	return listquery.ResultSet[T]{Rows: rows, Total: page.Total, TotalKnown: page.TotalKnown}, nil
}

// GetOf fetches and decodes a single object.
func GetOf[T any](ctx context.Context, c *Client, schema map[string]interface{}, resource, id string, sub ...string) (*T, error) {
	raw, err := c.Get(ctx, resource, id, sub...)
	if err != nil {
		return nil, err
	}
	return Decode[T](c, resource, raw, schema)
}

// Decode validates raw against schema and unmarshals it.
func Decode[T any](c *Client, resource string, raw json.RawMessage, schema map[string]interface{}) (*T, error) {
	if err := c.validator.ValidateJSON(raw, schema); err != nil {
		return nil, &DecodeError{URL: resource, Err: err}
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &DecodeError{URL: resource, Err: err}
	}
	return &out, nil
}
