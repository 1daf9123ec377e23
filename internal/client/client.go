// Package client talks to the catalog REST API and normalizes every endpoint
// family into the same page shape.
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

	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/config"
	"github.com/institut/vitrine/internal/pkg/helpers"
	"github.com/institut/vitrine/internal/pkg/logger"
)

// AdminUserHeader carries the administrator name recorded in the audit fields.
const AdminUserHeader = "X-Admin-User"

// Page is one page of a collection as returned by the API.
type Page[T any] = dto.PageResponse[T]

// PageRequest selects a page; Page is 0-based.
type PageRequest = helpers.PageRequest

// Client is a thin JSON client bound to the /api/v1 base URL.
type Client struct {
	baseURL   string
	http      *http.Client
	adminUser string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithAdminUser sets the X-Admin-User header sent with every request.
func WithAdminUser(name string) Option {
	return func(c *Client) { c.adminUser = strings.TrimSpace(name) }
}

// WithTimeout sets the timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a client for baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a client from the client section of the configuration.
func NewFromConfig(cfg *config.Config) *Client {
	return New(cfg.Client.BaseURL,
		WithTimeout(cfg.Client.Timeout),
		WithAdminUser(cfg.Client.AdminUser),
	)
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Formations returns the public formation source.
func (c *Client) Formations() *Formations { return &Formations{c: c} }

// AdminFormations returns the admin formation source listing every non-deleted row.
func (c *Client) AdminFormations() *AdminFormations {
	return &AdminFormations{Formations: Formations{c: c}}
}

// Gallery returns the public gallery source.
func (c *Client) Gallery() *Gallery { return &Gallery{c: c} }

// AdminGallery returns the gallery source that also lists private images.
func (c *Client) AdminGallery() *AdminGallery { return &AdminGallery{Gallery: Gallery{c: c}} }

// Messages returns the public form endpoints.
func (c *Client) Messages() *Messages { return &Messages{c: c} }

// AdminMessages returns the source listing received messages.
func (c *Client) AdminMessages() *AdminMessages { return &AdminMessages{c: c} }

func pageQuery(req PageRequest) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(req.Page))
	if req.Size > 0 {
		q.Set("size", strconv.Itoa(req.Size))
	}
	if req.SortBy != "" {
		q.Set("sortBy", req.SortBy)
	}
	if req.SortOrder != "" {
		q.Set("sortOrder", req.SortOrder)
	}
	return q
}

// send performs the request and returns the raw body of a 2xx answer.
// Any other outcome is a *TransportError.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) ([]byte, int, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminUser != "" {
		req.Header.Set(AdminUserHeader, c.adminUser)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug().Err(err).Str("method", method).Str("url", target).Msg("Catalog request failed")
		return nil, 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		tErr := &TransportError{StatusCode: resp.StatusCode}
		var env dto.ApiResponse[json.RawMessage]
		if json.Unmarshal(raw, &env) == nil {
			tErr.Code, tErr.Message, tErr.Fields = env.Error, env.Message, env.Errors
		}
		logger.Debug().Int("status", resp.StatusCode).Str("method", method).Str("url", target).Msg("Catalog request rejected")
		return nil, resp.StatusCode, tErr
	}
	return raw, resp.StatusCode, nil
}

// enveloped decodes an ApiResponse and turns success=false into an *APIError.
func enveloped[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (*dto.ApiResponse[T], error) {
	raw, status, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	var env dto.ApiResponse[T]
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, &TransportError{StatusCode: status, Err: fmt.Errorf("decode envelope: %w", err)}
		}
	} else {
		env.Success = true
	}
	if !env.Success {
		return nil, &APIError{StatusCode: status, Code: env.Error, Message: env.Message, Fields: env.Errors}
	}
	return &env, nil
}

// raw decodes an unwrapped JSON body.
func raw[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	body, status, err := c.send(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &TransportError{StatusCode: status, Err: fmt.Errorf("decode body: %w", err)}
	}
	return &out, nil
}

// normalize makes sure a page always carries a non-nil content slice.
func normalize[T any](p *Page[T]) *Page[T] {
	if p == nil {
		return nil
	}
	if p.Content == nil {
		p.Content = []T{}
	}
	p.NumberOfElements = len(p.Content)
	p.Empty = len(p.Content) == 0
	return p
}

func isAll(category string) bool {
	category = strings.TrimSpace(category)
	return category == "" || strings.EqualFold(category, "all")
}
