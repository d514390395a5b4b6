// Package client talks to the restaurant REST API: one HTTP call per
// (resource, operation, id, body) tuple, JSON both ways.
//
// It does not cache, retry or dedupe. Calls block until the server answers
// or the caller's context ends.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
)

type Client struct {
	baseURL string
	http    *http.Client
	lg      *logger.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }
func WithLogger(lg *logger.Logger) Option  { return func(c *Client) { c.lg = lg } }

// New binds the client to one fixed base URL, e.g. http://127.0.0.1:8080.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{},
		lg:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) List(ctx context.Context, resource string) ([]domain.Record, error) {
	var out []domain.Record
	if err := c.do(ctx, http.MethodGet, collectionPath(resource), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Record{}
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, resource, id string) (domain.Record, error) {
	var out domain.Record
	if err := c.do(ctx, http.MethodGet, itemPath(resource, id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts draft and returns the server echo, identifier included.
func (c *Client) Create(ctx context.Context, resource string, draft domain.Record) (domain.Record, error) {
	var out domain.Record
	if err := c.do(ctx, http.MethodPost, collectionPath(resource), draft, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces every field of the record (PUT, not a patch).
func (c *Client) Update(ctx context.Context, resource, id string, draft domain.Record) (domain.Record, error) {
	var out domain.Record
	if err := c.do(ctx, http.MethodPut, itemPath(resource, id), draft, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Remove(ctx context.Context, resource, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(resource, id), nil, nil)
}

type LoginResult struct {
	UserID     string
	Authorized bool
	Profile    domain.Record
}

// Login posts {login, senha}. The returned id is trusted as is; nothing is
// attached to later requests.
func (c *Client) Login(ctx context.Context, login, senha string) (LoginResult, error) {
	var out domain.Record
	err := c.do(ctx, http.MethodPost, "/login", domain.LoginRequest{Login: login, Senha: senha}, &out)
	var re *RequestError
	if errors.As(err, &re) {
		return LoginResult{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, re.Message)
	}
	if err != nil {
		return LoginResult{}, err
	}
	authorized, _ := out["autorizado"].(bool)
	return LoginResult{UserID: out.ID("id"), Authorized: authorized, Profile: out}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if rid := logger.FromContext(ctx, c.lg).RequestID(); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.lg.Debug("api_request_failed", map[string]any{"method": method, "path": path, "error": err.Error()})
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	c.lg.Debug("api_request", map[string]any{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Method: method, Path: path, Status: resp.StatusCode, Message: errorMessage(payload, resp.StatusCode)}
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func collectionPath(resource string) string {
	return "/" + url.PathEscape(resource)
}

func itemPath(resource, id string) string {
	return collectionPath(resource) + "/" + url.PathEscape(id)
}
