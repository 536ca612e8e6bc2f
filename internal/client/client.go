// Package client is a typed HTTP client for the todo API.
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
	"strconv"
	"strings"
	"time"

	"github.com/jaekwang-park/tasktrack/internal/model"
)

const defaultTimeout = 10 * time.Second

// Client calls the todo REST API. It never retries; any non-2xx response
// comes back as an *APIError.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout bounds each request. It applies to a copy of the http.Client,
// so a client passed to WithHTTPClient is left as it was.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a client for the API rooted at baseURL, including the
// route prefix (e.g. http://localhost:8080/api).
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	c := &Client{baseURL: baseURL, client: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.client
		hc.Timeout = c.timeout
		c.client = &hc
	}
	return c
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type CreateRequest struct {
	Title       string         `json:"title"`
	Description *string        `json:"description,omitempty"`
	Priority    model.Priority `json:"priority,omitempty"`
	DueDate     *string        `json:"due_date,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Tags        *string        `json:"tags,omitempty"`
}

// UpdateRequest sends only the fields that are set. A Null Nullable clears
// the stored value.
type UpdateRequest struct {
	Title       *string                `json:"title,omitempty"`
	Description model.Nullable[string] `json:"description,omitzero"`
	Completed   *bool                  `json:"completed,omitempty"`
	Priority    *model.Priority        `json:"priority,omitempty"`
	DueDate     model.Nullable[string] `json:"due_date,omitzero"`
	Category    model.Nullable[string] `json:"category,omitzero"`
	Tags        model.Nullable[string] `json:"tags,omitzero"`
}

func (c *Client) List(ctx context.Context, filter model.TodoFilter) ([]model.Todo, error) {
	q := url.Values{}
	if filter.Completed != nil {
		q.Set("completed", strconv.FormatBool(*filter.Completed))
	}
	if filter.Priority != nil {
		q.Set("priority", string(*filter.Priority))
	}
	if filter.Category != nil {
		q.Set("category", *filter.Category)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.DueDate != nil {
		q.Set("due_date", *filter.DueDate)
	}

	path := "/todos"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var todos []model.Todo
	if err := c.do(ctx, http.MethodGet, path, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *Client) Get(ctx context.Context, id string) (model.Todo, error) {
	var todo model.Todo
	err := c.do(ctx, http.MethodGet, "/todos/"+url.PathEscape(id), nil, &todo)
	return todo, err
}

func (c *Client) Create(ctx context.Context, req CreateRequest) (model.Todo, error) {
	var todo model.Todo
	err := c.do(ctx, http.MethodPost, "/todos", req, &todo)
	return todo, err
}

func (c *Client) Update(ctx context.Context, id string, req UpdateRequest) (model.Todo, error) {
	var todo model.Todo
	err := c.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(id), req, &todo)
	return todo, err
}

func (c *Client) Toggle(ctx context.Context, id string, completed bool) (model.Todo, error) {
	var todo model.Todo
	body := map[string]bool{"completed": completed}
	err := c.do(ctx, http.MethodPatch, "/todos/"+url.PathEscape(id)+"/toggle", body, &todo)
	return todo, err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Stats(ctx context.Context) (model.TodoStats, error) {
	var stats model.TodoStats
	err := c.do(ctx, http.MethodGet, "/todos/stats/overview", nil, &stats)
	return stats, err
}

func (c *Client) do(ctx context.Context, method, path string, payload, dest any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readErrorResponse(resp)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func readErrorResponse(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
		apiErr.Code = payload.Code
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(data))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
