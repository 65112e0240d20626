package supabase

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client exposes the table operations of a PostgREST endpoint.
type Client interface {
	Select(ctx context.Context, table string, q Query, dest any) error
	Insert(ctx context.Context, table string, rows any, dest any) error
	Update(ctx context.Context, table string, fields map[string]any, id int64) error
	Delete(ctx context.Context, table string, id int64) error
}

// Config holds what the client needs to reach the project.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Query narrows and orders a select.
type Query struct {
	OrderBy    string
	Descending bool
	// Eq adds column=eq.value filters.
	Eq map[string]string
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a client for the project's REST endpoint.
func NewClient(cfg Config) *APIClient {
	base := strings.TrimSuffix(cfg.URL, "/")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base+"/rest/v1").
		SetHeader("apikey", cfg.APIKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &APIClient{httpClient: restyClient}
}

// APIError represents a PostgREST error payload.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase api error: status=%d, code=%s, message=%s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase api error: status=%d, message=%s", e.Status, e.Message)
}

// Select reads rows of table into dest, which must be a pointer to a slice.
func (c *APIClient) Select(ctx context.Context, table string, q Query, dest any) error {
	apiErr := new(APIError)

	req := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("select", "*").
		SetResult(dest).
		SetError(apiErr)

	if q.OrderBy != "" {
		dir := "asc"
		if q.Descending {
			dir = "desc"
		}
		req.SetQueryParam("order", q.OrderBy+"."+dir)
	}
	for column, value := range q.Eq {
		req.SetQueryParam(column, "eq."+value)
	}

	resp, err := req.Get("/" + table)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return checkResponse(resp, apiErr)
}

// Insert adds rows to table. When dest is non-nil the inserted rows are
// returned into it.
func (c *APIClient) Insert(ctx context.Context, table string, rows any, dest any) error {
	apiErr := new(APIError)

	req := c.httpClient.R().
		SetContext(ctx).
		SetBody(rows).
		SetError(apiErr)
	if dest != nil {
		req.SetHeader("Prefer", "return=representation").SetResult(dest)
	} else {
		req.SetHeader("Prefer", "return=minimal")
	}

	resp, err := req.Post("/" + table)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return checkResponse(resp, apiErr)
}

// Update patches fields on the row whose id matches.
func (c *APIClient) Update(ctx context.Context, table string, fields map[string]any, id int64) error {
	apiErr := new(APIError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+strconv.FormatInt(id, 10)).
		SetHeader("Prefer", "return=minimal").
		SetBody(fields).
		SetError(apiErr).
		Patch("/" + table)
	if err != nil {
		return fmt.Errorf("update %s id=%d: %w", table, id, err)
	}
	return checkResponse(resp, apiErr)
}

// Delete removes the row whose id matches.
func (c *APIClient) Delete(ctx context.Context, table string, id int64) error {
	apiErr := new(APIError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+strconv.FormatInt(id, 10)).
		SetError(apiErr).
		Delete("/" + table)
	if err != nil {
		return fmt.Errorf("delete from %s id=%d: %w", table, id, err)
	}
	return checkResponse(resp, apiErr)
}

func checkResponse(resp *resty.Response, apiErr *APIError) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	apiErr.Status = resp.StatusCode()
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(resp.String())
	}
	return apiErr
}
