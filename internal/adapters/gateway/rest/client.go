package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"clubhouse/internal/adapters/gateway"
)

// Client talks to a hosted PostgREST-style relational store (one endpoint
// per table under /rest/v1, filters as query parameters, API key headers).
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a Client for the given base URL and API key.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Ping checks that the REST endpoint answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("gateway unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// SelectAll returns every row of a table.
func (c *Client) SelectAll(ctx context.Context, table string) ([]gateway.Row, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.tableURL(table)+"?select=*", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("select", table, resp)
	}
	var rows []gateway.Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("select %s: decode: %w", table, err)
	}
	return rows, nil
}

// Insert appends rows to a table.
func (c *Client) Insert(ctx context.Context, table string, rows []gateway.Row) error {
	if len(rows) == 0 {
		return nil
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("insert %s: encode: %w", table, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.tableURL(table), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return statusError("insert", table, resp)
	}
	return nil
}

// Update applies a partial row to the record whose id matches.
func (c *Client) Update(ctx context.Context, table string, patch gateway.Row, id string) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("update %s: encode: %w", table, err)
	}
	target := c.tableURL(table) + "?id=eq." + url.QueryEscape(id)
	req, err := c.newRequest(ctx, http.MethodPatch, target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return statusError("update", table, resp)
	}
	return nil
}

// Delete removes the record whose id matches.
func (c *Client) Delete(ctx context.Context, table string, id string) error {
	target := c.tableURL(table) + "?id=eq." + url.QueryEscape(id)
	req, err := c.newRequest(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return statusError("delete", table, resp)
	}
	return nil
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + "/rest/v1/" + table
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func statusError(op, table string, resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s %s: status %d: %s", op, table, resp.StatusCode, string(detail))
}
