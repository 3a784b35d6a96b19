// Package client is an HTTP client for the assignment API. It keeps the sid
// cookie in a jar so a Client behaves like one signed-in browser tab.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/duedesk/apiserver/internal/apperr"
	"github.com/duedesk/apiserver/internal/view"
	"github.com/duedesk/apiserver/types"
)

// Client talks to one server. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL with an empty cookie jar.
func New(baseURL string) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}, nil
}

type errorBody struct {
	Error   apperr.Code `json:"error"`
	Message string      `json:"message"`
}

// Register creates an account and signs in.
func (c *Client) Register(ctx context.Context, username string) (map[string]types.Assignment, error) {
	var out map[string]types.Assignment
	err := c.do(ctx, http.MethodPost, "/api/users", types.Credentials{Username: username}, &out)
	return out, err
}

// Login signs in to an existing account.
func (c *Client) Login(ctx context.Context, username string) (map[string]types.Assignment, error) {
	var out map[string]types.Assignment
	err := c.do(ctx, http.MethodPost, "/api/session", types.Credentials{Username: username}, &out)
	return out, err
}

// Logout ends the session. It succeeds even when no session was open.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/session", nil, nil)
}

// Whoami reports the signed-in user and role.
func (c *Client) Whoami(ctx context.Context) (types.SessionInfo, error) {
	var out types.SessionInfo
	err := c.do(ctx, http.MethodGet, "/api/session", nil, &out)
	return out, err
}

// List fetches the caller's assignments filtered server-side by f.
func (c *Client) List(ctx context.Context, f types.AssignmentFilter) ([]types.Assignment, error) {
	query := url.Values{}
	if f.Status != "" {
		query.Set("status", f.Status)
	}
	if f.Subject != "" {
		query.Set("subject", f.Subject)
	}
	if f.Sort != "" {
		query.Set("sort", f.Sort)
	}
	path := "/api/assignments"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var out []types.Assignment
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) Create(ctx context.Context, in types.AssignmentInput) (types.Assignment, error) {
	var out types.Assignment
	err := c.do(ctx, http.MethodPost, "/api/assignments", in, &out)
	return out, err
}

func (c *Client) Patch(ctx context.Context, id string, upd types.AssignmentUpdate) (types.Assignment, error) {
	var out types.Assignment
	err := c.do(ctx, http.MethodPatch, "/api/assignments/"+url.PathEscape(id), upd, &out)
	return out, err
}

// Delete removes an assignment and returns the server's notice.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	var out types.DeleteResult
	err := c.do(ctx, http.MethodDelete, "/api/assignments/"+url.PathEscape(id), nil, &out)
	return out.Message, err
}

func (c *Client) Stats(ctx context.Context) (types.Stats, error) {
	var out types.Stats
	err := c.do(ctx, http.MethodGet, "/api/stats", nil, &out)
	return out, err
}

// Subjects lists the global subject registry.
func (c *Client) Subjects(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, "/api/subjects", nil, &out)
	return out, err
}

// Export asks the server to write an admin snapshot. Admin only.
func (c *Client) Export(ctx context.Context) (types.ExportResult, error) {
	var out types.ExportResult
	err := c.do(ctx, http.MethodPost, "/api/admin/exports", nil, &out)
	return out, err
}

// do sends a JSON request. Transport failures become view.NetworkError and
// error responses become *apperr.Error with the server's code.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(view.NetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e errorBody
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			return apperr.Newf(view.UnknownError, "unexpected status %d", resp.StatusCode)
		}
		return apperr.New(e.Error, e.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
