package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sandevgo/novatasks/internal/core"
	"github.com/sandevgo/novatasks/pkg/retry"
)

// Task mirrors the remote task resource. Due dates are RFC3339 strings,
// status is "needsAction" or "completed".
type Task struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	Notes  string `json:"notes,omitempty"`
	Due    string `json:"due,omitempty"`
	Status string `json:"status,omitempty"`
}

// Client is a thin HTTP client for the Google Tasks REST API. The bearer
// token is re-read from the token file on every call so an externally
// refreshed token is picked up without a restart; expiry surfaces as an
// http 401 from the remote side.
type Client struct {
	http      *http.Client
	baseURL   string
	tokenFile string
	retrier   *retry.Retrier
}

func NewClient(baseURL, tokenFile string) *Client {
	return &Client{
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   baseURL,
		tokenFile: tokenFile,
		retrier:   retry.NewDefaultRetrier(),
	}
}

func (c *Client) List(ctx context.Context, tasklist string) (string, error) {
	path := fmt.Sprintf("/lists/%s/tasks?showCompleted=true&showHidden=true", url.PathEscape(tasklist))
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", fmt.Errorf("list tasks: %w", err)
	}
	return string(data), nil
}

func (c *Client) Insert(ctx context.Context, tasklist string, task Task) (string, error) {
	path := fmt.Sprintf("/lists/%s/tasks", url.PathEscape(tasklist))
	data, err := c.do(ctx, http.MethodPost, path, task)
	if err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}
	return string(data), nil
}

func (c *Client) Patch(ctx context.Context, tasklist, taskID string, task Task) (string, error) {
	path := fmt.Sprintf("/lists/%s/tasks/%s", url.PathEscape(tasklist), url.PathEscape(taskID))
	data, err := c.do(ctx, http.MethodPatch, path, task)
	if err != nil {
		return "", fmt.Errorf("patch task: %w", err)
	}
	return string(data), nil
}

func (c *Client) Delete(ctx context.Context, tasklist, taskID string) error {
	path := fmt.Sprintf("/lists/%s/tasks/%s", url.PathEscape(tasklist), url.PathEscape(taskID))
	if _, err := c.do(ctx, http.MethodDelete, path, nil); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// do performs one API call, retrying network failures and 5xx responses
// with backoff. 4xx responses are returned as-is: their body text is what
// the error classifier keys on.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		payload = data
	}

	token, err := readToken(c.tokenFile)
	if err != nil {
		return nil, err
	}

	var out []byte
	var permErr error
	err = c.retrier.Do(ctx, func() error {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("User-Agent", core.NovaUserAgent)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= 500 {
			return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
		}
		if resp.StatusCode >= 400 {
			permErr = fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
			return nil
		}

		out = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	if permErr != nil {
		return nil, permErr
	}
	return out, nil
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}

	var tok struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &tok); err != nil {
		return "", fmt.Errorf("parse token file: %w", err)
	}

	switch {
	case tok.Token != "":
		return tok.Token, nil
	case tok.AccessToken != "":
		return tok.AccessToken, nil
	default:
		return "", fmt.Errorf("no access token in %s", path)
	}
}
