// Package client provides an HTTP client for the invest-compare REST API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/evcraddock/invest-compare/internal/comparison"
	"github.com/evcraddock/invest-compare/internal/engine"
)

// Client is an HTTP client for the invest-compare API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	// Fields is set when the server rejected individual input fields.
	Fields []comparison.FieldError
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "server error: " + http.StatusText(e.StatusCode)
}

func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// CreateComparison computes and stores a comparison on the server.
func (c *Client) CreateComparison(in engine.Input) (*comparison.Comparison, error) {
	var cmp comparison.Comparison
	if err := c.post("/api/comparisons", in, &cmp); err != nil {
		return nil, err
	}
	return &cmp, nil
}

// GetComparison returns a stored comparison. found is false when the server
// has no comparison with that id.
func (c *Client) GetComparison(id int64) (*comparison.Comparison, bool, error) {
	var cmp comparison.Comparison
	if err := c.get(fmt.Sprintf("/api/comparisons/%d", id), &cmp); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &cmp, true, nil
}

// ListComparisons returns stored comparisons, newest first. Zero limit means
// no limit.
func (c *Client) ListComparisons(limit, offset int) ([]*comparison.Comparison, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	path := "/api/comparisons"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var list []*comparison.Comparison
	if err := c.get(path, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetSchedule returns the yearly schedule of a stored comparison.
func (c *Client) GetSchedule(id int64) ([]engine.Year, bool, error) {
	var years []engine.Year
	if err := c.get(fmt.Sprintf("/api/comparisons/%d/schedule", id), &years); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return years, true, nil
}

// GetChart returns the PNG chart of a stored comparison.
func (c *Client) GetChart(id int64) ([]byte, bool, error) {
	req, err := http.NewRequest("GET", c.baseURL+fmt.Sprintf("/api/comparisons/%d/chart.png", id), nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	data, err := c.send(req)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Health checks that the server is reachable.
func (c *Client) Health() error {
	var resp map[string]string
	if err := c.get("/health", &resp); err != nil {
		return err
	}
	if resp["status"] != "ok" {
		return fmt.Errorf("unexpected health status %q", resp["status"])
	}
	return nil
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// do sends the request and decodes a JSON response into result.
func (c *Client) do(req *http.Request, result interface{}) error {
	respBody, err := c.send(req)
	if err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// send executes an HTTP request with auth header and handles errors.
func (c *Client) send(req *http.Request) ([]byte, error) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp struct {
			Error  string                  `json:"error"`
			Fields []comparison.FieldError `json:"fields"`
		}
		if json.Unmarshal(respBody, &errResp) == nil {
			apiErr.Message = errResp.Error
			apiErr.Fields = errResp.Fields
		}
		return nil, apiErr
	}

	return respBody, nil
}
