// Package apiclient talks to the Fix My City REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Default failure messages, used when the server does not provide one.
const (
	MsgAuthFailed       = "Something Went Wrong"
	MsgFetchReports     = "Failed to fetch reports"
	MsgFetchUserReports = "Failed to fetch user reports"
	MsgSubmissionFailed = "Something went wrong"
	MsgDeletionFailed   = "Deletion Failed"
)

const (
	RequestIDHeader     = "X-Request-ID"
	authorizationHeader = "Authorization"
	contentTypeJSON     = "application/json"
)

// Client is a thin typed wrapper over the REST API.
// A zero timeout keeps the transport default.
type Client struct {
	http    *http.Client
	baseURL string
	logger  zerolog.Logger
}

// New creates a client for baseURL, e.g. http://localhost:3000/api.
func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With().Str("component", "APIClient").Logger(),
	}
}

// WithHTTPClient swaps the underlying http.Client (tests use httptest clients).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one call. token is sent as a bearer credential when set.
type request struct {
	method     string
	path       string
	token      string
	body       any
	out        any
	defaultMsg string
}

// do sends the request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, r request) error {
	startTime := time.Now()

	var bodyReader io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if r.token != "" {
		req.Header.Set(authorizationHeader, "Bearer "+r.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", r.method).Str("path", r.path).Msg("Request FAILED")
		return fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, r.method, r.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response body: %w", ErrRequestFailed, err)
	}

	c.logger.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(startTime)).
		Msg("Request done")

	return decodeResponse(r, resp.StatusCode, raw)
}

func decodeResponse(r request, status int, raw []byte) error {
	ok := status >= 200 && status < 300

	if len(bytes.TrimSpace(raw)) == 0 {
		if ok && r.out == nil {
			return nil
		}
		return &APIError{Method: r.method, Path: r.path, StatusCode: status, NonJSON: true, Message: "(empty body)"}
	}

	if !json.Valid(raw) {
		return &APIError{Method: r.method, Path: r.path, StatusCode: status, NonJSON: true, Message: truncate(string(raw))}
	}

	if !ok {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		msg := eb.text()
		if msg == "" {
			msg = r.defaultMsg
		}
		return &APIError{Method: r.method, Path: r.path, StatusCode: status, Message: msg}
	}

	if r.out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, r.out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}
