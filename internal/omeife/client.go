// Package omeife is a small client for the Omeife developer API: text
// translation and text-to-speech.
package omeife

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Omeife API base URL.
	DefaultBaseURL = "https://apis.omeife.ai/api/v1/"

	// DefaultSourceLanguage is the language input text is assumed to be in.
	DefaultSourceLanguage = "english"

	translatePath = "user/developer/translate"
	speechPath    = "user/developer/text-to-speech"

	// maxErrorBody caps how much of a failed response is kept for logs.
	maxErrorBody = 4096
)

// Config holds everything a Client needs. It is built once per run.
type Config struct {
	// BaseURL of the API, e.g. https://apis.omeife.ai/api/v1/
	BaseURL string

	// APIKey is sent as a bearer token.
	APIKey string

	// SourceLanguage is sent as "from" on translation requests.
	SourceLanguage string

	// Timeout for each HTTP request. Zero means no timeout.
	Timeout time.Duration

	// RequestsPerMinute limits outgoing requests. Zero means unlimited.
	RequestsPerMinute int

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client wraps HTTP calls to the Omeife API.
type Client struct {
	httpClient     *http.Client
	apiKey         string
	baseURL        string
	sourceLanguage string
	limiter        *rate.Limiter
}

// NewClient constructs a Client from cfg, filling in defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.SourceLanguage == "" {
		cfg.SourceLanguage = DefaultSourceLanguage
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &Client{
		httpClient:     httpClient,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		baseURL:        cfg.BaseURL,
		sourceLanguage: cfg.SourceLanguage,
		limiter:        limiter,
	}
}

// endpoint joins the base URL and an API path.
func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.baseURL, "/") + "/" + path
}

// checkKey fails fast when no API key is configured.
func (c *Client) checkKey(op string) error {
	if c.apiKey == "" {
		return newError(ErrorCodeCredentialMissing, op, "no API key configured", ErrMissingAPIKey)
	}
	return nil
}

// postJSON sends payload to path with bearer auth and decodes the JSON
// response into out.
func (c *Client) postJSON(ctx context.Context, op, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return newError(ErrorCodeParse, op, "marshal request", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return newError(ErrorCodeTransport, op, "rate limit wait cancelled", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(body))
	if err != nil {
		return newError(ErrorCodeTransport, op, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newError(ErrorCodeTransport, op, "http request", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newError(ErrorCodeTransport, op, "API error", &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(errBody)),
		})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newError(ErrorCodeParse, op, "decode response", err)
	}
	return nil
}

// String hides the API key when the client is printed.
func (c *Client) String() string {
	return fmt.Sprintf("omeife.Client{baseURL: %q}", c.baseURL)
}
