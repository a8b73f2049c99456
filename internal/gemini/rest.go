// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// SECURITY: TLS verification required for production
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// =============================================================================
// WIRE FORMAT
// =============================================================================

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

// GenerateRequest is the generateContent request body.
type GenerateRequest struct {
	Contents []content `json:"contents"`
}

// NewGenerateRequest wraps a prompt in the vendor envelope.
func NewGenerateRequest(prompt string) GenerateRequest {
	return GenerateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}
}

// GenerateResponse is the subset of the generateContent response we read.
type GenerateResponse struct {
	Candidates []struct {
		Content      *content `json:"content"`
		FinishReason string   `json:"finishReason"`
	} `json:"candidates"`
}

// Text returns the first candidate's first part, or "".
func (r *GenerateResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	c := r.Candidates[0].Content
	if c == nil || len(c.Parts) == 0 {
		return ""
	}
	return c.Parts[0].Text
}

// =============================================================================
// CLIENT
// =============================================================================

// RESTClient calls the generateContent endpoint over plain HTTPS.
// It is safe for concurrent use.
type RESTClient struct {
	keys       KeySource
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewRESTClient creates a REST completer. The key source is consulted on
// every request, so a key added after startup is picked up.
func NewRESTClient(keys KeySource, opts Options) *RESTClient {
	opts = opts.withDefaults()
	return &RESTClient{
		keys:       keys,
		baseURL:    opts.BaseURL,
		model:      opts.Model,
		timeout:    opts.Timeout,
		httpClient: sharedHTTPClient,
		limiter:    opts.limiter(),
		log:        opts.Logger.With().Str("component", "gemini").Str("backend", BackendREST).Logger(),
	}
}

// WithHTTPClient replaces the pooled HTTP client.
func (c *RESTClient) WithHTTPClient(hc *http.Client) *RESTClient {
	c.httpClient = hc
	return c
}

// Model returns the model identifier requests are sent to.
func (c *RESTClient) Model() string {
	return c.model
}

// endpoint builds the request URL. The key is a query parameter.
func (c *RESTClient) endpoint(key string) string {
	q := url.Values{}
	q.Set("key", key)
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?%s", c.baseURL, url.PathEscape(c.model), q.Encode())
}

// Complete performs one generateContent round trip. There is no retry.
func (c *RESTClient) Complete(ctx context.Context, prompt string) (string, error) {
	key, err := resolveKey(ctx, c.keys)
	if err != nil {
		return "", err
	}
	if err := pace(ctx, c.limiter); err != nil {
		return "", err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	bodyBytes, err := json.Marshal(NewGenerateRequest(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(key), bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "dailyai")

	c.logRequest(req, key)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// SECURITY: *url.Error embeds the full URL, key included
		return "", fmt.Errorf("%w: %s", ErrTransport, redactKey(err.Error(), key))
	}
	defer resp.Body.Close()

	c.logResponse(resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", handleErrorResponse(resp.StatusCode, body)
	}

	var genResp GenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	text := genResp.Text()
	if text == "" {
		return "", ErrMalformedResponse
	}
	return text, nil
}

// readResponse reads the response body with size limits to prevent memory exhaustion.
//
// SECURITY: Response size limit prevents memory exhaustion attacks.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}

	return body, nil
}

// redactKey removes every occurrence of the key from s.
func redactKey(s, key string) string {
	if key == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(key), "[REDACTED]")
	return strings.ReplaceAll(s, key, "[REDACTED]")
}

// =============================================================================
// Request/Response Logging (without sensitive data)
// =============================================================================

// logRequest logs an API request without the query string or body.
func (c *RESTClient) logRequest(req *http.Request, key string) {
	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("key_fp", KeyFingerprint(key)).
		Msg("api request")
}

// logResponse logs an API response with duration.
func (c *RESTClient) logResponse(resp *http.Response, duration time.Duration) {
	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Msg("api response")
}
