// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// SDKClient completes prompts through the official genai SDK.
//
// The SDK client is bound to one key, so it is rebuilt whenever the key
// source starts returning a different key.
type SDKClient struct {
	keys    KeySource
	baseURL string
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	log     zerolog.Logger

	mu     sync.Mutex
	client *genai.Client
	keyFP  string
}

// NewSDKClient creates an SDK-backed completer.
func NewSDKClient(keys KeySource, opts Options) *SDKClient {
	opts = opts.withDefaults()
	return &SDKClient{
		keys:    keys,
		baseURL: opts.BaseURL,
		model:   opts.Model,
		timeout: opts.Timeout,
		limiter: opts.limiter(),
		log:     opts.Logger.With().Str("component", "gemini").Str("backend", BackendSDK).Logger(),
	}
}

// Model returns the model identifier requests are sent to.
func (c *SDKClient) Model() string {
	return c.model
}

// sdkClient returns a genai client for key, reusing the cached one when the
// key has not changed.
func (c *SDKClient) sdkClient(ctx context.Context, key string) (*genai.Client, error) {
	fp := KeyFingerprint(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil && c.keyFP == fp {
		return c.client, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != DefaultBaseURL {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL + "/"}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.client = client
	c.keyFP = fp
	c.log.Debug().Str("key_fp", fp).Msg("sdk client created")
	return client, nil
}

// Complete performs one GenerateContent call. There is no retry.
func (c *SDKClient) Complete(ctx context.Context, prompt string) (string, error) {
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

	client, err := c.sdkClient(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrTransport, redactKey(err.Error(), key))
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	c.log.Debug().Dur("duration", time.Since(start)).Bool("ok", err == nil).Msg("api response")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrTransport, redactKey(err.Error(), key))
	}

	text := firstText(resp)
	if text == "" {
		return "", ErrMalformedResponse
	}
	return text, nil
}

// firstText mirrors the REST path: the first part of the first candidate.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 || cand.Content.Parts[0] == nil {
		return ""
	}
	return cand.Content.Parts[0].Text
}
