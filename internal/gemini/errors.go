// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error variables for the three failure classes.
var (
	// ErrNotConfigured indicates no API key could be obtained.
	ErrNotConfigured = errors.New("gemini API key not configured")

	// ErrTransport indicates the request failed on the network or the
	// endpoint answered with a non-2xx status.
	ErrTransport = errors.New("gemini transport failure")

	// ErrMalformedResponse indicates a 2xx answer without generated text.
	ErrMalformedResponse = errors.New("gemini response missing generated text")

	// ErrUnknownBackend indicates a backend name other than rest or sdk.
	ErrUnknownBackend = errors.New("unknown gemini backend")
)

// APIError represents an error body returned by the Gemini API.
type APIError struct {
	Status  int    // HTTP status code
	Code    string // Vendor status string, e.g. "INVALID_ARGUMENT"
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gemini error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini error (HTTP %d): %s", e.Status, e.Message)
}

// apiErrorResponse is the vendor error envelope.
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// maxErrorBody caps how much of an unparseable error body is echoed back.
const maxErrorBody = 512

// handleErrorResponse converts a non-2xx response into an ErrTransport
// wrapping an *APIError.
func handleErrorResponse(statusCode int, body []byte) error {
	apiErr := &APIError{Status: statusCode}

	var envelope apiErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Status
		apiErr.Message = envelope.Error.Message
	} else {
		msg := string(body)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody] + "..."
		}
		apiErr.Message = msg
	}

	return fmt.Errorf("%w: %w", ErrTransport, apiErr)
}
