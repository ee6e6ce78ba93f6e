// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Error represents an error response from the Nexudus API.
type Error struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Status is the HTTP status line of the response.
	Status string

	// URL is the URL of the request, which resulted in this error.
	URL string

	// RetryAfter is the delay requested by the API via the Retry-After
	// header, if any. It is only populated for throttled requests.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("nexudus: %s returned %s", e.URL, e.Status)
}

// Transient reports whether the API error is caused by a condition, which is
// expected to clear up on its own, such as throttling or an upstream outage.
func (e *Error) Transient() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// IsTransient reports whether the given error is a transient upstream error,
// which is worth retrying. Transient errors are throttled or failed-upstream
// API responses, timeouts and connection errors. Errors caused by the caller
// itself, such as a cancelled context, are not transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return false
}

// IsNotFound reports whether the given error represents a Not Found response
// from the API.
func IsNotFound(err error) bool {
	var apiErr *Error

	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
