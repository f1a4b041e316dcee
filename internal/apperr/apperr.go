// Package apperr defines the failure kinds surfaced by a fetch/compute cycle.
// Callers wrap them with fmt.Errorf("...: %w", ...) and test with errors.Is.
package apperr

import "errors"

var (
	// ErrInvalidInput covers malformed symbols and bad filter dates.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamUnavailable means the quote provider gave no usable data.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrPersistenceUnavailable means the trade/alert store could not be read.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)
