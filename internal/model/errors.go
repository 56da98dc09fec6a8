package model

import "errors"

// Error taxonomy for the tracker core. Callers match with errors.Is.
var (
	// ErrValidation marks malformed input rejected at construction.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyInput is returned when the statistics engine is invoked with
	// zero samples. Callers are expected to guard against this.
	ErrEmptyInput = errors.New("no price samples to compute statistics from")

	// ErrInsufficientData is returned when a recompute window contains no
	// samples. Recomputation never widens the window or returns a
	// degenerate record.
	ErrInsufficientData = errors.New("not enough price data for period")

	// ErrQuoteUnavailable covers any transport or data-shape failure of the
	// upstream quote source.
	ErrQuoteUnavailable = errors.New("quote source unavailable")
)
