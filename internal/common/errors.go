// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Collaborator errors.
	ErrGenerationFailed = errors.New("text generation failed")
	ErrExtractionFailed = errors.New("invoice extraction failed")
	ErrOCRFailed        = errors.New("ocr failed")
	ErrRateLimit        = errors.New("rate limit exceeded")
	ErrMaxRetries       = errors.New("max retries exceeded")

	// Domain errors.
	ErrMalformedGoal = errors.New("malformed goal")
	ErrNoInvoiceText = errors.New("no text extracted from document")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)
