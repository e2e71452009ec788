package invoice

import (
	"errors"
	"fmt"
)

// Common invoice processing errors
var (
	// ErrInvalidPDF is returned when the provided data is not a valid PDF document
	// or cannot be processed by Document AI.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrProcessingFailed is returned when Document AI processing fails.
	ErrProcessingFailed = errors.New("document AI processing failed")

	// ErrInvalidCredentials is returned when Google Cloud credentials are invalid
	// or do not have the necessary permissions.
	ErrInvalidCredentials = errors.New("invalid Google Cloud credentials")

	// ErrProcessorNotFound is returned when the specified Document AI processor
	// cannot be found or accessed.
	ErrProcessorNotFound = errors.New("Document AI processor not found")

	// ErrQuotaExceeded is returned when API quota limits are exceeded.
	ErrQuotaExceeded = errors.New("API quota exceeded")

	// ErrDocumentTooLarge is returned when the PDF exceeds size limits.
	ErrDocumentTooLarge = errors.New("document exceeds maximum size limit")

	// ErrEmptyResponse is returned when a fallback provider answers without content.
	ErrEmptyResponse = errors.New("empty response from extraction provider")

	// ErrMalformedResponse is returned when the provider's answer is not the
	// expected JSON object.
	ErrMalformedResponse = errors.New("malformed response from extraction provider")

	// ErrNoText is returned when neither the text layer nor OCR yields text.
	ErrNoText = errors.New("no text could be extracted")

	// ErrCreditNote is reported for credit notes, which are never extracted.
	ErrCreditNote = errors.New("credit notes are not supported")

	// ErrUnknownFormat is reported when no vendor layout recognizes the text.
	ErrUnknownFormat = errors.New("unknown invoice format")

	// ErrFallbackUnavailable is returned when no fallback provider is configured.
	ErrFallbackUnavailable = errors.New("no fallback provider configured")

	// ErrFallbackFailed is reported when the fallback produced no usable record.
	ErrFallbackFailed = errors.New("fallback extraction failed")
)

// ProcessingError wraps errors with additional context about extraction failures.
type ProcessingError struct {
	// Op is the operation that failed (e.g., "ProcessDocument", "Extract").
	Op string

	// File is the base name of the document being processed (if available).
	File string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	prefix := "invoice: " + e.Op
	if e.File != "" {
		prefix += " (" + e.File + ")"
	}
	if e.Details != "" {
		return fmt.Sprintf("%s failed: %s: %v", prefix, e.Details, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", prefix, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ProcessingError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapProcessingError wraps an error as a ProcessingError if it isn't already one.
func WrapProcessingError(op, file string, err error, details string) error {
	if err == nil {
		return nil
	}

	var procErr *ProcessingError
	if errors.As(err, &procErr) {
		return err // Already wrapped
	}

	return &ProcessingError{
		Op:      op,
		File:    file,
		Err:     err,
		Details: details,
	}
}
