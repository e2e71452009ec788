package ocr

import (
	"errors"
	"fmt"
)

var (
	// ErrPDFTooLarge is returned when the PDF exceeds the inline request limit.
	ErrPDFTooLarge = errors.New("PDF file size exceeds the maximum limit (20MB)")

	// ErrInvalidPDF is returned when the data does not start with a PDF header.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	ErrOCRFailed = errors.New("OCR processing failed")

	// ErrMissingCredentials is returned when no Google credentials can be found.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrEmptyDocument is returned when the document contains no readable text.
	ErrEmptyDocument = errors.New("document contains no readable text")
)

// OCRError adds the failing operation and file to an OCR error.
type OCRError struct {
	Op      string
	Path    string
	Err     error
	Details string
}

func (e *OCRError) Error() string {
	msg := "ocr: " + e.Op + " failed"
	if e.Path != "" {
		msg += " for " + e.Path
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s: %v", msg, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *OCRError) Unwrap() error {
	return e.Err
}

// Is matches the wrapped error.
func (e *OCRError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapOCRError wraps err unless it already is an OCRError.
func WrapOCRError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err
	}
	return &OCRError{Op: op, Err: err, Details: details}
}
