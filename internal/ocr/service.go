// Package ocr recognizes text in scanned PDF invoices with Google Cloud Vision.
//
// It is used only when a PDF carries no text layer. Documents are sent inline
// (no Cloud Storage upload), which limits them to 20MB and the first five
// pages. Invoices fit comfortably within both limits.
package ocr

import (
	"context"
	"io"
	"time"
)

// OCRService extracts text from PDF documents.
type OCRService interface {
	// ProcessPDF returns the recognized text of all pages, newline separated.
	ProcessPDF(ctx context.Context, pdfData io.Reader) (string, error)

	// ProcessPDFWithMetadata also reports page count and confidence.
	ProcessPDFWithMetadata(ctx context.Context, pdfData io.Reader) (*OCRResult, error)
}

// OCRResult contains the results of OCR processing with metadata.
type OCRResult struct {
	Text      string `json:"text"`
	PageCount int    `json:"page_count"`

	// Confidence is the mean page confidence (0.0 to 1.0).
	Confidence float32 `json:"confidence"`

	ProcessedAt        time.Time     `json:"processed_at"`
	ProcessingDuration time.Duration `json:"processing_duration"`
}
