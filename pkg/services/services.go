// Package services declares the capabilities the invoice pipeline depends on
// but does not implement itself.
package services

import (
	"context"

	"airledger/pkg/models"
)

// TextSource extracts the text of a PDF document.
type TextSource interface {
	// ExtractText returns the raw text of the document at path, pages
	// separated by newlines. A document without text returns "" and no error.
	ExtractText(ctx context.Context, path string) (string, error)
}

// Document is what a fallback extractor receives for one input file.
type Document struct {
	Path     string          // source PDF, for providers that parse the file itself
	Text     string          // normalized document text
	Category models.Category // category derived from the file name
}

// FallbackExtractor extracts a record with an external service when the
// local layout extractors could not produce a usable one.
type FallbackExtractor interface {
	// Extract returns a new record for doc. The caller decides whether the
	// result replaces the local record.
	Extract(ctx context.Context, doc Document) (*models.InvoiceRecord, error)

	// Name identifies the provider in logs.
	Name() string
}
