// Package pdftext reads the embedded text layer of PDF invoices.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"airledger/internal/normalize"
)

// ErrUnreadable is returned when a file cannot be parsed as a PDF.
var ErrUnreadable = errors.New("unreadable PDF document")

// Reader extracts text rows from a PDF's text layer. It keeps no state and is
// safe for concurrent use.
type Reader struct{}

// NewReader creates a text-layer reader.
func NewReader() *Reader {
	return &Reader{}
}

// ExtractText returns the normalized text of every page, one line per text
// row. Scanned documents without a text layer yield "".
func (r *Reader) ExtractText(ctx context.Context, path string) (string, error) {
	pages, err := r.Pages(ctx, path)
	if err != nil {
		return "", err
	}
	return normalize.Pages(pages), nil
}

// Pages returns the text of each non-empty page.
func (r *Reader) Pages(ctx context.Context, path string) (pages []string, err error) {
	const op = "Pages"

	// the parser panics on some malformed files
	defer func() {
		if p := recover(); p != nil {
			pages = nil
			err = fmt.Errorf("%s: %s: %w: %v", op, path, ErrUnreadable, p)
		}
	}()

	f, doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w: %v", op, path, ErrUnreadable, err)
	}
	defer f.Close()

	for i := 1; i <= doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("%s: page %d of %s: %w", op, i, path, err)
		}
		if text := joinRows(rows); text != "" {
			pages = append(pages, text)
		}
	}
	return pages, nil
}

// joinRows renders rows top to bottom, words on a row separated by one space.
func joinRows(rows pdf.Rows) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		words := make([]string, 0, len(row.Content))
		for _, w := range row.Content {
			words = append(words, w.S)
		}
		line := strings.Join(strings.Fields(strings.Join(words, " ")), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
