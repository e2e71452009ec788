package pdftext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	text, err := NewReader().ExtractText(context.Background(), "testdata/invoice.pdf")
	require.NoError(t, err)

	assert.Contains(t, text, "AIR INDIA LTD")
	assert.Contains(t, text, "DN24250001")
	assert.Contains(t, text, "10,864.00")
}

func TestExtractTextBlankPage(t *testing.T) {
	text, err := NewReader().ExtractText(context.Background(), "testdata/blank.pdf")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractTextErrors(t *testing.T) {
	r := NewReader()

	_, err := r.ExtractText(context.Background(), "testdata/missing.pdf")
	assert.ErrorIs(t, err, ErrUnreadable)

	_, err = r.ExtractText(context.Background(), "testdata/notpdf.pdf")
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestPagesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader().Pages(ctx, "testdata/invoice.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}
