// Package invoice runs the per-document extraction pipeline for airline
// invoices.
//
// A document goes through these stages:
//   - credit notes are rejected by file name before any text is read
//   - text comes from the PDF text layer, or from OCR for scans when enabled
//   - the normalized text is dispatched to the matching airline extractor
//   - required fields and amounts are validated; gaps become record issues
//   - records without an invoice number or total go to the fallback provider
//
// Fallback providers:
//   - openai: chat completion over the first 4000 characters of text
//     (OPENAI_API_KEY, OPENAI_MODEL, OPENAI_TEMPERATURE, FALLBACK_MAX_RETRIES)
//   - documentai: Google Document AI invoice parser over the PDF itself
//     (GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION, DOCUMENT_AI_PROCESSOR_ID)
//
// Document AI API Limitations:
//   - Maximum file size: 20MB for synchronous processing
//   - Quota limits apply (check Google Cloud Console)
package invoice

import (
	"context"
	"fmt"

	"airledger/internal/config"
	"airledger/pkg/services"
)

// NewFallback creates the fallback extractor selected by FALLBACK_PROVIDER.
// It returns ErrFallbackUnavailable when no provider is configured.
func NewFallback(ctx context.Context, cfg *config.Config) (services.FallbackExtractor, error) {
	const op = "NewFallback"

	if cfg.FallbackProvider == config.FallbackNone {
		return nil, ErrFallbackUnavailable
	}
	if err := cfg.RequireFallback(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	switch cfg.FallbackProvider {
	case config.FallbackOpenAI:
		return NewCompletionExtractor(cfg.OpenAIAPIKey, CompletionConfig{
			MaxRetries:  cfg.FallbackMaxRetries,
			OpenAIModel: cfg.OpenAIModel,
			Temperature: cfg.OpenAITemperature,
		}), nil
	case config.FallbackDocumentAI:
		extractor, err := NewDocumentAIExtractor(ctx, DocumentAIConfig{
			ProjectID:   cfg.GoogleCloudProject,
			Location:    cfg.GoogleCloudLocation,
			ProcessorID: cfg.DocumentAIProcessorID,
		}, cfg.GoogleClientOptions()...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return extractor, nil
	default:
		return nil, fmt.Errorf("%s: %w", op, ErrFallbackUnavailable)
	}
}
