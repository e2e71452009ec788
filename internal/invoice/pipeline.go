package invoice

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"airledger/internal/extract"
	"airledger/internal/logger"
	"airledger/internal/normalize"
	"airledger/pkg/models"
	"airledger/pkg/services"
)

// DefaultFallbackTimeout bounds a single fallback call.
const DefaultFallbackTimeout = 60 * time.Second

// Options configures the optional collaborators of a Processor.
type Options struct {
	// OCR is consulted when the text layer is empty. Nil disables OCR.
	OCR services.TextSource

	// Fallback completes records local extraction could not. Nil disables it.
	Fallback services.FallbackExtractor

	// FallbackTimeout bounds each fallback call. Zero means DefaultFallbackTimeout.
	FallbackTimeout time.Duration

	// Logger overrides the component logger, e.g. with a run-scoped one.
	Logger *zerolog.Logger
}

// Processor turns one PDF into an InvoiceRecord. Failures never escape a
// document: they are recorded as issues on the returned record. A Processor
// is safe for concurrent use when its collaborators are.
type Processor struct {
	text            services.TextSource
	ocr             services.TextSource
	dispatcher      *extract.Dispatcher
	fallback        services.FallbackExtractor
	fallbackTimeout time.Duration
	log             zerolog.Logger
}

// NewProcessor creates a pipeline reading text from text and extracting with
// dispatcher.
func NewProcessor(text services.TextSource, dispatcher *extract.Dispatcher, opts Options) *Processor {
	p := &Processor{
		text:            text,
		ocr:             opts.OCR,
		dispatcher:      dispatcher,
		fallback:        opts.Fallback,
		fallbackTimeout: opts.FallbackTimeout,
		log:             logger.WithComponent("pipeline"),
	}
	if opts.Logger != nil {
		p.log = *opts.Logger
	}
	if p.fallbackTimeout <= 0 {
		p.fallbackTimeout = DefaultFallbackTimeout
	}
	return p
}

// Process extracts the invoice at path.
func (p *Processor) Process(ctx context.Context, path string) *models.InvoiceRecord {
	filename := filepath.Base(path)
	category := extract.DetectCategory(filename)
	log := p.log.With().Str("file", filename).Logger()

	if extract.IsCreditNote(filename) {
		log.Warn().Err(ErrCreditNote).Msg("Skipping credit note")
		rec := models.NewInvoiceRecord("", category)
		rec.Filename = filename
		rec.AddIssue(IssueCreditNote)
		return rec
	}

	text, err := p.Text(ctx, path)
	if err != nil {
		log.Warn().Err(err).Msg("Text extraction failed")
	}
	if strings.TrimSpace(text) == "" {
		log.Warn().Err(ErrNoText).Msg("No text in document")
		rec := models.NewInvoiceRecord("", category)
		rec.Filename = filename
		rec.AddIssue(IssueNoText)
		return rec
	}

	return p.extract(ctx, path, text, log)
}

// ProcessText runs extraction, validation and the fallback on already
// acquired text. path names the source document.
func (p *Processor) ProcessText(ctx context.Context, path, text string) *models.InvoiceRecord {
	log := p.log.With().Str("file", filepath.Base(path)).Logger()
	return p.extract(ctx, path, normalize.Text(text), log)
}

// Text returns the normalized text of the document at path. The text layer
// is read first; OCR, when configured, replaces an empty or unreadable layer.
func (p *Processor) Text(ctx context.Context, path string) (string, error) {
	const op = "Text"

	raw, err := p.text.ExtractText(ctx, path)
	if err != nil && p.ocr == nil {
		return "", WrapProcessingError(op, filepath.Base(path), err, "failed to read text layer")
	}
	if err != nil {
		p.log.Debug().Err(err).Str("file", filepath.Base(path)).Msg("Text layer unreadable, trying OCR")
	}

	if strings.TrimSpace(raw) == "" && p.ocr != nil {
		p.log.Info().Str("file", filepath.Base(path)).Msg("No text layer, running OCR")
		raw, err = p.ocr.ExtractText(ctx, path)
		if err != nil {
			return "", WrapProcessingError(op, filepath.Base(path), err, "OCR failed")
		}
	}

	return normalize.Text(raw), nil
}

func (p *Processor) extract(ctx context.Context, path, text string, log zerolog.Logger) *models.InvoiceRecord {
	filename := filepath.Base(path)
	category := extract.DetectCategory(filename)

	rec := p.dispatcher.Extract(text, category)
	rec.Filename = filename

	if rec.Airline == "" {
		log.Warn().Err(ErrUnknownFormat).Msg("No extractor matched")
	} else {
		Validate(rec)
	}

	if needsFallback(rec) && p.fallback != nil {
		rec = p.runFallback(ctx, services.Document{Path: path, Text: text, Category: category}, rec, log)
	}

	log.Info().
		Str("airline", rec.Airline).
		Str("invoice_number", rec.InvoiceNumber).
		Str("total", normalize.FormatAmount(rec.TotalAmount)).
		Int("issues", len(rec.Issues)).
		Msg("Extracted invoice")

	return rec
}

// runFallback asks the fallback provider for a record. The local record is
// kept, with an extra issue, unless the provider returns an invoice number.
func (p *Processor) runFallback(ctx context.Context, doc services.Document, local *models.InvoiceRecord, log zerolog.Logger) *models.InvoiceRecord {
	const op = "runFallback"

	log.Info().Str("provider", p.fallback.Name()).Msg("Local extraction incomplete, trying fallback")

	fctx, cancel := context.WithTimeout(ctx, p.fallbackTimeout)
	defer cancel()

	start := time.Now()
	got, err := p.fallback.Extract(fctx, doc)
	if err == nil && (got == nil || got.InvoiceNumber == "") {
		err = ErrFallbackFailed
	}
	if err != nil {
		log.Warn().
			Err(WrapProcessingError(op, local.Filename, err, p.fallback.Name())).
			Dur("duration", time.Since(start)).
			Msg("Fallback extraction failed")
		local.AddIssue(IssueFallbackFailed)
		return local
	}

	got.Filename = local.Filename
	got.Category = local.Category
	if got.Airline == "" {
		got.Airline = local.Airline
	}
	if got.Currency == "" {
		got.Currency = models.DefaultCurrency
	}
	got.Issues = []string{}
	p.dispatcher.ResolveState(got)
	Validate(got)

	log.Info().
		Str("provider", p.fallback.Name()).
		Str("invoice_number", got.InvoiceNumber).
		Dur("duration", time.Since(start)).
		Msg("Fallback extraction succeeded")

	return got
}
