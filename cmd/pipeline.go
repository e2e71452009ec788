package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"airledger/internal/config"
	"airledger/internal/extract"
	"airledger/internal/gstin"
	"airledger/internal/invoice"
	"airledger/internal/normalize"
	"airledger/internal/ocr"
	"airledger/internal/pdftext"
	"airledger/pkg/services"
)

// pipelineOptions are the command line switches shared by the commands
// that run extraction.
type pipelineOptions struct {
	UseOCR      bool
	UseFallback bool
}

// pipeline bundles the processor with the collaborators commands need.
type pipeline struct {
	Processor  *invoice.Processor
	Dispatcher *extract.Dispatcher
	Resolver   *gstin.Resolver
	OCR        ocr.OCRService

	closers []func() error
}

// Close releases the cloud clients.
func (p *pipeline) Close() {
	for _, c := range p.closers {
		_ = c()
	}
}

// loadResolver builds the GSTIN resolver from the embedded tables and the
// optional LOOKUP_TABLES_FILE.
func loadResolver(cfg *config.Config) (*gstin.Resolver, error) {
	tables, err := gstin.LoadFile(cfg.LookupTablesFile)
	if err != nil {
		return nil, err
	}
	return gstin.NewResolver(tables, cfg.DefaultCustomerState), nil
}

// newPipeline wires the text layer reader, the optional OCR and fallback
// services and the dispatcher into a processor.
func newPipeline(ctx context.Context, cfg *config.Config, opts pipelineOptions, log zerolog.Logger) (*pipeline, error) {
	resolver, err := loadResolver(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load lookup tables: %w", err)
	}

	p := &pipeline{Resolver: resolver}
	procOpts := invoice.Options{
		FallbackTimeout: cfg.FallbackTimeout,
		Logger:          &log,
	}

	if opts.UseOCR || cfg.OCREnabled {
		vision, err := ocr.NewGoogleVisionOCRService(ctx, cfg.GoogleClientOptions()...)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create OCR service")
			return nil, fmt.Errorf("failed to create OCR service: %w", err)
		}
		p.OCR = vision
		p.closers = append(p.closers, vision.Close)
		procOpts.OCR = vision
	}

	if opts.UseFallback {
		fallback, err := invoice.NewFallback(ctx, cfg)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to create fallback extractor: %w", err)
		}
		if c, ok := fallback.(interface{ Close() error }); ok {
			p.closers = append(p.closers, c.Close)
		}
		procOpts.Fallback = fallback
		log.Info().Str("provider", fallback.Name()).Msg("Fallback extraction enabled")
	}

	var text services.TextSource = pdftext.NewReader()
	p.Dispatcher = extract.NewDispatcher(resolver)
	p.Processor = invoice.NewProcessor(text, p.Dispatcher, procOpts)
	return p, nil
}

// validatePDF checks that path is a readable, non-empty PDF within the
// processing size limit.
func validatePDF(pdfPath string, log zerolog.Logger) (os.FileInfo, error) {
	// Check if file exists and get info
	fileInfo, err := os.Stat(pdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", pdfPath).
				Msg("PDF file not found")
			return nil, fmt.Errorf("PDF file not found: %s", pdfPath)
		}
		if os.IsPermission(err) {
			log.Error().
				Str("file", pdfPath).
				Msg("Permission denied accessing PDF file")
			return nil, fmt.Errorf("permission denied accessing PDF file: %s", pdfPath)
		}
		return nil, fmt.Errorf("error accessing PDF file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("path is not a regular file: %s", pdfPath)
	}

	if !strings.HasSuffix(strings.ToLower(pdfPath), ".pdf") {
		log.Warn().
			Str("file", pdfPath).
			Msg("File does not have .pdf extension")
	}

	if fileInfo.Size() == 0 {
		return nil, fmt.Errorf("PDF file is empty: %s", pdfPath)
	}

	if fileInfo.Size() > invoice.MaxDocumentSizeBytes {
		log.Error().
			Str("file", pdfPath).
			Int64("size", fileInfo.Size()).
			Int64("max_size", invoice.MaxDocumentSizeBytes).
			Msg("PDF file exceeds maximum size limit")
		return nil, fmt.Errorf("PDF file too large (%d bytes). Maximum size is %d bytes (20MB)",
			fileInfo.Size(), invoice.MaxDocumentSizeBytes)
	}

	return fileInfo, nil
}

// createContext creates a context with timeout that is also canceled on
// SIGINT or SIGTERM.
func createContext(timeout time.Duration, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling processing")
			cancel()
		case <-ctx.Done():
			// Context completed normally
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// findPDFFiles expands the arguments into PDF paths. Directories are searched
// recursively; files are taken as given. The result is sorted and free of
// duplicates so batch output is stable.
func findPDFFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var pdfFiles []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			pdfFiles = append(pdfFiles, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("path not found: %s", root)
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}

		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && strings.HasSuffix(strings.ToLower(info.Name()), ".pdf") {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(pdfFiles)
	return pdfFiles, nil
}

// parseEntryDate reads the --entry-date flag. Empty means now.
func parseEntryDate(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	canonical := normalize.ParseDate(value)
	t, err := time.Parse(normalize.CanonicalDateLayout, canonical)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid entry date %q: use DD-MMM-YYYY or YYYY-MM-DD", value)
	}
	return t, nil
}

// fallbackRequested reports whether the fallback should run: the --fallback
// flag, or a configured FALLBACK_PROVIDER when the flag was not given.
func fallbackRequested(flagSet, flagValue bool, cfg *config.Config) bool {
	if flagSet {
		return flagValue
	}
	return cfg.FallbackProvider != config.FallbackNone
}

var errNoRows = errors.New("document produced no ledger rows")
