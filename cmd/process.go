package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"airledger/internal/config"
	"airledger/internal/ledger"
	"airledger/internal/logger"
	"airledger/internal/normalize"
	"airledger/internal/sheets"
	"airledger/pkg/models"
)

var processCmd = &cobra.Command{
	Use:   "process [pdf-or-folder...]",
	Short: "Extract airline invoices and write purchase ledger files",
	Long: `Process airline invoice PDFs and write purchase ledger rows plus a
processing summary.

Every argument may be a PDF or a folder, which is searched recursively. Files
whose name contains CREDIT are skipped as credit notes; files whose name
contains DEBIT are booked as debit notes.

By default one ledger file is written per customer GSTIN, named after the
customer branch, e.g. Flight_Exp_Gujarat_GUJ_14OCT.csv. Use --single to write
everything into one file instead.

Optional environment variables:
  BATCH_WORKERS - Number of parallel workers (default: 8)
  OUTPUT_DIR - Output directory (default: ./output)
  LOOKUP_TABLES_FILE - YAML file extending the GSTIN branch tables
  DEFAULT_CUSTOMER_STATE - State assumed when a customer GSTIN has no known prefix
  FALLBACK_PROVIDER - openai or documentai, used with --fallback
  GOOGLE_SHEET_URL - Google Sheet receiving the rows with --sheet`,
	Example: `  # Process a folder into per-customer ledger files
  airledger process ./invoices

  # One ledger file plus an Excel workbook
  airledger process ./invoices --single --output-file april.csv --xlsx

  # Use OCR for scans and the configured fallback for unknown layouts
  airledger process ./invoices --ocr --fallback

  # Append the rows to the configured Google Sheet
  airledger process ./invoices --sheet`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

// batchJob is one PDF to process.
type batchJob struct {
	FilePath string
	Index    int
}

// processFunc turns one PDF into a ledger document.
type processFunc func(ctx context.Context, path string) ledger.Document

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringP("out", "d", "", "Output directory (default: OUTPUT_DIR)")
	processCmd.Flags().Bool("single", false, "Write all rows into one ledger file")
	processCmd.Flags().StringP("output-file", "o", "", "Ledger file name for --single")
	processCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: BATCH_WORKERS)")
	processCmd.Flags().Bool("fallback", false, "Use the configured fallback for documents the layouts cannot read")
	processCmd.Flags().Bool("ocr", false, "Use Google Cloud Vision for PDFs without a text layer")
	processCmd.Flags().Bool("xlsx", false, "Also write an Excel workbook with ledger and summary sheets")
	processCmd.Flags().Bool("sheet", false, "Append ledger and summary rows to the Google Sheet")
	processCmd.Flags().Bool("dry-run", false, "Process files but don't write any output")
	processCmd.Flags().String("entry-date", "", "Entry date for the ledger rows (default: today)")
	processCmd.Flags().Duration("timeout", 30*time.Minute, "Timeout for the whole batch")
	processCmd.Flags().BoolP("verbose", "v", false, "Show detailed processing information")
}

func runProcess(cmd *cobra.Command, args []string) error {
	runID := uuid.NewString()
	log := logger.WithRunID(runID, "process")

	outDir, _ := cmd.Flags().GetString("out")
	single, _ := cmd.Flags().GetBool("single")
	outputFile, _ := cmd.Flags().GetString("output-file")
	workers, _ := cmd.Flags().GetInt("workers")
	useFallback, _ := cmd.Flags().GetBool("fallback")
	useOCR, _ := cmd.Flags().GetBool("ocr")
	writeXLSX, _ := cmd.Flags().GetBool("xlsx")
	toSheet, _ := cmd.Flags().GetBool("sheet")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	entryDate, _ := cmd.Flags().GetString("entry-date")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if outputFile != "" && !single {
		return fmt.Errorf("--output-file requires --single")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	if workers <= 0 {
		workers = cfg.BatchWorkers
	}
	if toSheet && !dryRun {
		if err := cfg.RequireSheets(); err != nil {
			return err
		}
	}

	now := time.Now()
	entry, err := parseEntryDate(entryDate, now)
	if err != nil {
		return err
	}

	pdfFiles, err := findPDFFiles(args)
	if err != nil {
		return fmt.Errorf("failed to find PDF files: %w", err)
	}
	if len(pdfFiles) == 0 {
		fmt.Println("No PDF files found.")
		return nil
	}

	ctx, cancel := createContext(timeout, log)
	defer cancel()

	p, err := newPipeline(ctx, cfg, pipelineOptions{
		UseOCR:      useOCR,
		UseFallback: fallbackRequested(cmd.Flags().Changed("fallback"), useFallback, cfg),
	}, log)
	if err != nil {
		return err
	}
	defer p.Close()

	builder := ledger.NewBuilder(p.Resolver, entry)

	log.Info().
		Int("files", len(pdfFiles)).
		Int("workers", workers).
		Str("entry_date", builder.EntryDate()).
		Bool("dry_run", dryRun).
		Msg("Starting batch processing")

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("                      AIRLINE INVOICE LEDGER")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Run:        %s\n", runID)
	fmt.Printf("Entry date: %s\n", builder.EntryDate())
	if dryRun {
		fmt.Println("Mode:       Dry run (no output written)")
	}
	fmt.Printf("Processing %d PDFs with %d parallel workers...\n\n", len(pdfFiles), workers)

	process := func(ctx context.Context, path string) ledger.Document {
		rec := p.Processor.Process(ctx, path)
		doc := builder.Build(rec)
		if verbose {
			log.Info().
				Str("file", rec.Filename).
				Str("airline", rec.Airline).
				Str("invoice_number", rec.InvoiceNumber).
				Str("total", normalize.FormatAmount(rec.TotalAmount)).
				Str("status", doc.Summary.Status).
				Msg("PDF processed")
		}
		return doc
	}

	docs := processInParallel(ctx, pdfFiles, workers, process, os.Stdout, log)
	counts := ledger.Tally(docs)

	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("                 RESULT")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Success:  %d\n", counts.Success)
	if counts.Warning > 0 {
		fmt.Printf("Warnings: %d\n", counts.Warning)
	}
	if counts.Failed > 0 {
		fmt.Printf("Failed:   %d\n", counts.Failed)
	}
	fmt.Println()

	if ctx.Err() != nil {
		return fmt.Errorf("batch processing interrupted: %w", ctx.Err())
	}

	if !dryRun {
		if err := writeOutputs(docs, outDir, p, single, outputFile, writeXLSX, now); err != nil {
			return err
		}
		if toSheet {
			if err := appendToSheet(ctx, cfg, docs, counts); err != nil {
				return err
			}
		}
	}

	fmt.Println(strings.Repeat("=", 80))

	log.Info().
		Int("total", len(docs)).
		Int("success", counts.Success).
		Int("warnings", counts.Warning).
		Int("failed", counts.Failed).
		Msg("Batch processing completed")

	return nil
}

// writeOutputs writes the ledger files, the summary and optionally the workbook.
func writeOutputs(docs []ledger.Document, outDir string, p *pipeline, single bool, outputFile string, writeXLSX bool, now time.Time) error {
	w := ledger.NewWriter(outDir, p.Resolver.Tables(), now)

	if single {
		path, err := w.WriteSingle(docs, outputFile)
		if err != nil {
			return fmt.Errorf("failed to write ledger: %w", err)
		}
		fmt.Printf("Ledger:   %s\n", path)
	} else {
		paths, err := w.WriteGrouped(docs)
		if err != nil {
			return fmt.Errorf("failed to write ledger: %w", err)
		}
		for _, path := range paths {
			fmt.Printf("Ledger:   %s\n", path)
		}
	}

	summaryPath, err := w.WriteSummary(docs)
	if err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	fmt.Printf("Summary:  %s\n", summaryPath)

	if writeXLSX {
		path := ledger.WorkbookFileName(summaryPath)
		if err := ledger.WriteWorkbook(path, docs); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		fmt.Printf("Workbook: %s\n", path)
	}
	return nil
}

// appendToSheet appends the ledger and summary rows to the configured sheet.
func appendToSheet(ctx context.Context, cfg *config.Config, docs []ledger.Document, counts ledger.Counts) error {
	creds, err := cfg.GoogleCredentials()
	if err != nil {
		return err
	}

	fmt.Println("Writing rows to Google Sheet...")
	svc, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL, creds)
	if err != nil {
		return fmt.Errorf("failed to create Google Sheets service: %w", err)
	}

	var rows []models.LedgerRow
	for _, d := range docs {
		rows = append(rows, d.Rows...)
	}
	if err := svc.AppendLedger(ctx, cfg.GoogleSheetLedgerTab, rows); err != nil {
		return fmt.Errorf("failed to write ledger to Google Sheet: %w", err)
	}
	if err := svc.AppendSummary(ctx, cfg.GoogleSheetSummaryTab, ledger.Summaries(docs)); err != nil {
		return fmt.Errorf("failed to write summary to Google Sheet: %w", err)
	}

	fmt.Printf("Sheet:    %s / %s\n", cfg.GoogleSheetLedgerTab, cfg.GoogleSheetSummaryTab)
	fmt.Printf("Rows added: %d (%d documents)\n", len(rows), counts.Success+counts.Warning)
	fmt.Printf("URL: %s\n", cfg.GoogleSheetURL)
	return nil
}

// processInParallel runs process over the files with a worker pool. Results
// keep the order of files regardless of completion order. Progress lines are
// written to progress as documents finish.
func processInParallel(ctx context.Context, files []string, numWorkers int, process processFunc, progress io.Writer, log zerolog.Logger) []ledger.Document {
	if numWorkers < 1 {
		numWorkers = 1
	}

	jobs := make(chan batchJob, len(files))
	results := make([]ledger.Document, len(files))

	var processedCount int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for job := range jobs {
				log.Debug().
					Int("worker", workerID).
					Str("file", job.FilePath).
					Int("index", job.Index+1).
					Msg("Worker processing PDF")

				doc := process(ctx, job.FilePath)
				results[job.Index] = doc

				mu.Lock()
				processedCount++
				fmt.Fprintf(progress, "[%d/%d] %s - %s", processedCount, len(files), filepath.Base(job.FilePath), statusEmoji(doc.Summary.Status))
				if doc.Summary.Issues != "" {
					fmt.Fprintf(progress, " (%s)", doc.Summary.Issues)
				} else if doc.Record != nil {
					fmt.Fprintf(progress, " (₹%s)", normalize.FormatAmount(doc.Record.TotalAmount))
				}
				fmt.Fprintln(progress)
				mu.Unlock()
			}
		}(w)
	}

	for i, f := range files {
		jobs <- batchJob{FilePath: f, Index: i}
	}
	close(jobs)

	wg.Wait()
	return results
}

func statusEmoji(status string) string {
	switch status {
	case models.StatusSuccess:
		return "✅"
	case models.StatusWarning:
		return "⚠️"
	case models.StatusFailed:
		return "❌"
	default:
		return "❓"
	}
}
