package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"airledger/internal/config"
	"airledger/internal/logger"
	"airledger/pkg/models"
)

var parseCmd = &cobra.Command{
	Use:   "parse [pdf-file]",
	Short: "Extract one airline invoice and print the record as JSON",
	Long: `Extract the GST fields from a single airline invoice PDF and print the
extracted record as JSON. Extraction issues are listed under
"extraction_errors"; amounts are decimal strings.

The record is not validated against the ledger mapping tables. Use the rows
command to see the ledger rows a document produces.`,
	Example: `  # Print the record
  airledger parse 6E_TAX_INVOICE_GJ1252612AB78975.pdf

  # Save it to a file, reading scans with OCR
  airledger parse scan.pdf --ocr -o record.json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

// ParseOutput is the JSON document printed by the parse command.
type ParseOutput struct {
	Record   *models.InvoiceRecord `json:"record"`
	Metadata ParseMetadata         `json:"metadata"`
}

// ParseMetadata describes the processing run.
type ParseMetadata struct {
	FileName           string        `json:"file_name"`
	FileSize           int64         `json:"file_size_bytes"`
	ProcessedAt        time.Time     `json:"processed_at"`
	ProcessingDuration time.Duration `json:"processing_duration"`
	Status             string        `json:"status"`
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().Bool("fallback", false, "Use the configured fallback when the layouts cannot read the document")
	parseCmd.Flags().Bool("ocr", false, "Use Google Cloud Vision when the PDF has no text layer")
	parseCmd.Flags().Duration("timeout", 2*time.Minute, "Processing timeout")
}

func runParse(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("parse")

	pdfPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	useFallback, _ := cmd.Flags().GetBool("fallback")
	useOCR, _ := cmd.Flags().GetBool("ocr")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	fileInfo, err := validatePDF(pdfPath, log)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
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

	start := time.Now()
	rec := p.Processor.Process(ctx, pdfPath)

	status := models.StatusSuccess
	if rec.Failed() {
		status = models.StatusFailed
	} else if rec.HasIssues() {
		status = models.StatusWarning
	}

	output := ParseOutput{
		Record: rec,
		Metadata: ParseMetadata{
			FileName:           filepath.Base(pdfPath),
			FileSize:           fileInfo.Size(),
			ProcessedAt:        start,
			ProcessingDuration: time.Since(start),
			Status:             status,
		},
	}

	log.Info().
		Str("file", rec.Filename).
		Str("airline", rec.Airline).
		Str("invoice_number", rec.InvoiceNumber).
		Int("issues", len(rec.Issues)).
		Dur("duration", output.Metadata.ProcessingDuration).
		Msg("Invoice parsed")

	return writeJSON(output, outputPath, log)
}

// writeJSON prints v as indented JSON to path, or stdout when path is empty.
func writeJSON(v interface{}, outputPath string, log zerolog.Logger) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal output to JSON")
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0o644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(jsonData)).
			Msg("Output written to file")
		return nil
	}

	if _, err := os.Stdout.Write(jsonData); err != nil {
		log.Error().Err(err).Msg("Failed to write to stdout")
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Println()
	return nil
}
