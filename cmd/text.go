package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"airledger/internal/config"
	"airledger/internal/logger"
	"airledger/internal/normalize"
)

var textCmd = &cobra.Command{
	Use:   "text [pdf-file]",
	Short: "Print the normalized text of a PDF and the layout that matches it",
	Long: `Print the text the extractors see for a PDF: the PDF text layer with
non-breaking spaces replaced and whitespace collapsed. The matching airline
layout is reported on stderr.

With --ocr the text layer is skipped and the document is read with Google
Cloud Vision; --metadata then adds page count and confidence.

Required environment variables for --ocr:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Inspect what the extractors see
  airledger text invoice.pdf

  # OCR a scan and save the result as JSON
  airledger text scan.pdf --ocr --metadata --json -o scan.json`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

// TextOutput is the JSON document printed with --json.
type TextOutput struct {
	Text               string    `json:"text"`
	Layout             string    `json:"layout,omitempty"`
	Source             string    `json:"source"`
	PageCount          int       `json:"page_count,omitempty"`
	Confidence         float32   `json:"confidence,omitempty"`
	ProcessedAt        time.Time `json:"processed_at,omitempty"`
	ProcessingDuration string    `json:"processing_duration,omitempty"`
	FileName           string    `json:"file_name"`
	FileSize           int64     `json:"file_size"`
}

func init() {
	rootCmd.AddCommand(textCmd)

	textCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	textCmd.Flags().Bool("ocr", false, "Read the document with Google Cloud Vision")
	textCmd.Flags().BoolP("metadata", "m", false, "Include OCR metadata in output")
	textCmd.Flags().Bool("json", false, "Output as JSON")
	textCmd.Flags().Duration("timeout", 5*time.Minute, "Processing timeout")
}

func runText(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("text")

	pdfPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	useOCR, _ := cmd.Flags().GetBool("ocr")
	includeMetadata, _ := cmd.Flags().GetBool("metadata")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if includeMetadata && !useOCR {
		return fmt.Errorf("--metadata requires --ocr")
	}

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

	p, err := newPipeline(ctx, cfg, pipelineOptions{UseOCR: useOCR}, log)
	if err != nil {
		return err
	}
	defer p.Close()

	output := TextOutput{
		Source:   "text-layer",
		FileName: filepath.Base(pdfPath),
		FileSize: fileInfo.Size(),
	}

	if useOCR {
		f, err := os.Open(pdfPath)
		if err != nil {
			return fmt.Errorf("failed to open PDF file: %w", err)
		}
		defer f.Close()

		result, err := p.OCR.ProcessPDFWithMetadata(ctx, f)
		if err != nil {
			log.Error().Err(err).Str("file", pdfPath).Msg("OCR processing failed")
			return fmt.Errorf("OCR processing failed: %w", err)
		}

		output.Source = "ocr"
		output.Text = normalize.Text(result.Text)
		if includeMetadata {
			output.PageCount = result.PageCount
			output.Confidence = result.Confidence
			output.ProcessedAt = result.ProcessedAt
			output.ProcessingDuration = result.ProcessingDuration.String()
		}
	} else {
		text, err := p.Processor.Text(ctx, pdfPath)
		if err != nil {
			return err
		}
		output.Text = text
	}

	if e, ok := p.Dispatcher.Select(output.Text); ok {
		output.Layout = e.Vendor.String()
	}

	log.Info().
		Str("file", output.FileName).
		Str("source", output.Source).
		Str("layout", output.Layout).
		Int("text_length", len(output.Text)).
		Msg("Text extracted")

	if jsonOutput {
		return writeJSON(output, outputPath, log)
	}

	if output.Layout != "" {
		fmt.Fprintf(os.Stderr, "Layout: %s\n", output.Layout)
	} else {
		fmt.Fprintln(os.Stderr, "Layout: none matched")
	}
	if includeMetadata {
		fmt.Fprintf(os.Stderr, "Pages: %d, confidence: %.2f, duration: %s\n",
			output.PageCount, output.Confidence, output.ProcessingDuration)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(output.Text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	fmt.Println(output.Text)
	return nil
}
