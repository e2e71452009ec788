package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"airledger/internal/config"
	"airledger/internal/ledger"
	"airledger/internal/logger"
)

var rowsCmd = &cobra.Command{
	Use:   "rows [pdf-file]",
	Short: "Print the ledger rows one invoice produces",
	Long: `Extract a single airline invoice and print the purchase ledger rows it
produces, as CSV with the ledger header or as JSON.

Documents with a non-taxable component produce two rows sharing the invoice
number. A document that fails extraction produces no rows and the command
exits with an error listing the issues.`,
	Example: `  # CSV rows on stdout
  airledger rows 6E_TAX_INVOICE_GJ1252612AB78975.pdf

  # JSON, booked on a fixed entry date
  airledger rows invoice.pdf --json --entry-date 31-MAR-2025`,
	Args: cobra.ExactArgs(1),
	RunE: runRows,
}

func init() {
	rootCmd.AddCommand(rowsCmd)

	rowsCmd.Flags().Bool("json", false, "Print rows and summary as JSON")
	rowsCmd.Flags().String("entry-date", "", "Entry date for the ledger rows (default: today)")
	rowsCmd.Flags().Bool("fallback", false, "Use the configured fallback when the layouts cannot read the document")
	rowsCmd.Flags().Bool("ocr", false, "Use Google Cloud Vision when the PDF has no text layer")
	rowsCmd.Flags().Duration("timeout", 2*time.Minute, "Processing timeout")
}

func runRows(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("rows")

	pdfPath := args[0]
	asJSON, _ := cmd.Flags().GetBool("json")
	entryDate, _ := cmd.Flags().GetString("entry-date")
	useFallback, _ := cmd.Flags().GetBool("fallback")
	useOCR, _ := cmd.Flags().GetBool("ocr")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if _, err := validatePDF(pdfPath, log); err != nil {
		return err
	}

	entry, err := parseEntryDate(entryDate, time.Now())
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

	doc := ledger.NewBuilder(p.Resolver, entry).Build(p.Processor.Process(ctx, pdfPath))
	if len(doc.Rows) == 0 {
		return fmt.Errorf("%w: %s", errNoRows, strings.Join(doc.Record.Issues, "; "))
	}

	log.Debug().
		Str("file", doc.Record.Filename).
		Int("rows", len(doc.Rows)).
		Str("status", doc.Summary.Status).
		Msg("Ledger rows built")

	if asJSON {
		return writeJSON(doc, "", log)
	}
	return ledger.WriteLedger(os.Stdout, doc.Rows)
}
