package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"airledger/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "airledger",
	Short: "airledger - turn airline GST invoices into purchase ledger rows",
	Long: `airledger reads airline invoice and debit note PDFs (Air India, Air India
Express, IndiGo, Akasa Air, Gulf Air), extracts the GST fields from each
document and writes them as purchase ledger rows ready for import, together
with a processing summary that flags missing or unmapped data.

Extraction runs offline. Scanned documents can be read with Google Cloud
Vision, and documents no layout recognizes can be handed to an OpenAI or
Document AI fallback.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Debug().
			Str("version", version).
			Msg("airledger executed without command")

		_ = cmd.Help()
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
