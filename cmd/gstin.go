package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"airledger/internal/config"
	"airledger/internal/gstin"
	"airledger/internal/logger"
)

var gstinCmd = &cobra.Command{
	Use:   "gstin [gstin...]",
	Short: "Look up GSTINs in the state and branch tables",
	Long: `Resolve GSTINs the way the ledger does: state code and name from the
first two characters, the organization branch when the GSTIN is an airline
registration, and the customer branch.

Without arguments the sizes of the loaded tables are printed, which shows
whether LOOKUP_TABLES_FILE was picked up.`,
	Example: `  # Check a customer registration
  airledger gstin 24AACCN5739J1ZA

  # Several at once
  airledger gstin 27AAACI1681G1ZN 07AABCG1234H1Z5`,
	RunE: runGSTIN,
}

func init() {
	rootCmd.AddCommand(gstinCmd)
}

func runGSTIN(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("gstin")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	resolver, err := loadResolver(cfg)
	if err != nil {
		return fmt.Errorf("failed to load lookup tables: %w", err)
	}

	if len(args) == 0 {
		states, vendors, customers := resolver.Tables().Counts()
		log.Debug().
			Str("file", cfg.LookupTablesFile).
			Msg("Lookup tables loaded")
		fmt.Printf("States:            %d\n", states)
		fmt.Printf("Vendor branches:   %d\n", vendors)
		fmt.Printf("Customer branches: %d\n", customers)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GSTIN\tVALID\tSTATE\tPLACE OF SUPPLY\tORG BRANCH\tIN VENDOR MAP\tCUSTOMER BRANCH")
	for _, arg := range args {
		id := strings.ToUpper(strings.TrimSpace(arg))
		code, name := resolver.ResolveState(id)
		branch, inMap := resolver.VendorBranch(id)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			id, yesNo(gstin.Valid(id)), code, name, branch, yesNo(inMap), resolver.CustomerBranch(id, code))
	}
	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
