package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"airledger/internal/gstin"
	"airledger/pkg/models"
)

// UnknownGroup keys documents without a customer GSTIN.
const UnknownGroup = "UNKNOWN"

// Group is the set of documents written to one ledger file.
type Group struct {
	Key  string // customer GSTIN or UnknownGroup
	Docs []Document
}

// Rows returns the ledger rows of every document in the group, in order.
func (g Group) Rows() []models.LedgerRow {
	var rows []models.LedgerRow
	for _, d := range g.Docs {
		rows = append(rows, d.Rows...)
	}
	return rows
}

// GroupByCustomer groups documents by customer GSTIN in order of first
// appearance. Failed documents are left out.
func GroupByCustomer(docs []Document) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, d := range docs {
		if len(d.Rows) == 0 {
			continue
		}
		key := d.Record.CustomerGSTIN
		if key == "" {
			key = UnknownGroup
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Docs = append(groups[i].Docs, d)
	}
	return groups
}

// GroupFileName names a per-customer ledger file, e.g.
// Flight_Exp_MAHARASHTRA_J1Z4_14FEB.csv.
func GroupFileName(key string, tables *gstin.Tables, now time.Time) string {
	state := "Unknown"
	if key != UnknownGroup && len(key) >= 2 {
		if name, ok := tables.StateName(key[:2]); ok {
			state = name
		}
	}
	suffix := key
	if len(key) >= 4 {
		suffix = key[len(key)-4:]
	}
	return fmt.Sprintf("Flight_Exp_%s_%s_%s.csv",
		strings.ReplaceAll(state, " ", ""), suffix, dayStamp(now))
}

// SingleFileName names the combined ledger file.
func SingleFileName(now time.Time) string {
	return fmt.Sprintf("Flight_Exp_All_%s.csv", dayStamp(now))
}

// SummaryFileName names the processing summary, e.g. Processing_Summary_14Feb_0930.csv.
func SummaryFileName(now time.Time) string {
	return fmt.Sprintf("Processing_Summary_%s.csv", now.Format("02Jan_1504"))
}

func dayStamp(now time.Time) string {
	return strings.ToUpper(now.Format("02Jan"))
}

// WriteLedger writes the literal header row followed by rows. The header is
// written verbatim since a csv writer would quote " Charge Narration".
func WriteLedger(out io.Writer, rows []models.LedgerRow) error {
	if _, err := io.WriteString(out, strings.Join(models.LedgerHeaders, ",")+"\n"); err != nil {
		return fmt.Errorf("failed to write ledger header: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, out); err != nil {
		return fmt.Errorf("failed to write ledger rows: %w", err)
	}
	return nil
}

// WriteSummary writes the summary rows with their header.
func WriteSummary(out io.Writer, rows []models.SummaryRow) error {
	if len(rows) == 0 {
		w := csv.NewWriter(out)
		if err := w.Write(models.SummaryHeaders); err != nil {
			return fmt.Errorf("failed to write summary header: %w", err)
		}
		w.Flush()
		return w.Error()
	}
	if err := gocsv.Marshal(rows, out); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// Writer writes batch output files into a directory.
type Writer struct {
	dir    string
	tables *gstin.Tables
	now    time.Time
}

// NewWriter creates a writer for dir. now stamps the file names.
func NewWriter(dir string, tables *gstin.Tables, now time.Time) *Writer {
	if tables == nil {
		tables = gstin.Default()
	}
	return &Writer{dir: dir, tables: tables, now: now}
}

// WriteGrouped writes one ledger file per customer GSTIN and returns the paths.
func (w *Writer) WriteGrouped(docs []Document) ([]string, error) {
	const op = "WriteGrouped"

	var paths []string
	for _, g := range GroupByCustomer(docs) {
		path := filepath.Join(w.dir, GroupFileName(g.Key, w.tables, w.now))
		if err := writeFile(path, func(f io.Writer) error { return WriteLedger(f, g.Rows()) }); err != nil {
			return paths, fmt.Errorf("%s: %w", op, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteSingle writes every successful document into one ledger file. An empty
// name uses SingleFileName; a relative name is placed in the output directory.
func (w *Writer) WriteSingle(docs []Document, name string) (string, error) {
	const op = "WriteSingle"

	if name == "" {
		name = SingleFileName(w.now)
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.dir, name)
	}

	var rows []models.LedgerRow
	for _, d := range docs {
		rows = append(rows, d.Rows...)
	}
	if err := writeFile(path, func(f io.Writer) error { return WriteLedger(f, rows) }); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return path, nil
}

// WriteSummary writes the processing summary file.
func (w *Writer) WriteSummary(docs []Document) (string, error) {
	const op = "WriteSummary"

	path := filepath.Join(w.dir, SummaryFileName(w.now))
	if err := writeFile(path, func(f io.Writer) error { return WriteSummary(f, Summaries(docs)) }); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return path, nil
}

// Summaries returns the summary line of every document.
func Summaries(docs []Document) []models.SummaryRow {
	rows := make([]models.SummaryRow, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, d.Summary)
	}
	return rows
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
