package invoice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/googleapis/gax-go/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"airledger/internal/extract"
	"airledger/internal/logger"
	"airledger/internal/normalize"
	"airledger/pkg/models"
	"airledger/pkg/services"
)

const (
	// MaxDocumentSizeBytes is the maximum document size for processing (20MB)
	MaxDocumentSizeBytes = 20 * 1024 * 1024
)

// documentProcessor is the part of the Document AI client the extractor uses.
type documentProcessor interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error)
	Close() error
}

// DocumentAIConfig holds configuration for Google Document AI processing.
type DocumentAIConfig struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu").
	// Should match where your Document AI processor is created.
	Location string

	// ProcessorID is the invoice parser processor ID.
	ProcessorID string

	// ProcessorVersion specifies a particular processor version.
	// If empty, uses the default version.
	ProcessorVersion string
}

// DocumentAIExtractor extracts invoice fields with the Document AI invoice
// parser. It reads the PDF itself, so it also works on scans without a text
// layer. It implements services.FallbackExtractor.
type DocumentAIExtractor struct {
	client documentProcessor
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAIExtractor creates the Document AI client for the processor's
// region. opts typically carry the configured credentials.
func NewDocumentAIExtractor(ctx context.Context, config DocumentAIConfig, opts ...option.ClientOption) (*DocumentAIExtractor, error) {
	const op = "NewDocumentAIExtractor"

	if config.Location == "" {
		config.Location = "us"
	}

	// Set regional endpoint if not us
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, WrapProcessingError(op, "", err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return newDocumentAIExtractor(client, config), nil
}

func newDocumentAIExtractor(client documentProcessor, config DocumentAIConfig) *DocumentAIExtractor {
	return &DocumentAIExtractor{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}
}

// Name identifies the provider in logs.
func (p *DocumentAIExtractor) Name() string {
	return "documentai"
}

// Extract sends the PDF at doc.Path to the invoice parser.
func (p *DocumentAIExtractor) Extract(ctx context.Context, doc services.Document) (*models.InvoiceRecord, error) {
	const op = "Extract"
	file := filepath.Base(doc.Path)

	pdfBytes, err := os.ReadFile(doc.Path)
	if err != nil {
		return nil, WrapProcessingError(op, file, err, "failed to read PDF data")
	}

	if len(pdfBytes) > MaxDocumentSizeBytes {
		return nil, WrapProcessingError(op, file, ErrDocumentTooLarge, fmt.Sprintf("file size: %d bytes", len(pdfBytes)))
	}

	if len(pdfBytes) < 4 || string(pdfBytes[:4]) != "%PDF" {
		return nil, WrapProcessingError(op, file, ErrInvalidPDF, "missing PDF header")
	}

	req := &documentaipb.ProcessRequest{
		Name: p.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
	}

	start := time.Now()
	resp, err := p.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, p.handleProcessingError(op, file, err)
	}
	if resp.Document == nil {
		return nil, WrapProcessingError(op, file, ErrProcessingFailed, "no document in response")
	}

	rec := p.recordFromDocument(resp.Document, doc.Category)

	p.log.Info().
		Str("file", file).
		Str("invoice_number", rec.InvoiceNumber).
		Str("total", normalize.FormatAmount(rec.TotalAmount)).
		Dur("duration", time.Since(start)).
		Msg("Document AI extraction completed")

	return rec, nil
}

// processorName constructs the full processor name for Document AI API.
func (p *DocumentAIExtractor) processorName() string {
	if p.config.ProcessorVersion != "" {
		return fmt.Sprintf("projects/%s/locations/%s/processors/%s/processorVersions/%s",
			p.config.ProjectID, p.config.Location, p.config.ProcessorID, p.config.ProcessorVersion)
	}
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		p.config.ProjectID, p.config.Location, p.config.ProcessorID)
}

// handleProcessingError converts Document AI errors to processing errors.
func (p *DocumentAIExtractor) handleProcessingError(op, file string, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "PERMISSION_DENIED"), strings.Contains(errStr, "PermissionDenied"):
		return WrapProcessingError(op, file, ErrInvalidCredentials, "insufficient permissions for Document AI")
	case strings.Contains(errStr, "QUOTA_EXCEEDED"), strings.Contains(errStr, "ResourceExhausted"):
		return WrapProcessingError(op, file, ErrQuotaExceeded, "Document AI API quota exceeded")
	case strings.Contains(errStr, "NOT_FOUND"), strings.Contains(errStr, "NotFound"):
		return WrapProcessingError(op, file, ErrProcessorNotFound, fmt.Sprintf("processor not found: %s", p.config.ProcessorID))
	case strings.Contains(errStr, "INVALID_ARGUMENT"), strings.Contains(errStr, "InvalidArgument"):
		return WrapProcessingError(op, file, ErrInvalidPDF, "document format not supported or corrupted")
	case strings.Contains(errStr, "DeadlineExceeded"), strings.Contains(errStr, "context deadline exceeded"):
		return WrapProcessingError(op, file, context.DeadlineExceeded, "processing timeout")
	case strings.Contains(errStr, "Canceled"), strings.Contains(errStr, "context canceled"):
		return WrapProcessingError(op, file, context.Canceled, "processing was canceled")
	default:
		return WrapProcessingError(op, file, ErrProcessingFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

// recordFromDocument converts invoice parser entities to a record.
func (p *DocumentAIExtractor) recordFromDocument(doc *documentaipb.Document, category models.Category) *models.InvoiceRecord {
	rec := models.NewInvoiceRecord("", category)
	var tax decimal.Decimal

	for _, entity := range doc.Entities {
		value := strings.TrimSpace(entity.MentionText)

		p.log.Debug().
			Str("entity_type", entity.Type).
			Str("value", value).
			Float32("confidence", entity.Confidence).
			Msg("Processing Document AI entity")

		switch entity.Type {
		case "invoice_id":
			rec.InvoiceNumber = value
		case "invoice_date":
			rec.InvoiceDate = entityDate(entity)
		case "supplier_name":
			if v := extract.VendorOf(value); v != extract.VendorUnknown {
				rec.Airline = v.String()
			}
		case "supplier_tax_id":
			rec.VendorGSTIN = compactTaxID(value)
		case "receiver_tax_id":
			rec.CustomerGSTIN = compactTaxID(value)
		case "receiver_name":
			rec.CustomerName = firstLine(value)
		case "net_amount":
			rec.TaxableValue = entityMoney(entity)
		case "total_tax_amount":
			tax = entityMoney(entity)
		case "total_amount":
			rec.TotalAmount = entityMoney(entity)
		case "currency":
			if c := strings.ToUpper(value); len(c) == 3 {
				rec.Currency = c
			}
		}
	}

	if rec.Airline == "" {
		if v := extract.VendorOf(doc.Text); v != extract.VendorUnknown {
			rec.Airline = v.String()
		}
	}

	if rec.InvoiceNumber == "" {
		if m := invoiceNumberPattern.FindStringSubmatch(doc.Text); m != nil {
			rec.InvoiceNumber = m[1]
		}
	}

	// net amount is often missing on airline invoices
	if !rec.TaxableValue.IsPositive() && rec.TotalAmount.IsPositive() && tax.IsPositive() {
		rec.TaxableValue = rec.TotalAmount.Sub(tax)
	}

	splitTax(rec, tax)
	applyDefaultRates(rec)
	return rec
}

var invoiceNumberPattern = regexp.MustCompile(`(?i)(?:invoice|debit note)\s*(?:no|number)\.?\s*[:\-]?\s*([A-Z0-9][A-Z0-9/\-]{5,19})`)

// splitTax books the total tax as IGST when the airline and customer sit in
// different states and as equal CGST and SGST halves otherwise.
func splitTax(rec *models.InvoiceRecord, tax decimal.Decimal) {
	if !tax.IsPositive() {
		return
	}
	if len(rec.VendorGSTIN) >= 2 && len(rec.CustomerGSTIN) >= 2 && rec.VendorGSTIN[:2] == rec.CustomerGSTIN[:2] {
		half := tax.Div(decimal.NewFromInt(2)).Round(2)
		rec.CGSTAmount = half
		rec.SGSTAmount = tax.Sub(half)
		return
	}
	rec.IGSTAmount = tax
}

// entityDate prefers the parser's normalized date over the mention text.
func entityDate(entity *documentaipb.Document_Entity) string {
	if entity.NormalizedValue != nil {
		if d := entity.NormalizedValue.GetDateValue(); d != nil && d.Year > 0 {
			return normalize.FormatDate(time.Date(int(d.Year), time.Month(d.Month), int(d.Day), 0, 0, 0, 0, time.UTC))
		}
	}
	return normalize.ParseDate(strings.TrimSpace(entity.MentionText))
}

// entityMoney prefers the parser's normalized money value over the mention text.
func entityMoney(entity *documentaipb.Document_Entity) decimal.Decimal {
	if entity.NormalizedValue != nil {
		if m := entity.NormalizedValue.GetMoneyValue(); m != nil {
			return decimal.New(m.Units, 0).Add(decimal.New(int64(m.Nanos), -9)).Round(2)
		}
	}
	return normalize.ParseAmount(entity.MentionText)
}

func compactTaxID(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Close closes the underlying Document AI client.
func (p *DocumentAIExtractor) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}
