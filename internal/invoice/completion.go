package invoice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"airledger/internal/extract"
	"airledger/internal/logger"
	"airledger/internal/normalize"
	"airledger/pkg/models"
	"airledger/pkg/services"
)

// MaxPromptChars is how much document text is sent to the model.
const MaxPromptChars = 4000

// chatCompleter is the part of the OpenAI client the extractor uses.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// CompletionConfig configures the chat completion fallback
type CompletionConfig struct {
	MaxRetries  int     // request attempts per document
	OpenAIModel string  // e.g. gpt-4o-mini
	Temperature float32 // sampling temperature
}

// CompletionExtractor extracts invoice fields with an OpenAI chat model. It
// implements services.FallbackExtractor.
type CompletionExtractor struct {
	client chatCompleter
	config CompletionConfig
	log    zerolog.Logger
}

// NewCompletionExtractor creates the fallback with an OpenAI client for apiKey.
func NewCompletionExtractor(apiKey string, config CompletionConfig) *CompletionExtractor {
	return newCompletionExtractor(openai.NewClient(apiKey), config)
}

func newCompletionExtractor(client chatCompleter, config CompletionConfig) *CompletionExtractor {
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	return &CompletionExtractor{
		client: client,
		config: config,
		log:    logger.WithComponent("invoice-completion"),
	}
}

// Name identifies the provider in logs.
func (s *CompletionExtractor) Name() string {
	return "openai"
}

// Extract sends the document text to the model and maps its JSON answer
// onto a record of doc's category.
func (s *CompletionExtractor) Extract(ctx context.Context, doc services.Document) (*models.InvoiceRecord, error) {
	const op = "Extract"

	prompt := buildCompletionPrompt(doc.Text)

	s.log.Debug().
		Int("prompt_length", len(prompt)).
		Str("model", s.config.OpenAIModel).
		Float32("temperature", s.config.Temperature).
		Msg("Sending extraction request to ChatGPT")

	var lastErr error
	for attempt := 1; attempt <= s.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, WrapProcessingError(op, "", err, "canceled before attempt")
		}

		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       s.config.OpenAIModel,
			Temperature: s.config.Temperature,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens: 1000,
		})
		if err != nil {
			lastErr = err
			s.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_retries", s.config.MaxRetries).
				Msg("ChatGPT request failed, retrying")
			continue
		}

		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			lastErr = ErrEmptyResponse
			continue
		}

		content := stripCodeFence(resp.Choices[0].Message.Content)
		s.log.Debug().
			Str("response", content).
			Msg("Received ChatGPT response")

		var raw map[string]interface{}
		if err := json.Unmarshal([]byte(content), &raw); err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			s.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Msg("Failed to parse ChatGPT response, retrying")
			continue
		}

		rec := recordFromFields(raw, doc.Category)
		s.log.Info().
			Str("airline", rec.Airline).
			Str("invoice_number", rec.InvoiceNumber).
			Int("attempt", attempt).
			Msg("Successfully extracted invoice data from ChatGPT")
		return rec, nil
	}

	return nil, WrapProcessingError(op, "", lastErr, fmt.Sprintf("all %d attempts failed", s.config.MaxRetries))
}

const systemPrompt = `You extract structured data from Indian airline GST invoices and debit notes.
Return ONLY valid JSON with NO markdown and NO trailing commas.`

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// buildCompletionPrompt lists the expected fields followed by the head of the
// document text.
func buildCompletionPrompt(text string) string {
	text = truncateUTF8(text, MaxPromptChars)

	return `Extract the following information from this airline invoice text and return as JSON:

{
    "airline": "Name of the airline (Air India, IndiGo, Akasa Air, Gulf Air, Air India Express)",
    "invoice_number": "Invoice or Debit Note number",
    "invoice_date": "Date in DD-MMM-YYYY format",
    "customer_name": "Customer company name",
    "customer_gstin": "15-character GSTIN of the customer",
    "vendor_gstin": "15-character GSTIN of the airline",
    "place_of_supply": "State name",
    "state_code": "2-digit state code from GSTIN",
    "currency": "Currency code (usually INR)",
    "taxable_value": "Taxable amount as number",
    "non_taxable_value": "Non-taxable amount as number",
    "cgst_amount": "CGST amount as number",
    "sgst_amount": "SGST amount as number",
    "igst_amount": "IGST amount as number",
    "total_amount": "Total invoice amount as number",
    "pnr": "PNR code",
    "passenger_name": "Passenger name",
    "flight_from": "3-letter departure airport code",
    "flight_to": "3-letter arrival airport code"
}

Important:
- All amounts should be numbers without currency symbols or commas
- Date should be in DD-MMM-YYYY format (e.g., 15-MAY-2025)
- If a field is not found, use empty string for text or 0 for numbers

Invoice Text:
` + text
}

// stripCodeFence removes a Markdown code fence around the model's answer.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// recordFromFields maps the model's JSON object onto a record.
func recordFromFields(raw map[string]interface{}, category models.Category) *models.InvoiceRecord {
	airline := getString(raw, "airline")
	if v := extract.VendorOf(airline); v != extract.VendorUnknown {
		airline = v.String()
	}

	rec := models.NewInvoiceRecord(strings.ToUpper(airline), category)
	rec.InvoiceNumber = getString(raw, "invoice_number")
	if date := getString(raw, "invoice_date"); date != "" {
		rec.InvoiceDate = normalize.ParseDate(date)
	}
	rec.CustomerName = getString(raw, "customer_name")
	rec.CustomerGSTIN = strings.ToUpper(getString(raw, "customer_gstin"))
	rec.VendorGSTIN = strings.ToUpper(getString(raw, "vendor_gstin"))
	rec.PlaceOfSupply = getString(raw, "place_of_supply")
	rec.StateCode = getString(raw, "state_code")
	if currency := strings.ToUpper(getString(raw, "currency")); currency != "" {
		rec.Currency = currency
	}

	rec.TaxableValue = getAmount(raw, "taxable_value")
	rec.NonTaxableValue = getAmount(raw, "non_taxable_value")
	rec.CGSTAmount = getAmount(raw, "cgst_amount")
	rec.SGSTAmount = getAmount(raw, "sgst_amount")
	rec.IGSTAmount = getAmount(raw, "igst_amount")
	rec.TotalAmount = getAmount(raw, "total_amount")

	rec.PNR = getString(raw, "pnr")
	rec.PassengerName = getString(raw, "passenger_name")
	rec.FlightFrom = strings.ToUpper(getString(raw, "flight_from"))
	rec.FlightTo = strings.ToUpper(getString(raw, "flight_to"))
	switch {
	case rec.FlightFrom != "" && rec.FlightTo != "":
		rec.Routing = rec.FlightFrom + " TO " + rec.FlightTo
	case rec.FlightFrom != "":
		rec.Routing = rec.FlightFrom
	}

	applyDefaultRates(rec)
	return rec
}

// applyDefaultRates sets the standard economy fare slabs for the tax
// amounts that are present.
func applyDefaultRates(rec *models.InvoiceRecord) {
	halfRate := decimal.RequireFromString("2.5")
	if rec.CGSTAmount.IsPositive() {
		rec.CGSTRate = halfRate
	}
	if rec.SGSTAmount.IsPositive() {
		rec.SGSTRate = halfRate
	}
	if rec.IGSTAmount.IsPositive() {
		rec.IGSTRate = decimal.NewFromInt(5)
	}
}

// getString safely extracts a string value from a map[string]interface{}
func getString(m map[string]interface{}, key string) string {
	if value, exists := m[key]; exists && value != nil {
		if str, ok := value.(string); ok {
			return strings.TrimSpace(str)
		}
	}
	return ""
}

// getAmount accepts amounts sent either as JSON numbers or as strings.
func getAmount(m map[string]interface{}, key string) decimal.Decimal {
	switch v := m[key].(type) {
	case float64:
		return decimal.NewFromFloat(v).Round(2)
	case string:
		return normalize.ParseAmount(v)
	default:
		return decimal.Zero
	}
}
