package invoice

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airledger/pkg/models"
	"airledger/pkg/services"
)

// fakeChat answers each request with the next scripted reply.
type fakeChat struct {
	replies  []string
	errs     []error
	requests []openai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	i := len(f.requests)
	f.requests = append(f.requests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return openai.ChatCompletionResponse{}, f.errs[i]
	}
	var reply string
	if i < len(f.replies) {
		reply = f.replies[i]
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply}},
		},
	}, nil
}

const indigoReply = "```json\n" + `{
  "airline": "IndiGo",
  "invoice_number": "GJ1252612AB78975",
  "invoice_date": "7 April 2025",
  "customer_name": "Navitas Travel Private Limited",
  "customer_gstin": "24aaccn5739j1za",
  "vendor_gstin": "24AACCN6194P1ZV",
  "place_of_supply": "Gujarat",
  "state_code": "24",
  "currency": "",
  "taxable_value": 5022,
  "non_taxable_value": "974.00",
  "cgst_amount": 125.55,
  "sgst_amount": "125.55",
  "igst_amount": 0,
  "total_amount": "6,247.10",
  "pnr": "QW8E7R",
  "passenger_name": "Amit Patel",
  "flight_from": "amd",
  "flight_to": "DEL"
}` + "\n```"

func TestCompletionExtract(t *testing.T) {
	chat := &fakeChat{replies: []string{indigoReply}}
	s := newCompletionExtractor(chat, CompletionConfig{MaxRetries: 2, OpenAIModel: "gpt-4o-mini"})

	rec, err := s.Extract(context.Background(), services.Document{
		Path:     "a.pdf",
		Text:     "INDIGO invoice",
		Category: models.CategoryDebit,
	})
	require.NoError(t, err)

	assert.Equal(t, "INDIGO", rec.Airline)
	assert.Equal(t, models.CategoryDebit, rec.Category)
	assert.Equal(t, "GJ1252612AB78975", rec.InvoiceNumber)
	assert.Equal(t, "07-APR-2025", rec.InvoiceDate)
	assert.Equal(t, "24AACCN5739J1ZA", rec.CustomerGSTIN)
	assert.Equal(t, "INR", rec.Currency)
	assert.Equal(t, "AMD TO DEL", rec.Routing)
	assert.True(t, rec.TaxableValue.Equal(dec("5022")))
	assert.True(t, rec.NonTaxableValue.Equal(dec("974")))
	assert.True(t, rec.CGSTAmount.Equal(dec("125.55")))
	assert.True(t, rec.SGSTAmount.Equal(dec("125.55")))
	assert.True(t, rec.TotalAmount.Equal(dec("6247.10")))
	assert.True(t, rec.CGSTRate.Equal(dec("2.5")))
	assert.True(t, rec.SGSTRate.Equal(dec("2.5")))
	assert.True(t, rec.IGSTRate.IsZero())
	assert.Empty(t, rec.Issues)

	require.Len(t, chat.requests, 1)
	req := chat.requests[0]
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.True(t, strings.HasSuffix(req.Messages[1].Content, "Invoice Text:\nINDIGO invoice"))
}

func TestCompletionPromptTruncatesText(t *testing.T) {
	text := strings.Repeat("x", MaxPromptChars) + "TAIL"
	prompt := buildCompletionPrompt(text)

	assert.NotContains(t, prompt, "TAIL")
	assert.Contains(t, prompt, `"total_amount"`)
	assert.True(t, strings.HasSuffix(prompt, strings.Repeat("x", MaxPromptChars)))
}

func TestCompletionPromptKeepsRunesWhole(t *testing.T) {
	// "₹" is three bytes; the limit falls on its second byte
	text := strings.Repeat("x", MaxPromptChars-1) + "₹ 6,247.10"
	prompt := buildCompletionPrompt(text)

	assert.True(t, utf8.ValidString(prompt))
	assert.True(t, strings.HasSuffix(prompt, "\n"+strings.Repeat("x", MaxPromptChars-1)))
	assert.NotContains(t, prompt, "₹")

	assert.Equal(t, "ab₹", truncateUTF8("ab₹cd", 5))
	assert.Equal(t, "ab", truncateUTF8("ab₹cd", 4))
	assert.Equal(t, "short", truncateUTF8("short", MaxPromptChars))
}

func TestCompletionRetries(t *testing.T) {
	chat := &fakeChat{
		errs:    []error{errors.New("502 bad gateway")},
		replies: []string{"", "I could not find an invoice", `{"invoice_number": "DN24250001", "igst_amount": 517.33, "total_amount": 10864}`},
	}
	s := newCompletionExtractor(chat, CompletionConfig{MaxRetries: 3})

	rec, err := s.Extract(context.Background(), services.Document{Text: "AIR INDIA"})
	require.NoError(t, err)

	assert.Len(t, chat.requests, 3)
	assert.Equal(t, "DN24250001", rec.InvoiceNumber)
	assert.True(t, rec.IGSTRate.Equal(dec("5")))
	assert.True(t, rec.IGSTAmount.Equal(dec("517.33")))
}

func TestCompletionAllAttemptsFail(t *testing.T) {
	chat := &fakeChat{replies: []string{"", "   "}}
	s := newCompletionExtractor(chat, CompletionConfig{MaxRetries: 2})

	_, err := s.Extract(context.Background(), services.Document{Text: "?"})

	assert.ErrorIs(t, err, ErrEmptyResponse)
	var procErr *ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "Extract", procErr.Op)
	assert.Len(t, chat.requests, 2)
}

func TestCompletionCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chat := &fakeChat{}
	_, err := newCompletionExtractor(chat, CompletionConfig{MaxRetries: 3}).Extract(ctx, services.Document{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, chat.requests)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"```json\n{\"a\":1}", `{"a":1}`},
		{"```", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeFence(tt.in), tt.in)
	}
}
