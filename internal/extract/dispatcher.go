package extract

import (
	"airledger/internal/gstin"
	"airledger/pkg/models"
)

// IssueUnknownFormat is recorded when no extractor recognizes the text.
const IssueUnknownFormat = "Unknown invoice format - no parser matched"

// Dispatcher selects an extractor for a document and completes the record
// with state information. It is safe for concurrent use.
type Dispatcher struct {
	extractors []Extractor
	resolver   *gstin.Resolver
}

// NewDispatcher creates a dispatcher over all supported layouts.
func NewDispatcher(resolver *gstin.Resolver) *Dispatcher {
	if resolver == nil {
		resolver = gstin.NewResolver(nil, "")
	}
	return &Dispatcher{
		extractors: Extractors(),
		resolver:   resolver,
	}
}

// Select returns the first extractor, in priority order, that recognizes text.
func (d *Dispatcher) Select(text string) (Extractor, bool) {
	for _, e := range d.extractors {
		if e.CanHandle(text) {
			return e, true
		}
	}
	return Extractor{}, false
}

// Extract runs the matching extractor. Unrecognized text yields an empty
// record carrying IssueUnknownFormat.
func (d *Dispatcher) Extract(text string, category models.Category) *models.InvoiceRecord {
	e, ok := d.Select(text)
	if !ok {
		rec := models.NewInvoiceRecord("", category)
		rec.AddIssue(IssueUnknownFormat)
		return rec
	}

	rec := e.Extract(text, category)
	d.ResolveState(rec)
	return rec
}

// ResolveState fills the state code and place of supply from the customer GSTIN.
func (d *Dispatcher) ResolveState(rec *models.InvoiceRecord) {
	if rec.CustomerGSTIN == "" {
		return
	}
	rec.StateCode, rec.PlaceOfSupply = d.resolver.ResolveState(rec.CustomerGSTIN)
}
