package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"airledger/pkg/models"
)

// fakeSheets serves the handful of Sheets endpoints the service calls.
type fakeSheets struct {
	mu       sync.Mutex
	tabs     []string
	headers  map[string]bool
	appended map[string][][]interface{}
	updates  []string
	batches  int
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	body, _ := io.ReadAll(r.Body)

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		f.batches++
		var req sheets.BatchUpdateSpreadsheetRequest
		_ = json.Unmarshal(body, &req)
		if len(req.Requests) > 0 && req.Requests[0].AddSheet != nil {
			f.tabs = append(f.tabs, req.Requests[0].AddSheet.Properties.Title)
			writeJSON(w, map[string]interface{}{
				"replies": []interface{}{
					map[string]interface{}{"addSheet": map[string]interface{}{"properties": map[string]interface{}{"sheetId": 7}}},
				},
			})
			return
		}
		writeJSON(w, map[string]interface{}{})

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		var vr sheets.ValueRange
		_ = json.Unmarshal(body, &vr)
		tab := tabOf(path)
		f.appended[tab] = append(f.appended[tab], vr.Values...)
		writeJSON(w, map[string]interface{}{})

	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		tab := tabOf(path)
		f.headers[tab] = true
		f.updates = append(f.updates, tab)
		writeJSON(w, map[string]interface{}{})

	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		if f.headers[tabOf(path)] {
			writeJSON(w, map[string]interface{}{"values": [][]string{{"existing"}}})
			return
		}
		writeJSON(w, map[string]interface{}{})

	case r.Method == http.MethodGet:
		var list []interface{}
		for i, t := range f.tabs {
			list = append(list, map[string]interface{}{"properties": map[string]interface{}{"title": t, "sheetId": i}})
		}
		writeJSON(w, map[string]interface{}{"sheets": list})

	default:
		http.Error(w, "unexpected "+r.Method+" "+path, http.StatusNotFound)
	}
}

func tabOf(path string) string {
	rest := path[strings.Index(path, "/values/")+len("/values/"):]
	return rest[:strings.Index(rest, "!")]
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestService(t *testing.T, fake *fakeSheets) *Service {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return newService(svc, "sheet123")
}

func TestExtractSpreadsheetID(t *testing.T) {
	id, err := extractSpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-d_E/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-d_E", id)

	_, err = extractSpreadsheetID("https://example.com/nothing")
	assert.Error(t, err)
}

func TestAppendLedgerCreatesTabAndHeaders(t *testing.T) {
	fake := &fakeSheets{headers: map[string]bool{}, appended: map[string][][]interface{}{}}
	svc := newTestService(t, fake)

	rows := []models.LedgerRow{
		{VendorInvNo: "GJ1252612AB78975", Amount: "1050.00"},
		{VendorInvNo: "GJ1252612AB78975", Amount: "1050.00", TaxType: "Non-Taxable"},
	}
	require.NoError(t, svc.AppendLedger(context.Background(), "Ledger", rows))

	assert.Equal(t, []string{"Ledger"}, fake.tabs)
	assert.Equal(t, []string{"Ledger"}, fake.updates)
	require.Len(t, fake.appended["Ledger"], 2)
	assert.Len(t, fake.appended["Ledger"][0], len(models.LedgerHeaders))
	assert.Equal(t, "GJ1252612AB78975", fake.appended["Ledger"][0][4])
	// add-sheet plus header formatting
	assert.Equal(t, 2, fake.batches)
}

func TestAppendSummaryExistingTab(t *testing.T) {
	fake := &fakeSheets{
		tabs:     []string{"Summary"},
		headers:  map[string]bool{"Summary": true},
		appended: map[string][][]interface{}{},
	}
	svc := newTestService(t, fake)

	rows := []models.SummaryRow{{Status: models.StatusFailed, FileName: "blank.pdf"}}
	require.NoError(t, svc.AppendSummary(context.Background(), "Summary", rows))

	assert.Empty(t, fake.updates)
	assert.Zero(t, fake.batches)
	require.Len(t, fake.appended["Summary"], 1)
	assert.Equal(t, "Failed", fake.appended["Summary"][0][0])
}

func TestAppendNothing(t *testing.T) {
	fake := &fakeSheets{headers: map[string]bool{}, appended: map[string][][]interface{}{}}
	svc := newTestService(t, fake)

	require.NoError(t, svc.AppendLedger(context.Background(), "Ledger", nil))
	assert.Empty(t, fake.tabs)
}
