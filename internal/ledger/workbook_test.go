package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"airledger/pkg/models"
)

func TestWorkbookFileName(t *testing.T) {
	assert.Equal(t, "out/Processing_Summary_15May_0930.xlsx", WorkbookFileName("out/Processing_Summary_15May_0930.csv"))
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.xlsx")
	require.NoError(t, WriteWorkbook(path, buildDocs(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetLedger}, f.GetSheetList())

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 5)
	assert.Equal(t, models.SummaryHeaders, summary[0])
	assert.Equal(t, models.StatusFailed, summary[3][0])

	ledger, err := f.GetRows(SheetLedger)
	require.NoError(t, err)
	require.Len(t, ledger, 5)
	assert.Equal(t, " Charge Narration", ledger[0][16])
	assert.Equal(t, "GJ1252612AB78975", ledger[1][4])
}
