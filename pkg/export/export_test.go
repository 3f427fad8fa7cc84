package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Student", "Description", "Amount"},
		Rows: []map[string]string{
			{"Student": "Sidharth Kumar", "Description": "Monthly Fees - Oct, late", "Amount": "5000"},
			{"Student": "Anjali \"Anu\" Sharma", "Description": "Monthly Fees - Nov", "Amount": "2500.5"},
		},
	}
}

func TestCSVQuotesEmbeddedSeparators(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	assert.Contains(t, string(out), `"Monthly Fees - Oct, late"`)
	assert.Contains(t, string(out), `"Anjali ""Anu"" Sharma"`)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Student", "Description", "Amount"}, records[0])
	assert.Equal(t, "Monthly Fees - Oct, late", records[1][1])
}

func TestRenderersRejectEmptyHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.ErrorIs(t, err, ErrNoHeaders)
	_, err = NewPDFExporter().Render(Dataset{}, "x")
	assert.ErrorIs(t, err, ErrNoHeaders)
	_, err = NewXLSXExporter().Render(Dataset{}, "x")
	assert.ErrorIs(t, err, ErrNoHeaders)
}

func TestPDFRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "RCC Transactions")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset(), "Payments")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Payments")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Student", "Description", "Amount"}, rows[0])
	assert.Equal(t, "Anjali \"Anu\" Sharma", rows[2][0])
}
