package export

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
)

func TestJobWorkbook(t *testing.T) {
	svc := NewService(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	estimates := []domain.RugEstimate{
		{
			ID:       "rug-1",
			RugLabel: "Persian 8x10",
			Services: []domain.ServiceItem{
				{Name: "Deep Cleaning", Quantity: 1, UnitPrice: 240, Priority: domain.PriorityHigh},
				{Name: "Fringe Repair", Quantity: 2, UnitPrice: 45.5, Priority: domain.PriorityMedium},
			},
			Photos: domain.PhotoSet{
				{PhotoIndex: 0, Annotations: []domain.Annotation{{Label: "Issue 1", Location: "on rug", X: 12.5, Y: 40}}},
			},
		},
		{
			ID: "rug-2",
			Services: []domain.ServiceItem{
				{Name: "Padding", Quantity: 1, UnitPrice: 35.25, Priority: domain.PriorityLow},
			},
		},
	}

	data, err := svc.JobWorkbook("job-1", estimates)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(EstimateSheet)
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, []string{"Rug", "Service", "Priority", "Mandatory", "Quantity", "Unit Price", "Line Total"}, rows[0])
	assert.Equal(t, []string{"Persian 8x10", "Deep Cleaning", "high", "yes", "1", "240", "240"}, rows[1])
	assert.Equal(t, []string{"Persian 8x10", "Fringe Repair", "medium", "no", "2", "45.5", "91"}, rows[2])
	assert.Equal(t, "Subtotal", rows[3][1])
	assert.Equal(t, "331", rows[3][6])
	assert.Equal(t, "rug-2", rows[4][0], "falls back to the id without a label")
	assert.Equal(t, "Grand Total", rows[6][1])
	assert.Equal(t, "366.25", rows[6][6])

	ann, err := f.GetRows(AnnotationsSheet)
	require.NoError(t, err)
	require.Len(t, ann, 2)
	assert.Equal(t, []string{"Persian 8x10", "1", "1", "Issue 1", "on rug", "12.5", "40"}, ann[1])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "estimate-job-7.xlsx", FileName("job-7"))
}
