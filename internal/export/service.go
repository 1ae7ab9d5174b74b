// Package export renders job estimates as XLSX workbooks.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ridwanfathin/rug-estimate-service/internal/domain"
	"github.com/ridwanfathin/rug-estimate-service/internal/money"
)

const (
	EstimateSheet    = "Estimate"
	AnnotationsSheet = "Annotations"

	// ContentType is the media type of the produced workbooks.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var estimateHeaders = []string{
	"Rug",
	"Service",
	"Priority",
	"Mandatory",
	"Quantity",
	"Unit Price",
	"Line Total",
}

var annotationHeaders = []string{
	"Rug",
	"Photo",
	"Marker",
	"Label",
	"Location",
	"X (%)",
	"Y (%)",
}

// Service produces XLSX bytes for job exports.
type Service struct {
	logger *slog.Logger
}

// NewService creates an export service; a nil logger uses slog.Default.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// JobWorkbook writes one row per service of every rug, a subtotal per rug and
// a grand total, plus a second sheet listing the photo annotations.
func (s *Service) JobWorkbook(jobID string, estimates []domain.RugEstimate) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the estimate sheet.
	if err := f.SetSheetName(f.GetSheetName(0), EstimateSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(AnnotationsSheet); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}

	writeHeaders(f, EstimateSheet, estimateHeaders, bold)
	writeHeaders(f, AnnotationsSheet, annotationHeaders, bold)

	row := 2
	grand := 0.0
	for _, est := range estimates {
		subtotal := 0.0
		for _, item := range est.Services {
			line := money.Round2(item.LineTotal())
			subtotal += line
			setRow(f, EstimateSheet, row, rugName(est), item.Name, item.Priority.String(),
				yesNo(item.IsMandatory()), item.Quantity, item.UnitPrice, line)
			row++
		}
		subtotal = money.Round2(subtotal)
		grand += subtotal
		setRow(f, EstimateSheet, row, rugName(est), "Subtotal", "", "", "", "", subtotal)
		styleRow(f, EstimateSheet, row, len(estimateHeaders), bold)
		row++
	}
	setRow(f, EstimateSheet, row, "", "Grand Total", "", "", "", "", money.Round2(grand))
	styleRow(f, EstimateSheet, row, len(estimateHeaders), bold)

	markerRows := 0
	annRow := 2
	for _, est := range estimates {
		for _, photo := range est.Photos {
			for i, a := range photo.Annotations {
				setRow(f, AnnotationsSheet, annRow, rugName(est), photo.PhotoIndex+1, i+1,
					a.Label, a.Location, a.X, a.Y)
				annRow++
				markerRows++
			}
		}
	}

	_ = f.SetColWidth(EstimateSheet, "A", "A", 24) // rug
	_ = f.SetColWidth(EstimateSheet, "B", "B", 32) // service
	_ = f.SetColWidth(EstimateSheet, "C", "E", 12)
	_ = f.SetColWidth(EstimateSheet, "F", "G", 14) // amounts
	_ = f.SetColWidth(AnnotationsSheet, "A", "A", 24)
	_ = f.SetColWidth(AnnotationsSheet, "D", "E", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"job_id", jobID,
		"rugs", len(estimates),
		"annotations", markerRows,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// FileName is the download name of a job workbook.
func FileName(jobID string) string {
	return fmt.Sprintf("estimate-%s.xlsx", jobID)
}

func writeHeaders(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	styleRow(f, sheet, 1, len(headers), style)
}

func setRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(cols, row)
	_ = f.SetCellStyle(sheet, first, last, style)
}

func rugName(est domain.RugEstimate) string {
	if est.RugLabel != "" {
		return est.RugLabel
	}
	return est.ID
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
