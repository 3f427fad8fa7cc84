package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/rcc-portal/internal/models"
	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
	"github.com/noah-isme/rcc-portal/pkg/export"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

var contentTypes = map[string]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type paymentDatasetSource interface {
	Dataset(ctx context.Context, actor models.Actor, studentID string) (export.Dataset, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type titledRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the payment ledger for download.
type ExportService struct {
	payments paymentDatasetSource
	csv      csvRenderer
	pdf      titledRenderer
	xlsx     titledRenderer
	logger   *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(payments paymentDatasetSource, logger *zap.Logger, csv csvRenderer, pdf, xlsx titledRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	return &ExportService{payments: payments, csv: csv, pdf: pdf, xlsx: xlsx, logger: logger}
}

// Payments renders the payments visible to the caller. Teachers may narrow to one student;
// an empty studentID exports everything.
func (s *ExportService) Payments(ctx context.Context, actor models.Actor, studentID, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	contentType, ok := contentTypes[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	dataset, err := s.payments.Dataset(ctx, actor, studentID)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch format {
	case FormatCSV:
		data, err = s.csv.Render(dataset)
	case FormatPDF:
		data, err = s.pdf.Render(dataset, "RCC Transactions")
	case FormatXLSX:
		data, err = s.xlsx.Render(dataset, "Transactions")
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}

	s.logger.Info("payments exported", zap.String("format", format), zap.Int("rows", len(dataset.Rows)))
	return &ExportFile{
		Filename:    fmt.Sprintf("RCC_Transactions_%s.%s", exportScope(actor, studentID), format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func exportScope(actor models.Actor, studentID string) string {
	if !actor.IsTeacher() {
		return sanitizeFilename(actor.Name)
	}
	if studentID == "" {
		return "all"
	}
	return sanitizeFilename(studentID)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "\"", "")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
