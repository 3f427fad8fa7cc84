package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	appErrors "github.com/noah-isme/rcc-portal/pkg/errors"
)

func newExportService(t *testing.T) *ExportService {
	t.Helper()
	payments := NewPaymentService(newGateway(t), nil, nil, PaymentConfig{})
	return NewExportService(payments, nil, nil, nil, nil)
}

func TestExportPaymentsCSV(t *testing.T) {
	svc := newExportService(t)

	file, err := svc.Payments(context.Background(), teacher, "", "")
	require.NoError(t, err)
	assert.Equal(t, "RCC_Transactions_all.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	rows, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, PaymentHeaders, rows[0])
	assert.Equal(t, []string{"Sidharth Kumar", "2023-09-01", "Monthly Fees - Sep", "5000", "SUCCESS", "TXN84920184", "UPI / GPay"}, rows[1])
}

func TestExportFilenameFollowsScope(t *testing.T) {
	svc := newExportService(t)
	ctx := context.Background()

	own, err := svc.Payments(ctx, student, "", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "RCC_Transactions_Sidharth_Kumar.pdf", own.Filename)
	assert.True(t, bytes.HasPrefix(own.Data, []byte("%PDF")))

	one, err := svc.Payments(ctx, teacher, "s1", "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "RCC_Transactions_s1.xlsx", one.Filename)

	book, err := excelize.OpenReader(bytes.NewReader(one.Data))
	require.NoError(t, err)
	defer book.Close()
	header, err := book.GetCellValue("Transactions", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Student", header)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := newExportService(t)
	_, err := svc.Payments(context.Background(), teacher, "", "docx")
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Payments(context.Background(), other, "s1", "csv")
	require.ErrorIs(t, err, appErrors.ErrForbidden)
}
