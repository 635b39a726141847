package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-manager/internal/application/report"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "999,90", formatMoney(decimal.RequireFromString("999.9")))
	assert.Equal(t, "25.000,00", formatMoney(decimal.NewFromInt(25000)))
	assert.Equal(t, "1.234.567,50", formatMoney(decimal.RequireFromString("1234567.5")))
}

func TestGenerateStockReport_DevuelvePDF(t *testing.T) {
	rep := &report.StockReport{
		Title:       "Reporte de stock",
		GeneratedAt: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		Lines: []report.StockReportLine{
			{Code: "W-1", Name: "Widget", CategoryName: "Ferretería", Stock: 10, Price: decimal.RequireFromString("2.50"), Value: decimal.RequireFromString("25")},
			{Code: "G-1", Name: "Gadget", Stock: 0, Price: decimal.NewFromInt(7), Value: decimal.Zero},
		},
		TotalUnits: 10,
		TotalValue: decimal.RequireFromString("25"),
	}

	out, err := NewStockReportGenerator("inventory-test").GenerateStockReport(context.Background(), rep)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}
