package report

import "context"

// StockReportGenerator puerto para renderizar el reporte de stock (PDF).
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, report *StockReport) ([]byte, error)
}
