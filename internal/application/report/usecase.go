package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-manager/internal/domain/access"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

// StockReportLine una fila del reporte: un producto con su valorización.
type StockReportLine struct {
	Code         string
	Name         string
	CategoryName string
	Stock        int64
	Price        decimal.Decimal
	Value        decimal.Decimal // Stock * Price
}

// StockReport datos completos del reporte de stock.
type StockReport struct {
	Title       string
	GeneratedAt time.Time
	Lines       []StockReportLine
	TotalUnits  int64
	TotalValue  decimal.Decimal
}

// StockReportUseCase arma el reporte de stock actual y lo renderiza con el generador.
type StockReportUseCase struct {
	productRepo repository.ProductRepository
	generator   StockReportGenerator
	now         func() time.Time
}

// NewStockReportUseCase construye el caso de uso.
func NewStockReportUseCase(productRepo repository.ProductRepository, generator StockReportGenerator) *StockReportUseCase {
	return &StockReportUseCase{productRepo: productRepo, generator: generator, now: time.Now}
}

// Build arma el reporte sin renderizarlo.
func (uc *StockReportUseCase) Build(ctx context.Context, p access.Principal) (*StockReport, error) {
	if err := access.Authorize(p, access.StockReportRead); err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: listar productos: %w", err)
	}
	return buildReport(products, uc.now()), nil
}

// Download genera el PDF del reporte y el nombre de archivo sugerido.
func (uc *StockReportUseCase) Download(ctx context.Context, p access.Principal) (pdfBytes []byte, filename string, err error) {
	rep, err := uc.Build(ctx, p)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateStockReport(ctx, rep)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generar PDF: %w", err)
	}
	filename = fmt.Sprintf("stock_%s.pdf", rep.GeneratedAt.Format("20060102_150405"))
	return pdfBytes, filename, nil
}

func buildReport(products []*entity.Product, now time.Time) *StockReport {
	rep := &StockReport{
		Title:       "Reporte de stock",
		GeneratedAt: now,
		Lines:       make([]StockReportLine, 0, len(products)),
		TotalValue:  decimal.Zero,
	}
	for _, p := range products {
		value := p.Price.Mul(decimal.NewFromInt(p.Stock))
		rep.Lines = append(rep.Lines, StockReportLine{
			Code:         p.Code,
			Name:         p.Name,
			CategoryName: p.CategoryName,
			Stock:        p.Stock,
			Price:        p.Price,
			Value:        value,
		})
		rep.TotalUnits += p.Stock
		rep.TotalValue = rep.TotalValue.Add(value)
	}
	return rep
}
