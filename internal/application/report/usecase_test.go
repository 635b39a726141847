package report_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-manager/internal/application/report"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/access"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/infrastructure/memory"
)

type fakeGenerator struct {
	got *report.StockReport
}

func (f *fakeGenerator) GenerateStockReport(_ context.Context, rep *report.StockReport) ([]byte, error) {
	f.got = rep
	return []byte("%PDF-fake"), nil
}

func TestDownload_ValorizaElStock(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	for _, p := range []*entity.Product{
		{Name: "Widget", Code: "W-1", Stock: 4, Price: decimal.RequireFromString("2.50")},
		{Name: "Gadget", Code: "G-1", Stock: 1, Price: decimal.RequireFromString("10.00")},
	} {
		require.NoError(t, store.Products().Create(ctx, p))
	}
	gen := &fakeGenerator{}
	uc := report.NewStockReportUseCase(store.Products(), gen)

	out, filename, err := uc.Download(ctx, access.User("u-1", false))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), out)
	assert.Regexp(t, `^stock_\d{8}_\d{6}\.pdf$`, filename)

	require.NotNil(t, gen.got)
	require.Len(t, gen.got.Lines, 2)
	assert.Equal(t, "W-1", gen.got.Lines[0].Code)
	assert.True(t, decimal.RequireFromString("10").Equal(gen.got.Lines[0].Value))
	assert.Equal(t, int64(5), gen.got.TotalUnits)
	assert.True(t, decimal.RequireFromString("20").Equal(gen.got.TotalValue))
}

func TestDownload_ExigeAutenticacion(t *testing.T) {
	uc := report.NewStockReportUseCase(memory.New().Products(), &fakeGenerator{})

	_, _, err := uc.Download(context.Background(), access.Anonymous)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
