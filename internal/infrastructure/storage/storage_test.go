package storage

import (
	"context"
	"testing"

	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
	"github.com/jhoicas/inventory-manager/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MemoryDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverMemory}}
	repos, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()
	p := &entity.Product{Name: "Widget", Code: "W-1", Price: decimal.RequireFromString("1.00")}
	require.NoError(t, repos.Products.Create(ctx, p))

	// Los repos fuera de tx y el TxRunner comparten el mismo estado.
	err = repos.Tx.Run(ctx, func(_ repository.MovementRepository, products repository.ProductRepository) error {
		got, err := products.GetForUpdate(ctx, p.ID)
		if err != nil {
			return err
		}
		return products.UpdateStock(ctx, got.ID, 7)
	})
	require.NoError(t, err)

	got, err := repos.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Stock)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Storage: config.StorageConfig{Driver: "sqlite"}})
	assert.Error(t, err)
}
