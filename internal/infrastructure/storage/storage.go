package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
	"github.com/jhoicas/inventory-manager/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-manager/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-manager/pkg/config"
)

// Repositories agrupa los adaptadores de persistencia del driver elegido.
type Repositories struct {
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Movements  repository.MovementRepository
	Users      repository.UserRepository
	Tx         inventory.TxRunner

	close func()
}

// Close libera el pool de conexiones (no-op en memoria).
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// Open construye los repositorios según cfg.Storage.Driver.
// Con postgres aplica las migraciones pendientes antes de abrir el pool.
func Open(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.New()
		return &Repositories{
			Products:   store.Products(),
			Categories: store.Categories(),
			Movements:  store.Movements(),
			Users:      store.Users(),
			Tx:         store,
		}, nil
	case config.StorageDriverPostgres:
		if err := postgres.MigrateUp(cfg.DB.ConnectionString()); err != nil {
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Products:   postgres.NewProductRepository(pool),
			Categories: postgres.NewCategoryRepository(pool),
			Movements:  postgres.NewMovementRepository(pool),
			Users:      postgres.NewUserRepository(pool),
			Tx:         postgres.NewTxRunner(pool),
			close:      pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("storage driver desconocido: %q", cfg.Storage.Driver)
	}
}
