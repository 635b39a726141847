package repository

import (
	"context"

	"github.com/jhoicas/inventory-manager/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para movimientos de inventario.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)
	List(ctx context.Context) ([]*entity.Movement, error)
	Search(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	Delete(ctx context.Context, id int64) error
}
