package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/access"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
	"github.com/jhoicas/inventory-manager/pkg/metrics"
)

// MovementUseCase registra movimientos de inventario de forma transaccional.
// Crear un movimiento es lo único que modifica el stock de un producto después de su creación.
type MovementUseCase struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
	now      func() time.Time
}

// NewMovementUseCase construye el caso de uso. movRepo se usa para lecturas fuera de transacción.
func NewMovementUseCase(txRunner TxRunner, movRepo repository.MovementRepository) *MovementUseCase {
	return &MovementUseCase{
		txRunner: txRunner,
		movRepo:  movRepo,
		now:      time.Now,
	}
}

// RecordMovement valida permisos y datos, bloquea la fila del producto (SELECT FOR UPDATE),
// aplica la entrada o salida y guarda el movimiento en la misma transacción.
//
// Retorna:
//   - domain.ErrPermissionDenied        si el llamador no es staff.
//   - domain.ErrInvalidInput            si quantity <= 0, falta el producto o el tipo es desconocido.
//   - domain.ErrUnsupportedMovementType si el tipo es "ajuste".
//   - domain.ErrNotFound                si el producto no existe.
//   - domain.ErrInsufficientStock       si una salida supera el stock actual.
func (uc *MovementUseCase) RecordMovement(ctx context.Context, p access.Principal, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	mov, err := uc.record(ctx, p, in)
	if err != nil {
		metrics.MovementsRejected.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}
	metrics.MovementsRecorded.WithLabelValues(mov.Type).Inc()
	return toMovementResponse(mov), nil
}

func (uc *MovementUseCase) record(ctx context.Context, p access.Principal, in dto.RecordMovementRequest) (*entity.Movement, error) {
	if err := access.Authorize(p, access.MovementWrite); err != nil {
		return nil, err
	}
	if err := validateMovement(in); err != nil {
		return nil, err
	}

	var created *entity.Movement
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %d: %w", in.ProductID, domain.ErrNotFound)
		}

		newStock, err := applyMovement(product.Stock, in.Type, in.Quantity)
		if err != nil {
			return err
		}
		if err := productRepo.UpdateStock(ctx, product.ID, newStock); err != nil {
			return err
		}

		mov := &entity.Movement{
			ProductID:   product.ID,
			ProductName: product.Name,
			Type:        in.Type,
			Quantity:    in.Quantity,
			CreatedAt:   uc.now(),
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID obtiene el detalle de un movimiento. Requiere staff.
func (uc *MovementUseCase) GetByID(ctx context.Context, p access.Principal, id int64) (*dto.MovementResponse, error) {
	if err := access.Authorize(p, access.MovementDetail); err != nil {
		return nil, err
	}
	mov, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return toMovementResponse(mov), nil
}

// List lista todos los movimientos ordenados por id.
func (uc *MovementUseCase) List(ctx context.Context, p access.Principal) (*dto.MovementListResponse, error) {
	if err := access.Authorize(p, access.MovementList); err != nil {
		return nil, err
	}
	list, err := uc.movRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ToMovementListResponse(list), nil
}

// Delete elimina un movimiento y revierte su efecto sobre el stock en la misma transacción.
// Revertir una entrada cuyas unidades ya salieron retorna domain.ErrInsufficientStock.
func (uc *MovementUseCase) Delete(ctx context.Context, p access.Principal, id int64) error {
	if err := access.Authorize(p, access.MovementWrite); err != nil {
		return err
	}
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		mov, err := movRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if mov == nil {
			return fmt.Errorf("movimiento %d: %w", id, domain.ErrNotFound)
		}
		product, err := productRepo.GetForUpdate(ctx, mov.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %d: %w", mov.ProductID, domain.ErrNotFound)
		}
		newStock, err := reverseMovement(product.Stock, mov.Type, mov.Quantity)
		if err != nil {
			return err
		}
		if err := productRepo.UpdateStock(ctx, product.ID, newStock); err != nil {
			return err
		}
		return movRepo.Delete(ctx, mov.ID)
	})
	if err != nil {
		return err
	}
	metrics.MovementsDeleted.Inc()
	return nil
}

func validateMovement(in dto.RecordMovementRequest) error {
	if in.ProductID <= 0 {
		return fmt.Errorf("product_id requerido: %w", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("quantity debe ser mayor que cero: %w", domain.ErrInvalidInput)
	}
	if !entity.IsValidMovementType(in.Type) {
		return fmt.Errorf("tipo %q: %w", in.Type, domain.ErrInvalidInput)
	}
	if in.Type == entity.MovementTypeAdjustment {
		return fmt.Errorf("tipo %q: %w", in.Type, domain.ErrUnsupportedMovementType)
	}
	return nil
}

// applyMovement calcula el stock resultante. El ajuste no tiene aritmética definida y se rechaza.
func applyMovement(stock int64, movType string, quantity int64) (int64, error) {
	switch movType {
	case entity.MovementTypeEntry:
		return addStock(stock, quantity)
	case entity.MovementTypeExit:
		if quantity > stock {
			return stock, fmt.Errorf("disponible %d, solicitado %d: %w", stock, quantity, domain.ErrInsufficientStock)
		}
		return stock - quantity, nil
	case entity.MovementTypeAdjustment:
		return stock, domain.ErrUnsupportedMovementType
	}
	return stock, domain.ErrInvalidInput
}

// reverseMovement deshace el efecto de un movimiento ya aplicado.
func reverseMovement(stock int64, movType string, quantity int64) (int64, error) {
	switch movType {
	case entity.MovementTypeEntry:
		return applyMovement(stock, entity.MovementTypeExit, quantity)
	case entity.MovementTypeExit:
		return addStock(stock, quantity)
	}
	// Un ajuste nunca llegó a modificar el stock.
	return stock, nil
}

// addStock suma sin desbordar int64; el exceso es un dato inválido, no falta de stock.
func addStock(stock, quantity int64) (int64, error) {
	if quantity > math.MaxInt64-stock {
		return stock, fmt.Errorf("stock %d + %d excede el máximo: %w", stock, quantity, domain.ErrInvalidInput)
	}
	return stock + quantity, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrUnsupportedMovementType):
		return "unsupported_type"
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Type:        m.Type,
		Quantity:    m.Quantity,
		Date:        m.CreatedAt,
	}
}

// ToMovementListResponse convierte una lista de entidades al DTO de salida.
func ToMovementListResponse(list []*entity.Movement) *dto.MovementListResponse {
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Total: len(items)}
}
