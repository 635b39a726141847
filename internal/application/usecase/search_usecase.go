package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/access"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

// DateLayout formato de fecha aceptado en la búsqueda de movimientos.
const DateLayout = "2006-01-02"

// SearchUseCase búsqueda avanzada de productos y movimientos. Todos los filtros son conjuntivos;
// un filtro ausente (nil o vacío) no restringe.
type SearchUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	loc         *time.Location
}

// NewSearchUseCase construye el caso de uso. loc es la zona horaria en la que se interpreta
// el filtro de fecha; nil equivale a UTC.
func NewSearchUseCase(productRepo repository.ProductRepository, movRepo repository.MovementRepository, loc *time.Location) *SearchUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &SearchUseCase{productRepo: productRepo, movRepo: movRepo, loc: loc}
}

// SearchProducts filtra por nombre y nombre de categoría (subcadena, sin distinguir mayúsculas)
// y por rango de precio inclusivo. Sin filtros devuelve todos los productos.
func (uc *SearchUseCase) SearchProducts(ctx context.Context, p access.Principal, in dto.ProductSearchRequest) (*dto.ProductListResponse, error) {
	if err := access.Authorize(p, access.ProductRead); err != nil {
		return nil, err
	}
	filter := repository.ProductFilter{
		Name:         nonEmpty(in.Name),
		CategoryName: nonEmpty(in.CategoryName),
		PriceMin:     in.PriceMin,
		PriceMax:     in.PriceMax,
	}
	list, err := uc.productRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToProductListResponse(list), nil
}

// SearchMovements filtra por nombre de producto, conjunto de tipos, cantidad exacta y día calendario.
// Un tipo desconocido o una fecha mal formada retornan domain.ErrInvalidInput.
func (uc *SearchUseCase) SearchMovements(ctx context.Context, p access.Principal, in dto.MovementSearchRequest) (*dto.MovementListResponse, error) {
	if err := access.Authorize(p, access.MovementList); err != nil {
		return nil, err
	}
	filter := repository.MovementFilter{
		ProductName: nonEmpty(in.ProductName),
		Quantity:    in.Quantity,
	}

	seen := make(map[string]bool, len(in.Types))
	for _, t := range in.Types {
		if t == "" || seen[t] {
			continue
		}
		if !entity.IsValidMovementType(t) {
			return nil, fmt.Errorf("tipo %q: %w", t, domain.ErrInvalidInput)
		}
		seen[t] = true
		filter.Types = append(filter.Types, t)
	}

	if d := nonEmpty(in.Date); d != nil {
		day, err := time.ParseInLocation(DateLayout, *d, uc.loc)
		if err != nil {
			return nil, fmt.Errorf("fecha %q: %w", *d, domain.ErrInvalidInput)
		}
		next := day.AddDate(0, 0, 1)
		filter.DayStart = &day
		filter.DayEnd = &next
	}

	list, err := uc.movRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return inventory.ToMovementListResponse(list), nil
}

// FindProductByCode busca un producto por su código exacto.
func (uc *SearchUseCase) FindProductByCode(ctx context.Context, p access.Principal, code string) (*dto.ProductResponse, error) {
	if err := access.Authorize(p, access.ProductRead); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("código %q: %w", code, domain.ErrNotFound)
	}
	return ToProductResponse(product), nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
