package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/access"
	"github.com/jhoicas/inventory-manager/internal/domain/catalog"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

const (
	nameMaxLength = 100
	// maxCodeAttempts intentos de generación antes de rendirse con ErrCodeExhausted.
	maxCodeAttempts = 8
)

// ProductUseCase casos de uso CRUD para productos. Stock solo se fija al crear; después cambia vía movimientos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	newCode      func() string
	now          func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		newCode:      catalog.NewCode,
		now:          time.Now,
	}
}

// WithCodeGenerator reemplaza el generador de códigos (útil en tests).
func (uc *ProductUseCase) WithCodeGenerator(gen func() string) *ProductUseCase {
	uc.newCode = gen
	return uc
}

// Create crea un producto. Si in.Code viene vacío genera uno verificando unicidad;
// si viene informado se respeta tal cual y retorna domain.ErrDuplicate si ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, p access.Principal, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := access.Authorize(p, access.ProductWrite); err != nil {
		return nil, err
	}
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(in.Code) > catalog.CodeMaxLength {
		return nil, fmt.Errorf("code supera %d caracteres: %w", catalog.CodeMaxLength, domain.ErrInvalidInput)
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("stock negativo: %w", domain.ErrInvalidInput)
	}
	if !catalog.ValidPrice(in.Price) {
		return nil, fmt.Errorf("price %s: %w", in.Price.String(), domain.ErrInvalidInput)
	}
	category, err := uc.loadCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:        in.Name,
		Description: in.Description,
		Code:        in.Code,
		Stock:       in.Stock,
		Price:       in.Price,
		CreatedAt:   uc.now(),
	}
	if category != nil {
		product.CategoryID = &category.ID
		product.CategoryName = category.Name
	}

	if product.Code != "" {
		existing, err := uc.repo.GetByCode(ctx, product.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("code %q: %w", product.Code, domain.ErrDuplicate)
		}
		if err := uc.repo.Create(ctx, product); err != nil {
			return nil, err
		}
		return ToProductResponse(product), nil
	}

	if err := uc.createWithGeneratedCode(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// createWithGeneratedCode genera códigos hasta encontrar uno libre. Un choque en el INSERT
// (otro request tomó el mismo código entre la verificación y la escritura) también reintenta.
func (uc *ProductUseCase) createWithGeneratedCode(ctx context.Context, product *entity.Product) error {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := uc.newCode()
		existing, err := uc.repo.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		product.Code = code
		err = uc.repo.Create(ctx, product)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return err
		}
	}
	product.Code = ""
	return domain.ErrCodeExhausted
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, p access.Principal, id int64) (*dto.ProductResponse, error) {
	if err := access.Authorize(p, access.ProductRead); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(product), nil
}

// List lista todos los productos ordenados por id.
func (uc *ProductUseCase) List(ctx context.Context, p access.Principal) (*dto.ProductListResponse, error) {
	if err := access.Authorize(p, access.ProductRead); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ToProductListResponse(list), nil
}

// Update actualiza nombre, descripción, precio y categoría. Code y Stock no se modifican aquí.
func (uc *ProductUseCase) Update(ctx context.Context, p access.Principal, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := access.Authorize(p, access.ProductWrite); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if err := validateName(*in.Name); err != nil {
			return nil, err
		}
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if !catalog.ValidPrice(*in.Price) {
			return nil, fmt.Errorf("price %s: %w", in.Price.String(), domain.ErrInvalidInput)
		}
		product.Price = *in.Price
	}
	switch {
	case in.ClearCategory:
		product.CategoryID = nil
		product.CategoryName = ""
	case in.CategoryID != nil:
		category, err := uc.loadCategory(ctx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = &category.ID
		product.CategoryName = category.Name
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Delete elimina un producto y, en cascada, sus movimientos.
func (uc *ProductUseCase) Delete(ctx context.Context, p access.Principal, id int64) error {
	if err := access.Authorize(p, access.ProductWrite); err != nil {
		return err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// loadCategory retorna nil si id es nil; ErrInvalidInput si la categoría referida no existe.
func (uc *ProductUseCase) loadCategory(ctx context.Context, id *int64) (*entity.Category, error) {
	if id == nil {
		return nil, nil
	}
	category, err := uc.categoryRepo.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("category_id %d no existe: %w", *id, domain.ErrInvalidInput)
	}
	return category, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name requerido: %w", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > nameMaxLength {
		return fmt.Errorf("name supera %d caracteres: %w", nameMaxLength, domain.ErrInvalidInput)
	}
	return nil
}

// ToProductResponse convierte la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Code:        p.Code,
		Stock:       p.Stock,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		name := p.CategoryName
		out.CategoryID = &id
		out.CategoryName = &name
	}
	return out
}

// ToProductListResponse convierte una lista de entidades al DTO de salida.
func ToProductListResponse(list []*entity.Product) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}
}
