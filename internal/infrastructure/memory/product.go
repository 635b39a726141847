package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s    *Store
	inTx bool
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.s.write(r.inTx, func(st *state) error {
		for _, p := range st.products {
			if p.Code == product.Code {
				return fmt.Errorf("code %q: %w", product.Code, domain.ErrDuplicate)
			}
		}
		if product.CategoryID != nil {
			if _, ok := st.categories[*product.CategoryID]; !ok {
				return fmt.Errorf("category_id: %w", domain.ErrInvalidInput)
			}
		}
		st.nextProductID++
		product.ID = st.nextProductID
		stored := *product
		stored.CategoryName = ""
		stored.CategoryID = cloneID(product.CategoryID)
		st.products[stored.ID] = stored
		product.CategoryName = st.categoryName(product.CategoryID)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.read(r.inTx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = st.projectProduct(p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.read(r.inTx, func(st *state) error {
		for _, p := range st.products {
			if p.Code == code {
				out = st.projectProduct(p)
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: dentro de Run el Store ya está bloqueado en exclusiva.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.s.write(r.inTx, func(st *state) error {
		current, ok := st.products[product.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if product.CategoryID != nil {
			if _, ok := st.categories[*product.CategoryID]; !ok {
				return fmt.Errorf("category_id: %w", domain.ErrInvalidInput)
			}
		}
		current.Name = product.Name
		current.Description = product.Description
		current.Price = product.Price
		current.CategoryID = cloneID(product.CategoryID)
		st.products[current.ID] = current
		return nil
	})
}

func (r *ProductRepo) UpdateStock(_ context.Context, id int64, stock int64) error {
	return r.s.write(r.inTx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		if stock < 0 {
			return domain.ErrInsufficientStock
		}
		p.Stock = stock
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	return r.Search(ctx, repository.ProductFilter{})
}

func (r *ProductRepo) Search(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.s.read(r.inTx, func(st *state) error {
		for _, p := range st.products {
			view := st.projectProduct(p)
			if matchProduct(view, filter) {
				out = append(out, view)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Product) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

// Delete elimina el producto junto con sus movimientos.
func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	return r.s.write(r.inTx, func(st *state) error {
		delete(st.products, id)
		for mid, m := range st.movements {
			if m.ProductID == id {
				delete(st.movements, mid)
			}
		}
		return nil
	})
}

func matchProduct(p *entity.Product, f repository.ProductFilter) bool {
	if f.Name != nil && !containsFold(p.Name, *f.Name) {
		return false
	}
	if f.CategoryName != nil && (!p.HasCategory() || !containsFold(p.CategoryName, *f.CategoryName)) {
		return false
	}
	if f.PriceMin != nil && p.Price.LessThan(*f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && p.Price.GreaterThan(*f.PriceMax) {
		return false
	}
	return true
}

func (st *state) projectProduct(p entity.Product) *entity.Product {
	p.CategoryID = cloneID(p.CategoryID)
	p.CategoryName = st.categoryName(p.CategoryID)
	return &p
}

func (st *state) categoryName(id *int64) string {
	if id == nil {
		return ""
	}
	return st.categories[*id].Name
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
