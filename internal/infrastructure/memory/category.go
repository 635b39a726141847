package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación en memoria de CategoryRepository.
type CategoryRepo struct {
	s *Store
}

func (r *CategoryRepo) Create(_ context.Context, category *entity.Category) error {
	return r.s.write(false, func(st *state) error {
		st.nextCategoryID++
		category.ID = st.nextCategoryID
		st.categories[category.ID] = copyCategory(*category)
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	var out *entity.Category
	err := r.s.read(false, func(st *state) error {
		if c, ok := st.categories[id]; ok {
			c = copyCategory(c)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(_ context.Context, category *entity.Category) error {
	return r.s.write(false, func(st *state) error {
		if _, ok := st.categories[category.ID]; !ok {
			return domain.ErrNotFound
		}
		st.categories[category.ID] = copyCategory(*category)
		return nil
	})
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.s.read(false, func(st *state) error {
		for _, c := range st.categories {
			c = copyCategory(c)
			out = append(out, &c)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Category) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

// Delete elimina la categoría y deja sin categoría a sus productos.
func (r *CategoryRepo) Delete(_ context.Context, id int64) error {
	return r.s.write(false, func(st *state) error {
		delete(st.categories, id)
		for pid, p := range st.products {
			if p.CategoryID != nil && *p.CategoryID == id {
				p.CategoryID = nil
				st.products[pid] = p
			}
		}
		return nil
	})
}

func copyCategory(c entity.Category) entity.Category {
	if c.Description != nil {
		d := *c.Description
		c.Description = &d
	}
	return c
}
