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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria de MovementRepository.
type MovementRepo struct {
	s    *Store
	inTx bool
}

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.s.write(r.inTx, func(st *state) error {
		p, ok := st.products[m.ProductID]
		if !ok {
			return fmt.Errorf("product_id %d: %w", m.ProductID, domain.ErrNotFound)
		}
		st.nextMovementID++
		m.ID = st.nextMovementID
		m.ProductName = p.Name
		stored := *m
		stored.ProductName = ""
		st.movements[m.ID] = stored
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.s.read(r.inTx, func(st *state) error {
		if m, ok := st.movements[id]; ok {
			out = st.projectMovement(m)
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) List(ctx context.Context) ([]*entity.Movement, error) {
	return r.Search(ctx, repository.MovementFilter{})
}

func (r *MovementRepo) Search(_ context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.s.read(r.inTx, func(st *state) error {
		for _, m := range st.movements {
			view := st.projectMovement(m)
			if matchMovement(view, filter) {
				out = append(out, view)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Movement) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

func (r *MovementRepo) Delete(_ context.Context, id int64) error {
	return r.s.write(r.inTx, func(st *state) error {
		if _, ok := st.movements[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.movements, id)
		return nil
	})
}

func matchMovement(m *entity.Movement, f repository.MovementFilter) bool {
	if f.ProductName != nil && !containsFold(m.ProductName, *f.ProductName) {
		return false
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, m.Type) {
		return false
	}
	if f.Quantity != nil && m.Quantity != *f.Quantity {
		return false
	}
	if f.DayStart != nil && m.CreatedAt.Before(*f.DayStart) {
		return false
	}
	if f.DayEnd != nil && !m.CreatedAt.Before(*f.DayEnd) {
		return false
	}
	return true
}

func (st *state) projectMovement(m entity.Movement) *entity.Movement {
	m.ProductName = st.products[m.ProductID].Name
	return &m
}
