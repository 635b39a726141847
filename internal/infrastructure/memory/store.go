// Package memory implementa los puertos de persistencia en memoria. Sirve para desarrollo local
// (STORAGE_DRIVER=memory) y como doble de pruebas de los casos de uso y handlers.
package memory

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
	"github.com/jhoicas/inventory-manager/pkg/metrics"
	"golang.org/x/text/cases"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store guarda todo el estado tras un único mutex. Una transacción (Run) retiene el mutex
// de principio a fin, por lo que las transacciones quedan serializadas entre sí.
type Store struct {
	mu sync.RWMutex
	st *state
}

type state struct {
	nextCategoryID int64
	nextProductID  int64
	nextMovementID int64

	categories map[int64]entity.Category
	products   map[int64]entity.Product
	movements  map[int64]entity.Movement
	users      map[string]entity.User
}

// New crea un Store vacío.
func New() *Store {
	return &Store{st: &state{
		categories: make(map[int64]entity.Category),
		products:   make(map[int64]entity.Product),
		movements:  make(map[int64]entity.Movement),
		users:      make(map[string]entity.User),
	}}
}

func (st *state) clone() *state {
	return &state{
		nextCategoryID: st.nextCategoryID,
		nextProductID:  st.nextProductID,
		nextMovementID: st.nextMovementID,
		categories:     maps.Clone(st.categories),
		products:       maps.Clone(st.products),
		movements:      maps.Clone(st.movements),
		users:          maps.Clone(st.users),
	}
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Run ejecuta fn con repos atados a una copia del estado. Si fn falla se restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) (err error) {
	defer metrics.ObserveTx("memory", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err = ctx.Err(); err != nil {
		return err
	}

	snapshot := s.st.clone()
	err = fn(&MovementRepo{s: s, inTx: true}, &ProductRepo{s: s, inTx: true})
	if err != nil {
		s.st = snapshot
	}
	return err
}

// read ejecuta fn con el estado en lectura. Dentro de una tx el mutex ya está tomado.
func (s *Store) read(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn(s.st)
}

func (s *Store) write(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

// containsFold compara subcadenas sin distinguir mayúsculas (case folding Unicode).
func containsFold(s, substr string) bool {
	caser := cases.Fold()
	return strings.Contains(caser.String(s), caser.String(substr))
}
