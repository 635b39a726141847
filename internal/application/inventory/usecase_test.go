package inventory_test

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/access"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var (
	staff  = access.User("staff-1", true)
	viewer = access.User("viewer-1", false)
)

// seedProduct crea un producto con el stock inicial indicado directamente en el store.
func seedProduct(t *testing.T, store *memory.Store, name string, stock int64) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name:  name,
		Code:  "P" + name,
		Stock: stock,
		Price: decimal.RequireFromString("9.99"),
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

func stockOf(t *testing.T, store *memory.Store, id int64) int64 {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p, "el producto debe existir")
	return p.Stock
}

func newUseCase(store *memory.Store) *inventory.MovementUseCase {
	return inventory.NewMovementUseCase(store, store.Movements())
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaYSalidaActualizanStock(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := newUseCase(store)
	widget := seedProduct(t, store, "Widget", 10)

	mov, err := uc.RecordMovement(ctx, staff, dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeExit, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, "Widget", mov.ProductName)
	assert.Equal(t, int64(7), stockOf(t, store, widget.ID))

	_, err = uc.RecordMovement(ctx, staff, dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeEntry, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(12), stockOf(t, store, widget.ID))

	list, err := uc.List(ctx, viewer)
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, entity.MovementTypeExit, list.Items[0].Type, "los movimientos se listan por id ascendente")
	assert.Equal(t, entity.MovementTypeEntry, list.Items[1].Type)
}

func TestRecordMovement_SalidaSinStockSuficiente(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := newUseCase(store)
	widget := seedProduct(t, store, "Widget", 2)

	_, err := uc.RecordMovement(ctx, staff, dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeExit, Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(2), stockOf(t, store, widget.ID), "el stock no debe cambiar")

	list, err := store.Movements().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "no debe persistirse ningún movimiento")
}

func TestRecordMovement_SalidaExactaDejaStockEnCero(t *testing.T) {
	store := memory.New()
	uc := newUseCase(store)
	widget := seedProduct(t, store, "Widget", 4)

	_, err := uc.RecordMovement(context.Background(), staff, dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeExit, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(0), stockOf(t, store, widget.ID))
}

func TestRecordMovement_AjusteNoSoportado(t *testing.T) {
	store := memory.New()
	uc := newUseCase(store)
	widget := seedProduct(t, store, "Widget", 10)

	_, err := uc.RecordMovement(context.Background(), staff, dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeAdjustment, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrUnsupportedMovementType)
	assert.Equal(t, int64(10), stockOf(t, store, widget.ID))
}

func TestRecordMovement_SinPermisoNoPersisteNada(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := newUseCase(store)
	widget := seedProduct(t, store, "Widget", 10)

	_, err := uc.RecordMovement(ctx, viewer, dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeEntry, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, err = uc.RecordMovement(ctx, access.Anonymous, dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeEntry, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	assert.Equal(t, int64(10), stockOf(t, store, widget.ID))
	list, err := store.Movements().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecordMovement_Validaciones(t *testing.T) {
	store := memory.New()
	uc := newUseCase(store)
	widget := seedProduct(t, store, "Widget", 10)

	cases := []struct {
		name string
		in   dto.RecordMovementRequest
		want error
	}{
		{"cantidad cero", dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeEntry, Quantity: 0}, domain.ErrInvalidInput},
		{"cantidad negativa", dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeExit, Quantity: -2}, domain.ErrInvalidInput},
		{"tipo desconocido", dto.RecordMovementRequest{ProductID: widget.ID, Type: "transferencia", Quantity: 1}, domain.ErrInvalidInput},
		{"sin producto", dto.RecordMovementRequest{Type: entity.MovementTypeEntry, Quantity: 1}, domain.ErrInvalidInput},
		{"producto inexistente", dto.RecordMovementRequest{ProductID: 999, Type: entity.MovementTypeEntry, Quantity: 1}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RecordMovement(context.Background(), staff, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, int64(10), stockOf(t, store, widget.ID))
}

func TestRecordMovement_SalidasConcurrentesNoDejanStockNegativo(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := newUseCase(store)
	widget := seedProduct(t, store, "Widget", 10)

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, insufficient := 0, 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RecordMovement(ctx, staff, dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeExit, Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, domain.ErrInsufficientStock):
				insufficient++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok, "exactamente el stock inicial puede salir")
	assert.Equal(t, 10, insufficient)
	assert.Equal(t, int64(0), stockOf(t, store, widget.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// GetByID / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaQueDesbordaEsInvalida(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := newUseCase(store)
	widget := seedProduct(t, store, "Widget", 1)

	_, err := uc.RecordMovement(ctx, staff, dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeEntry, Quantity: math.MaxInt64})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(1), stockOf(t, store, widget.ID))

	list, err := uc.List(ctx, viewer)
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestRecordMovement_SecuenciaAleatoriaCuadraElLibro(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := newUseCase(store)
	const initial = int64(20)
	widget := seedProduct(t, store, "Widget", initial)

	rng := rand.New(rand.NewSource(7))
	var entradas, salidas int64
	for i := 0; i < 200; i++ {
		movType := entity.MovementTypeEntry
		if rng.Intn(2) == 0 {
			movType = entity.MovementTypeExit
		}
		qty := rng.Int63n(15) + 1
		_, err := uc.RecordMovement(ctx, staff, dto.RecordMovementRequest{ProductID: widget.ID, Type: movType, Quantity: qty})
		switch {
		case err == nil && movType == entity.MovementTypeEntry:
			entradas += qty
		case err == nil:
			salidas += qty
		default:
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
		stock := stockOf(t, store, widget.ID)
		require.GreaterOrEqual(t, stock, int64(0))
		require.Equal(t, initial+entradas-salidas, stock, "paso %d", i)
	}

	// El libro también cuadra contra los movimientos persistidos.
	list, err := uc.List(ctx, viewer)
	require.NoError(t, err)
	var sum int64
	for _, m := range list.Items {
		if m.Type == entity.MovementTypeEntry {
			sum += m.Quantity
		} else {
			sum -= m.Quantity
		}
	}
	assert.Equal(t, initial+sum, stockOf(t, store, widget.ID))
}

func TestGetByID_DetalleExigeStaff(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := newUseCase(store)
	widget := seedProduct(t, store, "Widget", 10)
	mov, err := uc.RecordMovement(ctx, staff, dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeEntry, Quantity: 2})
	require.NoError(t, err)

	_, err = uc.GetByID(ctx, viewer, mov.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	got, err := uc.GetByID(ctx, staff, mov.ID)
	require.NoError(t, err)
	assert.Equal(t, mov.ID, got.ID)
	assert.Equal(t, int64(2), got.Quantity)

	_, err = uc.GetByID(ctx, staff, 12345)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_RevierteElEfectoSobreElStock(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := newUseCase(store)
	widget := seedProduct(t, store, "Widget", 10)

	exit, err := uc.RecordMovement(ctx, staff, dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeExit, Quantity: 4})
	require.NoError(t, err)
	require.Equal(t, int64(6), stockOf(t, store, widget.ID))

	require.NoError(t, uc.Delete(ctx, staff, exit.ID))
	assert.Equal(t, int64(10), stockOf(t, store, widget.ID), "borrar una salida devuelve las unidades")

	_, err = uc.GetByID(ctx, staff, exit.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_EntradaYaConsumidaFalla(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := newUseCase(store)
	widget := seedProduct(t, store, "Widget", 0)

	entry, err := uc.RecordMovement(ctx, staff, dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeEntry, Quantity: 5})
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, staff, dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeExit, Quantity: 4})
	require.NoError(t, err)

	err = uc.Delete(ctx, staff, entry.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(1), stockOf(t, store, widget.ID))

	_, err = uc.GetByID(ctx, staff, entry.ID)
	assert.NoError(t, err, "el movimiento debe seguir existiendo tras el rollback")
}

func TestDelete_SalidaQueDesbordaAlRevertirEsInvalida(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := newUseCase(store)
	widget := seedProduct(t, store, "Widget", math.MaxInt64-1)

	exit, err := uc.RecordMovement(ctx, staff, dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeExit, Quantity: 2})
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, staff, dto.RecordMovementRequest{ProductID: widget.ID, Type: entity.MovementTypeEntry, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, int64(math.MaxInt64), stockOf(t, store, widget.ID))

	err = uc.Delete(ctx, staff, exit.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(math.MaxInt64), stockOf(t, store, widget.ID))

	_, err = uc.GetByID(ctx, staff, exit.ID)
	assert.NoError(t, err, "el movimiento sigue existiendo")
}

func TestDelete_Permisos(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	uc := newUseCase(store)

	assert.ErrorIs(t, uc.Delete(ctx, viewer, 1), domain.ErrPermissionDenied)
	assert.ErrorIs(t, uc.Delete(ctx, staff, 1), domain.ErrNotFound)
}
