package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementSelect = `
	SELECT m.id, m.product_id, p.name, m.type, m.quantity, m.created_at
	FROM movements m
	JOIN products p ON p.id = m.product_id`

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el repositorio. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta un movimiento y asigna su ID.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO movements (product_id, type, quantity, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		m.ProductID, m.Type, m.Quantity, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("product_id %d: %w", m.ProductID, domain.ErrNotFound)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("movement: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, movementSelect+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List lista todos los movimientos ordenados por id.
func (r *MovementRepo) List(ctx context.Context) ([]*entity.Movement, error) {
	return r.list(ctx, movementSelect+` ORDER BY m.id`)
}

// Search aplica los filtros presentes en AND. Types se evalúa como pertenencia (= ANY).
func (r *MovementRepo) Search(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	var conds []string
	var args []any
	pos := 1
	if filter.ProductName != nil {
		conds = append(conds, fmt.Sprintf("p.name ILIKE $%d", pos))
		args = append(args, likeContains(*filter.ProductName))
		pos++
	}
	if len(filter.Types) > 0 {
		conds = append(conds, fmt.Sprintf("m.type = ANY($%d)", pos))
		args = append(args, filter.Types)
		pos++
	}
	if filter.Quantity != nil {
		conds = append(conds, fmt.Sprintf("m.quantity = $%d", pos))
		args = append(args, *filter.Quantity)
		pos++
	}
	if filter.DayStart != nil && filter.DayEnd != nil {
		conds = append(conds, fmt.Sprintf("m.created_at >= $%d AND m.created_at < $%d", pos, pos+1))
		args = append(args, *filter.DayStart, *filter.DayEnd)
		pos += 2
	}
	query := movementSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY m.id"
	return r.list(ctx, query, args...)
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Delete elimina el registro del movimiento. La reversión del stock la hace el caso de uso.
func (r *MovementRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	// Otra tx pudo borrarlo mientras esperábamos el lock del producto.
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	if err := row.Scan(&m.ID, &m.ProductID, &m.ProductName, &m.Type, &m.Quantity, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
