package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
	"github.com/uyfcastell/FNC-dev/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación append-only del ledger sobre PostgreSQL.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento y asigna su ID.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (transaction_id, sku_id, deposit_id, movement_type_id, quantity,
			reference, reference_type, reference_id, reference_item_id, lot_code, production_lot_id,
			production_line_id, movement_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.TransactionID, m.SKUID, m.DepositID, m.MovementTypeID, m.Quantity,
		nullString(m.Reference), nullString(m.ReferenceType), nullString(m.ReferenceID), nullString(m.ReferenceItemID),
		nullString(m.LotCode), m.ProductionLotID, m.ProductionLineID, m.MovementDate,
		nullString(m.CreatedBy), m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// movementWhere arma el WHERE del par y el rango de fechas; devuelve la próxima posición libre.
func movementWhere(f repository.MovementFilter) (string, []any, int) {
	where := " WHERE m.sku_id = $1 AND m.deposit_id = $2"
	args := []any{f.SKUID, f.DepositID}
	pos := 3
	if f.From != nil {
		where += fmt.Sprintf(" AND m.movement_date >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND m.movement_date <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	return where, args, pos
}

// ListBySKUAndDeposit lista una página de movimientos del par, en orden de inserción.
func (r *StockMovementRepo) ListBySKUAndDeposit(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	where, args, pos := movementWhere(f)
	query := `
		SELECT m.id, m.transaction_id, m.sku_id, m.deposit_id, m.movement_type_id, t.code, m.quantity,
			COALESCE(m.reference, ''), COALESCE(m.reference_type, ''), COALESCE(m.reference_id, ''),
			COALESCE(m.reference_item_id, ''), COALESCE(m.lot_code, ''), m.production_lot_id,
			m.production_line_id, m.movement_date, COALESCE(m.created_by, ''), m.created_at
		FROM stock_movements m
		JOIN stock_movement_types t ON t.id = m.movement_type_id` + where + " ORDER BY m.id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, f.Limit)
		pos++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.TransactionID, &m.SKUID, &m.DepositID, &m.MovementTypeID, &m.MovementTypeCode, &m.Quantity,
			&m.Reference, &m.ReferenceType, &m.ReferenceID,
			&m.ReferenceItemID, &m.LotCode, &m.ProductionLotID,
			&m.ProductionLineID, &m.MovementDate, &m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CountBySKUAndDeposit cuenta los movimientos del par en el rango.
func (r *StockMovementRepo) CountBySKUAndDeposit(ctx context.Context, f repository.MovementFilter) (int, error) {
	where, args, _ := movementWhere(f)
	var n int
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM stock_movements m"+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock movements: %w", err)
	}
	return n, nil
}

// SumBySKUAndDeposit suma los deltas del par.
func (r *StockMovementRepo) SumBySKUAndDeposit(ctx context.Context, skuID, depositID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM stock_movements WHERE sku_id = $1 AND deposit_id = $2`,
		skuID, depositID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum stock movements: %w", err)
	}
	return sum, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
