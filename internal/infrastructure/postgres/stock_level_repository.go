package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
	"github.com/uyfcastell/FNC-dev/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación de StockLevelRepository sobre PostgreSQL (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

const stockLevelColumns = `id, sku_id, deposit_id, quantity, updated_at`

// GetForUpdate asegura la fila del par (en cero si no existe) y la bloquea (SELECT FOR UPDATE).
// El INSERT ... ON CONFLICT DO NOTHING evita que dos transacciones creen la misma fila.
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, skuID, depositID int64) (*entity.StockLevel, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_levels (sku_id, deposit_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (sku_id, deposit_id) DO NOTHING`, skuID, depositID)
	if err != nil {
		return nil, fmt.Errorf("ensure stock level: %w", err)
	}
	query := `SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE sku_id = $1 AND deposit_id = $2
		FOR UPDATE`
	var l entity.StockLevel
	err = r.q.QueryRow(ctx, query, skuID, depositID).Scan(
		&l.ID, &l.SKUID, &l.DepositID, &l.Quantity, &l.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock level for update: %w", err)
	}
	return &l, nil
}

// Get obtiene el saldo sin bloquear; nil si la fila no existe.
func (r *StockLevelRepo) Get(ctx context.Context, skuID, depositID int64) (*entity.StockLevel, error) {
	query := `SELECT ` + stockLevelColumns + `
		FROM stock_levels WHERE sku_id = $1 AND deposit_id = $2`
	var l entity.StockLevel
	err := r.q.QueryRow(ctx, query, skuID, depositID).Scan(
		&l.ID, &l.SKUID, &l.DepositID, &l.Quantity, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return &l, nil
}

// Save actualiza la cantidad del saldo.
func (r *StockLevelRepo) Save(ctx context.Context, level *entity.StockLevel) error {
	_, err := r.q.Exec(ctx, `
		UPDATE stock_levels SET quantity = $3, updated_at = $4
		WHERE sku_id = $1 AND deposit_id = $2`,
		level.SKUID, level.DepositID, level.Quantity, level.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save stock level: %w", err)
	}
	return nil
}
