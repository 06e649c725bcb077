package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/uyfcastell/FNC-dev/internal/domain"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
	"github.com/uyfcastell/FNC-dev/internal/domain/repository"
)

var _ repository.ProductionLotRepository = (*ProductionLotRepo)(nil)

// ProductionLotRepo implementación de ProductionLotRepository sobre PostgreSQL.
type ProductionLotRepo struct {
	q Querier
}

// NewProductionLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewProductionLotRepository(q Querier) *ProductionLotRepo {
	return &ProductionLotRepo{q: q}
}

const lotColumns = `id, lot_code, sku_id, deposit_id, production_line_id, produced_quantity,
	remaining_quantity, produced_at, is_blocked, expiry_date, created_at, updated_at`

func scanLot(row pgx.Row) (*entity.ProductionLot, error) {
	var l entity.ProductionLot
	err := row.Scan(
		&l.ID, &l.LotCode, &l.SKUID, &l.DepositID, &l.ProductionLineID, &l.ProducedQuantity,
		&l.RemainingQuantity, &l.ProducedAt, &l.IsBlocked, &l.ExpiryDate, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ProductionLotRepo) getOne(ctx context.Context, query string, arg any) (*entity.ProductionLot, error) {
	l, err := scanLot(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production lot: %w", err)
	}
	return l, nil
}

// GetForUpdate obtiene el lote por ID y bloquea la fila.
func (r *ProductionLotRepo) GetForUpdate(ctx context.Context, id int64) (*entity.ProductionLot, error) {
	return r.getOne(ctx, `SELECT `+lotColumns+` FROM production_lots WHERE id = $1 FOR UPDATE`, id)
}

// GetByCodeForUpdate obtiene el lote por código y bloquea la fila.
func (r *ProductionLotRepo) GetByCodeForUpdate(ctx context.Context, code string) (*entity.ProductionLot, error) {
	return r.getOne(ctx, `SELECT `+lotColumns+` FROM production_lots WHERE lot_code = $1 FOR UPDATE`, code)
}

// ListCodesWithPrefix devuelve los códigos que empiezan con prefix.
func (r *ProductionLotRepo) ListCodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT lot_code FROM production_lots WHERE lot_code LIKE $1 ESCAPE '\' ORDER BY lot_code`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("list lot codes: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan lot codes: %w", err)
	}
	return codes, nil
}

// ListAvailableForUpdate lista los lotes no bloqueados en orden FIFO y los bloquea.
func (r *ProductionLotRepo) ListAvailableForUpdate(ctx context.Context, skuID, depositID int64) ([]*entity.ProductionLot, error) {
	return r.listAvailable(ctx, skuID, depositID, " FOR UPDATE")
}

// ListAvailable lista los lotes no bloqueados en orden FIFO sin bloquear.
func (r *ProductionLotRepo) ListAvailable(ctx context.Context, skuID, depositID int64) ([]*entity.ProductionLot, error) {
	return r.listAvailable(ctx, skuID, depositID, "")
}

func (r *ProductionLotRepo) listAvailable(ctx context.Context, skuID, depositID int64, lock string) ([]*entity.ProductionLot, error) {
	query := `SELECT ` + lotColumns + `
		FROM production_lots
		WHERE sku_id = $1 AND deposit_id = $2 AND NOT is_blocked
		ORDER BY produced_at, id` + lock
	rows, err := r.q.Query(ctx, query, skuID, depositID)
	if err != nil {
		return nil, fmt.Errorf("list available lots: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductionLot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production lot: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Create inserta el lote y asigna su ID. Un código repetido devuelve domain.ErrDuplicateLotCode.
func (r *ProductionLotRepo) Create(ctx context.Context, lot *entity.ProductionLot) error {
	query := `
		INSERT INTO production_lots (lot_code, sku_id, deposit_id, production_line_id, produced_quantity,
			remaining_quantity, produced_at, is_blocked, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		lot.LotCode, lot.SKUID, lot.DepositID, lot.ProductionLineID, lot.ProducedQuantity,
		lot.RemainingQuantity, lot.ProducedAt, lot.IsBlocked, lot.ExpiryDate, lot.CreatedAt, lot.UpdatedAt,
	).Scan(&lot.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateLotCode, lot.LotCode)
		}
		return fmt.Errorf("create production lot: %w", err)
	}
	return nil
}

// UpdateQuantities persiste cantidades producida y remanente del lote.
func (r *ProductionLotRepo) UpdateQuantities(ctx context.Context, lot *entity.ProductionLot) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE production_lots
		SET produced_quantity = $2, remaining_quantity = $3, updated_at = $4
		WHERE id = $1`,
		lot.ID, lot.ProducedQuantity, lot.RemainingQuantity, lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update production lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLotNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapa los comodines de LIKE (los códigos de SKU pueden contener "_").
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
