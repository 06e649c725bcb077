package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
	"github.com/uyfcastell/FNC-dev/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lectura del catálogo sobre PostgreSQL.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

const skuSelect = `
	SELECT s.id, s.code, s.name, s.unit, s.is_active, s.alert_green_min, s.alert_yellow_min,
		s.created_at, s.updated_at,
		t.id, t.code, t.label, t.is_active,
		c.units_per_kg, c.secondary_unit
	FROM skus s
	JOIN sku_types t ON t.id = s.sku_type_id
	LEFT JOIN semi_conversion_rules c ON c.sku_id = s.id`

func (r *CatalogRepo) getSKU(ctx context.Context, where string, arg any) (*entity.SKU, error) {
	var (
		s             entity.SKU
		unitsPerKg    *decimal.Decimal
		secondaryUnit *string
	)
	err := r.q.QueryRow(ctx, skuSelect+" WHERE "+where, arg).Scan(
		&s.ID, &s.Code, &s.Name, &s.Unit, &s.IsActive, &s.AlertGreenMin, &s.AlertYellowMin,
		&s.CreatedAt, &s.UpdatedAt,
		&s.Type.ID, &s.Type.Code, &s.Type.Label, &s.Type.IsActive,
		&unitsPerKg, &secondaryUnit,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sku: %w", err)
	}
	if unitsPerKg != nil {
		rule := &entity.ConversionRule{SKUID: s.ID, UnitsPerKg: *unitsPerKg, SecondaryUnit: entity.UnitUnit}
		if secondaryUnit != nil && *secondaryUnit != "" {
			rule.SecondaryUnit = *secondaryUnit
		}
		s.Conversion = rule
	}
	return &s, nil
}

// GetSKU obtiene un SKU con su tipo y regla de conversión.
func (r *CatalogRepo) GetSKU(ctx context.Context, id int64) (*entity.SKU, error) {
	return r.getSKU(ctx, "s.id = $1", id)
}

// GetSKUByCode obtiene un SKU por código.
func (r *CatalogRepo) GetSKUByCode(ctx context.Context, code string) (*entity.SKU, error) {
	return r.getSKU(ctx, "s.code = $1", code)
}

// GetDeposit obtiene un depósito por ID.
func (r *CatalogRepo) GetDeposit(ctx context.Context, id int64) (*entity.Deposit, error) {
	var d entity.Deposit
	err := r.q.QueryRow(ctx, `
		SELECT id, name, COALESCE(location, ''), is_store, controls_lot, created_at, updated_at
		FROM deposits WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Location, &d.IsStore, &d.ControlsLot, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deposit: %w", err)
	}
	return &d, nil
}

func (r *CatalogRepo) getMovementType(ctx context.Context, where string, arg any) (*entity.MovementType, error) {
	var (
		mt        entity.MovementType
		direction *string
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, code, label, is_active, direction
		FROM stock_movement_types WHERE `+where, arg,
	).Scan(&mt.ID, &mt.Code, &mt.Label, &mt.IsActive, &direction)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement type: %w", err)
	}
	if direction != nil {
		mt.Direction = entity.Direction(*direction)
	}
	return &mt, nil
}

// GetMovementType obtiene un tipo de movimiento por ID.
func (r *CatalogRepo) GetMovementType(ctx context.Context, id int64) (*entity.MovementType, error) {
	return r.getMovementType(ctx, "id = $1", id)
}

// GetMovementTypeByCode obtiene un tipo de movimiento por código.
func (r *CatalogRepo) GetMovementTypeByCode(ctx context.Context, code string) (*entity.MovementType, error) {
	return r.getMovementType(ctx, "code = $1", code)
}

// GetProductionLine obtiene una línea de producción.
func (r *CatalogRepo) GetProductionLine(ctx context.Context, id int64) (*entity.ProductionLine, error) {
	var l entity.ProductionLine
	err := r.q.QueryRow(ctx, `SELECT id, name, is_active FROM production_lines WHERE id = $1`, id).
		Scan(&l.ID, &l.Name, &l.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production line: %w", err)
	}
	return &l, nil
}

// GetActiveRecipe obtiene la receta activa del producto con sus ítems en orden de carga.
func (r *CatalogRepo) GetActiveRecipe(ctx context.Context, productID int64) (*entity.Recipe, error) {
	var rec entity.Recipe
	err := r.q.QueryRow(ctx, `
		SELECT id, product_id, name, is_active
		FROM recipes WHERE product_id = $1 AND is_active
		ORDER BY id DESC LIMIT 1`, productID,
	).Scan(&rec.ID, &rec.ProductID, &rec.Name, &rec.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active recipe: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT component_id, quantity FROM recipe_items
		WHERE recipe_id = $1 ORDER BY id`, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("list recipe items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.RecipeItem
		if err := rows.Scan(&it.ComponentID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan recipe item: %w", err)
		}
		rec.Items = append(rec.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recipe items: %w", err)
	}
	return &rec, nil
}
