package repository

import (
	"context"

	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
)

// CatalogRepository puerto de lectura del catálogo (SKUs, depósitos, tipos, líneas, recetas).
// El ledger no escribe en el catálogo. Las búsquedas sin resultado devuelven (nil, nil).
type CatalogRepository interface {
	GetSKU(ctx context.Context, id int64) (*entity.SKU, error)
	GetSKUByCode(ctx context.Context, code string) (*entity.SKU, error)
	GetDeposit(ctx context.Context, id int64) (*entity.Deposit, error)
	GetMovementType(ctx context.Context, id int64) (*entity.MovementType, error)
	GetMovementTypeByCode(ctx context.Context, code string) (*entity.MovementType, error)
	GetProductionLine(ctx context.Context, id int64) (*entity.ProductionLine, error)

	// GetActiveRecipe devuelve la receta activa del producto con sus ítems, o nil si no tiene.
	GetActiveRecipe(ctx context.Context, productID int64) (*entity.Recipe, error)
}
