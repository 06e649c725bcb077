package repository

import (
	"context"

	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
)

// StockLevelRepository puerto del saldo por SKU+depósito. Usado dentro de transacciones.
type StockLevelRepository interface {
	// GetForUpdate devuelve el saldo y bloquea la fila; si no existe la crea en cero.
	GetForUpdate(ctx context.Context, skuID, depositID int64) (*entity.StockLevel, error)
	Get(ctx context.Context, skuID, depositID int64) (*entity.StockLevel, error)
	Save(ctx context.Context, level *entity.StockLevel) error
}
