package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
)

// MovementFilter selección de movimientos de un par SKU/depósito. Fechas inclusivas;
// Limit 0 significa sin límite.
type MovementFilter struct {
	SKUID     int64
	DepositID int64
	From, To  *time.Time
	Limit     int
	Offset    int
}

// StockMovementRepository puerto append-only del ledger: solo Create, sin Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error

	// ListBySKUAndDeposit devuelve la página pedida en orden de inserción.
	ListBySKUAndDeposit(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	// CountBySKUAndDeposit cuenta los movimientos del rango ignorando Limit y Offset.
	CountBySKUAndDeposit(ctx context.Context, filter MovementFilter) (int, error)

	// SumBySKUAndDeposit suma los deltas del par; debe coincidir con StockLevel.Quantity.
	SumBySKUAndDeposit(ctx context.Context, skuID, depositID int64) (decimal.Decimal, error)
}
