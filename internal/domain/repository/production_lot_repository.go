package repository

import (
	"context"

	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
)

// ProductionLotRepository puerto de persistencia de lotes de producción.
// Las lecturas *ForUpdate bloquean la fila hasta el fin de la transacción.
type ProductionLotRepository interface {
	GetForUpdate(ctx context.Context, id int64) (*entity.ProductionLot, error)
	GetByCodeForUpdate(ctx context.Context, code string) (*entity.ProductionLot, error)

	// ListCodesWithPrefix devuelve los códigos que empiezan con prefix (para la secuencia).
	ListCodesWithPrefix(ctx context.Context, prefix string) ([]string, error)

	// ListAvailableForUpdate devuelve los lotes no bloqueados del SKU en el depósito,
	// ordenados por produced_at ascendente y luego id (FIFO).
	ListAvailableForUpdate(ctx context.Context, skuID, depositID int64) ([]*entity.ProductionLot, error)
	// ListAvailable igual que ListAvailableForUpdate pero sin bloqueo (consultas).
	ListAvailable(ctx context.Context, skuID, depositID int64) ([]*entity.ProductionLot, error)

	// Create asigna ID; devuelve domain.ErrDuplicateLotCode si el código ya existe.
	Create(ctx context.Context, lot *entity.ProductionLot) error
	UpdateQuantities(ctx context.Context, lot *entity.ProductionLot) error
}
