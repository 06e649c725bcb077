package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionLot lote trazable de producción.
// ProducedQuantity es el total histórico; RemainingQuantity se ajusta con cada movimiento del lote.
type ProductionLot struct {
	ID                int64
	LotCode           string
	SKUID             int64
	DepositID         int64
	ProductionLineID  *int64
	ProducedQuantity  decimal.Decimal
	RemainingQuantity decimal.Decimal
	ProducedAt        time.Time // solo fecha
	IsBlocked         bool
	ExpiryDate        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SameLine indica si el lote pertenece a la línea dada (nil = sin línea).
func (l *ProductionLot) SameLine(lineID *int64) bool {
	if l.ProductionLineID == nil || lineID == nil {
		return l.ProductionLineID == nil && lineID == nil
	}
	return *l.ProductionLineID == *lineID
}
