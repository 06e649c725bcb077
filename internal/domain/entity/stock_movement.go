package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement asiento inmutable del ledger. Nunca se modifica ni se borra:
// las correcciones son nuevos movimientos compensatorios.
type StockMovement struct {
	ID               int64
	TransactionID    string // agrupa los movimientos de una misma operación (producción + consumos)
	SKUID            int64
	DepositID        int64
	MovementTypeID   int64
	MovementTypeCode string
	Quantity         decimal.Decimal // delta con signo: negativo = salida
	Reference        string
	ReferenceType    string
	ReferenceID      string
	ReferenceItemID  string
	LotCode          string
	ProductionLotID  *int64
	ProductionLineID *int64
	MovementDate     time.Time
	CreatedBy        string
	CreatedAt        time.Time
}
