package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel saldo actual de un SKU en un depósito (una fila por par, creada al primer movimiento).
type StockLevel struct {
	ID        int64
	SKUID     int64
	DepositID int64
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
