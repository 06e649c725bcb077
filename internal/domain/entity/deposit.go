package entity

import "time"

// Deposit depósito físico o lógico donde se almacena stock.
// ControlsLot=true obliga a resolver cada movimiento contra un lote de producción.
type Deposit struct {
	ID          int64
	Name        string
	Location    string
	IsStore     bool // local de venta: solo válido como destino de pedidos
	ControlsLot bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductionLine línea de producción (parte del código de lote).
type ProductionLine struct {
	ID       int64
	Name     string
	IsActive bool
}
