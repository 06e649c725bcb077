package entity

// Códigos de tipo de movimiento sembrados en stock_movement_types.
const (
	MovementCodeProduction  = "PRODUCTION"
	MovementCodeConsumption = "CONSUMPTION"
	MovementCodeAdjustment  = "ADJUSTMENT"
	MovementCodeTransfer    = "TRANSFER"
	MovementCodeRemito      = "REMITO"
	MovementCodeMerma       = "MERMA"
	MovementCodePurchase    = "PURCHASE"
)

// Direction sentido de un movimiento respecto del saldo.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Valid indica si la dirección es una de las dos conocidas.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// MovementType tipo de movimiento administrable.
// Direction vacío = se usa la tabla por defecto del dominio para el código.
type MovementType struct {
	ID        int64
	Code      string
	Label     string
	IsActive  bool
	Direction Direction
}
