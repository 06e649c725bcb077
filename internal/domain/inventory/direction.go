package inventory

import (
	"fmt"

	"github.com/uyfcastell/FNC-dev/internal/domain"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
)

// defaultDirections sentido de los tipos sembrados. Un tipo nuevo declara su dirección
// en el catálogo (stock_movement_types.direction) y no necesita entrada aquí.
var defaultDirections = map[string]entity.Direction{
	entity.MovementCodeConsumption: entity.DirectionOut,
	entity.MovementCodeMerma:       entity.DirectionOut,
	entity.MovementCodeRemito:      entity.DirectionOut,
	entity.MovementCodeProduction:  entity.DirectionIn,
	entity.MovementCodePurchase:    entity.DirectionIn,
	entity.MovementCodeAdjustment:  entity.DirectionIn,
	entity.MovementCodeTransfer:    entity.DirectionIn,
}

// ResolveDirection elige el sentido: override explícito, luego el catálogo, luego la tabla por defecto.
func ResolveDirection(mt *entity.MovementType, override entity.Direction) (entity.Direction, error) {
	if override != "" {
		if !override.Valid() {
			return "", fmt.Errorf("%w: dirección %q", domain.ErrInvalidInput, override)
		}
		return override, nil
	}
	if mt.Direction.Valid() {
		return mt.Direction, nil
	}
	if d, ok := defaultDirections[mt.Code]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedMovementType, mt.Code)
}
