package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/uyfcastell/FNC-dev/internal/domain"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
	"golang.org/x/text/cases"
)

// ToBaseQuantity convierte (cantidad, unidad) a la unidad base del SKU (servicio de dominio puro).
// Solo los semielaborados convierten: kg o vacío queda igual; la unidad secundaria se divide
// por UnitsPerKg; cualquier otra unidad es ErrUnsupportedUnit.
func ToBaseQuantity(sku *entity.SKU, quantity decimal.Decimal, inputUnit string) (decimal.Decimal, error) {
	if sku == nil || !sku.Type.IsSemiFinished() {
		return quantity, nil
	}
	unit := normalizeUnit(inputUnit)
	if unit == "" || unit == entity.UnitKg {
		return quantity, nil
	}
	rule := sku.Conversion
	secondary := entity.UnitUnit
	if rule != nil && rule.SecondaryUnit != "" {
		secondary = normalizeUnit(rule.SecondaryUnit)
	}
	if unit != secondary {
		return decimal.Zero, fmt.Errorf("%w: %q en %s", domain.ErrUnsupportedUnit, inputUnit, sku.Code)
	}
	if rule == nil || !rule.UnitsPerKg.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s sin regla de conversión válida", domain.ErrUnsupportedUnit, sku.Code)
	}
	return quantity.Div(rule.UnitsPerKg), nil
}

func normalizeUnit(u string) string {
	return cases.Fold().String(strings.TrimSpace(u))
}
