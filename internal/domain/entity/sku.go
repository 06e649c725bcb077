package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Códigos de tipo de SKU sembrados en el catálogo (sku_types es administrable).
const (
	SKUTypeFinished     = "PT"   // producto terminado
	SKUTypeSemiFinished = "SEMI" // semielaborado
	SKUTypeRawMaterial  = "MP"   // materia prima
	SKUTypeConsumable   = "CON"  // consumible / material para locales
)

// Unidades de medida controladas.
const (
	UnitUnit = "unit" // unidad / pieza
	UnitKg   = "kg"
	UnitG    = "g"
	UnitL    = "l"
	UnitML   = "ml"
	UnitPack = "pack"
	UnitBox  = "box"
	UnitM    = "m"
	UnitCM   = "cm"
)

// SKUType tipo administrable de SKU.
type SKUType struct {
	ID       int64
	Code     string
	Label    string
	IsActive bool
}

// IsProduction indica si el tipo admite receta (se produce en planta).
func (t SKUType) IsProduction() bool {
	return t.Code == SKUTypeFinished || t.Code == SKUTypeSemiFinished
}

// IsSemiFinished indica si el tipo es semielaborado (base kg + unidad secundaria).
func (t SKUType) IsSemiFinished() bool {
	return t.Code == SKUTypeSemiFinished
}

// ConversionRule regla de conversión de un semielaborado: unidades secundarias por kg.
// Invariante: UnitsPerKg > 0; exactamente una por SKU semielaborado.
type ConversionRule struct {
	SKUID         int64
	UnitsPerKg    decimal.Decimal
	SecondaryUnit string // por defecto UnitUnit
}

// SKU unidad de stock (código único).
type SKU struct {
	ID             int64
	Code           string
	Name           string
	Type           SKUType
	Unit           string // unidad base; kg para semielaborados
	IsActive       bool
	AlertGreenMin  *decimal.Decimal
	AlertYellowMin *decimal.Decimal
	Conversion     *ConversionRule // solo semielaborados
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
