package entity

import "github.com/shopspring/decimal"

// Recipe receta activa de un producto: componentes por unidad producida.
type Recipe struct {
	ID        int64
	ProductID int64
	Name      string
	IsActive  bool
	Items     []RecipeItem
}

// RecipeItem componente de una receta (Quantity por unidad base del producto).
type RecipeItem struct {
	ComponentID int64
	Quantity    decimal.Decimal
}
