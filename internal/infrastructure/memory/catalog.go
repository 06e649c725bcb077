package memory

import (
	"context"

	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
)

// catalog catálogo en memoria; se carga con los métodos Add* antes de usar el Store.
type catalog struct {
	skus          map[int64]entity.SKU
	deposits      map[int64]entity.Deposit
	movementTypes map[int64]entity.MovementType
	lines         map[int64]entity.ProductionLine
	recipes       map[int64]entity.Recipe // por producto
}

func newCatalog() *catalog {
	return &catalog{
		skus:          make(map[int64]entity.SKU),
		deposits:      make(map[int64]entity.Deposit),
		movementTypes: make(map[int64]entity.MovementType),
		lines:         make(map[int64]entity.ProductionLine),
		recipes:       make(map[int64]entity.Recipe),
	}
}

// AddSKU registra un SKU en el catálogo.
func (s *Store) AddSKU(sku entity.SKU) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog.skus[sku.ID] = sku
}

// AddDeposit registra un depósito.
func (s *Store) AddDeposit(d entity.Deposit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog.deposits[d.ID] = d
}

// AddMovementType registra un tipo de movimiento.
func (s *Store) AddMovementType(mt entity.MovementType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog.movementTypes[mt.ID] = mt
}

// AddProductionLine registra una línea de producción.
func (s *Store) AddProductionLine(line entity.ProductionLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog.lines[line.ID] = line
}

// AddRecipe registra la receta activa de un producto (reemplaza la anterior).
func (s *Store) AddRecipe(r entity.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog.recipes[r.ProductID] = r
}

// SeedMovementTypes registra los siete tipos sembrados con IDs 1..7.
func (s *Store) SeedMovementTypes() map[string]int64 {
	codes := []string{
		entity.MovementCodeProduction,
		entity.MovementCodeConsumption,
		entity.MovementCodeAdjustment,
		entity.MovementCodeTransfer,
		entity.MovementCodeRemito,
		entity.MovementCodeMerma,
		entity.MovementCodePurchase,
	}
	ids := make(map[string]int64, len(codes))
	for i, code := range codes {
		id := int64(i + 1)
		s.AddMovementType(entity.MovementType{ID: id, Code: code, Label: code, IsActive: true})
		ids[code] = id
	}
	return ids
}

func (c *catalog) GetSKU(_ context.Context, id int64) (*entity.SKU, error) {
	sku, ok := c.skus[id]
	if !ok {
		return nil, nil
	}
	return &sku, nil
}

func (c *catalog) GetSKUByCode(_ context.Context, code string) (*entity.SKU, error) {
	for _, sku := range c.skus {
		if sku.Code == code {
			out := sku
			return &out, nil
		}
	}
	return nil, nil
}

func (c *catalog) GetDeposit(_ context.Context, id int64) (*entity.Deposit, error) {
	d, ok := c.deposits[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (c *catalog) GetMovementType(_ context.Context, id int64) (*entity.MovementType, error) {
	mt, ok := c.movementTypes[id]
	if !ok {
		return nil, nil
	}
	return &mt, nil
}

func (c *catalog) GetMovementTypeByCode(_ context.Context, code string) (*entity.MovementType, error) {
	for _, mt := range c.movementTypes {
		if mt.Code == code {
			out := mt
			return &out, nil
		}
	}
	return nil, nil
}

func (c *catalog) GetProductionLine(_ context.Context, id int64) (*entity.ProductionLine, error) {
	line, ok := c.lines[id]
	if !ok {
		return nil, nil
	}
	return &line, nil
}

func (c *catalog) GetActiveRecipe(_ context.Context, productID int64) (*entity.Recipe, error) {
	r, ok := c.recipes[productID]
	if !ok || !r.IsActive {
		return nil, nil
	}
	items := make([]entity.RecipeItem, len(r.Items))
	copy(items, r.Items)
	r.Items = items
	return &r, nil
}
