package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appinv "github.com/uyfcastell/FNC-dev/internal/application/inventory"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
	"github.com/uyfcastell/FNC-dev/internal/infrastructure/memory"
)

const (
	skuPT        int64 = 10 // CUC-PT-24, producto terminado con receta
	skuGranel    int64 = 11 // CUC-GRANEL, semielaborado 1 unidad = 1 kg
	skuHarina    int64 = 12 // MP-HARINA, materia prima en kg
	skuMedialuna int64 = 13 // MED-GRANEL, semielaborado 12 unidades por kg
	skuInactivo  int64 = 14 // tipo de SKU inactivo

	depPlanta int64 = 1 // controla lotes
	depLocal  int64 = 2 // no controla lotes

	lineaUno      int64 = 1
	lineaInactiva int64 = 2
)

var (
	hoy = time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)
	d30 = time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)
	d31 = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store  *memory.Store
	ledger *appinv.Ledger
	types  map[string]int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()

	pt := entity.SKUType{ID: 1, Code: entity.SKUTypeFinished, Label: "Producto terminado", IsActive: true}
	semi := entity.SKUType{ID: 2, Code: entity.SKUTypeSemiFinished, Label: "Semielaborado", IsActive: true}
	mp := entity.SKUType{ID: 3, Code: entity.SKUTypeRawMaterial, Label: "Materia prima", IsActive: true}
	con := entity.SKUType{ID: 4, Code: entity.SKUTypeConsumable, Label: "Consumible", IsActive: false}

	store.AddSKU(entity.SKU{ID: skuPT, Code: "CUC-PT-24", Name: "Cucas x24", Type: pt, Unit: entity.UnitUnit, IsActive: true})
	store.AddSKU(entity.SKU{ID: skuGranel, Code: "CUC-GRANEL", Name: "Cucas granel", Type: semi, Unit: entity.UnitKg, IsActive: true,
		Conversion: &entity.ConversionRule{SKUID: skuGranel, UnitsPerKg: decimal.NewFromInt(1), SecondaryUnit: entity.UnitUnit}})
	store.AddSKU(entity.SKU{ID: skuHarina, Code: "MP-HARINA", Name: "Harina 000", Type: mp, Unit: entity.UnitKg, IsActive: true})
	store.AddSKU(entity.SKU{ID: skuMedialuna, Code: "MED-GRANEL", Name: "Medialunas granel", Type: semi, Unit: entity.UnitKg, IsActive: true,
		Conversion: &entity.ConversionRule{SKUID: skuMedialuna, UnitsPerKg: decimal.NewFromInt(12), SecondaryUnit: entity.UnitUnit}})
	store.AddSKU(entity.SKU{ID: skuInactivo, Code: "CON-BOLSA", Name: "Bolsas", Type: con, Unit: entity.UnitPack, IsActive: true})

	store.AddDeposit(entity.Deposit{ID: depPlanta, Name: "Planta", ControlsLot: true})
	store.AddDeposit(entity.Deposit{ID: depLocal, Name: "Local Centro", IsStore: true})

	store.AddProductionLine(entity.ProductionLine{ID: lineaUno, Name: "Línea 1", IsActive: true})
	store.AddProductionLine(entity.ProductionLine{ID: lineaInactiva, Name: "Línea 2", IsActive: false})

	store.AddRecipe(entity.Recipe{ID: 1, ProductID: skuPT, Name: "Cucas x24", IsActive: true, Items: []entity.RecipeItem{
		{ComponentID: skuGranel, Quantity: decimal.NewFromInt(24)},
		{ComponentID: skuHarina, Quantity: dec("0.5")},
	}})

	types := store.SeedMovementTypes()
	ledger := appinv.NewLedger(store, nil, appinv.WithClock(func() time.Time { return hoy }))
	return &fixture{store: store, ledger: ledger, types: types}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "se esperaba %s, se obtuvo %s %v", want, got, msgAndArgs)
}

// produce postea una PRODUCTION en línea 1 y falla el test si hay error.
func (f *fixture) produce(t *testing.T, skuID, depositID int64, qty string, date *time.Time) *appinv.MovementResult {
	t.Helper()
	res, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:            skuID,
		DepositID:        depositID,
		MovementTypeID:   f.types[entity.MovementCodeProduction],
		Quantity:         dec(qty),
		ProductionLineID: ptr(lineaUno),
		MovementDate:     date,
		CreatedBy:        "operario-1",
	}, false)
	require.NoError(t, err)
	return res
}

// purchase postea una PURCHASE sin lote.
func (f *fixture) purchase(t *testing.T, skuID, depositID int64, qty string) *appinv.MovementResult {
	t.Helper()
	res, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:          skuID,
		DepositID:      depositID,
		MovementTypeID: f.types[entity.MovementCodePurchase],
		Quantity:       dec(qty),
	}, false)
	require.NoError(t, err)
	return res
}

// assertBalanceInvariant verifica saldo == suma de deltas del ledger para el par.
func (f *fixture) assertBalanceInvariant(t *testing.T, skuID, depositID int64) {
	t.Helper()
	var sum decimal.Decimal
	err := f.store.Run(context.Background(), func(ctx context.Context, repos appinv.Repos) error {
		var err error
		sum, err = repos.Movements.SumBySKUAndDeposit(ctx, skuID, depositID)
		return err
	})
	require.NoError(t, err)
	assertDec(t, sum.String(), f.store.Level(skuID, depositID), "sku", skuID, "depósito", depositID)
}

// assertLotInvariant verifica remanente == suma de los deltas posteados contra el lote
// (la producción suma lo producido; consumos y ajustes lo corrigen).
func (f *fixture) assertLotInvariant(t *testing.T, lotID int64) {
	t.Helper()
	lot, ok := f.store.Lot(lotID)
	require.True(t, ok)
	sum := decimal.Zero
	for _, m := range f.store.Movements() {
		if m.ProductionLotID != nil && *m.ProductionLotID == lotID {
			sum = sum.Add(m.Quantity)
		}
	}
	assertDec(t, sum.String(), lot.RemainingQuantity, "lote", lot.LotCode)
}
