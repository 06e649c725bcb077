package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appinv "github.com/uyfcastell/FNC-dev/internal/application/inventory"
	"github.com/uyfcastell/FNC-dev/internal/domain"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
)

func TestLedger_ProduccionConReceta(t *testing.T) {
	f := newFixture(t)

	granel1 := f.produce(t, skuGranel, depPlanta, "20", &d30)
	granel2 := f.produce(t, skuGranel, depPlanta, "20", &d31)
	f.purchase(t, skuHarina, depPlanta, "2")
	require.Equal(t, "241230-L1-CUC-GRANEL-001", granel1.Lot.LotCode)

	res := f.produce(t, skuPT, depPlanta, "1", nil)

	require.NotNil(t, res.Lot)
	assert.Equal(t, "250101-L1-CUC-PT-24-001", res.Lot.LotCode)
	assertDec(t, "1", res.Lot.ProducedQuantity)
	assertDec(t, "1", res.Lot.RemainingQuantity)
	assertDec(t, "1", res.Movement.Quantity)
	assert.Equal(t, dateOf(hoy), res.Movement.MovementDate)
	assert.Equal(t, "operario-1", res.Movement.CreatedBy)

	// 24 de CUC-GRANEL en FIFO (20 del lote más viejo, 4 del siguiente) y 0.5 de harina sin lote.
	require.Len(t, res.Cascaded, 3)
	wants := []struct {
		sku   int64
		qty   string
		lotID *int64
	}{
		{skuGranel, "-20", ptr(granel1.Lot.ID)},
		{skuGranel, "-4", ptr(granel2.Lot.ID)},
		{skuHarina, "-0.5", nil},
	}
	for i, w := range wants {
		m := res.Cascaded[i]
		assert.Equal(t, w.sku, m.SKUID, "consumo %d", i)
		assertDec(t, w.qty, m.Quantity, "consumo", i)
		assert.Equal(t, w.lotID, m.ProductionLotID, "consumo %d", i)
		assert.Equal(t, entity.MovementCodeConsumption, m.MovementTypeCode)
		assert.Equal(t, res.Movement.TransactionID, m.TransactionID)
		assert.Equal(t, appinv.ReferenceTypeProduction, m.ReferenceType)
		assert.Equal(t, "250101-L1-CUC-PT-24-001", m.ReferenceID)
		assert.Equal(t, "250101-L1-CUC-PT-24-001", m.Reference)
		assert.Equal(t, res.Movement.MovementDate, m.MovementDate)
		assert.Equal(t, "operario-1", m.CreatedBy)
	}

	assertDec(t, "1", f.store.Level(skuPT, depPlanta))
	assertDec(t, "16", f.store.Level(skuGranel, depPlanta))
	assertDec(t, "1.5", f.store.Level(skuHarina, depPlanta))

	lot1, _ := f.store.Lot(granel1.Lot.ID)
	lot2, _ := f.store.Lot(granel2.Lot.ID)
	assertDec(t, "0", lot1.RemainingQuantity)
	assertDec(t, "16", lot2.RemainingQuantity)
	assertDec(t, "20", lot2.ProducedQuantity)

	for _, sku := range []int64{skuPT, skuGranel, skuHarina} {
		f.assertBalanceInvariant(t, sku, depPlanta)
	}
	for _, id := range []int64{granel1.Lot.ID, granel2.Lot.ID, res.Lot.ID} {
		f.assertLotInvariant(t, id)
	}
}

func TestLedger_CascadaSiempreLeniente(t *testing.T) {
	f := newFixture(t)

	// Sin stock de insumos: la producción estricta igual se confirma y los insumos quedan negativos.
	res := f.produce(t, skuPT, depPlanta, "2", nil)

	require.Len(t, res.Cascaded, 2)
	assert.Nil(t, res.Cascaded[0].ProductionLotID)
	assertDec(t, "-48", f.store.Level(skuGranel, depPlanta))
	assertDec(t, "-1", f.store.Level(skuHarina, depPlanta))
	assertDec(t, "2", f.store.Level(skuPT, depPlanta))
}

func TestLedger_CascadaSobreasignaUltimoLote(t *testing.T) {
	f := newFixture(t)
	granel := f.produce(t, skuGranel, depPlanta, "10", &d30)

	res := f.produce(t, skuPT, depPlanta, "1", nil)

	require.Len(t, res.Cascaded, 2)
	assertDec(t, "-24", res.Cascaded[0].Quantity)
	assert.Equal(t, ptr(granel.Lot.ID), res.Cascaded[0].ProductionLotID)
	lot, _ := f.store.Lot(granel.Lot.ID)
	assertDec(t, "-14", lot.RemainingQuantity)
	f.assertLotInvariant(t, granel.Lot.ID)
	f.assertBalanceInvariant(t, skuGranel, depPlanta)
}

func TestLedger_CascadaSinLotesEnDepositoSinControl(t *testing.T) {
	f := newFixture(t)

	res := f.produce(t, skuPT, depLocal, "1", nil)

	assert.Nil(t, res.Lot)
	require.Len(t, res.Cascaded, 2)
	assert.Equal(t, "PROD-CUC-PT-24", res.Cascaded[0].ReferenceID)
	assert.Empty(t, res.Cascaded[0].LotCode)
	assertDec(t, "-24", f.store.Level(skuGranel, depLocal))
}

func TestLedger_FallaEnCascadaRevierteProduccion(t *testing.T) {
	f := newFixture(t)
	// Catálogo sin CONSUMPTION: la cascada falla y la producción completa se revierte.
	f.store.AddMovementType(entity.MovementType{ID: f.types[entity.MovementCodeConsumption], Code: "CONSUMO_VIEJO", IsActive: true})

	_, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:            skuPT,
		DepositID:        depPlanta,
		MovementTypeID:   f.types[entity.MovementCodeProduction],
		Quantity:         dec("1"),
		ProductionLineID: ptr(lineaUno),
	}, false)

	require.ErrorIs(t, err, domain.ErrMovementTypeNotFound)
	assert.Empty(t, f.store.Movements())
	assert.False(t, f.store.HasLevel(skuPT, depPlanta))
	_, ok := f.store.LotByCode("250101-L1-CUC-PT-24-001")
	assert.False(t, ok)
}

func TestLedger_SaldoNegativoEstrictoNoModificaNada(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, skuHarina, depPlanta, "1")

	_, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:          skuHarina,
		DepositID:      depPlanta,
		MovementTypeID: f.types[entity.MovementCodeConsumption],
		Quantity:       dec("1.5"),
	}, false)

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assertDec(t, "1", f.store.Level(skuHarina, depPlanta))
	assert.Len(t, f.store.Movements(), 1)

	// La misma operación leniente deja saldo negativo.
	_, err = f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:          skuHarina,
		DepositID:      depPlanta,
		MovementTypeID: f.types[entity.MovementCodeConsumption],
		Quantity:       dec("1.5"),
	}, true)
	require.NoError(t, err)
	assertDec(t, "-0.5", f.store.Level(skuHarina, depPlanta))
	f.assertBalanceInvariant(t, skuHarina, depPlanta)
}

func TestLedger_SinFilaPreviaNoCreaSaldoSiFalla(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:          skuHarina,
		DepositID:      depPlanta,
		MovementTypeID: f.types[entity.MovementCodeRemito],
		Quantity:       dec("1"),
	}, false)

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.False(t, f.store.HasLevel(skuHarina, depPlanta))
	assert.Empty(t, f.store.Movements())
}

func TestLedger_LoteInsuficiente(t *testing.T) {
	f := newFixture(t)
	granel := f.produce(t, skuGranel, depPlanta, "5", &d30)
	f.produce(t, skuGranel, depPlanta, "5", &d31)

	_, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:          skuGranel,
		DepositID:      depPlanta,
		MovementTypeID: f.types[entity.MovementCodeConsumption],
		Quantity:       dec("7"),
		LotCode:        granel.Lot.LotCode,
	}, false)

	require.ErrorIs(t, err, domain.ErrInsufficientLotStock)
	lot, _ := f.store.Lot(granel.Lot.ID)
	assertDec(t, "5", lot.RemainingQuantity)
	assertDec(t, "10", f.store.Level(skuGranel, depPlanta))
}

func TestLedger_ConsumoConLote(t *testing.T) {
	f := newFixture(t)
	granel := f.produce(t, skuGranel, depPlanta, "5", &d30)

	res, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:           skuGranel,
		DepositID:       depPlanta,
		MovementTypeID:  f.types[entity.MovementCodeRemito],
		Quantity:        dec("3"),
		LotID:           ptr(granel.Lot.ID),
		Reference:       "Remito 0001-00000042",
		ReferenceType:   "REMITO",
		ReferenceID:     "42",
		ReferenceItemID: "42-1",
	}, false)

	require.NoError(t, err)
	assertDec(t, "-3", res.Movement.Quantity)
	assert.Equal(t, granel.Lot.LotCode, res.Movement.LotCode)
	assert.Equal(t, "42-1", res.Movement.ReferenceItemID)
	assert.Empty(t, res.Cascaded)
	assertDec(t, "2", res.Lot.RemainingQuantity)
	assertDec(t, "5", res.Lot.ProducedQuantity)
	f.assertLotInvariant(t, granel.Lot.ID)
}

func TestLedger_LoteBloqueado(t *testing.T) {
	f := newFixture(t)
	id := f.store.SeedLot(entity.ProductionLot{
		LotCode: "241230-L1-CUC-GRANEL-001", SKUID: skuGranel, DepositID: depPlanta,
		ProductionLineID: ptr(lineaUno), ProducedQuantity: dec("5"), RemainingQuantity: dec("5"),
		ProducedAt: d30, IsBlocked: true,
	})

	_, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:          skuGranel,
		DepositID:      depPlanta,
		MovementTypeID: f.types[entity.MovementCodeMerma],
		Quantity:       dec("1"),
		LotID:          &id,
	}, true)

	require.ErrorIs(t, err, domain.ErrLotBlocked)
}

func TestLedger_LoteDeOtroSKU(t *testing.T) {
	f := newFixture(t)
	granel := f.produce(t, skuGranel, depPlanta, "5", &d30)

	_, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:          skuHarina,
		DepositID:      depPlanta,
		MovementTypeID: f.types[entity.MovementCodeConsumption],
		Quantity:       dec("1"),
		LotCode:        granel.Lot.LotCode,
	}, true)

	require.ErrorIs(t, err, domain.ErrLotMismatch)
}

func TestLedger_LoteInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:          skuGranel,
		DepositID:      depPlanta,
		MovementTypeID: f.types[entity.MovementCodeConsumption],
		Quantity:       dec("1"),
		LotCode:        "241230-L1-CUC-GRANEL-009",
	}, true)

	require.ErrorIs(t, err, domain.ErrLotNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_DepositoSinControlDeLotesRechazaLote(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:          skuGranel,
		DepositID:      depLocal,
		MovementTypeID: f.types[entity.MovementCodePurchase],
		Quantity:       dec("1"),
		LotCode:        "241230-L1-CUC-GRANEL-001",
	}, false)

	require.ErrorIs(t, err, domain.ErrLotMismatch)
}

func TestLedger_ProduccionRepetidaSumaAlLote(t *testing.T) {
	f := newFixture(t)
	first := f.produce(t, skuGranel, depPlanta, "5", nil)

	res, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:            skuGranel,
		DepositID:        depPlanta,
		MovementTypeID:   f.types[entity.MovementCodeProduction],
		Quantity:         dec("3"),
		LotCode:          first.Lot.LotCode,
		ProductionLineID: ptr(lineaUno),
	}, false)

	require.NoError(t, err)
	assert.Equal(t, first.Lot.ID, res.Lot.ID)
	lot, _ := f.store.Lot(first.Lot.ID)
	assertDec(t, "8", lot.ProducedQuantity)
	assertDec(t, "8", lot.RemainingQuantity)
	assertDec(t, "8", f.store.Level(skuGranel, depPlanta))
	f.assertLotInvariant(t, first.Lot.ID)
}

func TestLedger_SecuenciaDeLotesDelDia(t *testing.T) {
	f := newFixture(t)

	a := f.produce(t, skuGranel, depPlanta, "1", nil)
	b := f.produce(t, skuGranel, depPlanta, "1", nil)

	assert.Equal(t, "250101-L1-CUC-GRANEL-001", a.Lot.LotCode)
	assert.Equal(t, "250101-L1-CUC-GRANEL-002", b.Lot.LotCode)
}

func TestLedger_ProduccionConCodigoProvisto(t *testing.T) {
	f := newFixture(t)

	res, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:            skuGranel,
		DepositID:        depPlanta,
		MovementTypeID:   f.types[entity.MovementCodeProduction],
		Quantity:         dec("4"),
		LotCode:          "250101-L1-CUC-GRANEL-007",
		ProductionLineID: ptr(lineaUno),
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "250101-L1-CUC-GRANEL-007", res.Lot.LotCode)

	next := f.produce(t, skuGranel, depPlanta, "1", nil)
	assert.Equal(t, "250101-L1-CUC-GRANEL-008", next.Lot.LotCode)
}

func TestLedger_CodigoDeLoteInvalido(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		code string
		want error
	}{
		{"mal formado", "CUC-GRANEL", domain.ErrMalformedLotCode},
		{"secuencia no numérica", "250101-L1-CUC-GRANEL-0A1", domain.ErrMalformedLotCode},
		{"otra fecha", "241231-L1-CUC-GRANEL-001", domain.ErrLotMismatch},
		{"otra línea", "250101-L2-CUC-GRANEL-001", domain.ErrLotMismatch},
		{"otro sku", "250101-L1-MED-GRANEL-001", domain.ErrLotMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
				SKUID:            skuGranel,
				DepositID:        depPlanta,
				MovementTypeID:   f.types[entity.MovementCodeProduction],
				Quantity:         dec("1"),
				LotCode:          tc.code,
				ProductionLineID: ptr(lineaUno),
			}, false)
			require.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, f.store.Movements())
}

func TestLedger_CodigoDeLoteDeOtroLote(t *testing.T) {
	f := newFixture(t)
	a := f.produce(t, skuGranel, depPlanta, "1", nil)
	b := f.produce(t, skuGranel, depPlanta, "1", nil)

	_, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:            skuGranel,
		DepositID:        depPlanta,
		MovementTypeID:   f.types[entity.MovementCodeProduction],
		Quantity:         dec("1"),
		LotID:            ptr(b.Lot.ID),
		LotCode:          a.Lot.LotCode,
		ProductionLineID: ptr(lineaUno),
	}, false)
	require.ErrorIs(t, err, domain.ErrDuplicateLotCode)

	_, err = f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:            skuGranel,
		DepositID:        depPlanta,
		MovementTypeID:   f.types[entity.MovementCodeProduction],
		Quantity:         dec("1"),
		LotID:            ptr(b.Lot.ID),
		LotCode:          "250101-L1-CUC-GRANEL-099",
		ProductionLineID: ptr(lineaUno),
	}, false)
	require.ErrorIs(t, err, domain.ErrLotMismatch)
}

func TestLedger_ProduccionSobreLoteDeOtroDia(t *testing.T) {
	f := newFixture(t)
	old := f.produce(t, skuGranel, depPlanta, "1", &d30)

	_, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:            skuGranel,
		DepositID:        depPlanta,
		MovementTypeID:   f.types[entity.MovementCodeProduction],
		Quantity:         dec("1"),
		LotID:            ptr(old.Lot.ID),
		ProductionLineID: ptr(lineaUno),
	}, false)

	require.ErrorIs(t, err, domain.ErrLotMismatch)
}

func TestLedger_ProduccionRequiereLinea(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:          skuGranel,
		DepositID:      depPlanta,
		MovementTypeID: f.types[entity.MovementCodeProduction],
		Quantity:       dec("1"),
	}, false)
	require.ErrorIs(t, err, domain.ErrProductionLineRequired)

	_, err = f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:            skuGranel,
		DepositID:        depPlanta,
		MovementTypeID:   f.types[entity.MovementCodeProduction],
		Quantity:         dec("1"),
		ProductionLineID: ptr(lineaInactiva),
	}, false)
	require.ErrorIs(t, err, domain.ErrInactiveProductionLine)
}

func TestLedger_ConversionDeUnidades(t *testing.T) {
	f := newFixture(t)

	res, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:          skuMedialuna,
		DepositID:      depLocal,
		MovementTypeID: f.types[entity.MovementCodePurchase],
		Quantity:       dec("6"),
		Unit:           "Unit",
	}, false)

	require.NoError(t, err)
	assertDec(t, "0.5", res.Movement.Quantity)
	assertDec(t, "0.5", f.store.Level(skuMedialuna, depLocal))

	_, err = f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:          skuMedialuna,
		DepositID:      depLocal,
		MovementTypeID: f.types[entity.MovementCodePurchase],
		Quantity:       dec("6"),
		Unit:           "l",
	}, false)
	require.ErrorIs(t, err, domain.ErrUnsupportedUnit)
}

func TestLedger_DireccionExplicita(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, skuHarina, depLocal, "10")

	res, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:          skuHarina,
		DepositID:      depLocal,
		MovementTypeID: f.types[entity.MovementCodeAdjustment],
		Quantity:       dec("3"),
		Direction:      entity.DirectionOut,
	}, false)

	require.NoError(t, err)
	assertDec(t, "-3", res.Movement.Quantity)
	assertDec(t, "7", res.Level.Quantity)
	f.assertBalanceInvariant(t, skuHarina, depLocal)
}

func TestLedger_ProduccionConDireccionSalidaSeRechaza(t *testing.T) {
	for _, dep := range []int64{depPlanta, depLocal} {
		f := newFixture(t)

		_, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
			SKUID:            skuPT,
			DepositID:        dep,
			MovementTypeID:   f.types[entity.MovementCodeProduction],
			Quantity:         dec("1"),
			Direction:        entity.DirectionOut,
			ProductionLineID: ptr(lineaUno),
		}, true)

		require.ErrorIs(t, err, domain.ErrInvalidInput, "depósito %d", dep)
		assert.False(t, f.store.HasLevel(skuPT, dep))
		assert.Empty(t, f.store.Movements())
		_, ok := f.store.Lot(1)
		assert.False(t, ok, "no debe crearse lote")
	}

	// La dirección "in" explícita sigue siendo válida.
	f := newFixture(t)
	res, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:            skuGranel,
		DepositID:        depPlanta,
		MovementTypeID:   f.types[entity.MovementCodeProduction],
		Quantity:         dec("4"),
		Direction:        entity.DirectionIn,
		ProductionLineID: ptr(lineaUno),
	}, false)
	require.NoError(t, err)
	require.NotNil(t, res.Lot)
	assertDec(t, "4", res.Level.Quantity)
	f.assertLotInvariant(t, res.Lot.ID)
}

func TestLedger_TipoSinDireccion(t *testing.T) {
	f := newFixture(t)
	f.store.AddMovementType(entity.MovementType{ID: 50, Code: "DEVOLUCION", IsActive: true})
	f.store.AddMovementType(entity.MovementType{ID: 51, Code: "DEVOLUCION_CLIENTE", IsActive: true, Direction: entity.DirectionIn})

	_, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID: skuHarina, DepositID: depLocal, MovementTypeID: 50, Quantity: dec("1"),
	}, false)
	require.ErrorIs(t, err, domain.ErrUnsupportedMovementType)

	res, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID: skuHarina, DepositID: depLocal, MovementTypeID: 51, Quantity: dec("1"),
	}, false)
	require.NoError(t, err)
	assertDec(t, "1", res.Movement.Quantity)
}

func TestLedger_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.store.AddMovementType(entity.MovementType{ID: 60, Code: "TRASPASO_VIEJO", IsActive: false, Direction: entity.DirectionIn})

	base := appinv.MovementRequest{
		SKUID:          skuHarina,
		DepositID:      depPlanta,
		MovementTypeID: f.types[entity.MovementCodePurchase],
		Quantity:       dec("1"),
	}
	cases := []struct {
		name   string
		mutate func(r *appinv.MovementRequest)
		want   error
	}{
		{"cantidad cero", func(r *appinv.MovementRequest) { r.Quantity = dec("0") }, domain.ErrInvalidQuantity},
		{"cantidad negativa", func(r *appinv.MovementRequest) { r.Quantity = dec("-1") }, domain.ErrInvalidQuantity},
		{"tipo inexistente", func(r *appinv.MovementRequest) { r.MovementTypeID = 999 }, domain.ErrMovementTypeNotFound},
		{"tipo inactivo", func(r *appinv.MovementRequest) { r.MovementTypeID = 60 }, domain.ErrInactiveMovementType},
		{"sku inexistente", func(r *appinv.MovementRequest) { r.SKUID = 999 }, domain.ErrSKUNotFound},
		{"tipo de sku inactivo", func(r *appinv.MovementRequest) { r.SKUID = skuInactivo }, domain.ErrInactiveSKU},
		{"depósito inexistente", func(r *appinv.MovementRequest) { r.DepositID = 999 }, domain.ErrDepositNotFound},
		{"línea inexistente", func(r *appinv.MovementRequest) { r.ProductionLineID = ptr(int64(999)) }, domain.ErrProductionLineNotFound},
		{"dirección inválida", func(r *appinv.MovementRequest) { r.Direction = "up" }, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)
			_, err := f.ledger.ApplyMovement(context.Background(), req, true)
			require.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, f.store.Movements())
}

func TestLedger_FechaExplicitaSeTruncaAlDia(t *testing.T) {
	f := newFixture(t)
	when := d31.Add(15 * time.Hour)

	res, err := f.ledger.ApplyMovement(context.Background(), appinv.MovementRequest{
		SKUID:          skuHarina,
		DepositID:      depLocal,
		MovementTypeID: f.types[entity.MovementCodePurchase],
		Quantity:       dec("1"),
		MovementDate:   &when,
		TransactionID:  "compra-77",
	}, false)

	require.NoError(t, err)
	assert.Equal(t, d31, res.Movement.MovementDate)
	assert.Equal(t, "compra-77", res.Movement.TransactionID)
}

func TestLedger_InTxAgrupaMovimientos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Transferencia: salida de planta y entrada al local en una sola transacción; si la
	// segunda pierna falla, la primera también se revierte.
	f.purchase(t, skuHarina, depPlanta, "5")
	err := f.ledger.InTx(ctx, func(ctx context.Context, repos appinv.Repos) error {
		_, err := f.ledger.ApplyMovementInTx(ctx, repos, appinv.MovementRequest{
			SKUID: skuHarina, DepositID: depPlanta, MovementTypeID: f.types[entity.MovementCodeTransfer],
			Quantity: dec("2"), Direction: entity.DirectionOut, TransactionID: "tr-1",
		}, false)
		if err != nil {
			return err
		}
		_, err = f.ledger.ApplyMovementInTx(ctx, repos, appinv.MovementRequest{
			SKUID: skuHarina, DepositID: 999, MovementTypeID: f.types[entity.MovementCodeTransfer],
			Quantity: dec("2"), TransactionID: "tr-1",
		}, false)
		return err
	})

	require.ErrorIs(t, err, domain.ErrDepositNotFound)
	assertDec(t, "5", f.store.Level(skuHarina, depPlanta))
	assert.Len(t, f.store.Movements(), 1)
}
