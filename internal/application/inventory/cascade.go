package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uyfcastell/FNC-dev/internal/domain"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
	"github.com/uyfcastell/FNC-dev/internal/domain/inventory"
	"github.com/uyfcastell/FNC-dev/pkg/logger"
)

// ReferenceTypeProduction tipo de referencia de los consumos generados por una producción.
const ReferenceTypeProduction = "PRODUCTION"

// CascadeInput producción que origina el consumo de receta.
type CascadeInput struct {
	Product          *entity.SKU
	Deposit          *entity.Deposit
	Lot              *entity.ProductionLot // nil si el depósito no controla lotes
	ProducedQuantity decimal.Decimal       // en unidad base
	Reference        string
	MovementDate     time.Time
	CreatedBy        string
	TransactionID    string
}

// Cascader expande la receta activa del producto y postea un CONSUMPTION por cada
// porción FIFO de cada componente, reentrando en el ledger con la misma transacción.
//
// El consumo es siempre leniente (allowNegative=true y asignación AllocateLenient):
// una producción no se revierte por faltante de insumos; el faltante queda como saldo negativo.
type Cascader struct {
	ledger *Ledger
	log    *logger.Logger
}

func newCascader(ledger *Ledger, log *logger.Logger) *Cascader {
	return &Cascader{ledger: ledger, log: log}
}

// Cascade postea los consumos y los devuelve en orden (componente de receta, luego FIFO).
func (c *Cascader) Cascade(ctx context.Context, repos Repos, in CascadeInput) ([]*entity.StockMovement, error) {
	if !in.ProducedQuantity.IsPositive() {
		return nil, nil
	}
	recipe, err := repos.Catalog.GetActiveRecipe(ctx, in.Product.ID)
	if err != nil {
		return nil, err
	}
	if recipe == nil || len(recipe.Items) == 0 {
		return nil, nil
	}
	consumption, err := repos.Catalog.GetMovementTypeByCode(ctx, entity.MovementCodeConsumption)
	if err != nil {
		return nil, err
	}
	if consumption == nil {
		return nil, domain.ErrMovementTypeNotFound
	}

	reference := in.Reference
	refID := "PROD-" + in.Product.Code
	if in.Lot != nil {
		refID = in.Lot.LotCode
	}
	if reference == "" {
		reference = refID
	}
	date := in.MovementDate

	var posted []*entity.StockMovement
	for _, item := range recipe.Items {
		required := in.ProducedQuantity.Mul(item.Quantity)
		if !required.IsPositive() {
			continue
		}

		var lots []*entity.ProductionLot
		if in.Deposit.ControlsLot {
			lots, err = repos.Lots.ListAvailableForUpdate(ctx, item.ComponentID, in.Deposit.ID)
			if err != nil {
				return nil, err
			}
		}
		plan, err := inventory.AllocateLots(lots, required, inventory.AllocateLenient)
		if err != nil {
			return nil, err
		}

		for _, alloc := range plan {
			req := MovementRequest{
				SKUID:          item.ComponentID,
				DepositID:      in.Deposit.ID,
				MovementTypeID: consumption.ID,
				Quantity:       alloc.Quantity,
				MovementDate:   &date,
				Reference:      reference,
				ReferenceType:  ReferenceTypeProduction,
				ReferenceID:    refID,
				CreatedBy:      in.CreatedBy,
				TransactionID:  in.TransactionID,
			}
			if alloc.Lot != nil {
				lotID := alloc.Lot.ID
				req.LotID = &lotID
			}
			res, err := c.ledger.ApplyMovementInTx(ctx, repos, req, true)
			if err != nil {
				return nil, err
			}
			c.log.Debug().
				Str("product", in.Product.Code).
				Int64("component_id", item.ComponentID).
				Str("quantity", alloc.Quantity.String()).
				Str("lot", res.Movement.LotCode).
				Msg("consumo de receta")
			posted = append(posted, res.Movement)
		}
	}
	return posted, nil
}
