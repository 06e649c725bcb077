package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uyfcastell/FNC-dev/internal/domain"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
)

// ReferenceTypeInventoryCount tipo de referencia de los ajustes de conteo.
const ReferenceTypeInventoryCount = "INVENTORY_COUNT"

// CountItem cantidad contada de un SKU (o de un lote puntual) en el depósito.
type CountItem struct {
	ItemID          string
	SKUID           int64
	ProductionLotID *int64
	Counted         decimal.Decimal
}

// CountInput conteo aprobado a conciliar contra el ledger.
type CountInput struct {
	CountID   string
	DepositID int64
	CountDate time.Time
	Items     []CountItem
	CreatedBy string
}

// CountItemResult diferencia calculada y el ajuste posteado (nil si no hubo diferencia).
type CountItemResult struct {
	Item       CountItem
	System     decimal.Decimal
	Difference decimal.Decimal
	Movement   *entity.StockMovement
}

// InventoryCountUseCase concilia conteos físicos: un ADJUSTMENT por ítem con diferencia,
// todos en una sola transacción.
type InventoryCountUseCase struct {
	ledger *Ledger
}

// NewInventoryCountUseCase construye el caso de uso.
func NewInventoryCountUseCase(ledger *Ledger) *InventoryCountUseCase {
	return &InventoryCountUseCase{ledger: ledger}
}

// Reconcile compara contado vs sistema (saldo del lote si se indica, si no saldo del depósito)
// y postea la diferencia con dirección explícita. Los ajustes son lenientes.
func (uc *InventoryCountUseCase) Reconcile(ctx context.Context, in CountInput) ([]CountItemResult, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el conteo no tiene ítems", domain.ErrInvalidInput)
	}
	for _, it := range in.Items {
		if it.Counted.IsNegative() {
			return nil, domain.ErrInvalidQuantity
		}
	}
	countID := in.CountID
	if countID == "" {
		countID = uuid.New().String()
	}
	date := in.CountDate

	var results []CountItemResult
	err := uc.ledger.InTx(ctx, func(ctx context.Context, repos Repos) error {
		results = results[:0]
		mt, err := repos.Catalog.GetMovementTypeByCode(ctx, entity.MovementCodeAdjustment)
		if err != nil {
			return err
		}
		if mt == nil {
			return domain.ErrMovementTypeNotFound
		}
		for _, it := range in.Items {
			system, err := systemQuantity(ctx, repos, it, in.DepositID)
			if err != nil {
				return err
			}
			diff := it.Counted.Sub(system)
			r := CountItemResult{Item: it, System: system, Difference: diff}
			if !diff.IsZero() {
				dir := entity.DirectionIn
				if diff.IsNegative() {
					dir = entity.DirectionOut
				}
				res, err := uc.ledger.ApplyMovementInTx(ctx, repos, MovementRequest{
					SKUID:           it.SKUID,
					DepositID:       in.DepositID,
					MovementTypeID:  mt.ID,
					Quantity:        diff.Abs(),
					Direction:       dir,
					LotID:           it.ProductionLotID,
					MovementDate:    &date,
					ReferenceType:   ReferenceTypeInventoryCount,
					ReferenceID:     countID,
					ReferenceItemID: it.ItemID,
					CreatedBy:       in.CreatedBy,
					TransactionID:   countID,
				}, true)
				if err != nil {
					return fmt.Errorf("ajuste de conteo sku %d: %w", it.SKUID, err)
				}
				r.Movement = res.Movement
			}
			results = append(results, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func systemQuantity(ctx context.Context, repos Repos, it CountItem, depositID int64) (decimal.Decimal, error) {
	if it.ProductionLotID != nil {
		lot, err := repos.Lots.GetForUpdate(ctx, *it.ProductionLotID)
		if err != nil {
			return decimal.Zero, err
		}
		if lot == nil {
			return decimal.Zero, domain.ErrLotNotFound
		}
		return lot.RemainingQuantity, nil
	}
	level, err := repos.Levels.Get(ctx, it.SKUID, depositID)
	if err != nil {
		return decimal.Zero, err
	}
	if level == nil {
		return decimal.Zero, nil
	}
	return level.Quantity, nil
}
