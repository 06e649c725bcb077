package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uyfcastell/FNC-dev/internal/domain"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
)

// ReferenceTypeMerma tipo de referencia de los movimientos de merma.
const ReferenceTypeMerma = "MERMA"

// MermaInput reporte de merma (pérdida) de un SKU.
type MermaInput struct {
	SKUID            int64
	DepositID        int64
	Quantity         decimal.Decimal
	Unit             string
	LotCode          string
	ProductionLineID *int64
	AffectsStock     bool
	DetectedAt       *time.Time
	EventID          string // id del evento de merma en el subsistema que lo registra
	ReportedBy       string
}

// MermaUseCase descuenta mermas del stock. El posteo es siempre leniente:
// una merma reportada existe aunque el sistema no registre saldo suficiente.
type MermaUseCase struct {
	ledger *Ledger
}

// NewMermaUseCase construye el caso de uso.
func NewMermaUseCase(ledger *Ledger) *MermaUseCase {
	return &MermaUseCase{ledger: ledger}
}

// Report postea un MERMA si la merma afecta stock; si no, no toca el ledger y devuelve nil.
func (uc *MermaUseCase) Report(ctx context.Context, in MermaInput) (*MovementResult, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if !in.AffectsStock {
		return nil, nil
	}
	var res *MovementResult
	err := uc.ledger.InTx(ctx, func(ctx context.Context, repos Repos) error {
		mt, err := repos.Catalog.GetMovementTypeByCode(ctx, entity.MovementCodeMerma)
		if err != nil {
			return err
		}
		if mt == nil {
			return domain.ErrMovementTypeNotFound
		}
		res, err = uc.ledger.ApplyMovementInTx(ctx, repos, MovementRequest{
			SKUID:            in.SKUID,
			DepositID:        in.DepositID,
			MovementTypeID:   mt.ID,
			Quantity:         in.Quantity,
			Unit:             in.Unit,
			LotCode:          in.LotCode,
			ProductionLineID: in.ProductionLineID,
			MovementDate:     in.DetectedAt,
			ReferenceType:    ReferenceTypeMerma,
			ReferenceID:      in.EventID,
			CreatedBy:        in.ReportedBy,
		}, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
