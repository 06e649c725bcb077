package inventory

import (
	"context"

	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
)

// LotQueryUseCase consultas de lotes de producción.
type LotQueryUseCase struct {
	txRunner TxRunner
}

// NewLotQueryUseCase construye el caso de uso.
func NewLotQueryUseCase(txRunner TxRunner) *LotQueryUseCase {
	return &LotQueryUseCase{txRunner: txRunner}
}

// LotFilter filtros de la consulta de lotes. ProductionLineID nil no filtra por línea.
type LotFilter struct {
	SKUID            int64
	DepositID        int64
	ProductionLineID *int64
	AvailableOnly    bool
}

// ListAvailable devuelve los lotes no bloqueados del SKU en el depósito en orden FIFO.
// Con AvailableOnly descarta los lotes sin saldo positivo.
func (uc *LotQueryUseCase) ListAvailable(ctx context.Context, f LotFilter) ([]*entity.ProductionLot, error) {
	var out []*entity.ProductionLot
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repos) error {
		lots, err := repos.Lots.ListAvailable(ctx, f.SKUID, f.DepositID)
		if err != nil {
			return err
		}
		out = make([]*entity.ProductionLot, 0, len(lots))
		for _, lot := range lots {
			if f.AvailableOnly && !lot.RemainingQuantity.IsPositive() {
				continue
			}
			if f.ProductionLineID != nil && !lot.SameLine(f.ProductionLineID) {
				continue
			}
			out = append(out, lot)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
