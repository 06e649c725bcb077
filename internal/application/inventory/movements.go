package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uyfcastell/FNC-dev/internal/domain"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
	"github.com/uyfcastell/FNC-dev/internal/domain/repository"
)

// MovementFilter filtros del kardex de un SKU en un depósito. Las fechas son inclusivas.
type MovementFilter struct {
	SKUID     int64
	DepositID int64
	From, To  *time.Time
	Limit     int
	Offset    int
}

// MovementPage página del kardex con el saldo actual del par.
type MovementPage struct {
	Movements []*entity.StockMovement
	Total     int
	Balance   decimal.Decimal
}

// MovementQueryUseCase consulta del ledger (solo lectura).
type MovementQueryUseCase struct {
	txRunner TxRunner
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(txRunner TxRunner) *MovementQueryUseCase {
	return &MovementQueryUseCase{txRunner: txRunner}
}

// List devuelve los movimientos del par en orden de inserción, paginados en el repositorio.
// Limit 0 devuelve todo desde Offset.
func (uc *MovementQueryUseCase) List(ctx context.Context, f MovementFilter) (*MovementPage, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return nil, fmt.Errorf("%w: limit y offset no pueden ser negativos", domain.ErrInvalidInput)
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	filter := repository.MovementFilter{
		SKUID:     f.SKUID,
		DepositID: f.DepositID,
		From:      f.From,
		To:        f.To,
		Limit:     f.Limit,
		Offset:    f.Offset,
	}
	page := &MovementPage{Balance: decimal.Zero}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repos) error {
		total, err := repos.Movements.CountBySKUAndDeposit(ctx, filter)
		if err != nil {
			return err
		}
		page.Total = total
		if f.Offset < total {
			if page.Movements, err = repos.Movements.ListBySKUAndDeposit(ctx, filter); err != nil {
				return err
			}
		}

		level, err := repos.Levels.Get(ctx, f.SKUID, f.DepositID)
		if err != nil {
			return err
		}
		if level != nil {
			page.Balance = level.Quantity
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}
