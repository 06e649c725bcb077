package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uyfcastell/FNC-dev/internal/domain"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
	"github.com/uyfcastell/FNC-dev/internal/domain/inventory"
	"github.com/uyfcastell/FNC-dev/pkg/logger"
)

// MovementRequest entrada para aplicar un movimiento de stock.
// Quantity siempre positiva; el signo lo da la dirección (override o tipo de movimiento).
type MovementRequest struct {
	SKUID            int64
	DepositID        int64
	MovementTypeID   int64
	Quantity         decimal.Decimal
	Direction        entity.Direction // vacío = según el tipo de movimiento
	Unit             string           // vacío = unidad base
	LotCode          string
	LotID            *int64
	ProductionLineID *int64
	MovementDate     *time.Time // vacío = hoy
	Reference        string
	ReferenceType    string
	ReferenceID      string
	ReferenceItemID  string
	CreatedBy        string

	// TransactionID agrupa movimientos de una misma operación; vacío = se genera uno.
	TransactionID string
}

// MovementResult saldo y movimiento resultantes. Cascaded lista los consumos de receta
// disparados por una producción (vacío en cualquier otro caso).
type MovementResult struct {
	Level    *entity.StockLevel
	Movement *entity.StockMovement
	Lot      *entity.ProductionLot
	Cascaded []*entity.StockMovement
}

// Ledger punto de entrada único para toda mutación de stock: valida el movimiento,
// resuelve o crea el lote, actualiza saldo y lote, persiste el movimiento inmutable
// y dispara el consumo de receta en producciones.
type Ledger struct {
	txRunner TxRunner
	cascader *Cascader
	log      *logger.Logger
	now      func() time.Time
}

// LedgerOption configura el Ledger.
type LedgerOption func(*Ledger)

// WithClock reemplaza el reloj usado para la fecha por defecto de los movimientos.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

// NewLedger construye el ledger. log puede ser nil.
func NewLedger(txRunner TxRunner, log *logger.Logger, opts ...LedgerOption) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	l := &Ledger{
		txRunner: txRunner,
		log:      log.Named("ledger"),
		now:      time.Now,
	}
	l.cascader = newCascader(l, log.Named("cascade"))
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// InTx ejecuta fn en una transacción del ledger; los casos de uso que agrupan varios
// movimientos lo usan junto con ApplyMovementInTx.
func (l *Ledger) InTx(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error {
	return l.txRunner.Run(ctx, fn)
}

// ApplyMovement aplica un movimiento en su propia transacción (incluida la cascada de receta).
// allowNegative permite saldos y lotes negativos; es política de cada llamador.
func (l *Ledger) ApplyMovement(ctx context.Context, req MovementRequest, allowNegative bool) (*MovementResult, error) {
	var res *MovementResult
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos Repos) error {
		var err error
		res, err = l.ApplyMovementInTx(ctx, repos, req, allowNegative)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ApplyMovementInTx aplica un movimiento usando los repositorios de la transacción del llamador.
// Toda validación ocurre antes de la primera escritura.
func (l *Ledger) ApplyMovementInTx(ctx context.Context, repos Repos, req MovementRequest, allowNegative bool) (*MovementResult, error) {
	if !req.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}

	// 1. Catálogo
	mt, err := repos.Catalog.GetMovementType(ctx, req.MovementTypeID)
	if err != nil {
		return nil, err
	}
	if mt == nil {
		return nil, domain.ErrMovementTypeNotFound
	}
	if !mt.IsActive {
		return nil, fmt.Errorf("%w: %s", domain.ErrInactiveMovementType, mt.Code)
	}
	sku, err := repos.Catalog.GetSKU(ctx, req.SKUID)
	if err != nil {
		return nil, err
	}
	if sku == nil {
		return nil, domain.ErrSKUNotFound
	}
	if !sku.Type.IsActive {
		return nil, fmt.Errorf("%w: %s (%s)", domain.ErrInactiveSKU, sku.Code, sku.Type.Code)
	}
	deposit, err := repos.Catalog.GetDeposit(ctx, req.DepositID)
	if err != nil {
		return nil, err
	}
	if deposit == nil {
		return nil, domain.ErrDepositNotFound
	}
	isProduction := mt.Code == entity.MovementCodeProduction
	if req.ProductionLineID != nil {
		line, err := repos.Catalog.GetProductionLine(ctx, *req.ProductionLineID)
		if err != nil {
			return nil, err
		}
		if line == nil {
			return nil, domain.ErrProductionLineNotFound
		}
		if !line.IsActive {
			return nil, fmt.Errorf("%w: %s", domain.ErrInactiveProductionLine, line.Name)
		}
	} else if isProduction {
		return nil, domain.ErrProductionLineRequired
	}

	// 2. Unidad base
	baseQty, err := inventory.ToBaseQuantity(sku, req.Quantity, req.Unit)
	if err != nil {
		return nil, err
	}

	// 3. Dirección y delta
	dir, err := inventory.ResolveDirection(mt, req.Direction)
	if err != nil {
		return nil, err
	}
	// La producción crea o incrementa el lote: solo puede entrar.
	if isProduction && dir != entity.DirectionIn {
		return nil, fmt.Errorf("%w: una producción no admite dirección %q", domain.ErrInvalidInput, dir)
	}
	delta := baseQty
	if dir == entity.DirectionOut {
		delta = baseQty.Neg()
	}

	movementDate := l.today()
	if req.MovementDate != nil {
		movementDate = dateOnly(*req.MovementDate)
	}

	// 4. Lote (se calcula el nuevo estado, todavía sin escribir)
	var (
		lot    *entity.ProductionLot
		newLot bool
	)
	wantsLot := req.LotID != nil || req.LotCode != ""
	switch {
	case !deposit.ControlsLot:
		if wantsLot {
			return nil, fmt.Errorf("%w: el depósito %s no controla lotes", domain.ErrLotMismatch, deposit.Name)
		}
	case isProduction:
		lot, newLot, err = l.resolveProductionLot(ctx, repos, req, sku, deposit, movementDate, baseQty)
		if err != nil {
			return nil, err
		}
	case wantsLot:
		lot, err = l.resolveMovementLot(ctx, repos, req, sku, deposit)
		if err != nil {
			return nil, err
		}
		lot.RemainingQuantity = lot.RemainingQuantity.Add(delta)
		if lot.RemainingQuantity.IsNegative() && !allowNegative {
			return nil, fmt.Errorf("%w: %s", domain.ErrInsufficientLotStock, lot.LotCode)
		}
	}

	// 5. Saldo del depósito (fila bloqueada)
	level, err := repos.Levels.GetForUpdate(ctx, sku.ID, deposit.ID)
	if err != nil {
		return nil, err
	}
	newBalance := level.Quantity.Add(delta)
	if newBalance.IsNegative() && !allowNegative {
		return nil, fmt.Errorf("%w: %s en %s", domain.ErrInsufficientStock, sku.Code, deposit.Name)
	}

	// Validaciones completas: a partir de aquí solo escrituras.
	now := l.now()
	if lot != nil {
		lot.UpdatedAt = now
		if newLot {
			lot.CreatedAt = now
			if err := repos.Lots.Create(ctx, lot); err != nil {
				return nil, err
			}
		} else if err := repos.Lots.UpdateQuantities(ctx, lot); err != nil {
			return nil, err
		}
	}
	level.Quantity = newBalance
	level.UpdatedAt = now
	if err := repos.Levels.Save(ctx, level); err != nil {
		return nil, err
	}

	// 6. Movimiento inmutable
	txID := req.TransactionID
	if txID == "" {
		txID = uuid.New().String()
	}
	mov := &entity.StockMovement{
		TransactionID:    txID,
		SKUID:            sku.ID,
		DepositID:        deposit.ID,
		MovementTypeID:   mt.ID,
		MovementTypeCode: mt.Code,
		Quantity:         delta,
		Reference:        req.Reference,
		ReferenceType:    req.ReferenceType,
		ReferenceID:      req.ReferenceID,
		ReferenceItemID:  req.ReferenceItemID,
		ProductionLineID: req.ProductionLineID,
		MovementDate:     movementDate,
		CreatedBy:        req.CreatedBy,
		CreatedAt:        now,
	}
	if lot != nil {
		mov.LotCode = lot.LotCode
		lotID := lot.ID
		mov.ProductionLotID = &lotID
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}

	evt := l.log.Debug()
	if newBalance.IsNegative() || (lot != nil && lot.RemainingQuantity.IsNegative()) {
		evt = l.log.Warn()
	}
	evt.Str("tx_id", txID).
		Str("sku", sku.Code).
		Int64("deposit_id", deposit.ID).
		Str("type", mt.Code).
		Str("delta", delta.String()).
		Str("balance", newBalance.String()).
		Str("lot", mov.LotCode).
		Msg("movimiento aplicado")

	res := &MovementResult{Level: level, Movement: mov, Lot: lot}

	// 7. Consumo de receta: siempre leniente, misma transacción.
	if isProduction && sku.Type.IsProduction() {
		cascaded, err := l.cascader.Cascade(ctx, repos, CascadeInput{
			Product:          sku,
			Deposit:          deposit,
			Lot:              lot,
			ProducedQuantity: baseQty,
			Reference:        req.Reference,
			MovementDate:     movementDate,
			CreatedBy:        req.CreatedBy,
			TransactionID:    txID,
		})
		if err != nil {
			return nil, fmt.Errorf("consumo de receta de %s: %w", sku.Code, err)
		}
		res.Cascaded = cascaded
	}
	return res, nil
}

// resolveProductionLot devuelve el lote que recibe la producción: uno existente
// (por id o por código) al que se le suma la cantidad, o uno nuevo.
func (l *Ledger) resolveProductionLot(
	ctx context.Context,
	repos Repos,
	req MovementRequest,
	sku *entity.SKU,
	deposit *entity.Deposit,
	producedAt time.Time,
	baseQty decimal.Decimal,
) (*entity.ProductionLot, bool, error) {
	lineID := *req.ProductionLineID

	var existing *entity.ProductionLot
	switch {
	case req.LotID != nil:
		lot, err := repos.Lots.GetForUpdate(ctx, *req.LotID)
		if err != nil {
			return nil, false, err
		}
		if lot == nil {
			return nil, false, domain.ErrLotNotFound
		}
		if req.LotCode != "" && req.LotCode != lot.LotCode {
			owner, err := repos.Lots.GetByCodeForUpdate(ctx, req.LotCode)
			if err != nil {
				return nil, false, err
			}
			if owner != nil {
				return nil, false, inventory.CheckExistingLot(owner, sku.ID, deposit.ID, req.ProductionLineID, req.LotID)
			}
			return nil, false, fmt.Errorf("%w: el código %s no corresponde al lote %d", domain.ErrLotMismatch, req.LotCode, lot.ID)
		}
		existing = lot
	case req.LotCode != "":
		if err := inventory.ValidateLotCode(req.LotCode, inventory.LotCodeExpectation{
			SKUCode: sku.Code, LineID: lineID, ProducedAt: producedAt,
		}); err != nil {
			return nil, false, err
		}
		lot, err := repos.Lots.GetByCodeForUpdate(ctx, req.LotCode)
		if err != nil {
			return nil, false, err
		}
		existing = lot
	}

	if existing != nil {
		if err := inventory.CheckExistingLot(existing, sku.ID, deposit.ID, req.ProductionLineID, req.LotID); err != nil {
			return nil, false, err
		}
		if !dateOnly(existing.ProducedAt).Equal(producedAt) {
			return nil, false, fmt.Errorf("%w: %s fue producido otro día", domain.ErrLotMismatch, existing.LotCode)
		}
		if existing.IsBlocked {
			return nil, false, fmt.Errorf("%w: %s", domain.ErrLotBlocked, existing.LotCode)
		}
		existing.ProducedQuantity = existing.ProducedQuantity.Add(baseQty)
		existing.RemainingQuantity = existing.RemainingQuantity.Add(baseQty)
		return existing, false, nil
	}

	code := req.LotCode
	if code == "" {
		prefix := inventory.LotCodePrefix(producedAt, lineID, sku.Code)
		codes, err := repos.Lots.ListCodesWithPrefix(ctx, prefix)
		if err != nil {
			return nil, false, err
		}
		seq, err := inventory.NextLotSequence(codes, prefix)
		if err != nil {
			return nil, false, err
		}
		code = inventory.BuildLotCode(producedAt, lineID, sku.Code, seq)
	}
	line := lineID
	return &entity.ProductionLot{
		LotCode:           code,
		SKUID:             sku.ID,
		DepositID:         deposit.ID,
		ProductionLineID:  &line,
		ProducedQuantity:  baseQty,
		RemainingQuantity: baseQty,
		ProducedAt:        producedAt,
	}, true, nil
}

// resolveMovementLot resuelve el lote referenciado por un movimiento que no es de producción.
func (l *Ledger) resolveMovementLot(
	ctx context.Context,
	repos Repos,
	req MovementRequest,
	sku *entity.SKU,
	deposit *entity.Deposit,
) (*entity.ProductionLot, error) {
	var (
		lot *entity.ProductionLot
		err error
	)
	if req.LotID != nil {
		lot, err = repos.Lots.GetForUpdate(ctx, *req.LotID)
	} else {
		lot, err = repos.Lots.GetByCodeForUpdate(ctx, req.LotCode)
	}
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrLotNotFound
	}
	if req.LotID != nil && req.LotCode != "" && req.LotCode != lot.LotCode {
		return nil, fmt.Errorf("%w: el código %s no corresponde al lote %d", domain.ErrLotMismatch, req.LotCode, lot.ID)
	}
	if lot.SKUID != sku.ID || lot.DepositID != deposit.ID {
		return nil, fmt.Errorf("%w: %s pertenece a otro SKU o depósito", domain.ErrLotMismatch, lot.LotCode)
	}
	if req.ProductionLineID != nil && lot.ProductionLineID != nil && *lot.ProductionLineID != *req.ProductionLineID {
		return nil, fmt.Errorf("%w: %s pertenece a otra línea", domain.ErrLotMismatch, lot.LotCode)
	}
	if lot.IsBlocked {
		return nil, fmt.Errorf("%w: %s", domain.ErrLotBlocked, lot.LotCode)
	}
	return lot, nil
}

func (l *Ledger) today() time.Time {
	return dateOnly(l.now())
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
