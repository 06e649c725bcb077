package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
)

// DateLayout formato de fechas de negocio en requests y responses.
const DateLayout = "2006-01-02"

// StockMovementRequest carga directa de un movimiento de stock.
// Quantity siempre positiva; el signo lo da direction o el tipo de movimiento.
type StockMovementRequest struct {
	SKUID            int64           `json:"sku_id" validate:"required,gt=0"`
	DepositID        int64           `json:"deposit_id" validate:"required,gt=0"`
	MovementTypeID   int64           `json:"movement_type_id" validate:"required,gt=0"`
	Quantity         decimal.Decimal `json:"quantity" swaggertype:"string"`
	Direction        string          `json:"direction" validate:"omitempty,oneof=in out"`
	Unit             string          `json:"unit" validate:"omitempty,max=16"`
	LotCode          string          `json:"lot_code" validate:"omitempty,max=64"`
	LotID            *int64          `json:"lot_id" validate:"omitempty,gt=0"`
	ProductionLineID *int64          `json:"production_line_id" validate:"omitempty,gt=0"`
	MovementDate     string          `json:"movement_date" validate:"omitempty,datetime=2006-01-02"`
	Reference        string          `json:"reference" validate:"omitempty,max=255"`
	ReferenceType    string          `json:"reference_type" validate:"omitempty,max=32"`
	ReferenceID      string          `json:"reference_id" validate:"omitempty,max=64"`
	ReferenceItemID  string          `json:"reference_item_id" validate:"omitempty,max=64"`
}

// MermaRequest reporte de merma.
type MermaRequest struct {
	SKUID            int64           `json:"sku_id" validate:"required,gt=0"`
	DepositID        int64           `json:"deposit_id" validate:"required,gt=0"`
	Quantity         decimal.Decimal `json:"quantity" swaggertype:"string"`
	Unit             string          `json:"unit" validate:"omitempty,max=16"`
	LotCode          string          `json:"lot_code" validate:"omitempty,max=64"`
	ProductionLineID *int64          `json:"production_line_id" validate:"omitempty,gt=0"`
	AffectsStock     bool            `json:"affects_stock"`
	DetectedAt       string          `json:"detected_at" validate:"omitempty,datetime=2006-01-02"`
	EventID          string          `json:"event_id" validate:"omitempty,max=64"`
}

// InventoryCountRequest conteo físico aprobado.
type InventoryCountRequest struct {
	CountID   string             `json:"count_id" validate:"omitempty,max=64"`
	DepositID int64              `json:"deposit_id" validate:"required,gt=0"`
	CountDate string             `json:"count_date" validate:"required,datetime=2006-01-02"`
	Items     []CountItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CountItemRequest ítem contado; production_lot_id opcional para contar un lote puntual.
type CountItemRequest struct {
	ItemID          string          `json:"item_id" validate:"omitempty,max=64"`
	SKUID           int64           `json:"sku_id" validate:"required,gt=0"`
	ProductionLotID *int64          `json:"production_lot_id" validate:"omitempty,gt=0"`
	Counted         decimal.Decimal `json:"counted_quantity" swaggertype:"string"`
}

// LotQuery filtros de GET /api/production/lots.
type LotQuery struct {
	SKUID         int64 `query:"sku_id" validate:"required,gt=0"`
	DepositID     int64 `query:"deposit_id" validate:"required,gt=0"`
	AvailableOnly bool  `query:"available_only"`

	ProductionLineID *int64 `query:"production_line_id" validate:"omitempty,gt=0"`
}

// MovementQuery filtros de GET /api/stock/movements (kardex).
type MovementQuery struct {
	PageRequest
	SKUID     int64  `query:"sku_id" validate:"required,gt=0"`
	DepositID int64  `query:"deposit_id" validate:"required,gt=0"`
	From      string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// MovementPageResponse página del kardex.
type MovementPageResponse struct {
	Page      PageResponse            `json:"page"`
	Balance   decimal.Decimal         `json:"balance" swaggertype:"string"`
	Movements []StockMovementResponse `json:"movements"`
}

// StockMovementResponse movimiento persistido.
type StockMovementResponse struct {
	ID               int64           `json:"id"`
	TransactionID    string          `json:"transaction_id"`
	SKUID            int64           `json:"sku_id"`
	DepositID        int64           `json:"deposit_id"`
	MovementType     string          `json:"movement_type"`
	Quantity         decimal.Decimal `json:"quantity" swaggertype:"string"`
	LotCode          string          `json:"lot_code,omitempty"`
	ProductionLotID  *int64          `json:"production_lot_id,omitempty"`
	ProductionLineID *int64          `json:"production_line_id,omitempty"`
	MovementDate     string          `json:"movement_date"`
	Reference        string          `json:"reference,omitempty"`
	ReferenceType    string          `json:"reference_type,omitempty"`
	ReferenceID      string          `json:"reference_id,omitempty"`
	ReferenceItemID  string          `json:"reference_item_id,omitempty"`
	CreatedBy        string          `json:"created_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// LotResponse lote de producción.
type LotResponse struct {
	ID                int64           `json:"id"`
	LotCode           string          `json:"lot_code"`
	SKUID             int64           `json:"sku_id"`
	DepositID         int64           `json:"deposit_id"`
	ProductionLineID  *int64          `json:"production_line_id,omitempty"`
	ProducedQuantity  decimal.Decimal `json:"produced_quantity" swaggertype:"string"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity" swaggertype:"string"`
	ProducedAt        string          `json:"produced_at"`
	IsBlocked         bool            `json:"is_blocked"`
}

// MovementResultResponse saldo resultante, movimiento, lote y consumos de receta.
type MovementResultResponse struct {
	Balance  decimal.Decimal         `json:"balance" swaggertype:"string"`
	Movement StockMovementResponse   `json:"movement"`
	Lot      *LotResponse            `json:"lot,omitempty"`
	Cascaded []StockMovementResponse `json:"cascaded,omitempty"`
}

// CountItemResponse resultado de conciliación de un ítem.
type CountItemResponse struct {
	ItemID     string                 `json:"item_id,omitempty"`
	SKUID      int64                  `json:"sku_id"`
	System     decimal.Decimal        `json:"system_quantity" swaggertype:"string"`
	Counted    decimal.Decimal        `json:"counted_quantity" swaggertype:"string"`
	Difference decimal.Decimal        `json:"difference" swaggertype:"string"`
	Movement   *StockMovementResponse `json:"movement,omitempty"`
}

// NewStockMovementResponse mapea la entidad a la respuesta.
func NewStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:               m.ID,
		TransactionID:    m.TransactionID,
		SKUID:            m.SKUID,
		DepositID:        m.DepositID,
		MovementType:     m.MovementTypeCode,
		Quantity:         m.Quantity,
		LotCode:          m.LotCode,
		ProductionLotID:  m.ProductionLotID,
		ProductionLineID: m.ProductionLineID,
		MovementDate:     m.MovementDate.Format(DateLayout),
		Reference:        m.Reference,
		ReferenceType:    m.ReferenceType,
		ReferenceID:      m.ReferenceID,
		ReferenceItemID:  m.ReferenceItemID,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
	}
}

// NewLotResponse mapea el lote; nil si no hay lote.
func NewLotResponse(l *entity.ProductionLot) *LotResponse {
	if l == nil {
		return nil
	}
	return &LotResponse{
		ID:                l.ID,
		LotCode:           l.LotCode,
		SKUID:             l.SKUID,
		DepositID:         l.DepositID,
		ProductionLineID:  l.ProductionLineID,
		ProducedQuantity:  l.ProducedQuantity,
		RemainingQuantity: l.RemainingQuantity,
		ProducedAt:        l.ProducedAt.Format(DateLayout),
		IsBlocked:         l.IsBlocked,
	}
}
