package http

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/uyfcastell/FNC-dev/internal/application/dto"
	"github.com/uyfcastell/FNC-dev/internal/application/inventory"
	"github.com/uyfcastell/FNC-dev/internal/domain"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
	"github.com/uyfcastell/FNC-dev/pkg/logger"
)

// StockHandler maneja carga directa de movimientos, mermas, conteos y consulta de lotes (protegido).
type StockHandler struct {
	ledger   *inventory.Ledger
	merma    *inventory.MermaUseCase
	counts   *inventory.InventoryCountUseCase
	lots     *inventory.LotQueryUseCase
	kardex   *inventory.MovementQueryUseCase
	validate *validator.Validate
	log      *logger.Logger

	// allowNegative política de la carga directa (STOCK_ALLOW_NEGATIVE_DIRECT).
	allowNegative bool
}

// NewStockHandler construye el handler.
func NewStockHandler(
	ledger *inventory.Ledger,
	merma *inventory.MermaUseCase,
	counts *inventory.InventoryCountUseCase,
	lots *inventory.LotQueryUseCase,
	kardex *inventory.MovementQueryUseCase,
	allowNegative bool,
	log *logger.Logger,
) *StockHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &StockHandler{
		ledger:        ledger,
		merma:         merma,
		counts:        counts,
		lots:          lots,
		kardex:        kardex,
		validate:      validator.New(),
		log:           log.Named("http"),
		allowNegative: allowNegative,
	}
}

// PostMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "sku, depósito, tipo, cantidad y lote opcional"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) PostMovement(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if !h.bind(c, &in) {
		return nil
	}
	date, err := parseDate(in.MovementDate)
	if err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.ledger.ApplyMovement(c.UserContext(), inventory.MovementRequest{
		SKUID:            in.SKUID,
		DepositID:        in.DepositID,
		MovementTypeID:   in.MovementTypeID,
		Quantity:         in.Quantity,
		Direction:        entity.Direction(in.Direction),
		Unit:             in.Unit,
		LotCode:          in.LotCode,
		LotID:            in.LotID,
		ProductionLineID: in.ProductionLineID,
		MovementDate:     date,
		Reference:        in.Reference,
		ReferenceType:    in.ReferenceType,
		ReferenceID:      in.ReferenceID,
		ReferenceItemID:  in.ReferenceItemID,
		CreatedBy:        GetUserID(c),
	}, h.allowNegative)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toResultResponse(res))
}

// PostMerma godoc
// @Summary      Reportar merma
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MermaRequest  true  "merma"
// @Success      201   {object}  dto.MovementResultResponse
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/mermas [post]
func (h *StockHandler) PostMerma(c *fiber.Ctx) error {
	var in dto.MermaRequest
	if !h.bind(c, &in) {
		return nil
	}
	detected, err := parseDate(in.DetectedAt)
	if err != nil {
		return writeError(c, h.log, err)
	}
	res, err := h.merma.Report(c.UserContext(), inventory.MermaInput{
		SKUID:            in.SKUID,
		DepositID:        in.DepositID,
		Quantity:         in.Quantity,
		Unit:             in.Unit,
		LotCode:          in.LotCode,
		ProductionLineID: in.ProductionLineID,
		AffectsStock:     in.AffectsStock,
		DetectedAt:       detected,
		EventID:          in.EventID,
		ReportedBy:       GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	if res == nil {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "merma registrada sin impacto en stock"})
	}
	return c.Status(fiber.StatusCreated).JSON(toResultResponse(res))
}

// ReconcileCount godoc
// @Summary      Conciliar conteo de inventario
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InventoryCountRequest  true  "conteo aprobado"
// @Success      200   {array}   dto.CountItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory-counts/reconcile [post]
func (h *StockHandler) ReconcileCount(c *fiber.Ctx) error {
	var in dto.InventoryCountRequest
	if !h.bind(c, &in) {
		return nil
	}
	date, err := parseDate(in.CountDate)
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]inventory.CountItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = inventory.CountItem{
			ItemID:          it.ItemID,
			SKUID:           it.SKUID,
			ProductionLotID: it.ProductionLotID,
			Counted:         it.Counted,
		}
	}
	results, err := h.counts.Reconcile(c.UserContext(), inventory.CountInput{
		CountID:   in.CountID,
		DepositID: in.DepositID,
		CountDate: *date,
		Items:     items,
		CreatedBy: GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.CountItemResponse, len(results))
	for i, r := range results {
		out[i] = dto.CountItemResponse{
			ItemID:     r.Item.ItemID,
			SKUID:      r.Item.SKUID,
			System:     r.System,
			Counted:    r.Item.Counted,
			Difference: r.Difference,
		}
		if r.Movement != nil {
			m := dto.NewStockMovementResponse(r.Movement)
			out[i].Movement = &m
		}
	}
	return c.JSON(out)
}

// ListLots godoc
// @Summary      Lotes de producción de un SKU en un depósito (FIFO)
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        sku_id          query  int   true   "SKU"
// @Param        deposit_id      query  int   true   "Depósito"
// @Param        available_only  query  bool  false  "Solo lotes con saldo"
// @Param        production_line_id  query  int  false  "Línea de producción"
// @Success      200  {array}   dto.LotResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/production/lots [get]
func (h *StockHandler) ListLots(c *fiber.Ctx) error {
	var q dto.LotQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if err := h.validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	lots, err := h.lots.ListAvailable(c.UserContext(), inventory.LotFilter{
		SKUID:            q.SKUID,
		DepositID:        q.DepositID,
		ProductionLineID: q.ProductionLineID,
		AvailableOnly:    q.AvailableOnly,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]*dto.LotResponse, len(lots))
	for i, l := range lots {
		out[i] = dto.NewLotResponse(l)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Kardex de un SKU en un depósito
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        sku_id      query  int     true   "SKU"
// @Param        deposit_id  query  int     true   "Depósito"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit       query  int     false  "Límite (1-100, default 20)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementPageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	q.DefaultPage()
	if err := h.validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	from, err := parseDate(q.From)
	if err != nil {
		return writeError(c, h.log, err)
	}
	to, err := parseDate(q.To)
	if err != nil {
		return writeError(c, h.log, err)
	}
	page, err := h.kardex.List(c.UserContext(), inventory.MovementFilter{
		SKUID:     q.SKUID,
		DepositID: q.DepositID,
		From:      from,
		To:        to,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.MovementPageResponse{
		Page:      dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: page.Total},
		Balance:   page.Balance,
		Movements: make([]dto.StockMovementResponse, len(page.Movements)),
	}
	for i, m := range page.Movements {
		out.Movements[i] = dto.NewStockMovementResponse(m)
	}
	return c.JSON(out)
}

// bind decodifica y valida el cuerpo. Si devuelve false la respuesta 400 ya fue escrita.
func (h *StockHandler) bind(c *fiber.Ctx, out any) bool {
	if err := c.BodyParser(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		return false
	}
	if err := h.validate.Struct(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		return false
	}
	return true
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
	}
	return &t, nil
}

func toResultResponse(res *inventory.MovementResult) dto.MovementResultResponse {
	out := dto.MovementResultResponse{
		Balance:  res.Level.Quantity,
		Movement: dto.NewStockMovementResponse(res.Movement),
		Lot:      dto.NewLotResponse(res.Lot),
	}
	for _, m := range res.Cascaded {
		out.Cascaded = append(out.Cascaded, dto.NewStockMovementResponse(m))
	}
	return out
}
