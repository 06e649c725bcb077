package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/uyfcastell/FNC-dev/internal/application/dto"
	"github.com/uyfcastell/FNC-dev/internal/domain"
	"github.com/uyfcastell/FNC-dev/pkg/logger"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings se recorre en orden: las entradas específicas van antes que ErrNotFound/ErrInvalidInput.
var errorMappings = []errorMapping{
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInsufficientLotStock, fiber.StatusConflict, "INSUFFICIENT_LOT_STOCK"},
	{domain.ErrDuplicateLotCode, fiber.StatusConflict, "DUPLICATE_LOT_CODE"},
	{domain.ErrLotBlocked, fiber.StatusConflict, "LOT_BLOCKED"},
	{domain.ErrLotSequenceExhausted, fiber.StatusConflict, "LOT_SEQUENCE_EXHAUSTED"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrInactiveMovementType, fiber.StatusBadRequest, "INACTIVE_MOVEMENT_TYPE"},
	{domain.ErrInactiveSKU, fiber.StatusBadRequest, "INACTIVE_SKU"},
	{domain.ErrInactiveProductionLine, fiber.StatusBadRequest, "INACTIVE_PRODUCTION_LINE"},
	{domain.ErrUnsupportedUnit, fiber.StatusBadRequest, "UNSUPPORTED_UNIT"},
	{domain.ErrUnsupportedMovementType, fiber.StatusBadRequest, "UNSUPPORTED_MOVEMENT_TYPE"},
	{domain.ErrProductionLineRequired, fiber.StatusBadRequest, "PRODUCTION_LINE_REQUIRED"},
	{domain.ErrMalformedLotCode, fiber.StatusBadRequest, "MALFORMED_LOT_CODE"},
	{domain.ErrLotMismatch, fiber.StatusBadRequest, "LOT_MISMATCH"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
}

// writeError traduce errores de dominio a status HTTP; el resto es 500 y se registra.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
