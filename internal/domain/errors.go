package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Recursos no encontrados; todos envuelven ErrNotFound para que errors.Is(err, ErrNotFound) funcione.
var (
	ErrSKUNotFound            = fmt.Errorf("sku: %w", ErrNotFound)
	ErrDepositNotFound        = fmt.Errorf("depósito: %w", ErrNotFound)
	ErrLotNotFound            = fmt.Errorf("lote: %w", ErrNotFound)
	ErrMovementTypeNotFound   = fmt.Errorf("tipo de movimiento: %w", ErrNotFound)
	ErrProductionLineNotFound = fmt.Errorf("línea de producción: %w", ErrNotFound)
)

// Errores de validación del ledger: se detectan antes de cualquier escritura.
var (
	ErrInvalidQuantity         = errors.New("la cantidad debe ser mayor a cero")
	ErrInactiveMovementType    = errors.New("tipo de movimiento inactivo")
	ErrInactiveSKU             = errors.New("el tipo de SKU está inactivo")
	ErrInactiveProductionLine  = errors.New("línea de producción inactiva")
	ErrUnsupportedUnit         = errors.New("unidad no soportada para el SKU")
	ErrUnsupportedMovementType = errors.New("tipo de movimiento sin dirección definida")
	ErrProductionLineRequired  = errors.New("la producción requiere línea de producción")
	ErrMalformedLotCode        = errors.New("código de lote mal formado")
	ErrDuplicateLotCode        = errors.New("el código de lote ya existe")
	ErrLotMismatch             = errors.New("el lote no corresponde al movimiento")
	ErrLotBlocked              = errors.New("el lote está bloqueado")
	ErrLotSequenceExhausted    = errors.New("no quedan secuencias de lote para la fecha")
)

// Errores de consistencia: dependen de allowNegative del llamador.
var (
	ErrInsufficientStock    = errors.New("saldo insuficiente")
	ErrInsufficientLotStock = errors.New("saldo insuficiente en el lote")
)
