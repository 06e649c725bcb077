package inventory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/uyfcastell/FNC-dev/internal/domain"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
)

// LotAllocation porción de una cantidad asignada a un lote. Lot nil = consumo sin lote.
type LotAllocation struct {
	Lot      *entity.ProductionLot
	Quantity decimal.Decimal
}

// AllocationMode política ante faltante. Cada llamador debe elegirla explícitamente.
type AllocationMode int

const (
	// AllocateStrict falla con ErrInsufficientStock si los lotes no cubren la cantidad.
	AllocateStrict AllocationMode = iota
	// AllocateLenient carga el faltante al último lote (que queda negativo) o, sin lotes,
	// devuelve una asignación sin lote por el total. Pensado para carga histórica y consumos de receta.
	AllocateLenient
)

// AllocateLots planifica el consumo FIFO de required sobre los lotes candidatos.
// No muta los lotes: el ledger aplica el plan.
func AllocateLots(lots []*entity.ProductionLot, required decimal.Decimal, mode AllocationMode) ([]LotAllocation, error) {
	if !required.IsPositive() {
		return nil, nil
	}
	candidates := make([]*entity.ProductionLot, 0, len(lots))
	for _, l := range lots {
		if l != nil && !l.IsBlocked {
			candidates = append(candidates, l)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.ProducedAt.Equal(b.ProducedAt) {
			return a.ProducedAt.Before(b.ProducedAt)
		}
		return a.ID < b.ID
	})

	pending := required
	var out []LotAllocation
	for _, lot := range candidates {
		if !pending.IsPositive() {
			break
		}
		if !lot.RemainingQuantity.IsPositive() {
			continue
		}
		take := decimal.Min(pending, lot.RemainingQuantity)
		out = append(out, LotAllocation{Lot: lot, Quantity: take})
		pending = pending.Sub(take)
	}
	if !pending.IsPositive() {
		return out, nil
	}

	if mode == AllocateStrict {
		return nil, fmt.Errorf("%w: faltan %s", domain.ErrInsufficientStock, pending.String())
	}
	switch {
	case len(out) > 0:
		out[len(out)-1].Quantity = out[len(out)-1].Quantity.Add(pending)
	case len(candidates) > 0:
		// hay lotes pero ninguno con saldo: el faltante va al más reciente
		out = append(out, LotAllocation{Lot: candidates[len(candidates)-1], Quantity: pending})
	default:
		out = append(out, LotAllocation{Quantity: pending})
	}
	return out, nil
}
