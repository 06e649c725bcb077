// Package memory implementa los puertos del ledger en memoria, con semántica transaccional:
// cada Run trabaja sobre una copia del estado que solo se publica si fn no devuelve error.
// Las transacciones se serializan con un mutex (equivalente a aislamiento serializable).
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	appinventory "github.com/uyfcastell/FNC-dev/internal/application/inventory"
	"github.com/uyfcastell/FNC-dev/internal/domain"
	"github.com/uyfcastell/FNC-dev/internal/domain/entity"
	"github.com/uyfcastell/FNC-dev/internal/domain/repository"
)

var (
	_ appinventory.TxRunner              = (*Store)(nil)
	_ repository.CatalogRepository       = (*txState)(nil)
	_ repository.StockLevelRepository    = (*levelRepo)(nil)
	_ repository.ProductionLotRepository = (*lotRepo)(nil)
	_ repository.StockMovementRepository = (*movementRepo)(nil)
)

type levelKey struct {
	skuID, depositID int64
}

// state datos mutables del ledger. El catálogo es de solo lectura y se comparte entre copias.
type state struct {
	levels    map[levelKey]entity.StockLevel
	lots      map[int64]entity.ProductionLot
	movements []entity.StockMovement
	nextLevel int64
	nextLot   int64
	nextMov   int64
}

func (s *state) clone() *state {
	c := &state{
		levels:    make(map[levelKey]entity.StockLevel, len(s.levels)),
		lots:      make(map[int64]entity.ProductionLot, len(s.lots)),
		movements: make([]entity.StockMovement, len(s.movements)),
		nextLevel: s.nextLevel,
		nextLot:   s.nextLot,
		nextMov:   s.nextMov,
	}
	for k, v := range s.levels {
		c.levels[k] = v
	}
	for k, v := range s.lots {
		c.lots[k] = v
	}
	copy(c.movements, s.movements)
	return c
}

// Store almacén en memoria. Cero valor no usable: construir con NewStore.
type Store struct {
	mu      sync.Mutex
	catalog *catalog
	data    *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		catalog: newCatalog(),
		data: &state{
			levels: make(map[levelKey]entity.StockLevel),
			lots:   make(map[int64]entity.ProductionLot),
		},
	}
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn devuelve nil.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos appinventory.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txState{catalog: s.catalog, data: s.data.clone()}
	if err := fn(ctx, tx.repos()); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

// ── Lecturas para tests y diagnóstico (fuera de transacción) ──────────────────

// Level devuelve el saldo actual del par (cero si no existe la fila).
func (s *Store) Level(skuID, depositID int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.data.levels[levelKey{skuID, depositID}]; ok {
		return l.Quantity
	}
	return decimal.Zero
}

// HasLevel indica si existe la fila de saldo del par.
func (s *Store) HasLevel(skuID, depositID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data.levels[levelKey{skuID, depositID}]
	return ok
}

// Lot devuelve una copia del lote.
func (s *Store) Lot(id int64) (entity.ProductionLot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.data.lots[id]
	return l, ok
}

// LotByCode devuelve una copia del lote con ese código.
func (s *Store) LotByCode(code string) (entity.ProductionLot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.data.lots {
		if l.LotCode == code {
			return l, true
		}
	}
	return entity.ProductionLot{}, false
}

// Movements devuelve una copia del ledger en orden de inserción.
func (s *Store) Movements() []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.StockMovement, len(s.data.movements))
	copy(out, s.data.movements)
	return out
}

// SeedLot inserta un lote preexistente (carga inicial); asigna ID si falta.
func (s *Store) SeedLot(lot entity.ProductionLot) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lot.ID == 0 {
		s.data.nextLot++
		lot.ID = s.data.nextLot
	} else if lot.ID > s.data.nextLot {
		s.data.nextLot = lot.ID
	}
	s.data.lots[lot.ID] = lot
	return lot.ID
}

// SeedLevel fija un saldo inicial sin movimiento (solo para escenarios de tests de conteo).
func (s *Store) SeedLevel(skuID, depositID int64, qty decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.nextLevel++
	s.data.levels[levelKey{skuID, depositID}] = entity.StockLevel{
		ID: s.data.nextLevel, SKUID: skuID, DepositID: depositID, Quantity: qty, UpdatedAt: time.Now(),
	}
}

// ── Transacción ───────────────────────────────────────────────────────────────

type txState struct {
	*catalog
	data *state
}

func (tx *txState) repos() appinventory.Repos {
	return appinventory.Repos{
		Catalog:   tx,
		Levels:    &levelRepo{tx: tx},
		Lots:      &lotRepo{tx: tx},
		Movements: &movementRepo{tx: tx},
	}
}

type levelRepo struct{ tx *txState }

func (r *levelRepo) GetForUpdate(_ context.Context, skuID, depositID int64) (*entity.StockLevel, error) {
	k := levelKey{skuID, depositID}
	l, ok := r.tx.data.levels[k]
	if !ok {
		r.tx.data.nextLevel++
		l = entity.StockLevel{ID: r.tx.data.nextLevel, SKUID: skuID, DepositID: depositID, Quantity: decimal.Zero}
		r.tx.data.levels[k] = l
	}
	return &l, nil
}

func (r *levelRepo) Get(_ context.Context, skuID, depositID int64) (*entity.StockLevel, error) {
	l, ok := r.tx.data.levels[levelKey{skuID, depositID}]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *levelRepo) Save(_ context.Context, level *entity.StockLevel) error {
	r.tx.data.levels[levelKey{level.SKUID, level.DepositID}] = *level
	return nil
}

type lotRepo struct{ tx *txState }

func (r *lotRepo) GetForUpdate(_ context.Context, id int64) (*entity.ProductionLot, error) {
	l, ok := r.tx.data.lots[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *lotRepo) GetByCodeForUpdate(_ context.Context, code string) (*entity.ProductionLot, error) {
	for _, l := range r.tx.data.lots {
		if l.LotCode == code {
			lot := l
			return &lot, nil
		}
	}
	return nil, nil
}

func (r *lotRepo) ListCodesWithPrefix(_ context.Context, prefix string) ([]string, error) {
	var codes []string
	for _, l := range r.tx.data.lots {
		if strings.HasPrefix(l.LotCode, prefix) {
			codes = append(codes, l.LotCode)
		}
	}
	sort.Strings(codes)
	return codes, nil
}

func (r *lotRepo) ListAvailableForUpdate(ctx context.Context, skuID, depositID int64) ([]*entity.ProductionLot, error) {
	return r.ListAvailable(ctx, skuID, depositID)
}

func (r *lotRepo) ListAvailable(_ context.Context, skuID, depositID int64) ([]*entity.ProductionLot, error) {
	var out []*entity.ProductionLot
	for _, l := range r.tx.data.lots {
		if l.SKUID == skuID && l.DepositID == depositID && !l.IsBlocked {
			lot := l
			out = append(out, &lot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ProducedAt.Equal(out[j].ProducedAt) {
			return out[i].ProducedAt.Before(out[j].ProducedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *lotRepo) Create(_ context.Context, lot *entity.ProductionLot) error {
	for _, l := range r.tx.data.lots {
		if l.LotCode == lot.LotCode {
			return domain.ErrDuplicateLotCode
		}
	}
	r.tx.data.nextLot++
	lot.ID = r.tx.data.nextLot
	r.tx.data.lots[lot.ID] = *lot
	return nil
}

func (r *lotRepo) UpdateQuantities(_ context.Context, lot *entity.ProductionLot) error {
	cur, ok := r.tx.data.lots[lot.ID]
	if !ok {
		return domain.ErrLotNotFound
	}
	cur.ProducedQuantity = lot.ProducedQuantity
	cur.RemainingQuantity = lot.RemainingQuantity
	cur.UpdatedAt = lot.UpdatedAt
	r.tx.data.lots[lot.ID] = cur
	return nil
}

type movementRepo struct{ tx *txState }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.tx.data.nextMov++
	m.ID = r.tx.data.nextMov
	r.tx.data.movements = append(r.tx.data.movements, *m)
	return nil
}

func (r *movementRepo) matching(f repository.MovementFilter) []entity.StockMovement {
	var out []entity.StockMovement
	for _, m := range r.tx.data.movements {
		if m.SKUID != f.SKUID || m.DepositID != f.DepositID {
			continue
		}
		if f.From != nil && m.MovementDate.Before(*f.From) {
			continue
		}
		if f.To != nil && m.MovementDate.After(*f.To) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (r *movementRepo) ListBySKUAndDeposit(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	all := r.matching(f)
	start := min(f.Offset, len(all))
	end := len(all)
	if f.Limit > 0 {
		end = min(start+f.Limit, len(all))
	}
	out := make([]*entity.StockMovement, 0, end-start)
	for i := start; i < end; i++ {
		mov := all[i]
		out = append(out, &mov)
	}
	return out, nil
}

func (r *movementRepo) CountBySKUAndDeposit(_ context.Context, f repository.MovementFilter) (int, error) {
	return len(r.matching(f)), nil
}

func (r *movementRepo) SumBySKUAndDeposit(_ context.Context, skuID, depositID int64) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.tx.data.movements {
		if m.SKUID == skuID && m.DepositID == depositID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}
