package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uyfcastell/FNC-dev/internal/application/inventory"
	"github.com/uyfcastell/FNC-dev/pkg/config"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool     *pgxpool.Pool
	isoLevel pgx.TxIsoLevel
}

// NewTxRunner construye el runner con el pool y el nivel de aislamiento configurado
// (config.IsolationReadCommitted, IsolationRepeatableRead o IsolationSerializable).
func NewTxRunner(pool *pgxpool.Pool, isolation string) *TxRunner {
	return &TxRunner{pool: pool, isoLevel: isoLevel(isolation)}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: r.isoLevel})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos arma los repositorios del ledger sobre un Querier (pool o tx).
func NewRepos(q Querier) inventory.Repos {
	return inventory.Repos{
		Catalog:   NewCatalogRepository(q),
		Levels:    NewStockLevelRepository(q),
		Lots:      NewProductionLotRepository(q),
		Movements: NewStockMovementRepository(q),
	}
}

func isoLevel(isolation string) pgx.TxIsoLevel {
	switch isolation {
	case config.IsolationRepeatableRead:
		return pgx.RepeatableRead
	case config.IsolationSerializable:
		return pgx.Serializable
	default:
		return pgx.ReadCommitted
	}
}
