package inventory

import (
	"context"

	"github.com/uyfcastell/FNC-dev/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción de BD.
// Es el handle explícito de la transacción: el ledger, el cascader y los casos de uso
// lo pasan hacia abajo en cada llamada reentrante, nunca se guarda como estado global.
type Repos struct {
	Catalog   repository.CatalogRepository
	Levels    repository.StockLevelRepository
	Lots      repository.ProductionLotRepository
	Movements repository.StockMovementRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback ante cualquier error. Garantiza atomicidad para el ledger.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
