package inventory

import (
	"context"

	"github.com/jhoicas/retail-admin-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para llegadas, traslados y reciclajes.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}
