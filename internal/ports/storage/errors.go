package storage

import (
	"context"
	"errors"
)

// ErrUnavailable envuelve fallas del driver (conexión, timeout, etc).
// Los adapters lo propagan con %w; el core nunca lo genera.
var ErrUnavailable = errors.New("storage unavailable")

// TxRunner ejecuta fn dentro de una transacción. Los repos que comparten el
// mismo TxRunner toman la transacción desde ctx.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
