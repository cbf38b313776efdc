// Package memory holds map-backed repositories for tests and for running the
// service without PostgreSQL. Data does not survive a restart.
package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Transactor runs fn directly. Each repository guards its own state, so a
// failure inside fn does not roll back earlier writes.
type Transactor struct{}

func NewTransactor() Transactor {
	return Transactor{}
}

func (Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func ensureID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
