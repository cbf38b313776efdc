package database

import "context"

// Transactor runs fn inside a unit of work. Repositories called with the
// context passed to fn take part in the same transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
