package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// Rebind returns a Base bound to the provided transaction, or the receiver
// when tx is nil.
func (b Base) Rebind(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Locked returns the connection with a row-level write lock applied.
// sqlite (used by repository tests) does not support SELECT ... FOR UPDATE;
// its writes are serialized by the engine, so the clause is skipped there.
func (b Base) Locked(ctx context.Context) *gorm.DB {
	conn := b.DB(ctx)
	if conn.Dialector != nil && conn.Dialector.Name() == "sqlite" {
		return conn
	}
	return conn.Clauses(clause.Locking{Strength: "UPDATE"})
}
