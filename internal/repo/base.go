package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by every domain repository. It carries either the pooled
// connection or the transaction handed in through Bind.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB scopes the handle to ctx. A nil ctx yields the handle unchanged.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx != nil {
		return b.db.WithContext(ctx)
	}
	return b.db
}

// Bind swaps in tx for the WithTx implementations; nil keeps the receiver.
func (b Base) Bind(tx *gorm.DB) Base {
	if tx != nil {
		b.db = tx
	}
	return b
}
