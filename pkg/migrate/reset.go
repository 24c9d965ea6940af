package migrate

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/officesnack/snackcycle/pkg/db"
	"github.com/officesnack/snackcycle/pkg/db/models"
)

// TableCount is the number of rows removed from one table.
type TableCount struct {
	Table   string
	Deleted int64
}

// ResetAll deletes every row of every model table in one transaction,
// children before parents. The schema and goose version table are kept.
func ResetAll(ctx context.Context, client *db.Client) ([]TableCount, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}

	all := models.All()
	counts := make([]TableCount, 0, len(all))
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		for i := len(all) - 1; i >= 0; i-- {
			stmt := &gorm.Statement{DB: tx}
			if err := stmt.Parse(all[i]); err != nil {
				return fmt.Errorf("parse model: %w", err)
			}
			table := stmt.Schema.Table

			result := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(all[i])
			if result.Error != nil {
				return fmt.Errorf("wipe %s: %w", table, result.Error)
			}
			counts = append(counts, TableCount{Table: table, Deleted: result.RowsAffected})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
