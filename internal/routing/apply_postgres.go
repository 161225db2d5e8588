package routing

import (
	"context"
	"database/sql"

	"filetrack/internal/file"
	"filetrack/internal/ledger"
	"filetrack/internal/platform/postgres"
)

// PostgresApplier commits a transfer's ledger append and location write in a
// single database transaction. Either both land or neither does, so a
// storage failure mid-transfer cannot leave the record behind its ledger.
type PostgresApplier struct {
	db *sql.DB
}

func NewPostgresApplier(db *sql.DB) *PostgresApplier {
	return &PostgresApplier{db: db}
}

func (a *PostgresApplier) ApplyTransfer(ctx context.Context, event ledger.Event, expectedVersion int64) error {
	return postgres.InTx(ctx, a.db, func(tx *sql.Tx) error {
		if err := ledger.AppendTx(ctx, tx, event); err != nil {
			return err
		}
		return file.UpdateLocationTx(ctx, tx, event.FileID, event.To, expectedVersion)
	})
}
