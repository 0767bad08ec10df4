package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationNoTxContext(upAddUserEmail, downAddUserEmail)
}

// upAddUserEmail adds the owner column to databases created before
// accounts existed. The column is probed first: a table that already
// has it (pre-seeded or restored from backup) is left alone, so the
// migration is safe to apply to any schema state.
func upAddUserEmail(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `PRAGMA table_info(tasks)`)
	if err != nil {
		return err
	}
	defer rows.Close()

	hasUserEmail := false
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			dfltValue  sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dfltValue, &primaryKey); err != nil {
			return err
		}
		if name == "user_email" {
			hasUserEmail = true
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if hasUserEmail {
		return nil
	}

	_, err = db.ExecContext(ctx, `ALTER TABLE tasks ADD COLUMN user_email TEXT`)
	return err
}

// downAddUserEmail is a no-op: the owner migration is forward-only and
// non-destructive, and SQLite column drops would rewrite the table.
func downAddUserEmail(ctx context.Context, db *sql.DB) error {
	return nil
}
