package sqlite

import (
	"database/sql"
	"fmt"
)

const schemaVersion = 1

func initSchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queries := []string{
		// One row per pending jump; locator is stored as JSON.
		`CREATE TABLE IF NOT EXISTS jumps (
            id TEXT PRIMARY KEY,
            locator TEXT NOT NULL,
            created_at INTEGER NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS jumps_created_at ON jumps(created_at)`,

		// Every reference variant a jump was recorded under.
		`CREATE TABLE IF NOT EXISTS jump_keys (
            key TEXT PRIMARY KEY,
            jump_id TEXT NOT NULL,
            FOREIGN KEY (jump_id) REFERENCES jumps(id) ON DELETE CASCADE
        )`,
		`CREATE INDEX IF NOT EXISTS jump_keys_jump_id ON jump_keys(jump_id)`,
	}
	for _, q := range queries {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	return tx.Commit()
}
