// Package sqlite persists pending jumps so separate processes (the language
// server and the command line tool) see the same jumps.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"docnav/internal/cache"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at cfg.Path and migrates the schema.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite: empty database path")
	}
	db, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// withTx runs fn within a transaction.
func (s *Store) withTx(fn func(tx *sql.Tx) error) error {
	if s.db == nil {
		return cache.ErrClosed
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) Put(keys []string, jump cache.Jump) error {
	for _, k := range keys {
		if k == "" {
			return cache.ErrInvalidKey
		}
	}
	data, err := json.Marshal(jump.Locator)
	if err != nil {
		return fmt.Errorf("failed to encode locator: %w", err)
	}
	return s.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO jumps (id, locator, created_at) VALUES (?, ?, ?)`,
			jump.ID, string(data), jump.CreatedAt.UnixNano(),
		); err != nil {
			return err
		}
		for _, k := range keys {
			if _, err := tx.Exec(`
                INSERT INTO jump_keys (key, jump_id) VALUES (?, ?)
                ON CONFLICT(key) DO UPDATE SET jump_id = excluded.jump_id
            `, k, jump.ID); err != nil {
				return err
			}
		}
		// Jumps whose keys were all taken over are unreachable.
		_, err := tx.Exec(`
            DELETE FROM jumps
            WHERE id != ? AND id NOT IN (SELECT jump_id FROM jump_keys)
        `, jump.ID)
		return err
	})
}

func (s *Store) Get(key string) (cache.Jump, bool, error) {
	if s.db == nil {
		return cache.Jump{}, false, cache.ErrClosed
	}
	var (
		jump    cache.Jump
		data    string
		created int64
	)
	err := s.db.QueryRow(`
        SELECT j.id, j.locator, j.created_at
        FROM jump_keys k JOIN jumps j ON j.id = k.jump_id
        WHERE k.key = ?
    `, key).Scan(&jump.ID, &data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return cache.Jump{}, false, nil
	}
	if err != nil {
		return cache.Jump{}, false, err
	}
	if err := json.Unmarshal([]byte(data), &jump.Locator); err != nil {
		return cache.Jump{}, false, fmt.Errorf("failed to decode locator of %s: %w", jump.ID, err)
	}
	jump.CreatedAt = time.Unix(0, created)
	return jump, true, nil
}

func (s *Store) Delete(id string) error {
	return s.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM jump_keys WHERE jump_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM jumps WHERE id = ?`, id)
		return err
	})
}

func (s *Store) DeleteBefore(t time.Time) (int, error) {
	var removed int64
	err := s.withTx(func(tx *sql.Tx) error {
		cutoff := t.UnixNano()
		if _, err := tx.Exec(`
            DELETE FROM jump_keys
            WHERE jump_id IN (SELECT id FROM jumps WHERE created_at < ?)
        `, cutoff); err != nil {
			return err
		}
		res, err := tx.Exec(`DELETE FROM jumps WHERE created_at < ?`, cutoff)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	return int(removed), err
}

func (s *Store) Len() (int, error) {
	if s.db == nil {
		return 0, cache.ErrClosed
	}
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM jumps`).Scan(&n)
	return n, err
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
