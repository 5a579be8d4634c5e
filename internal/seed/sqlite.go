// Package seed loads the initial user records from an optional sqlite file.
// The store never writes back; a restart always resets the collection to
// whatever the seed file holds.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"user-roster/internal/domain"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL,
	updated_at DATETIME
);
`

// Open opens (or creates) the seed database at the given path and ensures
// directories exist.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// single connection is plenty for a read-once seed source
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(createUsersTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create users table: %w", err)
	}

	return db, nil
}

// LoadUsers reads every seed record ordered by id. A fresh or empty file
// yields an empty slice.
func LoadUsers(ctx context.Context, db *sql.DB) ([]domain.User, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, name, email, created_at, updated_at
FROM users
ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query seed users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var updated sql.NullTime
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &updated); err != nil {
			return nil, fmt.Errorf("scan seed user: %w", err)
		}
		if updated.Valid {
			t := updated.Time
			u.UpdatedAt = &t
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seed users: %w", err)
	}
	return users, nil
}
