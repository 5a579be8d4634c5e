package seed

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsers_EmptyDatabase(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	users, err := LoadUsers(context.Background(), db)
	if err != nil {
		t.Fatalf("LoadUsers: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected no users from a fresh file, got %d", len(users))
	}
}

func TestLoadUsers_ReadsSeededRecords(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := created.Add(time.Hour)
	_, err = db.Exec(`
INSERT INTO users (id, name, email, created_at, updated_at) VALUES
	(1, 'Alice', 'alice@example.com', ?, NULL),
	(4, 'Bob', 'bob@example.com', ?, ?)`,
		created, created, updated)
	if err != nil {
		t.Fatalf("insert seed rows: %v", err)
	}

	users, err := LoadUsers(context.Background(), db)
	if err != nil {
		t.Fatalf("LoadUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != 1 || users[1].ID != 4 {
		t.Errorf("expected ids ordered [1 4], got [%d %d]", users[0].ID, users[1].ID)
	}
	if users[0].UpdatedAt != nil {
		t.Error("expected nil UpdatedAt for never-updated record")
	}
	if users[1].UpdatedAt == nil || !users[1].UpdatedAt.Equal(updated) {
		t.Errorf("expected UpdatedAt %v, got %v", updated, users[1].UpdatedAt)
	}
}
