package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/studio-scheduler/internal/persistence"
)

func newTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	dir := t.TempDir()
	dsn := filepath.Join(dir, "studio.db")
	pool, err := NewConnectionPool(DefaultConfig(dsn))
	if err != nil {
		t.Fatalf("failed to open pool: %v", err)
	}

	t.Cleanup(func() {
		_ = pool.Close()
	})

	if err := Migrate(context.Background(), pool); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return pool
}

func seedUser(t *testing.T, pool *ConnectionPool, id, email string) persistence.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	user := persistence.User{
		ID:           id,
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: "hashed-password",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := NewUserRepository(pool).CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestMigrate_Idempotent(t *testing.T) {
	pool := newTestPool(t)

	// A second run must find every migration already recorded.
	if err := Migrate(context.Background(), pool); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	var count int
	err := pool.DB().QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count)
	if err != nil {
		t.Fatalf("failed to count migrations: %v", err)
	}
	if count != len(migrations) {
		t.Errorf("expected %d recorded migrations, got %d", len(migrations), count)
	}
}

func TestConnectionPool_Ping(t *testing.T) {
	pool := newTestPool(t)

	if err := pool.Ping(context.Background()); err != nil {
		t.Errorf("ping failed: %v", err)
	}
}

func TestConnectionPool_WithTransactionRollsBackOnError(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	seedUser(t, pool, "user-1", "alice@example.com")

	failure := context.Canceled
	err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, execErr := tx.Exec(`DELETE FROM users WHERE id = ?`, "user-1"); execErr != nil {
			return execErr
		}
		return failure
	})
	if err == nil {
		t.Fatal("expected transaction error")
	}

	if _, err := NewUserRepository(pool).GetUser(ctx, "user-1"); err != nil {
		t.Errorf("expected user to survive rollback, got %v", err)
	}
}
