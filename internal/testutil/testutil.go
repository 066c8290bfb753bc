package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/shopverse/shopverse/internal/migrations"
	"github.com/shopverse/shopverse/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops every application table and re-applies the embedded
// migrations.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const drop = `
		DROP TABLE IF EXISTS user_sessions, order_items, orders, cart, products, users, goose_db_version CASCADE
	`
	if _, err := pool.Exec(ctx, drop); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := migrations.Apply(ctx, db); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

var seq atomic.Int64

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d-%d@example.com", prefix, time.Now().UnixNano(), seq.Add(1))
}

// NewTestUser creates a test user with sensible defaults. Password is stored
// as given; hash it first when the code under test expects an encoded value.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	return &model.User{
		Name:     "Test User",
		Email:    email,
		Password: "secret123",
		Phone:    "555-0100",
	}
}

// SeedProduct inserts a product and returns its ID.
func SeedProduct(ctx context.Context, pool *pgxpool.Pool, name string, price float64) (int64, error) {
	var id int64
	err := pool.QueryRow(ctx,
		`INSERT INTO products (name, price, image, stock) VALUES ($1, $2, $3, 10) RETURNING id`,
		name, price, name+".jpg",
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("seed product: %w", err)
	}
	return id, nil
}

// SeedItem is one line of a seeded order.
type SeedItem struct {
	ProductID int64
	Quantity  int
	Price     float64
}

// SeedOrder inserts an order with the given items and returns its ID.
// The total is computed from the items.
func SeedOrder(ctx context.Context, pool *pgxpool.Pool, userID int64, status string, createdAt time.Time, items ...SeedItem) (int64, error) {
	var total float64
	for _, it := range items {
		total += float64(it.Quantity) * it.Price
	}

	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO orders (user_id, total_amount, shipping_address, payment_method, status, created_at, updated_at)
		VALUES ($1, $2, '1 Test Street', 'card', $3, $4, $4)
		RETURNING id
	`, userID, total, status, createdAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("seed order: %w", err)
	}

	for _, it := range items {
		if _, err := pool.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4)`,
			id, it.ProductID, it.Quantity, it.Price,
		); err != nil {
			return 0, fmt.Errorf("seed order item: %w", err)
		}
	}

	return id, nil
}
