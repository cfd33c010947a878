package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// MySQL stores values in a two-column kv table.
type MySQL struct {
	db *sql.DB
}

// NewMySQL opens dsn (go-sql-driver format), pings, and creates the kv table if needed.
func NewMySQL(ctx context.Context, dsn string) (*MySQL, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS kv (\n"+
		"  `key` VARCHAR(191) PRIMARY KEY,\n"+
		"  value LONGTEXT NOT NULL\n"+
		")")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	return &MySQL{db: db}, nil
}

// Get implements Store.
func (m *MySQL) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := m.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE `key` = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mysql get %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set implements Store.
func (m *MySQL) Set(ctx context.Context, key string, value []byte) error {
	_, err := m.db.ExecContext(ctx,
		"INSERT INTO kv (`key`, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)",
		key, string(value))
	if err != nil {
		return fmt.Errorf("mysql set %s: %w", key, err)
	}
	return nil
}

// Close implements Store.
func (m *MySQL) Close() error { return m.db.Close() }
