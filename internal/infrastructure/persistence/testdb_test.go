package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory SQLite database with the ledger
// schema. The schema mirrors migrations/ with SQLite column types;
// batches.sequence is a plain integer here because tests assign it
// explicitly.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	schema := []string{
		`CREATE TABLE products (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT,
			unit TEXT NOT NULL,
			selling_price NUMERIC NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'active',
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE inwards (
			id TEXT PRIMARY KEY,
			inward_number TEXT NOT NULL UNIQUE,
			order_id TEXT,
			vendor_name TEXT NOT NULL,
			total_quantity NUMERIC NOT NULL DEFAULT 0,
			total_amount NUMERIC NOT NULL DEFAULT 0,
			billing_quantity NUMERIC NOT NULL DEFAULT 0,
			return_quantity NUMERIC NOT NULL DEFAULT 0,
			received_at DATETIME NOT NULL,
			received_by TEXT,
			remark TEXT,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE batches (
			id TEXT PRIMARY KEY,
			inward_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			batch_number TEXT NOT NULL,
			quantity NUMERIC NOT NULL,
			unused_quantity NUMERIC NOT NULL,
			billing_quantity NUMERIC NOT NULL DEFAULT 0,
			return_quantity NUMERIC NOT NULL DEFAULT 0,
			excess_quantity NUMERIC NOT NULL DEFAULT 0,
			unit_price NUMERIC NOT NULL,
			expiry_date DATETIME,
			received_at DATETIME NOT NULL,
			sequence INTEGER,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE stocks (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL UNIQUE,
			quantity NUMERIC NOT NULL DEFAULT 0,
			inward_quantity NUMERIC NOT NULL DEFAULT 0,
			billing_quantity NUMERIC NOT NULL DEFAULT 0,
			return_quantity NUMERIC NOT NULL DEFAULT 0,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
	}

	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}
