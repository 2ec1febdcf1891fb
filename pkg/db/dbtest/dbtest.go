// Package dbtest opens throwaway in-memory sqlite databases carrying the
// depot-sale schema for repository tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS gestionnaires (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  username TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS sellers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS buyers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS games (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  publisher TEXT NOT NULL,
  price NUMERIC NOT NULL DEFAULT 0,
  picture TEXT,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (name, publisher)
);`,
	`CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  status BOOLEAN NOT NULL DEFAULT 0,
  fees NUMERIC NOT NULL DEFAULT 0,
  commission NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS deposits (
  id TEXT PRIMARY KEY,
  deposit_date DATETIME NOT NULL,
  seller_id TEXT NOT NULL REFERENCES sellers(id),
  session_id TEXT NOT NULL REFERENCES sessions(id),
  discount_fees NUMERIC NOT NULL DEFAULT 0,
  tag TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS deposit_games (
  id TEXT PRIMARY KEY,
  deposit_id TEXT NOT NULL REFERENCES deposits(id) ON DELETE CASCADE,
  game_id TEXT NOT NULL REFERENCES games(id),
  fees NUMERIC NOT NULL DEFAULT 0,
  price NUMERIC NOT NULL DEFAULT 0,
  exemplaires TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS stocks (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL REFERENCES sessions(id),
  seller_id TEXT NOT NULL REFERENCES sellers(id),
  game_id TEXT NOT NULL REFERENCES games(id),
  initial_quantity INTEGER NOT NULL DEFAULT 0,
  current_quantity INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (session_id, seller_id, game_id)
);`,
	`CREATE TABLE IF NOT EXISTS sales (
  id TEXT PRIMARY KEY,
  buyer_id TEXT REFERENCES buyers(id) ON DELETE SET NULL,
  session_id TEXT NOT NULL REFERENCES sessions(id),
  sale_date DATETIME NOT NULL,
  sale_status TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS sale_details (
  id TEXT PRIMARY KEY,
  sale_id TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
  seller_id TEXT NOT NULL REFERENCES sellers(id),
  deposit_game_id TEXT NOT NULL REFERENCES deposit_games(id),
  quantity INTEGER NOT NULL,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS sales_operations (
  id TEXT PRIMARY KEY,
  sale_id TEXT NOT NULL UNIQUE REFERENCES sales(id) ON DELETE CASCADE,
  commission NUMERIC NOT NULL DEFAULT 0,
  sale_date DATETIME NOT NULL,
  sale_status TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
}

// Open returns a fresh in-memory database with every table created.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}
