// Package surrealdb implements the holdings record store on SurrealDB.
package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/avaldsgard/divvy/internal/common"
	"github.com/avaldsgard/divvy/internal/interfaces"
)

// Manager owns the SurrealDB connection handle and hands out stores bound
// to it. The handle is constructed once and passed by reference; there is
// no ambient global connection.
type Manager struct {
	db           *surrealdb.DB
	logger       *common.Logger
	holdingStore *HoldingStore
}

// NewManager connects to SurrealDB and prepares the holdings table.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Username,
		"pass": config.Storage.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Storage.Namespace, config.Storage.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	table := config.Storage.Table
	if table == "" {
		table = "holding"
	}

	// SurrealDB v3 errors on querying non-existent tables
	sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
	if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
		return nil, fmt.Errorf("failed to define table %s: %w", table, err)
	}

	m := &Manager{
		db:           db,
		logger:       logger,
		holdingStore: NewHoldingStore(db, logger, table),
	}

	logger.Info().
		Str("address", config.Storage.Address).
		Str("namespace", config.Storage.Namespace).
		Str("database", config.Storage.Database).
		Str("table", table).
		Msg("SurrealDB storage manager initialized")

	return m, nil
}

// HoldingStore returns the holdings record store.
func (m *Manager) HoldingStore() interfaces.HoldingStore {
	return m.holdingStore
}

// Close releases the database connection.
func (m *Manager) Close() error {
	m.db.Close(context.Background())
	return nil
}
