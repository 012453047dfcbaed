package surrealdb

import (
	"github.com/surrealdb/surrealdb.go"
)

// Test-only bridges so the external test package can reach the stored row
// shape and the store's underlying connection.
type HoldingRecord = holdingRecord

// StoreDB exposes the store's connection for fault injection in tests.
func StoreDB(s *HoldingStore) *surrealdb.DB {
	return s.db
}
