package surrealdb_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	surreal "github.com/surrealdb/surrealdb.go"

	"github.com/avaldsgard/divvy/internal/common"
	storage "github.com/avaldsgard/divvy/internal/storage/surrealdb"
	tcommon "github.com/avaldsgard/divvy/tests/common"
)

// testDB starts the shared SurrealDB container and returns a connected
// *surreal.DB using a unique database name per test to ensure isolation.
func testDB(t *testing.T) *surreal.DB {
	t.Helper()

	sc := tcommon.StartSurrealDB(t)
	ctx := context.Background()

	db, err := surreal.New(sc.Address())
	if err != nil {
		t.Fatalf("connect to SurrealDB: %v", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": "root",
		"pass": "root",
	}); err != nil {
		t.Fatalf("sign in to SurrealDB: %v", err)
	}

	// Use a unique database per test for isolation. Sanitize t.Name()
	// because subtests produce names like "Test/subtest" and SurrealDB
	// rejects "/" in database names.
	sanitized := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dbName := fmt.Sprintf("t_%s_%d", sanitized, time.Now().UnixNano()%100000)
	if err := db.Use(ctx, "divvy_test", dbName); err != nil {
		t.Fatalf("select namespace/database: %v", err)
	}

	t.Cleanup(func() {
		db.Close(context.Background())
	})

	return db
}

// testStore creates a HoldingStore on a fresh database with the table defined.
func testStore(t *testing.T) *storage.HoldingStore {
	t.Helper()

	db := testDB(t)
	ctx := context.Background()

	if _, err := surreal.Query[any](ctx, db, "DEFINE TABLE IF NOT EXISTS holding SCHEMALESS", nil); err != nil {
		t.Fatalf("define table: %v", err)
	}

	return storage.NewHoldingStore(db, testLogger(), "holding")
}

// testLogger returns a silent logger for tests.
func testLogger() *common.Logger {
	return common.NewSilentLogger()
}
