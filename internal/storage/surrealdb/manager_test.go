package surrealdb_test

import (
	"context"
	"testing"

	"github.com/avaldsgard/divvy/internal/common"
	"github.com/avaldsgard/divvy/internal/models"
	storage "github.com/avaldsgard/divvy/internal/storage/surrealdb"
	tcommon "github.com/avaldsgard/divvy/tests/common"
)

func TestManagerInitializesStore(t *testing.T) {
	sc := tcommon.StartSurrealDB(t)

	config := common.NewDefaultConfig()
	config.Storage.Address = sc.Address()
	config.Storage.Namespace = "divvy_test"
	config.Storage.Database = "t_manager"

	m, err := storage.NewManager(testLogger(), config)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer m.Close()

	store := m.HoldingStore()
	table := models.NewHoldingTable()
	table.Upsert(sampleHolding("ACME"))

	if err := store.ReplaceAll(context.Background(), table); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	got, err := store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if got.Len() != 1 {
		t.Errorf("Len = %d, want 1", got.Len())
	}
}
