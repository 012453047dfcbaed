package surrealdb

import (
	"context"
	"fmt"
	"sync"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/avaldsgard/divvy/internal/common"
	"github.com/avaldsgard/divvy/internal/interfaces"
	"github.com/avaldsgard/divvy/internal/models"
)

// holdingRecord is the stored shape of one row: the ticker key plus the
// stringified cells. The store itself enforces no schema; the typed record
// is rebuilt by models.HoldingFromCells on every read.
type holdingRecord struct {
	ID     *surrealmodels.RecordID `json:"id,omitempty"`
	Ticker string                  `json:"ticker"`
	Cells  map[string]string       `json:"cells"`
}

// HoldingStore persists the holdings table as whole-table snapshots.
type HoldingStore struct {
	db     *surrealdb.DB
	logger *common.Logger
	table  string

	mu            sync.Mutex
	lastReadCount int
}

// NewHoldingStore creates a holdings store bound to an open connection.
func NewHoldingStore(db *surrealdb.DB, logger *common.Logger, table string) *HoldingStore {
	return &HoldingStore{
		db:     db,
		logger: logger,
		table:  table,
	}
}

// ReadAll loads every row, coercing each into the canonical schema. An
// unreachable or failing store yields an empty table: callers must treat
// that as "no data", never as a wiped store. A failed read leaves the
// guard's remembered row count untouched, so a write of the empty result
// still trips the regression check.
func (s *HoldingStore) ReadAll(ctx context.Context) (*models.HoldingTable, error) {
	table := models.NewHoldingTable()

	sql := fmt.Sprintf("SELECT * FROM %s ORDER BY ticker", s.table)
	results, err := surrealdb.Query[[]holdingRecord](ctx, s.db, sql, nil)
	if err != nil {
		s.logger.Warn().Err(err).Str("table", s.table).Msg("Holdings store unreachable, returning empty table")
		return table, nil
	}

	if results != nil && len(*results) > 0 {
		for _, rec := range (*results)[0].Result {
			h := models.HoldingFromCells(rec.Cells)
			if h.Ticker == "" {
				// A row without a key cannot participate in upserts; drop it.
				s.logger.Warn().Str("table", s.table).Msg("Skipping stored row with empty ticker")
				continue
			}
			table.Upsert(h)
		}
	}

	s.setLastReadCount(table.Len())

	s.logger.Debug().Int("rows", table.Len()).Msg("Holdings table read")
	return table, nil
}

// ReplaceAll overwrites the remote table with a full snapshot of the given
// table. The row-count guard blocks writes that would shrink the table
// relative to the last read unless the reduction is explicitly confirmed.
func (s *HoldingStore) ReplaceAll(ctx context.Context, table *models.HoldingTable, opts ...interfaces.WriteOption) error {
	params := &interfaces.WriteParams{}
	for _, opt := range opts {
		opt(params)
	}

	lastRead := s.LastReadCount()
	if table.Len() < lastRead && !params.ConfirmReduction {
		return fmt.Errorf("refusing to write %d rows over %d previously read: %w",
			table.Len(), lastRead, models.ErrRowCountRegression)
	}

	// Snapshot replace: clear the table, then re-insert every row. The
	// store offers no partial write, so any failure here is loud.
	if _, err := surrealdb.Query[any](ctx, s.db, fmt.Sprintf("DELETE %s", s.table), nil); err != nil {
		return fmt.Errorf("failed to clear holdings table: %w", err)
	}

	for i := range table.Rows {
		h := table.Rows[i]
		rec := holdingRecord{
			Ticker: h.Ticker,
			Cells:  h.Cells(),
		}

		sql := "UPSERT $rid CONTENT $data"
		vars := map[string]any{
			"rid":  surrealmodels.NewRecordID(s.table, h.Ticker),
			"data": rec,
		}

		var lastErr error
		for attempt := 1; attempt <= 3; attempt++ {
			_, err := surrealdb.Query[[]holdingRecord](ctx, s.db, sql, vars)
			if err == nil {
				lastErr = nil
				break
			}
			lastErr = err
		}
		if lastErr != nil {
			return fmt.Errorf("failed to write row %s after retries: %w", h.Ticker, lastErr)
		}
	}

	s.setLastReadCount(table.Len())

	s.logger.Info().
		Int("rows", table.Len()).
		Bool("confirmed_reduction", params.ConfirmReduction).
		Msg("Holdings table replaced")

	return nil
}

// LastReadCount reports the row count seen by the latest successful read.
func (s *HoldingStore) LastReadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReadCount
}

func (s *HoldingStore) setLastReadCount(n int) {
	s.mu.Lock()
	s.lastReadCount = n
	s.mu.Unlock()
}

// Close is a no-op; the connection is owned by the Manager.
func (s *HoldingStore) Close() error {
	return nil
}

// Compile-time check
var _ interfaces.HoldingStore = (*HoldingStore)(nil)
