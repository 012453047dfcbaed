// Package interfaces defines service contracts for Divvy
package interfaces

import (
	"context"

	"github.com/avaldsgard/divvy/internal/models"
)

// HoldingService is the engine surface consumed by the UI layer.
type HoldingService interface {
	// List returns holdings matching the filter, sorted by upside %
	// descending.
	List(ctx context.Context, filter HoldingFilter) ([]models.Holding, error)

	// Get returns one holding, or models.ErrNotFound.
	Get(ctx context.Context, ticker string) (*models.Holding, error)

	// UpsertManual creates or edits a holding from user-entered values,
	// bypassing the fetcher. Derived fields are recomputed before the row
	// is persisted.
	UpsertManual(ctx context.Context, ticker string, input models.ManualInput) (*models.Holding, error)

	// Delete removes a holding. The resulting whole-table write carries an
	// explicit reduction confirmation.
	Delete(ctx context.Context, ticker string) error

	// Sync runs the batch synchronization pipeline over the requested
	// tickers (all tickers in the table when none are given) and performs
	// exactly one guarded whole-table write at the end.
	Sync(ctx context.Context, opts SyncOptions) (*models.SyncReport, error)
}

// HoldingFilter narrows List results.
type HoldingFilter struct {
	Recommendations     []models.Recommendation
	OwnedOnly           bool
	MinDividendYieldPct float64
}

// SyncOptions configures one batch synchronization run.
type SyncOptions struct {
	// Tickers selects the subset to refresh; empty means every row.
	Tickers []string

	// DiscountPct is the target-price discount below the 52-week high,
	// clamped to [1,10]. Zero means "use the configured default".
	DiscountPct float64

	// ConfirmReduction authorizes the final write even when the refreshed
	// table has fewer rows than last read.
	ConfirmReduction bool

	// Progress, when non-nil, is invoked once per ticker before its fetch.
	Progress func(models.SyncProgress)
}
