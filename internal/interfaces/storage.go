// Package interfaces defines service contracts for Divvy
package interfaces

import (
	"context"

	"github.com/avaldsgard/divvy/internal/models"
)

// HoldingStore reads and writes the holdings table as a whole. The remote
// store exposes no row-level operations; every write is a full snapshot
// replace.
type HoldingStore interface {
	// ReadAll returns the entire table with the canonical column schema
	// enforced. An unreachable store yields an empty table, not an error:
	// callers must treat an empty result as "no data", never "store wiped".
	ReadAll(ctx context.Context) (*models.HoldingTable, error)

	// ReplaceAll overwrites the remote content with the given table. It
	// fails loudly on any storage error, and refuses with
	// models.ErrRowCountRegression when the outgoing row count is smaller
	// than the count last read unless WithConfirmedReduction is passed.
	ReplaceAll(ctx context.Context, table *models.HoldingTable, opts ...WriteOption) error

	// LastReadCount reports the row count observed by the most recent
	// successful ReadAll, used by the persistence guard.
	LastReadCount() int

	Close() error
}

// WriteOption configures a whole-table write.
type WriteOption func(*WriteParams)

// WriteParams holds write configuration.
type WriteParams struct {
	ConfirmReduction bool
}

// WithConfirmedReduction acknowledges that the outgoing table legitimately
// has fewer rows than were last read (e.g. an explicit delete).
func WithConfirmedReduction() WriteOption {
	return func(p *WriteParams) {
		p.ConfirmReduction = true
	}
}
