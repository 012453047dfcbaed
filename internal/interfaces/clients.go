// Package interfaces defines service contracts for Divvy
package interfaces

import (
	"context"

	"github.com/avaldsgard/divvy/internal/models"
)

// QuoteClient provides access to the external market data provider.
type QuoteClient interface {
	// GetQuote retrieves the current quote for a single ticker. Fields the
	// provider omits are nil on the returned Quote. Failures are returned
	// as errors and never panic past the client boundary.
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)
}
