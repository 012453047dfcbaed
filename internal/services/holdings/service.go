// Package holdings implements the dividend holdings engine: merge, valuation,
// classification, and batch synchronization against the record store.
package holdings

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/avaldsgard/divvy/internal/common"
	"github.com/avaldsgard/divvy/internal/interfaces"
	"github.com/avaldsgard/divvy/internal/models"
)

// ServiceConfig carries the engine tunables resolved from configuration.
type ServiceConfig struct {
	// DiscountPct is the default target-price discount below the 52-week
	// high, in [1,10].
	DiscountPct float64

	// RequestInterval is the mandatory minimum delay between consecutive
	// provider calls during a sync run.
	RequestInterval time.Duration
}

// Service implements HoldingService.
type Service struct {
	store      interfaces.HoldingStore
	quotes     interfaces.QuoteClient
	classifier *Classifier
	config     ServiceConfig
	logger     *common.Logger
	now        func() time.Time // injectable clock for testing
}

// NewService creates the holdings engine service.
func NewService(store interfaces.HoldingStore, quotes interfaces.QuoteClient, classifier *Classifier, config ServiceConfig, logger *common.Logger) *Service {
	if config.RequestInterval <= 0 {
		config.RequestInterval = 500 * time.Millisecond
	}
	config.DiscountPct = common.ClampDiscountPct(config.DiscountPct)

	return &Service{
		store:      store,
		quotes:     quotes,
		classifier: classifier,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// revalue recomputes derived fields and classifies the row. Every path that
// persists a row goes through here first.
func (s *Service) revalue(h models.Holding, discountPct float64) models.Holding {
	h = Compute(h, discountPct)
	h.Recommendation = s.classifier.Classify(h.UpsidePct)
	return h
}

// List returns holdings matching the filter, sorted by upside % descending.
func (s *Service) List(ctx context.Context, filter interfaces.HoldingFilter) ([]models.Holding, error) {
	table, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings: %w", err)
	}

	var out []models.Holding
	for _, h := range table.Rows {
		if filter.OwnedOnly && !h.Owned {
			continue
		}
		if h.DividendYieldPct < filter.MinDividendYieldPct {
			continue
		}
		if len(filter.Recommendations) > 0 && !containsRecommendation(filter.Recommendations, h.Recommendation) {
			continue
		}
		out = append(out, h)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpsidePct > out[j].UpsidePct
	})

	return out, nil
}

func containsRecommendation(set []models.Recommendation, r models.Recommendation) bool {
	for _, v := range set {
		if v == r {
			return true
		}
	}
	return false
}

// Get returns one holding by ticker.
func (s *Service) Get(ctx context.Context, ticker string) (*models.Holding, error) {
	table, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings: %w", err)
	}

	h := table.Get(ticker)
	if h == nil {
		return nil, models.ErrNotFound
	}
	row := *h
	return &row, nil
}

// UpsertManual creates or edits a holding from user-entered values without
// touching the fetcher. Provided fields overwrite the stored row; omitted
// fields are retained. Derived fields are recomputed before the write.
func (s *Service) UpsertManual(ctx context.Context, ticker string, input models.ManualInput) (*models.Holding, error) {
	ticker = models.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	table, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings: %w", err)
	}

	var h models.Holding
	created := false
	if existing := table.Get(ticker); existing != nil {
		h = *existing
	} else {
		h = models.Holding{Ticker: ticker, DividendSource: models.DividendSourceManual}
		created = true
	}

	if input.CompanyName != nil {
		h.CompanyName = *input.CompanyName
	}
	if input.Currency != nil {
		h.Currency = models.NormalizeCurrency(*input.Currency)
	} else if h.Currency == "" {
		h.Currency = models.NormalizeCurrency("")
	}
	if input.AnnualDividend != nil {
		h.AnnualDividend = nonNegative(*input.AnnualDividend)
		h.DividendSource = models.DividendSourceManual
	}
	if input.Owned != nil {
		h.Owned = *input.Owned
	}
	if input.Price != nil {
		h.Price = nonNegative(*input.Price)
	}
	if input.FiftyTwoWeekHigh != nil {
		h.FiftyTwoWeekHigh = nonNegative(*input.FiftyTwoWeekHigh)
	}
	if input.EPSTrailing != nil {
		h.EPSTrailing = *input.EPSTrailing
	}
	if input.EPSForward != nil {
		h.EPSForward = *input.EPSForward
	}

	h.LastUpdated = s.now()
	h = s.revalue(h, s.config.DiscountPct)
	table.Upsert(h)

	if err := s.store.ReplaceAll(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to persist holdings: %w", err)
	}

	s.logger.Info().
		Str("ticker", ticker).
		Bool("created", created).
		Msg("Holding saved from manual input")

	return &h, nil
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Delete removes a holding. The shrinking whole-table write carries an
// explicit reduction confirmation for the persistence guard.
func (s *Service) Delete(ctx context.Context, ticker string) error {
	table, err := s.store.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read holdings: %w", err)
	}

	if !table.Remove(ticker) {
		return models.ErrNotFound
	}

	if err := s.store.ReplaceAll(ctx, table, interfaces.WithConfirmedReduction()); err != nil {
		return fmt.Errorf("failed to persist holdings: %w", err)
	}

	s.logger.Info().Str("ticker", models.NormalizeTicker(ticker)).Msg("Holding deleted")
	return nil
}

// Ensure Service implements HoldingService
var _ interfaces.HoldingService = (*Service)(nil)
