package holdings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/avaldsgard/divvy/internal/interfaces"
	"github.com/avaldsgard/divvy/internal/models"
)

// Sync refreshes the selected holdings from the quote provider and persists
// the result in exactly one whole-table write. A failing ticker is recorded
// and skipped; its stored row carries over unchanged. Cancellation between
// tickers aborts the run before any write.
func (s *Service) Sync(ctx context.Context, opts interfaces.SyncOptions) (*models.SyncReport, error) {
	table, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings: %w", err)
	}

	targets := opts.Tickers
	if len(targets) == 0 {
		targets = table.Tickers()
	}

	discountPct := opts.DiscountPct
	if discountPct == 0 {
		discountPct = s.config.DiscountPct
	}

	report := &models.SyncReport{
		RunID:   uuid.New().String(),
		Started: s.now(),
	}

	s.logger.Info().
		Str("run_id", report.RunID).
		Int("tickers", len(targets)).
		Float64("discount_pct", discountPct).
		Msg("Starting holdings sync")

	limiter := rate.NewLimiter(rate.Every(s.config.RequestInterval), 1)

	for i, raw := range targets {
		if err := ctx.Err(); err != nil {
			s.logger.Warn().
				Str("run_id", report.RunID).
				Int("completed", i).
				Msg("Sync cancelled, discarding run")
			return nil, fmt.Errorf("sync cancelled: %w", err)
		}

		ticker := models.NormalizeTicker(raw)
		if ticker == "" {
			continue
		}

		if opts.Progress != nil {
			opts.Progress(models.SyncProgress{
				Index:  i + 1,
				Total:  len(targets),
				Ticker: ticker,
			})
		}

		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("sync cancelled: %w", err)
		}

		quote, err := s.quotes.GetQuote(ctx, ticker)
		if err != nil {
			s.logger.Warn().
				Str("run_id", report.RunID).
				Str("ticker", ticker).
				Err(err).
				Msg("Quote fetch failed, keeping stored row")
			report.Failed = append(report.Failed, ticker)
			continue
		}

		existing := table.Get(ticker)
		h := Resolve(ticker, quote, existing, nil)
		h = s.revalue(h, discountPct)
		table.Upsert(h)
		report.Succeeded = append(report.Succeeded, ticker)
	}

	var writeOpts []interfaces.WriteOption
	if opts.ConfirmReduction {
		writeOpts = append(writeOpts, interfaces.WithConfirmedReduction())
	}
	if err := s.store.ReplaceAll(ctx, table, writeOpts...); err != nil {
		return nil, fmt.Errorf("failed to persist sync result: %w", err)
	}

	report.Table = table
	report.Finished = s.now()

	s.logger.Info().
		Str("run_id", report.RunID).
		Int("succeeded", len(report.Succeeded)).
		Int("failed", len(report.Failed)).
		Msg("Holdings sync complete")

	return report, nil
}
