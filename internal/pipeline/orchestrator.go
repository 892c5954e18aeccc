// Package pipeline runs the spread pipeline across the configured trade
// regions: fetch both order-book sides, reduce them to best prices at the
// region's hub station, and join them into the spread table.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/DJBrause/MarketSpreadSniper/internal/domain"
	"github.com/DJBrause/MarketSpreadSniper/internal/spread"
)

// OrderFetcher retrieves one side of a region's order book.
type OrderFetcher interface {
	FetchOrders(ctx context.Context, regionID int64, side domain.OrderSide) ([]domain.Order, error)
}

// NameResolver maps type IDs to display names. IDs that cannot be resolved
// are absent from the result.
type NameResolver interface {
	ResolveNames(ctx context.Context, typeIDs []int64) (map[int64]string, error)
}

// Orchestrator coordinates one pipeline run over all configured regions.
type Orchestrator struct {
	fetcher     OrderFetcher
	names       NameResolver
	regions     []domain.Region
	minSpread   float64
	concurrency int
	logger      *slog.Logger
}

// New creates an Orchestrator. concurrency bounds how many regions run at
// once; values below 1 are treated as 1.
func New(fetcher OrderFetcher, names NameResolver, regions []domain.Region, minSpread float64, concurrency int, logger *slog.Logger) *Orchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Orchestrator{
		fetcher:     fetcher,
		names:       names,
		regions:     regions,
		minSpread:   minSpread,
		concurrency: concurrency,
		logger:      logger.With(slog.String("component", "pipeline")),
	}
}

// Run executes the pipeline once for every configured region and returns the
// collected report. A region failure is recorded in the report and logged;
// it never aborts the remaining regions. Run returns an error only when the
// context is cancelled or every region failed.
func (o *Orchestrator) Run(ctx context.Context) (*domain.RunReport, error) {
	report := domain.NewRunReport(uuid.NewString())
	logger := o.logger.With(slog.String("run_id", report.RunID))

	logger.InfoContext(ctx, "starting spread run",
		slog.Int("regions", len(o.regions)),
		slog.Float64("min_spread", o.minSpread),
	)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(o.concurrency)

	for _, region := range o.regions {
		g.Go(func() error {
			rows, err := o.runRegion(ctx, region)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.ErrorContext(ctx, "region failed",
					slog.String("region", region.Name),
					slog.String("error", err.Error()),
				)
				report.Failed[region.Name] = err
				return nil
			}
			report.Results[region.Name] = rows
			logger.InfoContext(ctx, "region complete",
				slog.String("region", region.Name),
				slog.Int("rows", len(rows)),
			)
			return nil
		})
	}

	_ = g.Wait()
	report.FinishedAt = time.Now().UTC()

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if report.AllFailed() {
		return report, fmt.Errorf("pipeline: %w: %v", domain.ErrAllRegionsFailed, report.FailedNames())
	}

	logger.Info("spread run complete",
		slog.Int("succeeded", len(report.Results)),
		slog.Int("failed", len(report.Failed)),
		slog.Int("rows", report.TotalRows()),
		slog.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)

	return report, nil
}

// runRegion executes the fetch-reduce-join pipeline for a single region.
func (o *Orchestrator) runRegion(ctx context.Context, region domain.Region) ([]domain.SpreadRow, error) {
	if region.StationID == 0 {
		return nil, fmt.Errorf("region %s: %w", region.Name, domain.ErrNoStation)
	}

	sells, err := o.fetcher.FetchOrders(ctx, region.RegionID, domain.SideSell)
	if err != nil {
		return nil, fmt.Errorf("region %s: sell orders: %w", region.Name, err)
	}
	buys, err := o.fetcher.FetchOrders(ctx, region.RegionID, domain.SideBuy)
	if err != nil {
		return nil, fmt.Errorf("region %s: buy orders: %w", region.Name, err)
	}

	bestSell := spread.BestPrices(sells, region.StationID, domain.SideSell)
	bestBuy := spread.BestPrices(buys, region.StationID, domain.SideBuy)

	names, err := o.names.ResolveNames(ctx, joinedTypeIDs(bestSell, bestBuy))
	if err != nil {
		// Names are cosmetic; missing ones render as the unknown sentinel.
		o.logger.WarnContext(ctx, "name resolution failed",
			slog.String("region", region.Name),
			slog.String("error", err.Error()),
		)
		names = nil
	}

	return spread.BuildTable(bestSell, bestBuy, o.minSpread, names), nil
}

// joinedTypeIDs returns the union of type IDs present on either side.
func joinedTypeIDs(bestSell, bestBuy map[int64]domain.BestPrice) []int64 {
	seen := make(map[int64]struct{}, len(bestSell)+len(bestBuy))
	ids := make([]int64, 0, len(bestSell)+len(bestBuy))
	for id := range bestSell {
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for id := range bestBuy {
		if _, ok := seen[id]; !ok {
			ids = append(ids, id)
		}
	}
	return ids
}
