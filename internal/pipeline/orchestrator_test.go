package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DJBrause/MarketSpreadSniper/internal/domain"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFetcher serves canned order books keyed by region and side.
type fakeFetcher struct {
	orders map[int64]map[domain.OrderSide][]domain.Order
	errs   map[int64]error
}

func (f *fakeFetcher) FetchOrders(ctx context.Context, regionID int64, side domain.OrderSide) ([]domain.Order, error) {
	if err := f.errs[regionID]; err != nil {
		return nil, err
	}
	return f.orders[regionID][side], nil
}

func staticNames(names map[int64]string) *NameService {
	return NewNameService(names, nil, nil, discard())
}

func TestOrchestratorRun(t *testing.T) {
	const station int64 = 60008494

	t.Run("end to end region scenario", func(t *testing.T) {
		fetcher := &fakeFetcher{orders: map[int64]map[domain.OrderSide][]domain.Order{
			10000043: {
				domain.SideSell: {
					{OrderID: 1, TypeID: 1, LocationID: station, Price: 100},
					{OrderID: 2, TypeID: 1, LocationID: 99, Price: 90},
				},
				domain.SideBuy: {
					{OrderID: 3, TypeID: 1, LocationID: station, Price: 80, IsBuyOrder: true},
				},
			},
		}}
		regions := []domain.Region{{Name: "Domain", RegionID: 10000043, StationID: station}}

		o := New(fetcher, staticNames(map[int64]string{1: "Tritanium"}), regions, 10, 1, discard())

		report, err := o.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}

		rows := report.Results["Domain"]
		if len(rows) != 1 {
			t.Fatalf("len(rows) = %d, want 1", len(rows))
		}
		row := rows[0]
		// The 90 ISK ask sits at another station and must not win.
		if row.SellPrice != 100 || row.BuyPrice != 80 || row.Spread != 20 {
			t.Errorf("row = %+v, want sell 100 buy 80 spread 20", row)
		}
		if row.Name != "Tritanium" {
			t.Errorf("row.Name = %q, want Tritanium", row.Name)
		}
	})

	t.Run("region failure does not abort the others", func(t *testing.T) {
		fetchErr := errors.New("esi is down")
		fetcher := &fakeFetcher{
			orders: map[int64]map[domain.OrderSide][]domain.Order{
				10000002: {
					domain.SideSell: {{OrderID: 1, TypeID: 34, LocationID: 60003760, Price: 5}},
				},
			},
			errs: map[int64]error{10000043: fetchErr},
		}
		regions := []domain.Region{
			{Name: "Domain", RegionID: 10000043, StationID: 60008494},
			{Name: "The Forge", RegionID: 10000002, StationID: 60003760},
		}

		o := New(fetcher, staticNames(nil), regions, 0, 1, discard())

		report, err := o.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v (partial runs must not error)", err)
		}
		if _, ok := report.Results["The Forge"]; !ok {
			t.Error("The Forge missing from results")
		}
		if !errors.Is(report.Failed["Domain"], fetchErr) {
			t.Errorf("Failed[Domain] = %v, want wrapped fetch error", report.Failed["Domain"])
		}
	})

	t.Run("all regions failing errors the run", func(t *testing.T) {
		fetcher := &fakeFetcher{errs: map[int64]error{10000043: errors.New("boom")}}
		regions := []domain.Region{{Name: "Domain", RegionID: 10000043, StationID: 60008494}}

		o := New(fetcher, staticNames(nil), regions, 0, 1, discard())

		report, err := o.Run(context.Background())
		if !errors.Is(err, domain.ErrAllRegionsFailed) {
			t.Fatalf("err = %v, want ErrAllRegionsFailed", err)
		}
		if !report.AllFailed() {
			t.Error("report.AllFailed() = false, want true")
		}
	})

	t.Run("missing station fails the region immediately", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		regions := []domain.Region{{Name: "Domain", RegionID: 10000043}}

		o := New(fetcher, staticNames(nil), regions, 0, 1, discard())

		report, _ := o.Run(context.Background())
		if !errors.Is(report.Failed["Domain"], domain.ErrNoStation) {
			t.Errorf("Failed[Domain] = %v, want ErrNoStation", report.Failed["Domain"])
		}
	})

	t.Run("regions run concurrently without racing the report", func(t *testing.T) {
		orders := map[int64]map[domain.OrderSide][]domain.Order{}
		var regions []domain.Region
		for i := int64(1); i <= 8; i++ {
			orders[i] = map[domain.OrderSide][]domain.Order{
				domain.SideSell: {{OrderID: i, TypeID: 34, LocationID: 100 + i, Price: 10}},
			}
			regions = append(regions, domain.Region{Name: string(rune('A' + i)), RegionID: i, StationID: 100 + i})
		}

		o := New(&fakeFetcher{orders: orders}, staticNames(nil), regions, 0, 4, discard())

		report, err := o.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(report.Results) != 8 {
			t.Errorf("len(Results) = %d, want 8", len(report.Results))
		}
	})
}
