package report

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/DJBrause/MarketSpreadSniper/internal/domain"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleReport() *domain.RunReport {
	rep := domain.NewRunReport("test-run")
	rep.StartedAt = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rep.FinishedAt = rep.StartedAt.Add(time.Minute)
	rep.Results["Domain"] = []domain.SpreadRow{
		{TypeID: 34, Name: "Tritanium", SellPrice: 100, BuyPrice: 80, Spread: 20},
		{TypeID: 35, Name: "Pyerite", SellPrice: 60, BuyPrice: 10, Spread: 50},
	}
	rep.Results["The Forge"] = []domain.SpreadRow{
		{TypeID: 36, Name: "Mexallon", SellPrice: 500, BuyPrice: 100, Spread: 400},
	}
	rep.Failed["Heimatar"] = errors.New("esi is down")
	return rep
}

func TestWriterWrite(t *testing.T) {
	w := NewWriter(t.TempDir(), discard())

	path, err := w.Write(sampleReport())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	t.Run("has one sheet per successful region plus summary", func(t *testing.T) {
		sheets := f.GetSheetList()
		want := map[string]bool{"Summary": true, "Domain": true, "The Forge": true}
		if len(sheets) != len(want) {
			t.Fatalf("sheets = %v, want %v", sheets, want)
		}
		for _, s := range sheets {
			if !want[s] {
				t.Errorf("unexpected sheet %q", s)
			}
		}
	})

	t.Run("region sheet holds header and rows", func(t *testing.T) {
		rows, err := f.GetRows("Domain")
		if err != nil {
			t.Fatalf("GetRows: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("len(rows) = %d, want 3 (header + 2)", len(rows))
		}
		if rows[0][0] != "TypeID" || rows[0][4] != "Spread" {
			t.Errorf("header = %v", rows[0])
		}
		if rows[1][1] != "Tritanium" || rows[1][4] != "20" {
			t.Errorf("first data row = %v, want Tritanium spread 20", rows[1])
		}
	})

	t.Run("summary lists the failed region", func(t *testing.T) {
		rows, err := f.GetRows("Summary")
		if err != nil {
			t.Fatalf("GetRows: %v", err)
		}
		found := false
		for _, row := range rows {
			if len(row) >= 3 && row[0] == "Heimatar" && row[2] == "esi is down" {
				found = true
			}
		}
		if !found {
			t.Errorf("summary rows %v do not list the Heimatar failure", rows)
		}
	})
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Domain", "Domain"},
		{"A/B:C", "A-B-C"},
		{"This region name is far too long to be a sheet", "This region name is far too lon"},
	}
	for _, tt := range tests {
		if got := sheetName(tt.in); got != tt.want {
			t.Errorf("sheetName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
