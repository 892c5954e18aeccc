package domain

import (
	"sort"
	"time"
)

// BestPrice is the most favorable standing order for one item on one side of
// the book at the trade station: the minimum ask or the maximum bid. OrderID
// identifies the winning order and doubles as the tie-break on equal prices.
type BestPrice struct {
	TypeID  int64
	OrderID int64
	Price   float64
}

// SpreadRow is one line of the final report: the joined best prices for an
// item and their difference. A side with no orders at the station contributes
// a price of 0 rather than dropping the row.
type SpreadRow struct {
	TypeID    int64
	Name      string
	SellPrice float64
	BuyPrice  float64
	Spread    float64
}

// Region ties a display name to its ESI region and trade-hub station.
type Region struct {
	Name      string
	RegionID  int64
	StationID int64
}

// RunReport collects the outcome of one pipeline run: spread rows per region
// plus the errors of regions that failed. It is built fresh each run and
// never persisted between runs except as the output workbook.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    map[string][]SpreadRow
	Failed     map[string]error
}

// NewRunReport returns an empty report for the given run ID.
func NewRunReport(runID string) *RunReport {
	return &RunReport{
		RunID:     runID,
		StartedAt: time.Now().UTC(),
		Results:   make(map[string][]SpreadRow),
		Failed:    make(map[string]error),
	}
}

// AllFailed reports whether no region produced a result.
func (r *RunReport) AllFailed() bool {
	return len(r.Results) == 0 && len(r.Failed) > 0
}

// RegionNames returns the names of successful regions in sorted order, so
// report sheets and log lines come out deterministic.
func (r *RunReport) RegionNames() []string {
	names := make([]string, 0, len(r.Results))
	for name := range r.Results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FailedNames returns the names of failed regions in sorted order.
func (r *RunReport) FailedNames() []string {
	names := make([]string, 0, len(r.Failed))
	for name := range r.Failed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TotalRows returns the number of spread rows across all regions.
func (r *RunReport) TotalRows() int {
	n := 0
	for _, rows := range r.Results {
		n += len(rows)
	}
	return n
}
