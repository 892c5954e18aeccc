package spread

import (
	"sort"

	"github.com/DJBrause/MarketSpreadSniper/internal/domain"
)

// UnknownName is attached to rows whose type ID has no entry in the name
// lookup.
const UnknownName = "unknown"

// BuildTable joins the two best-price maps into the final spread table.
//
// The join is a full outer join on type ID: every type present on either side
// appears exactly once before filtering. A missing side contributes a price
// of 0, not an excluded row, so a type with bids but no asks yields
// spread = -buy and falls to any positive threshold. Rows are retained iff
// spread >= minSpread (inclusive) and returned sorted by ascending type ID.
func BuildTable(bestSell, bestBuy map[int64]domain.BestPrice, minSpread float64, names map[int64]string) []domain.SpreadRow {
	ids := make(map[int64]struct{}, len(bestSell)+len(bestBuy))
	for id := range bestSell {
		ids[id] = struct{}{}
	}
	for id := range bestBuy {
		ids[id] = struct{}{}
	}

	rows := make([]domain.SpreadRow, 0, len(ids))
	for id := range ids {
		var sell, buy float64
		if bp, ok := bestSell[id]; ok {
			sell = bp.Price
		}
		if bp, ok := bestBuy[id]; ok {
			buy = bp.Price
		}
		sp := sell - buy
		if sp < minSpread {
			continue
		}
		name := names[id]
		if name == "" {
			name = UnknownName
		}
		rows = append(rows, domain.SpreadRow{
			TypeID:    id,
			Name:      name,
			SellPrice: sell,
			BuyPrice:  buy,
			Spread:    sp,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].TypeID < rows[j].TypeID })
	return rows
}
