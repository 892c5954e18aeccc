// Package spread contains the pure reduction steps that turn raw region
// order books into a per-item spread table: station filtering, best-price
// grouping, and the outer join with threshold filtering.
package spread

import "github.com/DJBrause/MarketSpreadSniper/internal/domain"

// BestPrices reduces orders to the best price per item at the given station.
// The sell side keeps the minimum price per type, the buy side the maximum.
// Orders located anywhere other than stationID never influence the result.
// Ties on price are broken by the lowest order ID, so the reduction is
// deterministic regardless of input order.
func BestPrices(orders []domain.Order, stationID int64, side domain.OrderSide) map[int64]domain.BestPrice {
	best := make(map[int64]domain.BestPrice)
	for _, o := range orders {
		if o.LocationID != stationID {
			continue
		}
		cur, ok := best[o.TypeID]
		if !ok || beats(side, o, cur) {
			best[o.TypeID] = domain.BestPrice{
				TypeID:  o.TypeID,
				OrderID: o.OrderID,
				Price:   o.Price,
			}
		}
	}
	return best
}

// beats reports whether order o is a strictly better pick than the current
// best for the given side.
func beats(side domain.OrderSide, o domain.Order, cur domain.BestPrice) bool {
	if o.Price == cur.Price {
		return o.OrderID < cur.OrderID
	}
	if side == domain.SideSell {
		return o.Price < cur.Price
	}
	return o.Price > cur.Price
}
