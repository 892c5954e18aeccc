// Package domain defines the core types shared across the spread sniper:
// market orders, best-price records, spread rows, and the interfaces
// implemented by the cache and blob adapters.
package domain

// OrderSide distinguishes the two halves of a region's order book.
type OrderSide string

const (
	SideSell OrderSide = "sell"
	SideBuy  OrderSide = "buy"
)

// Order is a single standing market order as returned by the ESI order-book
// endpoint. Orders are immutable inputs; nothing downstream mutates them.
type Order struct {
	OrderID      int64   `json:"order_id"`
	TypeID       int64   `json:"type_id"`
	LocationID   int64   `json:"location_id"`
	Price        float64 `json:"price"`
	VolumeRemain int64   `json:"volume_remain"`
	IsBuyOrder   bool    `json:"is_buy_order"`
}
