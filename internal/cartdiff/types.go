// Package cartdiff compares a household's original order lines against a
// live cart snapshot. ComputeDiff is pure and total: every input produces a
// diff, never an error.
package cartdiff

// Availability is the tri-state stock status of a live cart item.
type Availability string

const (
	Available  Availability = "available"
	LowStock   Availability = "low-stock"
	OutOfStock Availability = "out-of-stock"
)

// OrderLine is one line of a past order, as extracted from the order detail
// page. Prices are in euros.
type OrderLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CartItem is one line of the live cart. FromOriginalOrder marks items that
// came from a reordered past order rather than manual additions.
type CartItem struct {
	ProductID         string       `json:"product_id"`
	Name              string       `json:"name"`
	Quantity          int          `json:"quantity"`
	UnitPrice         float64      `json:"unit_price"`
	Availability      Availability `json:"availability"`
	FromOriginalOrder bool         `json:"from_original_order"`
}

// QuantityChange pairs a matched item with its original and live quantities.
type QuantityChange struct {
	Item             CartItem `json:"item"`
	OriginalQuantity int      `json:"original_quantity"`
	LiveQuantity     int      `json:"live_quantity"`
}

// PriceChange pairs a matched item with its original and live unit prices.
type PriceChange struct {
	Item          CartItem `json:"item"`
	OriginalPrice float64  `json:"original_price"`
	LivePrice     float64  `json:"live_price"`
}

// Summary holds the diff counts and the signed price difference
// (live total minus original total, rounded to cents).
type Summary struct {
	AddedCount           int     `json:"added_count"`
	RemovedCount         int     `json:"removed_count"`
	QuantityChangedCount int     `json:"quantity_changed_count"`
	PriceChangedCount    int     `json:"price_changed_count"`
	UnavailableCount     int     `json:"unavailable_count"`
	PriceDifference      float64 `json:"price_difference"`
}

// CartDiff is the result of comparing original order lines against the live
// cart. It is recomputed each run and never persisted on its own.
type CartDiff struct {
	Added           []CartItem       `json:"added"`
	Removed         []CartItem       `json:"removed"`
	QuantityChanged []QuantityChange `json:"quantity_changed"`
	PriceChanged    []PriceChange    `json:"price_changed"`
	NowUnavailable  []CartItem       `json:"now_unavailable"`
	Summary         Summary          `json:"summary"`
}
