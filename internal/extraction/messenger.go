// Package extraction defines the extraction/messaging port: the typed
// request/response pairs the orchestrator exchanges with the collaborator
// that knows how to read the retail site.
package extraction

import (
	"context"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/cartdiff"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/slots"
)

// Action tags for the request/response pairs on the wire.
const (
	ActionLoginCheck     = "login.check"
	ActionExtractHistory = "order.extractHistory"
	ActionExtractDetail  = "order.extractDetail"
	ActionReorder        = "order.reorder"
	ActionCartScan       = "cart.scan"
	ActionSlotsExtract   = "slots.extract"
)

// ReorderMode selects how a past order is re-added to the live cart.
type ReorderMode string

const (
	// ModeReplace replaces the cart contents with the order's items.
	ModeReplace ReorderMode = "replace"
	// ModeMerge merges the order into the cart, deduplicating overlapping
	// items instead of appending duplicates.
	ModeMerge ReorderMode = "merge"
)

// LoginStatus reports whether the current browser session is signed in.
type LoginStatus struct {
	LoggedIn bool   `json:"logged_in"`
	Account  string `json:"account"`
}

// OrderSummary is one entry of the order-history listing. Date is
// YYYY-MM-DD; Total is in euros.
type OrderSummary struct {
	OrderID   string  `json:"order_id"`
	Date      string  `json:"date"`
	ItemCount int     `json:"item_count"`
	Total     float64 `json:"total"`
	DetailURL string  `json:"detail_url"`
}

// ReorderResult reports what a reorder request did to the live cart.
type ReorderResult struct {
	OrderID     string      `json:"order_id"`
	Mode        ReorderMode `json:"mode"`
	ItemsAdded  int         `json:"items_added"`
	ItemsMerged int         `json:"items_merged"`
}

// Messenger is the extraction/messaging port. Every call is a suspension
// point for the orchestrator; implementations must honor ctx cancellation.
type Messenger interface {
	// CheckLogin verifies the session is authenticated.
	CheckLogin(ctx context.Context) (LoginStatus, error)
	// ExtractOrderHistory returns up to limit recent orders, newest first.
	ExtractOrderHistory(ctx context.Context, limit int) ([]OrderSummary, error)
	// ExtractOrderDetail returns the line items of one past order.
	ExtractOrderDetail(ctx context.Context, orderID string) ([]cartdiff.OrderLine, error)
	// Reorder re-adds a past order's items to the live cart.
	Reorder(ctx context.Context, orderID string, mode ReorderMode) (ReorderResult, error)
	// ScanCart snapshots the live cart.
	ScanCart(ctx context.Context) ([]cartdiff.CartItem, error)
	// ExtractSlots lists the delivery slots currently offered.
	ExtractSlots(ctx context.Context) ([]slots.DeliverySlot, error)
}
