package extraction

import (
	"context"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/bridge"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/cartdiff"
	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/slots"
)

// Bridge implements Messenger over the extension bridge client.
type Bridge struct {
	Client *bridge.Client
}

// NewBridge wraps a bridge client as a Messenger.
func NewBridge(c *bridge.Client) *Bridge {
	return &Bridge{Client: c}
}

func (b *Bridge) CheckLogin(ctx context.Context) (LoginStatus, error) {
	var out LoginStatus
	if err := b.Client.Call(ctx, ActionLoginCheck, nil, &out); err != nil {
		return LoginStatus{}, err
	}
	return out, nil
}

func (b *Bridge) ExtractOrderHistory(ctx context.Context, limit int) ([]OrderSummary, error) {
	params := struct {
		Limit int `json:"limit"`
	}{Limit: limit}
	var out []OrderSummary
	if err := b.Client.Call(ctx, ActionExtractHistory, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Bridge) ExtractOrderDetail(ctx context.Context, orderID string) ([]cartdiff.OrderLine, error) {
	params := struct {
		OrderID string `json:"order_id"`
	}{OrderID: orderID}
	var out []cartdiff.OrderLine
	if err := b.Client.Call(ctx, ActionExtractDetail, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Bridge) Reorder(ctx context.Context, orderID string, mode ReorderMode) (ReorderResult, error) {
	params := struct {
		OrderID string      `json:"order_id"`
		Mode    ReorderMode `json:"mode"`
	}{OrderID: orderID, Mode: mode}
	var out ReorderResult
	if err := b.Client.Call(ctx, ActionReorder, params, &out); err != nil {
		return ReorderResult{}, err
	}
	return out, nil
}

func (b *Bridge) ScanCart(ctx context.Context) ([]cartdiff.CartItem, error) {
	var out []cartdiff.CartItem
	if err := b.Client.Call(ctx, ActionCartScan, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Bridge) ExtractSlots(ctx context.Context) ([]slots.DeliverySlot, error) {
	var out []slots.DeliverySlot
	if err := b.Client.Call(ctx, ActionSlotsExtract, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
