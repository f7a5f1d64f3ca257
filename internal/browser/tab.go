// Package browser defines the tab/browser-control port: obtaining and
// verifying the browser surface the run drives.
package browser

import (
	"context"

	"github.com/raulfermoselle/ai-shopping-copilot-sub007/internal/bridge"
)

// Action tags for tab control requests.
const (
	ActionActiveTab = "tab.active"
	ActionVerify    = "tab.verify"
	ActionWaitNav   = "tab.waitForNavigation"
)

// TabInfo identifies the browser surface being driven.
type TabInfo struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// TabController is the tab/browser-control port.
type TabController interface {
	// ActiveTab returns the current target surface.
	ActiveTab(ctx context.Context) (TabInfo, error)
	// VerifySite checks the tab is on the expected retail site. host may be
	// empty, in which case the collaborator applies its built-in default.
	VerifySite(ctx context.Context, tabID int, host string) error
	// WaitForNavigation blocks until the tab finishes loading.
	WaitForNavigation(ctx context.Context, tabID int) error
}

// Bridge implements TabController over the extension bridge client.
type Bridge struct {
	Client *bridge.Client
}

// NewBridge wraps a bridge client as a TabController.
func NewBridge(c *bridge.Client) *Bridge {
	return &Bridge{Client: c}
}

func (b *Bridge) ActiveTab(ctx context.Context) (TabInfo, error) {
	var out TabInfo
	if err := b.Client.Call(ctx, ActionActiveTab, nil, &out); err != nil {
		return TabInfo{}, err
	}
	return out, nil
}

func (b *Bridge) VerifySite(ctx context.Context, tabID int, host string) error {
	params := struct {
		TabID int    `json:"tab_id"`
		Host  string `json:"host,omitempty"`
	}{TabID: tabID, Host: host}
	return b.Client.Call(ctx, ActionVerify, params, nil)
}

func (b *Bridge) WaitForNavigation(ctx context.Context, tabID int) error {
	params := struct {
		TabID int `json:"tab_id"`
	}{TabID: tabID}
	return b.Client.Call(ctx, ActionWaitNav, params, nil)
}
